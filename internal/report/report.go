// Package report renders generated samples for the console.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/synthfield/internal/field"
	"github.com/san-kum/synthfield/internal/storage"
)

func kv(label string, value any) string {
	return Label.Render(label+":") + " " + Value.Render(fmt.Sprint(value))
}

// Summary renders the metadata panel for a saved sample.
func Summary(meta *storage.SampleMetadata) string {
	lines := []string{
		Title.Render(meta.ID),
		kv("grid", fmt.Sprintf("%d^3 over [0, %g)", meta.N, meta.L)),
		kv("sources", fmt.Sprintf("%d attractors, %d repellers (seed %d)",
			meta.Config.NumAttractors, meta.Config.NumRepellers, meta.Config.Seed)),
		kv("kernel", meta.Kernel),
		kv("scales", fmt.Sprintf("density %g, velocity %g", meta.DensityScale, meta.VelocityScale)),
		kv("normalized", meta.Normalize),
	}
	if meta.Files.HDF5 != "" {
		lines = append(lines, kv("hdf5", meta.Files.HDF5))
	}
	if meta.Files.NPZ != "" {
		lines = append(lines, kv("npz", meta.Files.NPZ))
	}
	lines = append(lines, kv("sources csv", meta.Files.Sources))
	return Panel.Render(strings.Join(lines, "\n"))
}

func kindLabel(k field.Kind) string {
	if k == field.Repeller {
		return repellerStyle.Render(k.String())
	}
	return attractorStyle.Render(k.String())
}

// Sources writes one line per source.
func Sources(w io.Writer, sources []field.Source) {
	if len(sources) == 0 {
		fmt.Fprintln(w, Subtle.Render("  no sources"))
		return
	}
	for i, s := range sources {
		p := s.Position()
		fmt.Fprintf(w, "  source[%d]: kind=%s pos=(%.2f,%.2f,%.2f) sigma=%.2f strength=%.2f\n",
			i, kindLabel(s.Kind()), p[0], p[1], p[2], s.Sigma(), s.Strength())
	}
}

// StatsTable writes min/max/mean/std for each of the four fields.
func StatsTable(w io.Writer, fs *field.Fields) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tMIN\tMAX\tMEAN\tSTD")
	for i, f := range fs.List() {
		s := f.Stats()
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%.4g\n", field.Names[i], s.Min, s.Max, s.Mean, s.Std)
	}
	return tw.Flush()
}

// Profile plots f along the z axis through cell (i, j, ·).
func Profile(f *field.Field, i, j int, caption string) string {
	data := make([]float64, f.N)
	for k := range data {
		data[k] = float64(f.At(i, j, k))
	}
	if f.N == 1 {
		data = append(data, data[0])
	}

	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// PeakProfiles plots every field along z through the density maximum.
func PeakProfiles(w io.Writer, fs *field.Fields) {
	i, j, k := fs.D.ArgMax()
	fmt.Fprintln(w, Subtle.Render(fmt.Sprintf("profiles along z through density peak (%d,%d,%d)", i, j, k)))
	for idx, f := range fs.List() {
		fmt.Fprintln(w, Profile(f, i, j, fmt.Sprintf("%s(%d,%d,z)", field.Names[idx], i, j)))
		fmt.Fprintln(w)
	}
}
