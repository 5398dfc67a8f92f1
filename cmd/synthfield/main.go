package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/synthfield/internal/config"
	"github.com/san-kum/synthfield/internal/field"
	"github.com/san-kum/synthfield/internal/generate"
	"github.com/san-kum/synthfield/internal/report"
	"github.com/san-kum/synthfield/internal/storage"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	logFormat string

	n             int
	boxSize       float64
	attractors    int
	repellers     int
	sigmaMin      float64
	sigmaMax      float64
	strengthMin   float64
	strengthMax   float64
	seed          uint64
	velocityScale float64
	densityScale  float64
	noNormalize   bool
	kernel        string
	workers       int
	outDir        string
	basename      string
	writeNPZ      bool
	noHDF5        bool
	configFile    string
	preset        string
	sourcesFile   string
	plot          bool

	dataDir  string
	svgPath  string
	svgSlice int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "synthfield",
		Short:         "synthetic 3D density and velocity field generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	defaults := config.DefaultConfig()

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a sample and write it to disk",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	f := generateCmd.Flags()
	f.IntVar(&n, "N", defaults.N, "grid resolution per axis")
	f.Float64Var(&boxSize, "L", defaults.L, "box size")
	f.IntVar(&attractors, "attractors", defaults.Random.NumAttractors, "number of attractors")
	f.IntVar(&repellers, "repellers", defaults.Random.NumRepellers, "number of repellers")
	f.Float64Var(&sigmaMin, "sigma-min", defaults.Random.SigmaRange.Min, "minimum source width")
	f.Float64Var(&sigmaMax, "sigma-max", defaults.Random.SigmaRange.Max, "maximum source width")
	f.Float64Var(&strengthMin, "strength-min", defaults.Random.StrengthRange.Min, "minimum source strength")
	f.Float64Var(&strengthMax, "strength-max", defaults.Random.StrengthRange.Max, "maximum source strength")
	f.Uint64Var(&seed, "seed", defaults.Random.Seed, "random seed")
	f.Float64Var(&velocityScale, "velocity-scale", defaults.VelocityScale, "velocity scale factor")
	f.Float64Var(&densityScale, "density-scale", defaults.DensityScale, "density scale factor")
	f.BoolVar(&noNormalize, "no-normalize", false, "skip zero-mean unit-variance normalization")
	f.StringVar(&kernel, "kernel", defaults.Kernel, "contribution kernel (radial, gradient)")
	f.IntVar(&workers, "workers", defaults.Workers, "synthesis goroutines")
	f.StringVar(&outDir, "outdir", defaults.Output.Dir, "output directory")
	f.StringVar(&basename, "basename", "", "output basename (default derived from parameters)")
	f.BoolVar(&writeNPZ, "npz", false, "also write a compressed npz archive")
	f.BoolVar(&noHDF5, "no-hdf5", false, "skip the hdf5 archive")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&sourcesFile, "sources", "", "sources csv to replay instead of random sampling")
	f.BoolVar(&plot, "plot", false, "plot field profiles through the density peak")

	convertCmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "convert an npz archive or npy directory to hdf5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.Convert(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Saved: %s\n", args[1])
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [archive]",
		Short: "print statistics and profiles of a field archive",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectArchive,
	}
	inspectCmd.Flags().StringVar(&svgPath, "svg", "", "write a z-slice heatmap to this svg file")
	inspectCmd.Flags().IntVar(&svgSlice, "slice", -1, "z index of the svg slice (default: through the density peak)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list generated samples",
		Args:  cobra.NoArgs,
		RunE:  listSamples,
	}
	listCmd.Flags().StringVar(&dataDir, "outdir", defaults.Output.Dir, "output directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s N=%d L=%g attractors=%d repellers=%d\n",
					name, p.N, p.L, p.Random.NumAttractors, p.Random.NumRepellers)
			}
		},
	}

	rootCmd.AddCommand(generateCmd, convertCmd, inspectCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogging() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch logFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %s (available: text, json)", logFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// resolveConfig layers preset, config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// Explicit flags override preset and config file values.
	flags := cmd.Flags()
	if flags.Changed("N") {
		cfg.N = n
	}
	if flags.Changed("L") {
		cfg.L = boxSize
	}
	if flags.Changed("attractors") {
		cfg.Random.NumAttractors = attractors
	}
	if flags.Changed("repellers") {
		cfg.Random.NumRepellers = repellers
	}
	if flags.Changed("sigma-min") {
		cfg.Random.SigmaRange.Min = sigmaMin
	}
	if flags.Changed("sigma-max") {
		cfg.Random.SigmaRange.Max = sigmaMax
	}
	if flags.Changed("strength-min") {
		cfg.Random.StrengthRange.Min = strengthMin
	}
	if flags.Changed("strength-max") {
		cfg.Random.StrengthRange.Max = strengthMax
	}
	if flags.Changed("seed") {
		cfg.Random.Seed = seed
	}
	if flags.Changed("velocity-scale") {
		cfg.VelocityScale = velocityScale
	}
	if flags.Changed("density-scale") {
		cfg.DensityScale = densityScale
	}
	if flags.Changed("no-normalize") {
		cfg.Normalize = !noNormalize
	}
	if flags.Changed("kernel") {
		cfg.Kernel = kernel
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("outdir") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("basename") {
		cfg.Output.Basename = basename
	}
	if flags.Changed("npz") {
		cfg.Output.NPZ = writeNPZ
	}
	if flags.Changed("no-hdf5") {
		cfg.Output.HDF5 = !noHDF5
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.FieldOptions()
	if err != nil {
		return err
	}

	slog.Info("generating sample", "n", cfg.N, "l", cfg.L,
		"attractors", cfg.Random.NumAttractors, "repellers", cfg.Random.NumRepellers,
		"seed", cfg.Random.Seed, "options", opts.Describe())
	start := time.Now()

	var res *generate.Result
	if sourcesFile != "" {
		var sources []field.Source
		sources, err = storage.ReadSourcesCSV(sourcesFile)
		if err != nil {
			return err
		}
		res, err = generate.FromSources(cfg.N, cfg.L, cfg.Random, sources, opts)
		if err == nil {
			// Derived basenames reflect the replayed counts.
			cfg.Random = res.Config
		}
	} else {
		res, err = generate.Sample(cfg.N, cfg.L, &cfg.Random, opts)
	}
	if err != nil {
		return err
	}
	slog.Debug("synthesized", "elapsed", time.Since(start))

	st := storage.New(cfg.Output.Dir)
	meta, err := st.Save(res, storage.SaveOptions{
		Basename: cfg.Basename(),
		HDF5:     cfg.Output.HDF5,
		NPZ:      cfg.Output.NPZ,
	})
	if err != nil {
		return err
	}

	fmt.Println(report.Summary(meta))
	report.Sources(os.Stdout, res.Sources)
	fmt.Println()
	if err := report.StatsTable(os.Stdout, res.Fields); err != nil {
		return err
	}
	if plot {
		fmt.Println()
		report.PeakProfiles(os.Stdout, res.Fields)
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func inspectArchive(cmd *cobra.Command, args []string) error {
	fs, err := storage.ReadArchive(args[0])
	if err != nil {
		return err
	}

	fmt.Println(report.Title.Render(args[0]))
	fmt.Printf("shape: (%d, %d, %d)\n\n", fs.N(), fs.N(), fs.N())
	if err := report.StatsTable(os.Stdout, fs); err != nil {
		return err
	}
	fmt.Println()
	report.PeakProfiles(os.Stdout, fs)

	if svgPath == "" {
		return nil
	}
	k := svgSlice
	if k < 0 {
		_, _, k = fs.D.ArgMax()
	}
	svg := report.SliceSVG(fs, k, 8)
	if svg == "" {
		return fmt.Errorf("slice %d outside grid of size %d", k, fs.N())
	}
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	slog.Info("saved svg", "path", svgPath, "slice", k)
	return nil
}

func listSamples(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.List()
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		fmt.Println("no samples found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tN\tL\tSOURCES\tKERNEL\tNORM\tTIME")
	for _, s := range samples {
		fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%s\t%t\t%s\n",
			s.ID,
			s.N,
			s.L,
			s.NumSources,
			s.Kernel,
			s.Normalize,
			s.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
