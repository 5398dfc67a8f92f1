package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/synthfield/internal/field"
)

// SliceSVG renders the z=k plane: density as a diverging heatmap and the
// in-plane velocity (vx, vy) as arrows. cell is the pixel size of one grid
// cell. Returns "" for an out-of-range slice.
func SliceSVG(fs *field.Fields, k int, cell float64) string {
	n := fs.N()
	if k < 0 || k >= n || cell <= 0 {
		return ""
	}

	maxD, maxV := 0.0, 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			maxD = math.Max(maxD, math.Abs(float64(fs.D.At(i, j, k))))
			vx, vy := float64(fs.VX.At(i, j, k)), float64(fs.VY.At(i, j, k))
			maxV = math.Max(maxV, math.Hypot(vx, vy))
		}
	}
	if maxD == 0 {
		maxD = 1
	}

	size := float64(n) * cell
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="none">
`, size, size, size, size))

	// x grows right, y grows up.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := float64(i) * cell
			y := size - float64(j+1)*cell
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, cell, cell, diverging(float64(fs.D.At(i, j, k))/maxD)))
		}
	}
	sb.WriteString("</g>\n")

	if maxV > 0 {
		sb.WriteString(`<g stroke="#ffffff" stroke-width="1" fill="none">` + "\n")
		half := cell / 2
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				vx, vy := float64(fs.VX.At(i, j, k)), float64(fs.VY.At(i, j, k))
				cx := float64(i)*cell + half
				cy := size - float64(j)*cell - half
				ex := cx + vx/maxV*half*0.9
				ey := cy - vy/maxV*half*0.9
				sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f L%.1f,%.1f"/>
`, cx, cy, ex, ey))
			}
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// diverging maps t in [-1, 1] to blue (negative) through black to orange.
func diverging(t float64) string {
	t = math.Max(-1, math.Min(1, t))
	if t >= 0 {
		return fmt.Sprintf("#%02x%02x%02x", int(255*t), int(140*t), 0)
	}
	t = -t
	return fmt.Sprintf("#%02x%02x%02x", 0, int(120*t), int(255*t))
}
