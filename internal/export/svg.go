package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/pursuit/internal/physics"
	"github.com/san-kum/pursuit/internal/sim"
)

const (
	Background = "#423537"
	Highlight  = "#BF675A"
	Sand       = "#EDC893"
)

// SnapshotToSVG renders a frame at arena scale. The body tagged 0 is drawn in
// the highlight colour, falling bodies with a thicker outline.
func SnapshotToSVG(bodies []sim.Body, arena physics.Arena) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, arena.Width, arena.Height, arena.Width, arena.Height, Background))

	for _, b := range bodies {
		fill := Sand
		if b.Tag == 0 {
			fill = Highlight
		}
		if b.Falling() {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>
`, b.Pos.X, b.Pos.Y, b.Radius, fill))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, b.Pos.X, b.Pos.Y, b.Radius, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSnapshot writes SnapshotToSVG output to w.
func WriteSnapshot(w io.Writer, bodies []sim.Body, arena physics.Arena) error {
	_, err := io.WriteString(w, SnapshotToSVG(bodies, arena))
	return err
}

// HistoryToSVG plots a series against its sample index as a polyline.
func HistoryToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, Background, strokeColor))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
