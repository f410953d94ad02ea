package viz

import (
	"github.com/san-kum/pursuit/internal/physics"
	"github.com/san-kum/pursuit/internal/sim"
)

// DrawBodies clears c and draws the arena frame and every body scaled to fit.
// Falling bodies are drawn as outlines, the rest filled. The body tagged 0 is
// drawn with the highlight pen.
func DrawBodies(c *Canvas, arena physics.Arena, bodies []sim.Body) {
	c.Clear()
	w, h := c.Dots()
	if w < 2 || h < 2 {
		return
	}

	c.DrawLine(0, 0, w-1, 0)
	c.DrawLine(0, h-1, w-1, h-1)
	c.DrawLine(0, 0, 0, h-1)
	c.DrawLine(w-1, 0, w-1, h-1)

	sx := float64(w) / arena.Width
	sy := float64(h) / arena.Height
	for _, b := range bodies {
		cx, cy := b.Pos.X*sx, b.Pos.Y*sy
		rx, ry := b.Radius*sx, b.Radius*sy
		c.Highlight(b.Tag == 0)
		if b.Falling() {
			c.StrokeEllipse(cx, cy, rx, ry)
		} else {
			c.FillEllipse(cx, cy, rx, ry)
		}
	}
	c.Highlight(false)
}
