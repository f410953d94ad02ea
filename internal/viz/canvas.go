package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a character grid where every cell holds 2x4 braille dots.
// Cells touched while the highlight pen is on are marked for a second colour.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	marks         [][]bool
	pen           bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		marks:  make([][]bool, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.marks[i] = make([]bool, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// Highlight turns the highlight pen on or off for subsequent drawing.
func (c *Canvas) Highlight(on bool) { c.pen = on }

// Marked reports whether the cell at (col, row) was drawn with the pen on.
func (c *Canvas) Marked(col, row int) bool {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return false
	}
	return c.marks[row][col]
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if c.pen {
		c.marks[row][col] = true
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.marks[i][j] = false
		}
	}
}

// FillEllipse sets every dot inside the axis-aligned ellipse centred at
// (cx, cy). Radii under half a dot still set the centre dot.
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64) {
	if rx < 0.5 || ry < 0.5 {
		c.Set(int(math.Floor(cx)), int(math.Floor(cy)))
		return
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				c.Set(x, y)
			}
		}
	}
}

// StrokeEllipse draws the outline of the ellipse centred at (cx, cy).
func (c *Canvas) StrokeEllipse(cx, cy, rx, ry float64) {
	steps := int(math.Max(8, 2*math.Pi*math.Max(rx, ry)*2))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Set(int(math.Floor(cx+rx*math.Cos(a))), int(math.Floor(cy+ry*math.Sin(a))))
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render is String with each run of unmarked and marked cells passed through
// normal and marked respectively. A nil func leaves its runs as they are.
func (c *Canvas) Render(normal, marked func(string) string) string {
	apply := func(f func(string) string, s string) string {
		if f == nil {
			return s
		}
		return f(s)
	}

	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.marks[i][j] == c.marks[i][start] {
				continue
			}
			run := string(row[start:j])
			if c.marks[i][start] {
				b.WriteString(apply(marked, run))
			} else {
				b.WriteString(apply(normal, run))
			}
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
