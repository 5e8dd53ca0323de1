package viz

import "strings"

// Canvas is a rune grid with a fixed world-to-cell mapping of the x–z
// plane: x left-to-right, z bottom-to-top.
type Canvas struct {
	width, height          int
	xMin, xMax, zMin, zMax float64
	cells                  [][]rune
}

func NewCanvas(width, height int, xMin, xMax, zMin, zMax float64) *Canvas {
	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = make([]rune, width)
	}
	c := &Canvas{
		width: width, height: height,
		xMin: xMin, xMax: xMax, zMin: zMin, zMax: zMax,
		cells: cells,
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

func (c *Canvas) project(x, z float64) (int, int) {
	cx := int((x - c.xMin) / (c.xMax - c.xMin) * float64(c.width-1))
	cy := int((c.zMax - z) / (c.zMax - c.zMin) * float64(c.height-1))
	return cx, cy
}

// Set places a rune at world coordinates, clipping out-of-window points.
func (c *Canvas) Set(x, z float64, r rune) {
	cx, cy := c.project(x, z)
	if cx >= 0 && cx < c.width && cy >= 0 && cy < c.height {
		c.cells[cy][cx] = r
	}
}

// Line draws a world-space segment with Bresenham stepping.
func (c *Canvas) Line(x1, z1, x2, z2 float64, r rune) {
	cx1, cy1 := c.project(x1, z1)
	cx2, cy2 := c.project(x2, z2)

	dx := abs(cx2 - cx1)
	dy := abs(cy2 - cy1)
	sx, sy := 1, 1
	if cx1 > cx2 {
		sx = -1
	}
	if cy1 > cy2 {
		sy = -1
	}
	err := dx - dy
	for {
		if cx1 >= 0 && cx1 < c.width && cy1 >= 0 && cy1 < c.height {
			c.cells[cy1][cx1] = r
		}
		if cx1 == cx2 && cy1 == cy2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			cx1 += sx
		}
		if e2 < dx {
			err += dx
			cy1 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
