// Package widget contains the interactive pieces content scripts attach to
// shell regions.
package widget

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"contentboard/internal/script"
)

const (
	DefaultCanvasWidth  = 50
	DefaultCanvasHeight = 50
	blank               = '·'

	// Script arguments beyond this are rejected before any int conversion.
	maxCoordinate = 1 << 30
)

// Canvas is a fixed-size grid of cells drawn by board scripts.
// Coordinates are zero-based, x to the right and y down.
type Canvas struct {
	width  int
	height int
	cells  [][]rune
}

func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	if height <= 0 {
		height = DefaultCanvasHeight
	}
	c := &Canvas{width: width, height: height}
	c.Clear()
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) Clear() {
	c.Fill(blank)
}

func (c *Canvas) Fill(r rune) {
	c.cells = make([][]rune, c.height)
	for y := range c.cells {
		row := make([]rune, c.width)
		for x := range row {
			row[x] = r
		}
		c.cells[y] = row
	}
}

// Set writes one cell. Out of range coordinates are ignored.
func (c *Canvas) Set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = r
}

func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	return c.cells[y][x]
}

// Text writes s starting at (x, y), clipped at the right edge.
func (c *Canvas) Text(x, y int, s string) {
	if y < 0 || y >= c.height || x >= c.width {
		return
	}
	for i, r := range []rune(s) {
		if x+i >= c.width {
			return
		}
		c.Set(x+i, y, r)
	}
}

// Rect draws the outline of a w x h rectangle. Edges outside the grid are
// skipped.
func (c *Canvas) Rect(x, y, w, h int, r rune) {
	if w <= 0 || h <= 0 {
		return
	}
	right, bottom := x+w-1, y+h-1
	for i := max(x, 0); i <= min(right, c.width-1); i++ {
		c.Set(i, y, r)
		c.Set(i, bottom, r)
	}
	for j := max(y, 0); j <= min(bottom, c.height-1); j++ {
		c.Set(x, j, r)
		c.Set(right, j, r)
	}
}

// Render returns the top-left w x h window of the grid.
func (c *Canvas) Render(w, h int) string {
	if w > c.width || w <= 0 {
		w = c.width
	}
	if h > c.height || h <= 0 {
		h = c.height
	}
	var b strings.Builder
	for y := 0; y < h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(c.cells[y][:w]))
	}
	return b.String()
}

// Binding is the `canvas` table passed to board scripts.
func (c *Canvas) Binding() map[string]any {
	return map[string]any{
		"width":  script.Func(func([]any) ([]any, error) { return []any{int64(c.width)}, nil }),
		"height": script.Func(func([]any) ([]any, error) { return []any{int64(c.height)}, nil }),
		"clear": script.Func(func([]any) ([]any, error) {
			c.Clear()
			return nil, nil
		}),
		"fill": script.Func(func(args []any) ([]any, error) {
			r, err := runeArg(args, 0, "fill")
			if err != nil {
				return nil, err
			}
			c.Fill(r)
			return nil, nil
		}),
		"set": script.Func(func(args []any) ([]any, error) {
			xy, err := intArgs(args, 2, "set")
			if err != nil {
				return nil, err
			}
			r, err := runeArg(args, 2, "set")
			if err != nil {
				return nil, err
			}
			c.Set(xy[0], xy[1], r)
			return nil, nil
		}),
		"get": script.Func(func(args []any) ([]any, error) {
			xy, err := intArgs(args, 2, "get")
			if err != nil {
				return nil, err
			}
			r := c.At(xy[0], xy[1])
			if r == 0 {
				return []any{nil}, nil
			}
			return []any{string(r)}, nil
		}),
		"text": script.Func(func(args []any) ([]any, error) {
			xy, err := intArgs(args, 2, "text")
			if err != nil {
				return nil, err
			}
			if len(args) < 3 {
				return nil, fmt.Errorf("canvas.text: text is required")
			}
			c.Text(xy[0], xy[1], fmt.Sprint(args[2]))
			return nil, nil
		}),
		"rect": script.Func(func(args []any) ([]any, error) {
			box, err := intArgs(args, 4, "rect")
			if err != nil {
				return nil, err
			}
			r, err := runeArg(args, 4, "rect")
			if err != nil {
				return nil, err
			}
			c.Rect(box[0], box[1], box[2], box[3], r)
			return nil, nil
		}),
	}
}

func intArgs(args []any, n int, fn string) ([]int, error) {
	if len(args) < n {
		return nil, fmt.Errorf("canvas.%s: expected %d numeric arguments", fn, n)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		switch v := args[i].(type) {
		case int64:
			if v < -maxCoordinate || v > maxCoordinate {
				return nil, fmt.Errorf("canvas.%s: argument %d out of range", fn, i+1)
			}
			out[i] = int(v)
		case float64:
			if math.IsNaN(v) || v < -maxCoordinate || v > maxCoordinate {
				return nil, fmt.Errorf("canvas.%s: argument %d out of range", fn, i+1)
			}
			out[i] = int(v)
		default:
			return nil, fmt.Errorf("canvas.%s: argument %d must be a number", fn, i+1)
		}
	}
	return out, nil
}

func runeArg(args []any, i int, fn string) (rune, error) {
	if len(args) <= i {
		return '#', nil
	}
	s, ok := args[i].(string)
	if !ok || s == "" {
		return 0, fmt.Errorf("canvas.%s: argument %d must be a character", fn, i+1)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
