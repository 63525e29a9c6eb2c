package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas is the raster surface sections paint onto during a container
// frame.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas wraps an RGBA frame in a Canvas.
func NewCanvas(img *image.RGBA) *Canvas {
	return &Canvas{img: img}
}

// Image returns the underlying frame.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Bounds returns the frame bounds.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// SetPixel writes one pixel, dropping out-of-frame writes.
func (c *Canvas) SetPixel(x, y int, col color.RGBA) {
	bounds := c.img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		c.img.SetRGBA(x, y, col)
	}
}

// Clear floods the whole frame with col.
func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
}

// FillRect fills rect, compositing translucent colors over the frame.
// Pass a color.NRGBA for straight-alpha translucency.
func (c *Canvas) FillRect(rect image.Rectangle, col color.Color) {
	draw.Draw(c.img, rect, &image.Uniform{col}, image.Point{}, draw.Over)
}

// StrokeRect outlines rect, insetting one pixel per width step.
func (c *Canvas) StrokeRect(rect image.Rectangle, col color.RGBA, width int) {
	for i := 0; i < width; i++ {
		// Top
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c.SetPixel(x, rect.Min.Y+i, col)
		}
		// Bottom
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c.SetPixel(x, rect.Max.Y-1-i, col)
		}
		// Left
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			c.SetPixel(rect.Min.X+i, y, col)
		}
		// Right
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			c.SetPixel(rect.Max.X-1-i, y, col)
		}
	}
}

// Line draws a line between two points.
func (c *Canvas) Line(x1, y1, x2, y2 int, col color.RGBA) {
	// Bresenham's line algorithm
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		c.SetPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// StrokePolygon outlines the closed polygon pts, closing edge included.
// Axis-aligned edges honor pen.Width by repeating the segment at
// perpendicular offsets centered on the edge; diagonal edges draw
// single-pixel.
func (c *Canvas) StrokePolygon(pts []image.Point, pen Pen) {
	if len(pts) < 2 {
		return
	}
	col := pen.Color.RGBA()
	w := pen.Width
	if w < 1 {
		w = 1
	}
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		switch {
		case a.Y == b.Y:
			for off := -(w - 1) / 2; off <= w/2; off++ {
				c.Line(a.X, a.Y+off, b.X, b.Y+off, col)
			}
		case a.X == b.X:
			for off := -(w - 1) / 2; off <= w/2; off++ {
				c.Line(a.X+off, a.Y, b.X+off, b.Y, col)
			}
		default:
			c.Line(a.X, a.Y, b.X, b.Y, col)
		}
	}
}

// Label draws s with the built-in 7x13 face, baseline anchored at (x, y).
func (c *Canvas) Label(x, y int, s string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  &image.Uniform{col},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// SavePNG writes the frame to path, creating parent directories as needed.
func (c *Canvas) SavePNG(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	return png.Encode(f, c.img)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
