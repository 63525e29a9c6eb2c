package canvas

import (
	"strconv"
	"strings"
)

// Point is a position in document space, in twips.
type Point struct {
	X, Y int64
}

// Rect is a rectangle in document space, origin plus size, in twips.
// The field order matches the "x, y, w, h" descriptors the document host
// sends over the wire.
type Rect struct {
	X, Y, W, H int64
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int64 { return r.X + r.W }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int64 { return r.Y + r.H }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Canon returns the rectangle with negative sizes folded into the origin.
func (r Rect) Canon() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	r = r.Canon()
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Union returns the smallest rectangle covering both r and s. An empty
// rectangle does not extend the result.
func (r Rect) Union(s Rect) Rect {
	r, s = r.Canon(), s.Canon()
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	x0 := min(r.X, s.X)
	y0 := min(r.Y, s.Y)
	x1 := max(r.MaxX(), s.MaxX())
	y1 := max(r.MaxY(), s.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ParseRect parses one rectangle descriptor of the form "x, y, w, h".
// A descriptor carries at least four comma-separated decimal twip fields;
// anything after the fourth is ignored. Malformed descriptors report
// ok == false.
func ParseRect(s string) (Rect, bool) {
	fields := strings.Split(s, ",")
	if len(fields) < 4 {
		return Rect{}, false
	}
	var v [4]int64
	for i := 0; i < 4; i++ {
		n, err := strconv.ParseInt(strings.TrimSpace(fields[i]), 10, 64)
		if err != nil {
			return Rect{}, false
		}
		v[i] = n
	}
	return Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, true
}

// ParseRects parses a list of descriptors, silently dropping malformed
// entries. Returns nil when nothing parses.
func ParseRects(descs []string) []Rect {
	var rects []Rect
	for _, d := range descs {
		if r, ok := ParseRect(d); ok {
			rects = append(rects, r)
		}
	}
	return rects
}

// BoundingRect returns the twip-space bounds of every rectangle in rects,
// degenerate ones included. A nil or empty slice yields the zero Rect.
func BoundingRect(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	c := rects[0].Canon()
	x0, y0, x1, y1 := c.X, c.Y, c.MaxX(), c.MaxY()
	for _, r := range rects[1:] {
		r = r.Canon()
		x0 = min(x0, r.X)
		y0 = min(y0, r.Y)
		x1 = max(x1, r.MaxX())
		y1 = max(y1, r.MaxY())
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
