package canvas

import "sort"

// Polygon is a closed rectilinear loop of document-space vertices. The
// edge from the last vertex back to the first is implicit.
type Polygon []Point

// outlineSeg is one directed boundary segment on the coverage grid.
type outlineSeg struct {
	from, to Point
}

// Outline traces the boundary of the union of rects as one or more closed
// loops. Disjoint rectangle groups produce one loop each; a fully enclosed
// hole produces its own loop. The filled region stays on the right of the
// direction of travel, so outer loops wind clockwise in y-down document
// orientation and holes counterclockwise. Loops carry corner vertices only
// and start at their top-left corner; they are emitted sorted by that
// corner, so equal input always yields equal output. Degenerate rectangles
// contribute nothing; nil is returned when no area remains.
func Outline(rects []Rect) []Polygon {
	boxes := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if r = r.Canon(); !r.Empty() {
			boxes = append(boxes, r)
		}
	}
	if len(boxes) == 0 {
		return nil
	}

	xs := gridLines(boxes, func(r Rect) (int64, int64) { return r.X, r.MaxX() })
	ys := gridLines(boxes, func(r Rect) (int64, int64) { return r.Y, r.MaxY() })
	nx, ny := len(xs)-1, len(ys)-1

	covered := make([][]bool, ny)
	for j := range covered {
		covered[j] = make([]bool, nx)
		for i := range covered[j] {
			covered[j][i] = cellCovered(boxes, xs[i], ys[j], xs[i+1], ys[j+1])
		}
	}
	cov := func(j, i int) bool {
		return j >= 0 && j < ny && i >= 0 && i < nx && covered[j][i]
	}

	// Emit a directed segment wherever coverage flips across a grid line.
	var segs []outlineSeg
	for j := 0; j <= ny; j++ {
		for i := 0; i < nx; i++ {
			below, above := cov(j, i), cov(j-1, i)
			switch {
			case below && !above:
				segs = append(segs, outlineSeg{Point{xs[i], ys[j]}, Point{xs[i+1], ys[j]}})
			case above && !below:
				segs = append(segs, outlineSeg{Point{xs[i+1], ys[j]}, Point{xs[i], ys[j]}})
			}
		}
	}
	for i := 0; i <= nx; i++ {
		for j := 0; j < ny; j++ {
			right, left := cov(j, i), cov(j, i-1)
			switch {
			case left && !right:
				segs = append(segs, outlineSeg{Point{xs[i], ys[j]}, Point{xs[i], ys[j+1]}})
			case right && !left:
				segs = append(segs, outlineSeg{Point{xs[i], ys[j+1]}, Point{xs[i], ys[j]}})
			}
		}
	}

	return stitchLoops(segs)
}

// gridLines collects the sorted distinct box edge coordinates along one axis.
func gridLines(boxes []Rect, edges func(Rect) (int64, int64)) []int64 {
	lines := make([]int64, 0, 2*len(boxes))
	for _, r := range boxes {
		lo, hi := edges(r)
		lines = append(lines, lo, hi)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	out := lines[:1]
	for _, v := range lines[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// cellCovered reports whether the cell (x0,y0)-(x1,y1) lies inside any box.
// Cells never straddle box edges, so whole-cell containment is exact.
func cellCovered(boxes []Rect, x0, y0, x1, y1 int64) bool {
	for _, r := range boxes {
		if r.X <= x0 && x1 <= r.MaxX() && r.Y <= y0 && y1 <= r.MaxY() {
			return true
		}
	}
	return false
}

// stitchLoops chains directed segments into closed loops. Where two loops
// share a vertex (rectangles touching corner to corner) the walk takes the
// right-most turn, which keeps every loop simple.
func stitchLoops(segs []outlineSeg) []Polygon {
	if len(segs) == 0 {
		return nil
	}
	bySrc := make(map[Point][]int, len(segs))
	for idx, s := range segs {
		bySrc[s.from] = append(bySrc[s.from], idx)
	}

	// Candidate starts sorted by (y, x) source, +x outgoing before +y. The
	// least vertex of a loop is its top-left corner and only those two
	// directions leave it, so each walk begins exactly there. Picking the
	// least unused start first also emits the loops in sorted order.
	starts := make([]int, len(segs))
	for i := range starts {
		starts[i] = i
	}
	sort.Slice(starts, func(a, b int) bool {
		sa, sb := segs[starts[a]], segs[starts[b]]
		if sa.from.Y != sb.from.Y {
			return sa.from.Y < sb.from.Y
		}
		if sa.from.X != sb.from.X {
			return sa.from.X < sb.from.X
		}
		return dirRank(segDir(sa)) < dirRank(segDir(sb))
	})

	used := make([]bool, len(segs))
	var loops []Polygon
	for _, first := range starts {
		if used[first] {
			continue
		}
		loops = append(loops, simplifyLoop(walkLoop(segs, bySrc, used, first)))
	}
	return loops
}

// walkLoop follows segments from first until the loop closes, preferring
// the right-most turn at junction vertices.
func walkLoop(segs []outlineSeg, bySrc map[Point][]int, used []bool, first int) Polygon {
	loop := Polygon{segs[first].from}
	used[first] = true
	cur := first
	for segs[cur].to != segs[first].from {
		loop = append(loop, segs[cur].to)
		dir := segDir(segs[cur])
		next := -1
		bestRank := 4
		for _, cand := range bySrc[segs[cur].to] {
			if used[cand] {
				continue
			}
			if r := turnRank(dir, segDir(segs[cand])); r < bestRank {
				bestRank = r
				next = cand
			}
		}
		if next < 0 {
			break // unclosed edge set, bail
		}
		used[next] = true
		cur = next
	}
	return loop
}

// turnRank prefers right turn over straight over left turn, in y-down
// orientation.
func turnRank(dir, next Point) int {
	right := Point{-dir.Y, dir.X}
	switch next {
	case right:
		return 0
	case dir:
		return 1
	default:
		return 2
	}
}

// dirRank orders +x before +y before the rest.
func dirRank(d Point) int {
	switch {
	case d.X > 0:
		return 0
	case d.Y > 0:
		return 1
	default:
		return 2
	}
}

func segDir(s outlineSeg) Point {
	return Point{sign64(s.to.X - s.from.X), sign64(s.to.Y - s.from.Y)}
}

func sign64(v int64) int64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// simplifyLoop drops vertices interior to straight runs, wrap-around
// included, leaving corners only. The first vertex is a corner and stays.
func simplifyLoop(loop Polygon) Polygon {
	n := len(loop)
	if n < 3 {
		return loop
	}
	out := make(Polygon, 0, n)
	for i := 0; i < n; i++ {
		prev := loop[(i-1+n)%n]
		next := loop[(i+1)%n]
		if collinear(prev, loop[i], next) {
			continue
		}
		out = append(out, loop[i])
	}
	return out
}

func collinear(a, b, c Point) bool {
	return (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
}
