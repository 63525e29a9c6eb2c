package canvas

import "image"

// Redline types the document host reports alongside anchor updates.
const (
	RedlineDelete = "Delete"
	RedlineInsert = "Insert"
)

// Scheduling band for overlay sections: above document content, below
// cursors.
const (
	anchorProcessingOrder = 60
	anchorDrawingOrder    = 60
	anchorZIndex          = 10
)

// AnchorSection highlights the document anchor of the comment or tracked
// change under the cursor. The host streams "x, y, w, h" twip rectangle
// descriptors; the section keeps the outline of their union and strokes it
// on every paint until told to hide.
//
// One type serves both view modes: SideNone is the regular single-pane
// widget, SideLeft and SideRight are the two instances a split change view
// creates, one per pane.
type AnchorSection struct {
	host  Host
	side  Side
	props Properties

	pen       Pen
	polygon   []Polygon // nil while there is nothing to highlight
	lastRects []Rect
	bounds    Rect
}

// NewAnchorSection creates the widget for the given pane. SideNone builds
// the unsplit variant.
func NewAnchorSection(host Host, side Side) *AnchorSection {
	name := "anchor highlight"
	if side != SideNone {
		name += " " + side.String()
	}
	return &AnchorSection{
		host: host,
		side: side,
		props: Properties{
			Name:            name,
			ProcessingOrder: anchorProcessingOrder,
			DrawingOrder:    anchorDrawingOrder,
			ZIndex:          anchorZIndex,
			Interactable:    false,
			DocumentObject:  true,
		},
	}
}

// Properties implements Section.
func (s *AnchorSection) Properties() Properties { return s.props }

// Side returns the pane this instance highlights in.
func (s *AnchorSection) Side() Side { return s.side }

// Polygon returns the current outline loops, nil while hidden.
func (s *AnchorSection) Polygon() []Polygon { return s.polygon }

// LastRectangles returns the most recently parsed rectangles.
func (s *AnchorSection) LastRectangles() []Rect { return s.lastRects }

// Pen returns the current stroke style.
func (s *AnchorSection) Pen() Pen { return s.pen }

// OnInitialize establishes the initial stroke style.
func (s *AnchorSection) OnInitialize() {
	s.pen = DefaultPen()
}

// DrawAnchorRectangles replaces the highlighted area with the outline of
// the union of the descriptor rectangles and schedules exactly one
// repaint. Malformed descriptors are dropped without notice; when nothing
// parses the highlight is cleared. The split variants recolor their stroke
// from redlineType, the unsplit variant ignores it.
func (s *AnchorSection) DrawAnchorRectangles(descs []string, redlineType string) {
	rects := ParseRects(descs)
	s.lastRects = rects
	if len(rects) == 0 {
		s.polygon = nil
		s.host.RequestRedraw()
		return
	}
	s.polygon = Outline(rects)
	s.bounds = BoundingRect(rects)
	if s.side != SideNone {
		s.pen.Color = redlineColor(redlineType, s.side)
	}
	s.place()
	s.host.RequestRedraw()
}

// HideAnchorRectangles clears the highlight and schedules exactly one
// repaint. The last rectangles are kept; every draw and placement path
// guards on the polygon instead.
func (s *AnchorSection) HideAnchorRectangles() {
	s.polygon = nil
	s.host.RequestRedraw()
}

// OnResize recomputes the screen placement; the twip-to-pixel ratio may
// have changed.
func (s *AnchorSection) OnResize() {
	if s.polygon == nil {
		return
	}
	s.place()
}

// OnNewDocumentTopLeft follows the scrolled document.
func (s *AnchorSection) OnNewDocumentTopLeft(Point) {
	if s.polygon == nil {
		return
	}
	s.place()
}

// OnDraw strokes every outline loop with the current pen.
func (s *AnchorSection) OnDraw(c *Canvas) {
	if s.polygon == nil {
		return
	}
	for _, loop := range s.polygon {
		pts := make([]image.Point, len(loop))
		for i, p := range loop {
			pts[i] = s.host.DocPointToScreen(p)
		}
		c.StrokePolygon(pts, s.pen)
	}
}

// place registers the widget's screen slot, tagged with its pane, and
// mirrors it when the host collects diagnostics.
func (s *AnchorSection) place() {
	p := Placement{Bounds: s.host.DocToScreen(s.bounds), Side: s.side}
	s.host.PlaceSection(s.props.Name, p)
	if s.side == SideNone {
		return
	}
	if m, ok := s.host.(DiagnosticMirror); ok {
		m.MirrorPlacement(s.props.Name, p)
	}
}

// redlineColor picks the split-view stroke color: deletions highlight red
// in the left pane, insertions green in the right, everything else gray.
func redlineColor(redlineType string, side Side) Color {
	switch {
	case redlineType == RedlineDelete && side == SideLeft:
		return ColorRed
	case redlineType == RedlineInsert && side == SideRight:
		return ColorGreen
	default:
		return ColorGray
	}
}
