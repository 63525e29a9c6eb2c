package canvas

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeHost records every service call a widget makes, so tests can assert
// on redraw counts, conversions and placements without a container.
type fakeHost struct {
	scale       Scale
	origin      Point
	redraws     int
	conversions int
	placements  map[string]Placement
}

func newFakeHost() *fakeHost {
	return &fakeHost{scale: DefaultScale(), placements: make(map[string]Placement)}
}

func (h *fakeHost) DocToScreen(r Rect) image.Rectangle {
	h.conversions++
	r = r.Canon()
	return image.Rect(
		h.scale.ToPixels(r.X-h.origin.X),
		h.scale.ToPixels(r.Y-h.origin.Y),
		h.scale.ToPixels(r.MaxX()-h.origin.X),
		h.scale.ToPixels(r.MaxY()-h.origin.Y),
	)
}

func (h *fakeHost) DocPointToScreen(p Point) image.Point {
	h.conversions++
	return image.Point{
		X: h.scale.ToPixels(p.X - h.origin.X),
		Y: h.scale.ToPixels(p.Y - h.origin.Y),
	}
}

func (h *fakeHost) RequestRedraw() { h.redraws++ }

func (h *fakeHost) PlaceSection(name string, p Placement) { h.placements[name] = p }

// mirrorHost is a fakeHost that also collects diagnostic mirrors.
type mirrorHost struct {
	fakeHost
	mirrors map[string]Placement
}

func newMirrorHost() *mirrorHost {
	return &mirrorHost{
		fakeHost: fakeHost{scale: DefaultScale(), placements: make(map[string]Placement)},
		mirrors:  make(map[string]Placement),
	}
}

func (h *mirrorHost) MirrorPlacement(name string, p Placement) { h.mirrors[name] = p }

func newTestAnchor(host Host, side Side) *AnchorSection {
	s := NewAnchorSection(host, side)
	s.OnInitialize()
	return s
}

func TestAnchor_DrawWellFormed(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"100, 100, 1440, 720"}, "")

	if s.Polygon() == nil {
		t.Fatal("expected a polygon after drawing")
	}
	if len(s.LastRectangles()) != 1 {
		t.Fatalf("expected 1 rectangle, got %d", len(s.LastRectangles()))
	}
	if host.redraws != 1 {
		t.Errorf("expected 1 redraw request, got %d", host.redraws)
	}
	// 96 DPI at zoom 1 is 15 twips per pixel, truncating.
	p, ok := host.placements["anchor highlight"]
	if !ok {
		t.Fatal("expected a placement to be registered")
	}
	want := image.Rect(6, 6, 102, 54)
	if p.Bounds != want {
		t.Errorf("expected placement %v, got %v", want, p.Bounds)
	}
	if p.Side != SideNone {
		t.Errorf("expected SideNone placement, got %v", p.Side)
	}
}

func TestAnchor_MalformedDescriptorsDropped(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"1, 2, 3, 4", "bad", "5,6,7,8"}, "")

	want := []Rect{{X: 1, Y: 2, W: 3, H: 4}, {X: 5, Y: 6, W: 7, H: 8}}
	if diff := cmp.Diff(want, s.LastRectangles()); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}
	if s.Polygon() == nil {
		t.Error("expected a polygon from the surviving rectangles")
	}
}

func TestAnchor_ExtraDescriptorFieldsIgnored(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"10, 20, 30, 40, extra"}, "")

	rects := s.LastRectangles()
	if len(rects) != 1 {
		t.Fatalf("expected 1 rectangle, got %d", len(rects))
	}
	if (rects[0] != Rect{X: 10, Y: 20, W: 30, H: 40}) {
		t.Errorf("unexpected rect %+v", rects[0])
	}
}

func TestAnchor_AllMalformedClearsHighlight(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"100, 100, 200, 200"}, "")
	s.DrawAnchorRectangles([]string{"bad", "1, 2"}, "")

	if s.Polygon() != nil {
		t.Error("expected polygon to clear when nothing parses")
	}
	if len(s.LastRectangles()) != 0 {
		t.Errorf("expected no rectangles, got %d", len(s.LastRectangles()))
	}
	if host.redraws != 2 {
		t.Errorf("expected 2 redraw requests, got %d", host.redraws)
	}
}

func TestAnchor_OneRedrawPerCall(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"0, 0, 150, 150"}, "")
	s.DrawAnchorRectangles([]string{"0, 0, 150, 150"}, "")
	s.HideAnchorRectangles()
	s.DrawAnchorRectangles(nil, "")
	s.HideAnchorRectangles()

	if host.redraws != 5 {
		t.Errorf("expected 5 redraw requests, got %d", host.redraws)
	}
}

func TestAnchor_HideKeepsLastRectangles(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"100, 100, 300, 300"}, "")
	s.HideAnchorRectangles()

	if s.Polygon() != nil {
		t.Error("expected polygon to clear on hide")
	}
	if len(s.LastRectangles()) != 1 {
		t.Errorf("expected stale rectangles to survive hide, got %d", len(s.LastRectangles()))
	}
}

func TestAnchor_NoConversionsWhileHidden(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	s.OnResize()
	s.OnNewDocumentTopLeft(Point{X: 100, Y: 100})
	s.OnDraw(NewCanvas(frame))

	if host.conversions != 0 {
		t.Errorf("expected no coordinate conversions while hidden, got %d", host.conversions)
	}
	if len(host.placements) != 0 {
		t.Errorf("expected no placements while hidden, got %d", len(host.placements))
	}

	s.DrawAnchorRectangles([]string{"0, 0, 150, 150"}, "")
	s.HideAnchorRectangles()
	before := host.conversions
	s.OnResize()
	s.OnNewDocumentTopLeft(Point{X: 200, Y: 0})
	s.OnDraw(NewCanvas(frame))
	if host.conversions != before {
		t.Errorf("expected no conversions after hide, got %d extra", host.conversions-before)
	}
}

func TestAnchor_SplitColorRule(t *testing.T) {
	cases := []struct {
		side    Side
		redline string
		want    Color
	}{
		{SideLeft, RedlineDelete, ColorRed},
		{SideLeft, RedlineInsert, ColorGray},
		{SideLeft, "Format", ColorGray},
		{SideLeft, "", ColorGray},
		{SideRight, RedlineInsert, ColorGreen},
		{SideRight, RedlineDelete, ColorGray},
		{SideRight, "Format", ColorGray},
		{SideRight, "", ColorGray},
	}
	for _, c := range cases {
		s := newTestAnchor(newFakeHost(), c.side)
		s.DrawAnchorRectangles([]string{"0, 0, 100, 100"}, c.redline)
		if s.Pen().Color != c.want {
			t.Errorf("side %v redline %q: expected %s, got %s",
				c.side, c.redline, c.want.ARGB, s.Pen().Color.ARGB)
		}
	}
}

func TestAnchor_UnsplitIgnoresRedline(t *testing.T) {
	s := newTestAnchor(newFakeHost(), SideNone)
	s.DrawAnchorRectangles([]string{"0, 0, 100, 100"}, RedlineDelete)
	if s.Pen().Color != ColorBlack {
		t.Errorf("expected black pen, got %s", s.Pen().Color.ARGB)
	}
}

func TestAnchor_MirrorOnlyForSplit(t *testing.T) {
	host := newMirrorHost()
	unsplit := newTestAnchor(host, SideNone)
	unsplit.DrawAnchorRectangles([]string{"0, 0, 100, 100"}, "")
	if len(host.mirrors) != 0 {
		t.Errorf("expected no mirrors for unsplit widget, got %d", len(host.mirrors))
	}

	left := newTestAnchor(host, SideLeft)
	left.DrawAnchorRectangles([]string{"0, 0, 100, 100"}, RedlineDelete)
	if _, ok := host.mirrors["anchor highlight left"]; !ok {
		t.Error("expected a mirror for the split widget")
	}
}

func TestAnchor_SplitWithoutMirrorHost(t *testing.T) {
	// Hosts without the diagnostic capability are fine.
	host := newFakeHost()
	s := newTestAnchor(host, SideRight)
	s.DrawAnchorRectangles([]string{"0, 0, 100, 100"}, RedlineInsert)
	if _, ok := host.placements["anchor highlight right"]; !ok {
		t.Error("expected a placement despite the missing mirror capability")
	}
}

func TestAnchor_RepositionOnScroll(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"1500, 1500, 1500, 1500"}, "")
	first := host.placements["anchor highlight"].Bounds

	host.origin = Point{X: 750, Y: 750}
	s.OnNewDocumentTopLeft(host.origin)
	second := host.placements["anchor highlight"].Bounds

	shift := image.Pt(50, 50) // 750 twips at 15 twips per pixel
	if second != first.Sub(shift) {
		t.Errorf("expected %v, got %v", first.Sub(shift), second)
	}
}

func TestAnchor_RepositionOnRescale(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	s.DrawAnchorRectangles([]string{"0, 0, 1500, 1500"}, "")
	first := host.placements["anchor highlight"].Bounds

	host.scale.Zoom = 2
	s.OnResize()
	second := host.placements["anchor highlight"].Bounds

	if second.Dx() != 2*first.Dx() || second.Dy() != 2*first.Dy() {
		t.Errorf("expected doubled placement, got %v from %v", second, first)
	}
}

func TestAnchor_SectionProperties(t *testing.T) {
	s := NewAnchorSection(newFakeHost(), SideNone)
	props := s.Properties()
	if props.Name != "anchor highlight" {
		t.Errorf("unexpected name %q", props.Name)
	}
	if props.Interactable {
		t.Error("expected a non-interactable section")
	}
	if !props.DocumentObject {
		t.Error("expected a document-anchored section")
	}

	left := NewAnchorSection(newFakeHost(), SideLeft)
	if left.Properties().Name != "anchor highlight left" {
		t.Errorf("unexpected name %q", left.Properties().Name)
	}
	right := NewAnchorSection(newFakeHost(), SideRight)
	if right.Properties().Name != "anchor highlight right" {
		t.Errorf("unexpected name %q", right.Properties().Name)
	}
}

func TestAnchor_DrawStrokesEveryLoop(t *testing.T) {
	host := newFakeHost()
	s := newTestAnchor(host, SideNone)

	// Two disjoint anchors: 2 loops, 8 vertices converted.
	s.DrawAnchorRectangles([]string{"0, 0, 150, 150", "3000, 0, 150, 150"}, "")
	if len(s.Polygon()) != 2 {
		t.Fatalf("expected 2 loops, got %d", len(s.Polygon()))
	}

	frame := image.NewRGBA(image.Rect(0, 0, 400, 100))
	host.conversions = 0
	s.OnDraw(NewCanvas(frame))
	if host.conversions != 8 {
		t.Errorf("expected 8 point conversions, got %d", host.conversions)
	}

	// 150 twips is 10 pixels; both outlines must touch the frame.
	if frame.RGBAAt(5, 0).A == 0 {
		t.Error("expected the first outline to be stroked")
	}
	if frame.RGBAAt(205, 0).A == 0 {
		t.Error("expected the second outline to be stroked")
	}
}
