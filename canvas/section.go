package canvas

import "image"

// Side identifies the pane a section belongs to when the view is split.
type Side uint8

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// String returns the side name used in section names and debug labels.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Properties describes how the container schedules and layers a section.
type Properties struct {
	// Name identifies the section, unique within a container.
	Name string
	// ProcessingOrder ranks hook dispatch (initialize, resize, scroll).
	ProcessingOrder int
	// DrawingOrder ranks painting within a z-index layer.
	DrawingOrder int
	// ZIndex layers sections; higher paints later.
	ZIndex int
	// Interactable marks the section as a hit-test target.
	Interactable bool
	// DocumentObject anchors the section to document coordinates so it
	// follows scrolling.
	DocumentObject bool
}

// Section is the contract a canvas widget implements to take part in the
// container's hook and paint cycle.
type Section interface {
	// Properties returns the scheduling properties. They must stay
	// constant once the section is added to a container.
	Properties() Properties
	// OnInitialize runs once, when the section is added.
	OnInitialize()
	// OnResize runs when the frame size or the twip-to-pixel ratio changes.
	OnResize()
	// OnNewDocumentTopLeft runs when the visible document origin moves.
	OnNewDocumentTopLeft(origin Point)
	// OnDraw paints the section onto the frame.
	OnDraw(c *Canvas)
}

// Placement is the screen slot a section occupies, tagged with the pane it
// belongs to so a split host can route it to the correct half.
type Placement struct {
	Bounds image.Rectangle
	Side   Side
}

// Viewport converts document coordinates into frame pixels.
type Viewport interface {
	DocToScreen(r Rect) image.Rectangle
	DocPointToScreen(p Point) image.Point
}

// Invalidator schedules a repaint of the frame.
type Invalidator interface {
	RequestRedraw()
}

// Placer records where a section currently sits on screen.
type Placer interface {
	PlaceSection(name string, p Placement)
}

// Host bundles the container services a section depends on. Widgets take a
// Host at construction instead of reaching into a shared container.
type Host interface {
	Viewport
	Invalidator
	Placer
}

// DiagnosticMirror is an optional Host capability: hosts that implement it
// receive a copy of every placement for inspection outside the paint path.
// Discovered by type assertion, never required.
type DiagnosticMirror interface {
	MirrorPlacement(name string, p Placement)
}
