// Package canvas provides a pure Go section framework for compositing
// document-editor overlay widgets onto a raster frame.
//
// A Container owns the frame and a set of Sections. Sections are plain
// values implementing the Section hook interface; the container dispatches
// initialize, resize and scroll hooks in processing order and paints in z
// order, the way a browser-side tiled canvas schedules its overlays.
// Document geometry is expressed in twips (1/1440 inch) and converted to
// frame pixels through the container's Scale.
//
// See the Version variable for the current library version.
package canvas

import (
	"fmt"
	"image"
	"sort"
)

// ContainerOptions configures a section container.
type ContainerOptions struct {
	// Width and Height are the frame size in pixels. Default: 960x720.
	Width  int
	Height int
	// DPI is the output density for twip conversion. Default: 96.
	DPI float64
	// Zoom is the document zoom factor. Default: 1.
	Zoom float64
	// Background fills the frame before sections draw. Default: white.
	Background Color
	// Debug enables placement mirroring and the labeled overlay.
	Debug bool
}

// DefaultContainerOptions returns default container options.
func DefaultContainerOptions() *ContainerOptions {
	return &ContainerOptions{
		Width:      960,
		Height:     720,
		DPI:        96,
		Zoom:       1,
		Background: ColorWhite,
	}
}

// Container owns the frame and drives registered sections through their
// hooks. It models a browser canvas loop: every method must run on the
// same goroutine, and no locking is done.
type Container struct {
	opts       ContainerOptions
	frame      *image.RGBA
	scale      Scale
	docTopLeft Point
	sections   []sectionEntry // sorted by (ProcessingOrder, insertion)
	added      int
	placements map[string]Placement
	mirrored   map[string]Placement
	redraws    int
	dirty      bool
}

// sectionEntry pairs a section with its insertion index, which breaks
// ordering ties.
type sectionEntry struct {
	section Section
	index   int
}

// New creates an empty container. A nil opts selects the defaults.
func New(opts *ContainerOptions) *Container {
	if opts == nil {
		opts = DefaultContainerOptions()
	}
	o := *opts
	if o.Width <= 0 {
		o.Width = 960
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.DPI <= 0 {
		o.DPI = 96
	}
	if o.Zoom <= 0 {
		o.Zoom = 1
	}
	if o.Background.ARGB == "" {
		o.Background = ColorWhite
	}
	return &Container{
		opts:       o,
		frame:      image.NewRGBA(image.Rect(0, 0, o.Width, o.Height)),
		scale:      Scale{DPI: o.DPI, Zoom: o.Zoom},
		placements: make(map[string]Placement),
		mirrored:   make(map[string]Placement),
	}
}

// AddSection registers s and runs its OnInitialize hook. Names are unique
// within a container.
func (c *Container) AddSection(s Section) error {
	props := s.Properties()
	if props.Name == "" {
		return fmt.Errorf("section has no name")
	}
	for _, e := range c.sections {
		if e.section.Properties().Name == props.Name {
			return fmt.Errorf("section %q already registered", props.Name)
		}
	}
	entry := sectionEntry{section: s, index: c.added}
	c.added++

	// Insert sorted by processing order, stable on insertion index.
	pos := len(c.sections)
	for i, e := range c.sections {
		if props.ProcessingOrder < e.section.Properties().ProcessingOrder {
			pos = i
			break
		}
	}
	c.sections = append(c.sections, sectionEntry{})
	copy(c.sections[pos+1:], c.sections[pos:])
	c.sections[pos] = entry

	s.OnInitialize()
	return nil
}

// Sections returns the registered sections in processing order.
func (c *Container) Sections() []Section {
	out := make([]Section, len(c.sections))
	for i, e := range c.sections {
		out[i] = e.section
	}
	return out
}

// Scale returns the current twip-to-pixel scale.
func (c *Container) Scale() Scale { return c.scale }

// DocumentTopLeft returns the visible document origin.
func (c *Container) DocumentTopLeft() Point { return c.docTopLeft }

// Resize reallocates the frame and lets every section reposition.
func (c *Container) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.opts.Width, c.opts.Height = w, h
	c.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	for _, e := range c.sections {
		e.section.OnResize()
	}
	c.dirty = true
}

// SetScale changes the twip-to-pixel ratio (zoom or density change) and
// lets every section reposition.
func (c *Container) SetScale(s Scale) {
	if s.DPI <= 0 || s.Zoom <= 0 {
		return
	}
	c.scale = s
	for _, e := range c.sections {
		e.section.OnResize()
	}
	c.dirty = true
}

// SetDocumentTopLeft scrolls the visible document origin.
func (c *Container) SetDocumentTopLeft(p Point) {
	c.docTopLeft = p
	for _, e := range c.sections {
		e.section.OnNewDocumentTopLeft(p)
	}
	c.dirty = true
}

// RequestRedraw marks the frame dirty. Sections call this through their
// Invalidator; the embedding loop checks Dirty before painting.
func (c *Container) RequestRedraw() {
	c.redraws++
	c.dirty = true
}

// Dirty reports whether a repaint was requested since the last Paint.
func (c *Container) Dirty() bool { return c.dirty }

// PendingRedraws counts redraw requests since the last Paint.
func (c *Container) PendingRedraws() int { return c.redraws }

// Paint clears the frame, draws every section in z order and returns the
// frame.
func (c *Container) Paint() *image.RGBA {
	canvas := NewCanvas(c.frame)
	canvas.Clear(c.opts.Background.RGBA())
	for _, e := range c.drawOrdered() {
		e.section.OnDraw(canvas)
	}
	if c.opts.Debug {
		c.drawDebugOverlay(canvas)
	}
	c.dirty = false
	c.redraws = 0
	return c.frame
}

// drawOrdered returns the sections sorted by (ZIndex, DrawingOrder,
// insertion index).
func (c *Container) drawOrdered() []sectionEntry {
	entries := make([]sectionEntry, len(c.sections))
	copy(entries, c.sections)
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].section.Properties(), entries[j].section.Properties()
		if pi.ZIndex != pj.ZIndex {
			return pi.ZIndex < pj.ZIndex
		}
		if pi.DrawingOrder != pj.DrawingOrder {
			return pi.DrawingOrder < pj.DrawingOrder
		}
		return entries[i].index < entries[j].index
	})
	return entries
}

// DocToScreen converts a document rectangle to frame pixels relative to
// the current scroll origin.
func (c *Container) DocToScreen(r Rect) image.Rectangle {
	r = r.Canon()
	return image.Rect(
		c.scale.ToPixels(r.X-c.docTopLeft.X),
		c.scale.ToPixels(r.Y-c.docTopLeft.Y),
		c.scale.ToPixels(r.MaxX()-c.docTopLeft.X),
		c.scale.ToPixels(r.MaxY()-c.docTopLeft.Y),
	)
}

// DocPointToScreen converts one document point to frame pixels.
func (c *Container) DocPointToScreen(p Point) image.Point {
	return image.Point{
		X: c.scale.ToPixels(p.X - c.docTopLeft.X),
		Y: c.scale.ToPixels(p.Y - c.docTopLeft.Y),
	}
}

// PlaceSection records the screen slot a section occupies.
func (c *Container) PlaceSection(name string, p Placement) {
	c.placements[name] = p
}

// Placement returns the recorded slot for a section.
func (c *Container) Placement(name string) (Placement, bool) {
	p, ok := c.placements[name]
	return p, ok
}

// MirrorPlacement implements DiagnosticMirror. Mirrors are kept only while
// Debug is enabled; the overlay labels them on the painted frame.
func (c *Container) MirrorPlacement(name string, p Placement) {
	if !c.opts.Debug {
		return
	}
	c.mirrored[name] = p
}

// SectionAt returns the top-most interactable section whose placement
// contains pt, or nil.
func (c *Container) SectionAt(pt image.Point) Section {
	entries := c.drawOrdered()
	for i := len(entries) - 1; i >= 0; i-- {
		props := entries[i].section.Properties()
		if !props.Interactable {
			continue
		}
		if p, ok := c.placements[props.Name]; ok && pt.In(p.Bounds) {
			return entries[i].section
		}
	}
	return nil
}

// drawDebugOverlay outlines mirrored placements and labels them with the
// section name and pane.
func (c *Container) drawDebugOverlay(canvas *Canvas) {
	names := make([]string, 0, len(c.mirrored))
	for name := range c.mirrored {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := c.mirrored[name]
		canvas.FillRect(p.Bounds, ColorBlue.WithAlpha(40).NRGBA())
		canvas.StrokeRect(p.Bounds, ColorBlue.RGBA(), 1)
		label := name
		if p.Side != SideNone {
			label += " [" + p.Side.String() + "]"
		}
		canvas.Label(p.Bounds.Min.X+2, p.Bounds.Min.Y-3, label, ColorBlue.RGBA())
	}
}
