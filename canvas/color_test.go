package canvas

import (
	"image/color"
	"testing"
)

func TestNewColor(t *testing.T) {
	if c := NewColor("FF0000"); c.ARGB != "FFFF0000" {
		t.Errorf("expected alpha prefix, got %s", c.ARGB)
	}
	if c := NewColor("#00ff00"); c.ARGB != "FF00FF00" {
		t.Errorf("expected hash stripped and upper-cased, got %s", c.ARGB)
	}
	if c := NewColor("80FF0000"); c.ARGB != "80FF0000" {
		t.Errorf("expected 8-digit ARGB kept, got %s", c.ARGB)
	}
	if c := NewColor("not-a-color"); c != ColorBlack {
		t.Errorf("expected black fallback, got %s", c.ARGB)
	}
}

func TestColor_Components(t *testing.T) {
	c := NewColor("80112233")
	if c.GetAlpha() != 0x80 || c.GetRed() != 0x11 || c.GetGreen() != 0x22 || c.GetBlue() != 0x33 {
		t.Errorf("unexpected components A=%d R=%d G=%d B=%d",
			c.GetAlpha(), c.GetRed(), c.GetGreen(), c.GetBlue())
	}
}

func TestColor_RGBA(t *testing.T) {
	got := ColorRed.RGBA()
	want := color.RGBA{R: 255, A: 255}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestColor_WithAlpha(t *testing.T) {
	c := ColorRed.WithAlpha(0x28)
	if c.ARGB != "28FF0000" {
		t.Errorf("expected 28FF0000, got %s", c.ARGB)
	}
	if got := c.NRGBA(); got != (color.NRGBA{R: 255, A: 0x28}) {
		t.Errorf("unexpected NRGBA %v", got)
	}
}

func TestDefaultPen(t *testing.T) {
	pen := DefaultPen()
	if pen.Color != ColorBlack || pen.Width != 1 {
		t.Errorf("unexpected default pen %+v", pen)
	}
}
