package canvas

import "math"

// Twip (twentieth of a typographic point) conversion helpers.
// 1 inch = 1440 twips, 1 point = 20 twips, 1 pica = 240 twips.

const (
	twipsPerInch  = 1440
	twipsPerPoint = 20
	twipsPerPica  = 240
	// maxTwips is the maximum safe twip value to prevent overflow.
	maxTwips = math.MaxInt64 / 2
)

// Inch converts inches to twips. Clamps to safe range.
func Inch(n float64) int64 {
	return clampTwips(n * twipsPerInch)
}

// Pt converts typographic points to twips.
func Pt(n float64) int64 {
	return clampTwips(n * twipsPerPoint)
}

// Pica converts picas to twips.
func Pica(n float64) int64 {
	return clampTwips(n * twipsPerPica)
}

// TwipsToInch converts twips to inches.
func TwipsToInch(tw int64) float64 {
	return float64(tw) / twipsPerInch
}

// TwipsToPt converts twips to typographic points.
func TwipsToPt(tw int64) float64 {
	return float64(tw) / twipsPerPoint
}

// clampTwips converts a float64 to int64, clamping to prevent overflow.
func clampTwips(v float64) int64 {
	if v > float64(maxTwips) {
		return maxTwips
	}
	if v < -float64(maxTwips) {
		return -maxTwips
	}
	return int64(v)
}

// Scale maps document twips onto frame pixels for a given output density
// and zoom factor.
type Scale struct {
	DPI  float64
	Zoom float64
}

// DefaultScale is 96 DPI at 100% zoom, the browser default.
func DefaultScale() Scale {
	return Scale{DPI: 96, Zoom: 1}
}

// PixelsPerTwip returns the linear twip to pixel factor.
func (s Scale) PixelsPerTwip() float64 {
	return s.DPI * s.Zoom / twipsPerInch
}

// ToPixels converts a twip distance to pixels, truncating toward zero.
func (s Scale) ToPixels(tw int64) int {
	return int(float64(tw) * s.PixelsPerTwip())
}

// ToTwips converts a pixel distance back to twips.
func (s Scale) ToTwips(px int) int64 {
	ppt := s.PixelsPerTwip()
	if ppt == 0 {
		return 0
	}
	return clampTwips(float64(px) / ppt)
}
