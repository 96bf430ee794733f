package imaging

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// BackgroundSuggestion is a frame background color derived from the edges
// of an image.
type BackgroundSuggestion struct {
	// Hex is six upper-case hex digits without '#', ready for frame_bg_color.
	Hex string `json:"hex"`

	// Coverage is the share of border pixels (0-100) that quantized to Hex.
	Coverage float64 `json:"coverage"`

	RGB RGBColor `json:"rgb"`

	// Alternatives lists the next most common border colors, most common first.
	Alternatives []string `json:"alternatives,omitempty"`
}

// SuggestBackground picks the dominant color of the image border so that a
// resize_then_fit frame blends in with the picture.
//
// The border is a ring max(1, min(w,h)/20) pixels thick. Colors are
// quantized by dividing each 8-bit component by 16 and multiplying back,
// so #F0F0F0 and #FAFAFA count as the same color. Transparent pixels are
// skipped; an image whose border is fully transparent yields an error.
//
// At most maxAlternatives runner-up colors are returned.
func SuggestBackground(img image.Image, maxAlternatives int) (*BackgroundSuggestion, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	ring := w
	if h < ring {
		ring = h
	}
	ring /= 20
	if ring < 1 {
		ring = 1
	}

	counts := make(map[RGBColor]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			onBorder := x < bounds.Min.X+ring || x >= bounds.Max.X-ring ||
				y < bounds.Min.Y+ring || y >= bounds.Max.Y-ring
			if !onBorder {
				continue
			}
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			// Quantize to reduce color space (group similar colors)
			key := RGBColor{
				R: uint8((r >> 8) / 16 * 16),
				G: uint8((g >> 8) / 16 * 16),
				B: uint8((b >> 8) / 16 * 16),
			}
			counts[key]++
			total++
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("image border is fully transparent")
	}

	colors := make([]RGBColor, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		ci, cj := counts[colors[i]], counts[colors[j]]
		if ci != cj {
			return ci > cj
		}
		return hexOf(colors[i]) < hexOf(colors[j])
	})

	top := colors[0]
	result := &BackgroundSuggestion{
		Hex:      hexOf(top),
		Coverage: float64(counts[top]) / float64(total) * 100,
		RGB:      top,
	}
	for _, c := range colors[1:] {
		if len(result.Alternatives) >= maxAlternatives {
			break
		}
		result.Alternatives = append(result.Alternatives, hexOf(c))
	}
	return result, nil
}

func hexOf(c RGBColor) string {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return strings.ToUpper(strings.TrimPrefix(cf.Hex(), "#"))
}
