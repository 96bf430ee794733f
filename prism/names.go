package prism

import (
	"fmt"
	"strings"
)

// The Parse functions mirror what the CDN does with a query value it does
// not know. The lookups below are for user input, where an unknown name is
// an error rather than a fallback.

// QualityByName accepts "high", "normal", "low" (any case) or a positive
// integer.
func QualityByName(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return QualityHigh, nil
	case "normal":
		return QualityNormal, nil
	case "low":
		return QualityLow, nil
	}
	if q, ok := ParseQuality(s); ok {
		return q, nil
	}
	return 0, fmt.Errorf("unknown quality %q", s)
}

// ResizeModeByName accepts a cmd value or one of the short names "fit" and
// "crop".
func ResizeModeByName(s string) (ResizeMode, error) {
	switch s {
	case "fit":
		return Fit, nil
	case "crop":
		return Crop, nil
	}
	if m, ok := ParseResizeMode(s); ok {
		return m, nil
	}
	return ResizeModeUnset, fmt.Errorf("unknown resize_mode %q", s)
}

// ImageTypeByName accepts "png" or "jpg" in any case; "jpeg" is read as jpg.
func ImageTypeByName(s string) (ImageType, error) {
	name := strings.ToLower(s)
	if name == "jpeg" {
		name = "jpg"
	}
	if t, ok := ParseImageType(name); ok {
		return t, nil
	}
	return ImageTypeUnset, fmt.Errorf("unknown image_type %q", s)
}

// GravityByName accepts a gravity query value.
func GravityByName(s string) (Gravity, error) {
	if g, ok := ParseGravity(s); ok {
		return g, nil
	}
	return GravityUnset, fmt.Errorf("unknown gravity %q", s)
}
