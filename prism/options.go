package prism

import (
	"strconv"
	"strings"
)

// Query parameter keys understood by the Prism CDN.
const (
	KeyImageType     = "out"
	KeyWidth         = "w"
	KeyHeight        = "h"
	KeyResizeMode    = "cmd"
	KeyQuality       = "quality"
	KeyCropX         = "crop_x"
	KeyCropY         = "crop_y"
	KeyCropWidth     = "crop_width"
	KeyCropHeight    = "crop_height"
	KeyPreserveRatio = "preserve_ratio"
	KeyPremultiplied = "premultiplied"
	KeyGravity       = "gravity"
	KeyFrameColor    = "frame_bg_color"
)

// Quality is the output quality. The named levels map to 100, 70 and 50;
// any other positive value is sent as is. Zero means unset.
type Quality int

const (
	QualityHigh   Quality = 100
	QualityNormal Quality = 70
	QualityLow    Quality = 50
)

// QualityCustom returns a Quality carrying n verbatim. Values below one
// yield the unset Quality.
func QualityCustom(n int) Quality {
	if n < 1 {
		return 0
	}
	return Quality(n)
}

// IsSet reports whether q should be emitted.
func (q Quality) IsSet() bool { return q > 0 }

func (q Quality) String() string {
	if !q.IsSet() {
		return ""
	}
	return strconv.Itoa(int(q))
}

// ParseQuality parses a quality query value. Non-numeric or non-positive
// input yields QualityNormal and ok=false.
func ParseQuality(s string) (q Quality, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return QualityNormal, false
	}
	return Quality(n), true
}

// ResizeMode selects how the CDN maps the source onto the requested size.
type ResizeMode int

const (
	ResizeModeUnset ResizeMode = iota
	Resize
	Fit
	Crop
)

func (m ResizeMode) String() string {
	switch m {
	case Resize:
		return "resize"
	case Fit:
		return "resize_then_fit"
	case Crop:
		return "resize_then_crop"
	}
	return ""
}

// ParseResizeMode parses a cmd query value. Unknown values yield Resize
// and ok=false.
func ParseResizeMode(s string) (m ResizeMode, ok bool) {
	switch s {
	case "resize":
		return Resize, true
	case "resize_then_fit":
		return Fit, true
	case "resize_then_crop":
		return Crop, true
	}
	return Resize, false
}

// ImageType is the output encoding.
type ImageType int

const (
	ImageTypeUnset ImageType = iota
	PNG
	JPG
)

func (t ImageType) String() string {
	switch t {
	case PNG:
		return "png"
	case JPG:
		return "jpg"
	}
	return ""
}

// MimeType returns the MIME type of the encoding, or "" when unset.
func (t ImageType) MimeType() string {
	switch t {
	case PNG:
		return "image/png"
	case JPG:
		return "image/jpeg"
	}
	return ""
}

// ParseImageType parses an out query value. Unknown values yield JPG and
// ok=false.
func ParseImageType(s string) (t ImageType, ok bool) {
	switch s {
	case "png":
		return PNG, true
	case "jpg":
		return JPG, true
	}
	return JPG, false
}

// Gravity is the crop focal point.
type Gravity int

const (
	GravityUnset Gravity = iota
	TopLeft
	Center
)

func (g Gravity) String() string {
	switch g {
	case TopLeft:
		return "top_left"
	case Center:
		return "center"
	}
	return ""
}

// ParseGravity parses a gravity query value. Unknown values yield Center
// and ok=false.
func ParseGravity(s string) (g Gravity, ok bool) {
	switch s {
	case "top_left":
		return TopLeft, true
	case "center":
		return Center, true
	}
	return Center, false
}

// Rect is a crop rectangle in source image pixels.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Options describes one image variant. The zero value of every field means
// "not requested" and nothing is emitted for it, except Width and Height
// which fall back to DefaultDimension.
type Options struct {
	Quality    Quality
	Width      float64
	Height     float64
	ResizeMode ResizeMode
	CropRect   Rect
	ImageType  ImageType

	PreserveRatio        *bool
	Premultiplied        *bool
	Gravity              Gravity
	FrameBackgroundColor *string
}

// DefaultOptions returns the options the mobile SDKs apply when a caller
// only gives a size: high quality, resize_then_crop, png, premultiplied.
func DefaultOptions() Options {
	return Options{
		Quality:       QualityHigh,
		ResizeMode:    Crop,
		ImageType:     PNG,
		Premultiplied: Bool(true),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }
