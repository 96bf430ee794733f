package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/prism-tools-mcp/prism"
)

// PreviewResult is a locally rendered approximation of a Prism variant.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
	SavedTo     string `json:"saved_to,omitempty"`
}

// Render applies opts to img the way the CDN does: crop rect first, then
// the resize command at the scaled size, then the alpha and background
// handling of the output type.
func Render(img image.Image, opts prism.Options, scale float64) (image.Image, error) {
	width, height, err := opts.Size(scale)
	if err != nil {
		return nil, err
	}

	src := img
	if !opts.CropRect.Empty() {
		src, err = cropRect(img, opts.CropRect)
		if err != nil {
			return nil, err
		}
	}

	bg, hasBG := frameColor(opts.FrameBackgroundColor)
	if !hasBG {
		bg = color.Transparent
	}

	var out *image.NRGBA
	switch opts.ResizeMode {
	case prism.Fit:
		fitted := fit(src, width, height)
		canvas := imaging.New(width, height, bg)
		if opts.Gravity == prism.TopLeft {
			out = imaging.Paste(canvas, fitted, image.Pt(0, 0))
		} else {
			out = imaging.PasteCenter(canvas, fitted)
		}
	case prism.Crop:
		anchor := imaging.Center
		if opts.Gravity == prism.TopLeft {
			anchor = imaging.TopLeft
		}
		out = imaging.Fill(src, width, height, anchor, imaging.Lanczos)
	default:
		if opts.PreserveRatio != nil && *opts.PreserveRatio {
			out = fit(src, width, height)
		} else {
			out = imaging.Resize(src, width, height, imaging.Lanczos)
		}
	}

	if opts.ImageType == prism.JPG {
		// JPEG has no alpha; flatten onto the frame color or white.
		if !hasBG {
			bg = color.White
		}
		b := out.Bounds()
		out = imaging.Overlay(imaging.New(b.Dx(), b.Dy(), bg), out, image.Pt(0, 0), 1.0)
	}

	if opts.Premultiplied != nil && *opts.Premultiplied {
		return premultiply(out), nil
	}
	return out, nil
}

// fit scales img to the largest size inside width x height that keeps its
// aspect ratio. Unlike imaging.Fit it also enlarges.
func fit(img image.Image, width, height int) *image.NRGBA {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return imaging.New(width, height, color.Transparent)
	}
	w, h := fitSize(srcW, srcH, width, height)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// fitSize returns the largest w x h within maxW x maxH with the aspect ratio
// of srcW x srcH, never below 1x1.
func fitSize(srcW, srcH, maxW, maxH int) (w, h int) {
	ratio := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	w = int(math.Round(float64(srcW) * ratio))
	h = int(math.Round(float64(srcH) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return min(w, maxW), min(h, maxH)
}

// Preview renders opts on img and encodes the result. When savePath is not
// empty the encoded bytes are written there instead of being returned.
func Preview(img image.Image, opts prism.Options, scale float64, savePath string) (*PreviewResult, error) {
	rendered, err := Render(img, opts, scale)
	if err != nil {
		return nil, err
	}

	imageType := opts.ImageType
	if imageType == prism.ImageTypeUnset {
		imageType = prism.PNG
	}

	var buf bytes.Buffer
	if err := encoderFor(imageType, opts.Quality)(&buf, rendered); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	b := rendered.Bounds()
	result := &PreviewResult{
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: imageType.MimeType(),
	}
	if savePath != "" {
		if err := os.WriteFile(savePath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write preview: %w", err)
		}
		result.SavedTo = savePath
		return result, nil
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	return result, nil
}

func encoderFor(t prism.ImageType, q prism.Quality) imgio.Encoder {
	if t != prism.JPG {
		return imgio.PNGEncoder()
	}
	quality := int(q)
	switch {
	case !q.IsSet():
		quality = int(prism.QualityHigh)
	case quality > 100:
		quality = 100
	}
	return imgio.JPEGEncoder(quality)
}

// cropRect clips r to the image bounds. Coordinates are truncated the same
// way the query encodes them.
func cropRect(img image.Image, r prism.Rect) (image.Image, error) {
	bounds := img.Bounds()
	x, y := int(r.X), int(r.Y)
	rect := image.Rect(x, y, x+int(r.Width), y+int(r.Height)).Canon().Add(bounds.Min)
	clipped := rect.Intersect(bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("crop rect (%d,%d %dx%d) outside image bounds %dx%d",
			x, y, int(r.Width), int(r.Height), bounds.Dx(), bounds.Dy())
	}
	return imaging.Crop(img, clipped), nil
}

// frameColor parses the frame color with the same acceptance rule as the
// query builder. Values the builder would send but that are not a 3 or 6
// digit color are reported as unset.
func frameColor(hex *string) (color.Color, bool) {
	if hex == nil || !prism.IsValidHex(*hex) {
		return nil, false
	}
	s := *hex
	if len(s) == 0 || s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, false
	}
	return c, true
}

// premultiply stores alpha-premultiplied channel values in a straight-alpha
// image, which is what a premultiplied PNG holds on disk.
func premultiply(img image.Image) *image.NRGBA {
	rgba := clone.AsRGBA(img)
	return &image.NRGBA{Pix: rgba.Pix, Stride: rgba.Stride, Rect: rgba.Rect}
}
