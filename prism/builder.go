package prism

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultHostMarker is the substring identifying Prism hosts.
	DefaultHostMarker = "tryprism"

	// DefaultDimension is the pixel size sent for an unrequested dimension.
	// It is not multiplied by the display scale.
	DefaultDimension = 320
)

var (
	// ErrNoDimensions is returned when neither width nor height was requested.
	ErrNoDimensions = errors.New("prism: width and height are both unset")

	// ErrInvalidDimension is returned when a dimension resolves to less
	// than one pixel.
	ErrInvalidDimension = errors.New("prism: invalid dimension")
)

// Builder composes a Prism URL through chained setters.
//
// A Builder is cheap and meant to be thrown away after Build. It is not safe
// for concurrent use.
type Builder struct {
	base       *url.URL
	opts       Options
	scale      float64
	hostMarker string
}

// NewBuilder returns a Builder for base with no options set, a display
// scale of 1 and the default host marker.
func NewBuilder(base *url.URL) *Builder {
	return &Builder{
		base:       base,
		scale:      1,
		hostMarker: DefaultHostMarker,
	}
}

// SetOptions replaces every option at once.
func (b *Builder) SetOptions(opts Options) *Builder {
	b.opts = opts
	return b
}

// SetScale sets the display pixel density multiplied into requested sizes.
func (b *Builder) SetScale(scale float64) *Builder {
	b.scale = scale
	return b
}

// SetHostMarker sets the substring a host must contain to be rewritten.
func (b *Builder) SetHostMarker(marker string) *Builder {
	b.hostMarker = marker
	return b
}

// SetImageQuality sets the output quality. The zero Quality omits it.
func (b *Builder) SetImageQuality(q Quality) *Builder {
	b.opts.Quality = q
	return b
}

// SetExpectedSize sets the requested size in points. Zero leaves a
// dimension to the CDN default.
func (b *Builder) SetExpectedSize(width, height float64) *Builder {
	b.opts.Width = width
	b.opts.Height = height
	return b
}

// SetResizeMode sets the cmd parameter. ResizeModeUnset omits it.
func (b *Builder) SetResizeMode(m ResizeMode) *Builder {
	b.opts.ResizeMode = m
	return b
}

// SetCropRect sets the source region to cut. An empty Rect omits it.
func (b *Builder) SetCropRect(r Rect) *Builder {
	b.opts.CropRect = r
	return b
}

// SetImageType sets the output encoding. ImageTypeUnset omits it.
func (b *Builder) SetImageType(t ImageType) *Builder {
	b.opts.ImageType = t
	return b
}

// SetPreserveRatio sends preserve_ratio as 1 or 0.
func (b *Builder) SetPreserveRatio(v bool) *Builder {
	b.opts.PreserveRatio = Bool(v)
	return b
}

// ClearPreserveRatio omits preserve_ratio again.
func (b *Builder) ClearPreserveRatio() *Builder {
	b.opts.PreserveRatio = nil
	return b
}

// SetPremultiplied sends premultiplied as 1 or 0.
func (b *Builder) SetPremultiplied(v bool) *Builder {
	b.opts.Premultiplied = Bool(v)
	return b
}

// ClearPremultiplied omits premultiplied again.
func (b *Builder) ClearPremultiplied() *Builder {
	b.opts.Premultiplied = nil
	return b
}

// SetGravity sets the crop focal point. GravityUnset omits it.
func (b *Builder) SetGravity(g Gravity) *Builder {
	b.opts.Gravity = g
	return b
}

// SetFrameBackgroundColor sets the frame color. Values failing IsValidHex
// are kept here and dropped by Build.
func (b *Builder) SetFrameBackgroundColor(hex string) *Builder {
	b.opts.FrameBackgroundColor = String(hex)
	return b
}

// ClearFrameBackgroundColor omits frame_bg_color again.
func (b *Builder) ClearFrameBackgroundColor() *Builder {
	b.opts.FrameBackgroundColor = nil
	return b
}

// Options returns a copy of the options set so far.
func (b *Builder) Options() Options {
	return b.opts
}

// Build composes the URL. See the package documentation for the rules.
func (b *Builder) Build() (*url.URL, error) {
	base := b.base
	if base == nil || base.Hostname() == "" {
		return base, nil
	}
	if !strings.Contains(base.Hostname(), b.hostMarker) {
		return base, nil
	}
	if base.RawQuery != "" {
		return base, nil
	}

	opts := b.opts
	width, height, err := opts.Size(b.scale)
	if err != nil {
		return nil, err
	}

	var q query
	if opts.ImageType != ImageTypeUnset {
		q.add(KeyImageType, opts.ImageType.String())
	}
	q.add(KeyWidth, strconv.Itoa(width))
	q.add(KeyHeight, strconv.Itoa(height))
	if opts.ResizeMode != ResizeModeUnset {
		q.add(KeyResizeMode, opts.ResizeMode.String())
	}
	if opts.Quality.IsSet() {
		q.add(KeyQuality, opts.Quality.String())
	}
	if r := opts.CropRect; !r.Empty() {
		q.add(KeyCropX, strconv.Itoa(int(r.X)))
		q.add(KeyCropY, strconv.Itoa(int(r.Y)))
		q.add(KeyCropWidth, strconv.Itoa(int(r.Width)))
		q.add(KeyCropHeight, strconv.Itoa(int(r.Height)))
	}
	if opts.PreserveRatio != nil {
		q.add(KeyPreserveRatio, flag(*opts.PreserveRatio))
	}
	if opts.Premultiplied != nil {
		q.add(KeyPremultiplied, flag(*opts.Premultiplied))
	}
	if opts.Gravity != GravityUnset {
		q.add(KeyGravity, opts.Gravity.String())
	}
	if c := opts.FrameBackgroundColor; c != nil && IsValidHex(*c) {
		q.add(KeyFrameColor, *c)
	}

	u := *base
	u.ForceQuery = false
	u.RawQuery = q.encode()
	return &u, nil
}

// Build composes a Prism URL for base using the default host marker.
func Build(base *url.URL, opts Options, scale float64) (*url.URL, error) {
	return NewBuilder(base).SetOptions(opts).SetScale(scale).Build()
}

// URL parses raw and builds it with Build.
func URL(raw string, opts Options, scale float64) (*url.URL, error) {
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return Build(base, opts, scale)
}

// Size resolves the requested dimensions to device pixels: an unset
// dimension becomes DefaultDimension, a set one is multiplied by scale and
// truncated. A non-positive scale counts as 1.
func (o Options) Size(scale float64) (width, height int, err error) {
	if width, err = resolveDimension(o.Width, scale); err != nil {
		return 0, 0, fmt.Errorf("width %v: %w", o.Width, err)
	}
	if height, err = resolveDimension(o.Height, scale); err != nil {
		return 0, 0, fmt.Errorf("height %v: %w", o.Height, err)
	}
	if o.Width == 0 && o.Height == 0 {
		return 0, 0, ErrNoDimensions
	}
	return width, height, nil
}

func resolveDimension(v, scale float64) (int, error) {
	if v == 0 {
		return DefaultDimension, nil
	}
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	scaled := v * scale
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) || scaled > math.MaxInt32 {
		return 0, ErrInvalidDimension
	}
	n := int(scaled)
	if n < 1 {
		return 0, ErrInvalidDimension
	}
	return n, nil
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// query keeps parameters in insertion order; url.Values sorts by key.
type query []param

type param struct {
	key, value string
}

func (q *query) add(key, value string) {
	*q = append(*q, param{key, value})
}

func (q query) encode() string {
	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}
