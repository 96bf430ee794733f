package prism

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return u
}

const prismImage = "https://images.tryprism.com/photos/cat.png"

func TestBuild_NonPrismHostUnchanged(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		opts Options
	}{
		{"other host", "https://example.com/cat.png", Options{Width: 100, Height: 100}},
		{"other host no size", "https://example.com/cat.png", Options{}},
		{"other host with query", "https://cdn.example.com/cat.png?v=2", DefaultOptions()},
		{"relative path", "/photos/cat.png", Options{Width: 10}},
		{"no host", "file:///tmp/cat.png", Options{Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := mustParse(t, tt.raw)
			got, err := Build(base, tt.opts, 2)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got != base {
				t.Errorf("got %v, want the base URL back", got)
			}
			if got.String() != tt.raw {
				t.Errorf("URL changed: got %s, want %s", got, tt.raw)
			}
		})
	}
}

func TestBuild_ExistingQueryUnchanged(t *testing.T) {
	base := mustParse(t, prismImage+"?w=10&h=10")

	got, err := Build(base, Options{Width: 100, Height: 200, Quality: QualityLow}, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got != base {
		t.Errorf("got %v, want the base URL back", got)
	}
}

func TestBuild_EmptyQueryMarkerIsRewritten(t *testing.T) {
	base := mustParse(t, prismImage+"?")

	got, err := Build(base, Options{Width: 10, Height: 10}, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.String() != prismImage+"?w=10&h=10" {
		t.Errorf("got %s", got)
	}
}

func TestBuild_NilBase(t *testing.T) {
	got, err := Build(nil, Options{Width: 1, Height: 1}, 1)
	if err != nil || got != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", got, err)
	}
}

func TestBuild_NoDimensions(t *testing.T) {
	got, err := Build(mustParse(t, prismImage), DefaultOptions(), 2)
	if !errors.Is(err, ErrNoDimensions) {
		t.Errorf("error: got %v, want ErrNoDimensions", err)
	}
	if got != nil {
		t.Errorf("URL: got %v, want nil", got)
	}
}

func TestBuild_InvalidDimension(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
	}{
		{"negative width", -10, 100},
		{"negative height", 100, -1},
		{"sub-pixel width", 0.25, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(mustParse(t, prismImage), Options{Width: tt.width, Height: tt.height}, 1)
			if !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("error: got %v, want ErrInvalidDimension", err)
			}
			if got != nil {
				t.Errorf("URL: got %v, want nil", got)
			}
		})
	}
}

func TestBuild_ScalesDimensions(t *testing.T) {
	got, err := Build(mustParse(t, prismImage), Options{Width: 100, Height: 200}, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.RawQuery != "w=200&h=400" {
		t.Errorf("query: got %s, want w=200&h=400", got.RawQuery)
	}
}

func TestBuild_DefaultDimensionNotScaled(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		want          string
	}{
		{"height only", 0, 50, "w=320&h=150"},
		{"width only", 50, 0, "w=150&h=320"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(mustParse(t, prismImage), Options{Width: tt.width, Height: tt.height}, 3)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got.RawQuery != tt.want {
				t.Errorf("query: got %s, want %s", got.RawQuery, tt.want)
			}
		})
	}
}

func TestBuild_TruncatesScaledDimension(t *testing.T) {
	got, err := Build(mustParse(t, prismImage), Options{Width: 33.3, Height: 10.9}, 1.5)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// 49.95 and 16.35
	if got.RawQuery != "w=49&h=16" {
		t.Errorf("query: got %s, want w=49&h=16", got.RawQuery)
	}
}

func TestBuild_NonPositiveScaleTreatedAsOne(t *testing.T) {
	for _, scale := range []float64{0, -2} {
		got, err := Build(mustParse(t, prismImage), Options{Width: 40, Height: 30}, scale)
		if err != nil {
			t.Fatalf("scale %v: Build failed: %v", scale, err)
		}
		if got.RawQuery != "w=40&h=30" {
			t.Errorf("scale %v: query got %s, want w=40&h=30", scale, got.RawQuery)
		}
	}
}

func TestBuild_ParameterOrder(t *testing.T) {
	opts := Options{
		Quality:              QualityNormal,
		Width:                100,
		Height:               50,
		ResizeMode:           Fit,
		CropRect:             Rect{X: 1, Y: 2, Width: 3, Height: 4},
		ImageType:            JPG,
		PreserveRatio:        Bool(true),
		Premultiplied:        Bool(false),
		Gravity:              TopLeft,
		FrameBackgroundColor: String("FF00aa"),
	}

	got, err := Build(mustParse(t, prismImage), opts, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "out=jpg&w=200&h=100&cmd=resize_then_fit&quality=70" +
		"&crop_x=1&crop_y=2&crop_width=3&crop_height=4" +
		"&preserve_ratio=1&premultiplied=0&gravity=top_left&frame_bg_color=FF00aa"
	if got.RawQuery != want {
		t.Errorf("query:\n got %s\nwant %s", got.RawQuery, want)
	}
	if got.Path != "/photos/cat.png" || got.Host != "images.tryprism.com" {
		t.Errorf("base changed: %s", got)
	}
}

func TestBuild_UnsetOptionsOmitted(t *testing.T) {
	got, err := Build(mustParse(t, prismImage), Options{Width: 10}, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, key := range []string{KeyImageType, KeyResizeMode, KeyQuality, KeyCropX,
		KeyPreserveRatio, KeyPremultiplied, KeyGravity, KeyFrameColor} {
		if got.Query().Has(key) {
			t.Errorf("unexpected key %s in %s", key, got.RawQuery)
		}
	}
}

func TestBuild_CropRect(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want string
	}{
		{"full rect", Rect{X: 1, Y: 2, Width: 3, Height: 4}, "&crop_x=1&crop_y=2&crop_width=3&crop_height=4"},
		{"fractional", Rect{X: 1.9, Y: 2.2, Width: 3.7, Height: 4.1}, "&crop_x=1&crop_y=2&crop_width=3&crop_height=4"},
		{"zero rect", Rect{}, ""},
		{"zero width", Rect{X: 5, Y: 5, Height: 10}, ""},
		{"zero height", Rect{X: 5, Y: 5, Width: 10}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(mustParse(t, prismImage), Options{Width: 10, Height: 10, CropRect: tt.rect}, 1)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if want := "w=10&h=10" + tt.want; got.RawQuery != want {
				t.Errorf("query: got %s, want %s", got.RawQuery, want)
			}
		})
	}
}

func TestBuild_FrameBackgroundColor(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  bool
	}{
		{"six digits", "A1B2C3", true},
		{"lower case", "ffffff", true},
		{"short", "0", true},
		{"too long", "1234567", false},
		{"no hex digit", "zzzz", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Width: 10, Height: 10, FrameBackgroundColor: String(tt.color)}
			got, err := Build(mustParse(t, prismImage), opts, 1)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			has := strings.Contains(got.RawQuery, "frame_bg_color="+tt.color)
			if has != tt.want {
				t.Errorf("frame_bg_color present: got %v, want %v (query %s)", has, tt.want, got.RawQuery)
			}
		})
	}
}

func TestBuild_CustomQuality(t *testing.T) {
	got, err := Build(mustParse(t, prismImage), Options{Width: 10, Height: 10, Quality: QualityCustom(85)}, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.RawQuery != "w=10&h=10&quality=85" {
		t.Errorf("query: got %s", got.RawQuery)
	}
}

func TestBuild_DoesNotModifyBase(t *testing.T) {
	base := mustParse(t, prismImage)
	if _, err := Build(base, Options{Width: 10, Height: 10}, 1); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if base.String() != prismImage {
		t.Errorf("base modified: %s", base)
	}
}

func TestBuilder_Chained(t *testing.T) {
	got, err := NewBuilder(mustParse(t, prismImage)).
		SetScale(2).
		SetExpectedSize(50, 60).
		SetImageType(PNG).
		SetResizeMode(Crop).
		SetImageQuality(QualityHigh).
		SetPremultiplied(true).
		SetGravity(Center).
		SetFrameBackgroundColor("000000").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "out=png&w=100&h=120&cmd=resize_then_crop&quality=100&premultiplied=1&gravity=center&frame_bg_color=000000"
	if got.RawQuery != want {
		t.Errorf("query:\n got %s\nwant %s", got.RawQuery, want)
	}
}

func TestBuilder_ClearOptionalFlags(t *testing.T) {
	got, err := NewBuilder(mustParse(t, prismImage)).
		SetOptions(DefaultOptions()).
		SetExpectedSize(10, 10).
		SetPreserveRatio(true).
		SetGravity(TopLeft).
		SetFrameBackgroundColor("FFFFFF").
		ClearPreserveRatio().
		ClearPremultiplied().
		SetGravity(GravityUnset).
		ClearFrameBackgroundColor().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "out=png&w=10&h=10&cmd=resize_then_crop&quality=100"
	if got.RawQuery != want {
		t.Errorf("query:\n got %s\nwant %s", got.RawQuery, want)
	}
}

func TestBuilder_HostMarker(t *testing.T) {
	base := mustParse(t, "https://img.example-cdn.net/a.jpg")

	got, err := NewBuilder(base).SetHostMarker("example-cdn").SetExpectedSize(10, 10).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.RawQuery != "w=10&h=10" {
		t.Errorf("query: got %s, want w=10&h=10", got.RawQuery)
	}
}

func TestBuilder_HostMarkerIgnoresPort(t *testing.T) {
	base := mustParse(t, "http://localhost:8080/tryprism/a.jpg")

	got, err := NewBuilder(base).SetExpectedSize(10, 10).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got != base {
		t.Errorf("got %v, want the base URL back", got)
	}
}

func TestURL(t *testing.T) {
	got, err := URL(prismImage, Options{Width: 1, Height: 2}, 1)
	if err != nil {
		t.Fatalf("URL failed: %v", err)
	}
	if got.String() != prismImage+"?w=1&h=2" {
		t.Errorf("got %s", got)
	}

	if _, err := URL("http://[::1", Options{Width: 1}, 1); err == nil {
		t.Error("URL should fail for an unparseable base")
	}
}
