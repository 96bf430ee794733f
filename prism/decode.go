package prism

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrMalformedQuery is wrapped by Decode for values it cannot read.
var ErrMalformedQuery = errors.New("prism: malformed query")

// Decode reads the Prism parameters of u back into Options. Width and Height
// are the emitted pixel values, so building the result again with scale 1
// reproduces the query. Unknown enum values decode to the same fallbacks as
// the Parse functions. Keys Decode does not know are ignored.
func Decode(u *url.URL) (Options, error) {
	var opts Options
	if u == nil {
		return opts, nil
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", ErrMalformedQuery, err)
	}

	if v, ok := lookup(values, KeyImageType); ok {
		opts.ImageType, _ = ParseImageType(v)
	}
	if opts.Width, err = decodeNumber(values, KeyWidth); err != nil {
		return opts, err
	}
	if opts.Height, err = decodeNumber(values, KeyHeight); err != nil {
		return opts, err
	}
	if v, ok := lookup(values, KeyResizeMode); ok {
		opts.ResizeMode, _ = ParseResizeMode(v)
	}
	if v, ok := lookup(values, KeyQuality); ok {
		opts.Quality, _ = ParseQuality(v)
	}

	cropKeys := []string{KeyCropX, KeyCropY, KeyCropWidth, KeyCropHeight}
	present := 0
	for _, k := range cropKeys {
		if _, ok := lookup(values, k); ok {
			present++
		}
	}
	switch present {
	case 0:
	case len(cropKeys):
		var crop [4]float64
		for i, k := range cropKeys {
			if crop[i], err = decodeNumber(values, k); err != nil {
				return opts, err
			}
		}
		opts.CropRect = Rect{X: crop[0], Y: crop[1], Width: crop[2], Height: crop[3]}
	default:
		return opts, fmt.Errorf("%w: crop rect needs all of %v", ErrMalformedQuery, cropKeys)
	}

	if opts.PreserveRatio, err = decodeFlag(values, KeyPreserveRatio); err != nil {
		return opts, err
	}
	if opts.Premultiplied, err = decodeFlag(values, KeyPremultiplied); err != nil {
		return opts, err
	}
	if v, ok := lookup(values, KeyGravity); ok {
		opts.Gravity, _ = ParseGravity(v)
	}
	if v, ok := lookup(values, KeyFrameColor); ok {
		opts.FrameBackgroundColor = String(v)
	}
	return opts, nil
}

func lookup(values url.Values, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func decodeNumber(values url.Values, key string) (float64, error) {
	v, ok := lookup(values, key)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedQuery, key, v)
	}
	return float64(n), nil
}

func decodeFlag(values url.Values, key string) (*bool, error) {
	v, ok := lookup(values, key)
	if !ok {
		return nil, nil
	}
	switch v {
	case "1":
		return Bool(true), nil
	case "0":
		return Bool(false), nil
	}
	return nil, fmt.Errorf("%w: %s=%q", ErrMalformedQuery, key, v)
}
