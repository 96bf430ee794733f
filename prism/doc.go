// Package prism builds image-transformation URLs for the Prism image CDN.
//
// A Prism URL is an ordinary image URL on a Prism host with query parameters
// describing the variant to serve: output size, resize mode, quality, output
// type, crop rectangle, gravity and frame background color. The CDN performs
// the transformation; this package only composes the query.
//
// # Building
//
// Options can be filled directly and passed to Build:
//
//	u, err := prism.Build(base, prism.Options{
//	    Width:      100,
//	    Height:     200,
//	    ResizeMode: prism.Crop,
//	    Quality:    prism.QualityHigh,
//	}, 2)
//
// or through the chained setters of Builder:
//
//	u, err := prism.NewBuilder(base).
//	    SetScale(2).
//	    SetExpectedSize(100, 200).
//	    SetResizeMode(prism.Crop).
//	    Build()
//
// # Pass-through
//
// URLs whose host does not contain the Prism marker, and URLs that already
// carry a query, are returned unchanged. The same *url.URL value is returned.
//
// # Failures
//
// Build returns a nil URL and ErrNoDimensions when neither width nor height
// was requested, and ErrInvalidDimension when a requested dimension resolves
// to less than one pixel. An invalid frame background color is not an error;
// the parameter is left out.
//
// # Query order
//
// Parameters are always emitted in the same order:
//
//	out, w, h, cmd, quality, crop_x, crop_y, crop_width, crop_height,
//	preserve_ratio, premultiplied, gravity, frame_bg_color
//
// Unset options are omitted.
package prism
