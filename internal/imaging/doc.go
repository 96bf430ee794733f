// Package imaging renders local previews of Prism variants.
//
// The Prism CDN transforms images server side; this package approximates
// the same transformation on a local file so that a set of options can be
// checked before URLs are handed to clients. It also inspects source images
// to help pick options: dimensions, alpha and a frame color matching the
// image border.
//
// # Pipeline
//
// Render follows the order the CDN applies parameters:
//   - crop_x/crop_y/crop_width/crop_height cut the source, clipped to bounds
//   - w/h are resolved with prism.Options.Size (display scale, 320 default)
//   - cmd selects the resize: resize stretches (or fits when preserve_ratio
//     is set), resize_then_fit letterboxes onto a frame_bg_color canvas and
//     resize_then_crop fills and crops around the gravity anchor
//   - out=jpg flattens transparency onto the frame color, or white
//   - premultiplied=1 stores alpha-premultiplied channels
//
// Resampling uses the Lanczos filter from github.com/disintegration/imaging.
// The output only approximates the CDN; pixel-exact equality is not a goal.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Render, Preview and
// SuggestBackground do not modify their input image.
package imaging
