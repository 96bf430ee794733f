package commands

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/prism-tools-mcp/prism"
)

type buildFlags struct {
	width         float64
	height        float64
	quality       string
	resizeMode    string
	imageType     string
	crop          string
	preserveRatio bool
	premultiplied bool
	gravity       string
	frameColor    string
	defaults      bool
}

func newBuildCmd(g *globalFlags) *cobra.Command {
	f := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build <url>",
		Short: "Build a Prism URL",
		Long: `Append Prism query parameters to an image URL and print the result.

URLs that are not on a Prism host, or that already carry a query, are
printed unchanged.

Examples:
  prism-mcp build https://images.tryprism.com/cat.png --width 100 --height 200
  prism-mcp build https://images.tryprism.com/cat.png --width 64 --defaults --scale 3
  prism-mcp build https://images.tryprism.com/cat.png --width 50 --height 50 \
      --resize fit --type jpg --frame-color FFFFFF --crop 0,0,400,400`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, g, f, args[0])
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.width, "width", 0, "Requested width in points (0 lets the CDN use 320 pixels)")
	fl.Float64Var(&f.height, "height", 0, "Requested height in points (0 lets the CDN use 320 pixels)")
	fl.StringVar(&f.quality, "quality", "", "high, normal, low or a positive integer")
	fl.StringVar(&f.resizeMode, "resize", "", "resize, fit, crop, resize_then_fit or resize_then_crop")
	fl.StringVar(&f.imageType, "type", "", "Output type: png or jpg")
	fl.StringVar(&f.crop, "crop", "", "Crop rect in source pixels as x,y,width,height")
	fl.BoolVar(&f.preserveRatio, "preserve-ratio", false, "Keep the aspect ratio while resizing")
	fl.BoolVar(&f.premultiplied, "premultiplied", false, "Use premultiplied alpha")
	fl.StringVar(&f.gravity, "gravity", "", "Crop focal point: top_left or center")
	fl.StringVar(&f.frameColor, "frame-color", "", "Frame background color as hex without '#'")
	fl.BoolVar(&f.defaults, "defaults", false, "Start from the SDK defaults (high, resize_then_crop, png, premultiplied)")
	return cmd
}

func runBuild(cmd *cobra.Command, g *globalFlags, f *buildFlags, raw string) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	opts, err := f.options(cmd)
	if err != nil {
		return err
	}

	base, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	built, err := prism.NewBuilder(base).
		SetHostMarker(cfg.HostMarker).
		SetScale(cfg.DisplayScale).
		SetOptions(opts).
		Build()
	if err != nil {
		return fmt.Errorf("cannot build url: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), built.String())
	return nil
}

// options converts the flags. Boolean flags are only emitted when given on
// the command line, so --preserve-ratio=false sends preserve_ratio=0.
func (f *buildFlags) options(cmd *cobra.Command) (prism.Options, error) {
	var opts prism.Options
	if f.defaults {
		opts = prism.DefaultOptions()
	}
	opts.Width = f.width
	opts.Height = f.height

	var err error
	if f.quality != "" {
		if opts.Quality, err = prism.QualityByName(f.quality); err != nil {
			return opts, err
		}
	}
	if f.resizeMode != "" {
		if opts.ResizeMode, err = prism.ResizeModeByName(f.resizeMode); err != nil {
			return opts, err
		}
	}
	if f.imageType != "" {
		if opts.ImageType, err = prism.ImageTypeByName(f.imageType); err != nil {
			return opts, err
		}
	}
	if f.crop != "" {
		if opts.CropRect, err = parseRect(f.crop); err != nil {
			return opts, err
		}
	}
	if cmd.Flags().Changed("preserve-ratio") {
		opts.PreserveRatio = prism.Bool(f.preserveRatio)
	}
	if cmd.Flags().Changed("premultiplied") {
		opts.Premultiplied = prism.Bool(f.premultiplied)
	}
	if f.gravity != "" {
		if opts.Gravity, err = prism.GravityByName(f.gravity); err != nil {
			return opts, err
		}
	}
	if f.frameColor != "" {
		opts.FrameBackgroundColor = prism.String(f.frameColor)
	}
	return opts, nil
}

// parseRect reads "x,y,width,height".
func parseRect(s string) (prism.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return prism.Rect{}, fmt.Errorf("crop must be x,y,width,height, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return prism.Rect{}, fmt.Errorf("crop %q: %w", s, err)
		}
		v[i] = n
	}
	return prism.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
