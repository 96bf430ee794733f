package server

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ironsheep/prism-tools-mcp/internal/imaging"
	"github.com/ironsheep/prism-tools-mcp/prism"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "prism_build_url").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	logger := s.logger.With("tool", params.Name, "id", req.ID)
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logger.Debug("tool failed", "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	logger.Debug("tool succeeded")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// URL Operations
	case "prism_build_url":
		return s.handleBuildURL(args)
	case "prism_parse_url":
		return s.handleParseURL(args)
	case "prism_validate_hex":
		return s.handleValidateHex(args)

	// Local Image Operations
	case "prism_image_info":
		return s.handleImageInfo(args)
	case "prism_preview":
		return s.handlePreview(args)
	case "prism_suggest_background":
		return s.handleSuggestBackground(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments; a missing arguments object is
// treated as empty.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Option Arguments ===

// optionArgs carries the Prism options shared by the URL and preview tools.
type optionArgs struct {
	Width         float64         `json:"width"`
	Height        float64         `json:"height"`
	Scale         float64         `json:"scale"`
	Quality       json.RawMessage `json:"quality"`
	ResizeMode    string          `json:"resize_mode"`
	ImageType     string          `json:"image_type"`
	CropRect      *prism.Rect     `json:"crop_rect"`
	PreserveRatio *bool           `json:"preserve_ratio"`
	Premultiplied *bool           `json:"premultiplied"`
	Gravity       string          `json:"gravity"`
	FrameBGColor  *string         `json:"frame_bg_color"`
	UseDefaults   bool            `json:"use_defaults"`
}

// options converts the arguments into prism.Options. Unlike the query
// decoder, unknown enum names are rejected so callers notice typos.
func (a optionArgs) options() (prism.Options, error) {
	var opts prism.Options
	if a.UseDefaults {
		opts = prism.DefaultOptions()
	}
	opts.Width = a.Width
	opts.Height = a.Height

	if len(a.Quality) > 0 && string(a.Quality) != "null" {
		q, err := parseQualityArg(a.Quality)
		if err != nil {
			return opts, err
		}
		opts.Quality = q
	}

	if a.ResizeMode != "" {
		m, err := prism.ResizeModeByName(a.ResizeMode)
		if err != nil {
			return opts, err
		}
		opts.ResizeMode = m
	}

	if a.ImageType != "" {
		t, err := prism.ImageTypeByName(a.ImageType)
		if err != nil {
			return opts, err
		}
		opts.ImageType = t
	}

	if a.CropRect != nil {
		opts.CropRect = *a.CropRect
	}
	if a.PreserveRatio != nil {
		opts.PreserveRatio = a.PreserveRatio
	}
	if a.Premultiplied != nil {
		opts.Premultiplied = a.Premultiplied
	}

	if a.Gravity != "" {
		g, err := prism.GravityByName(a.Gravity)
		if err != nil {
			return opts, err
		}
		opts.Gravity = g
	}

	opts.FrameBackgroundColor = a.FrameBGColor
	return opts, nil
}

// parseQualityArg accepts a JSON number or any string QualityByName reads.
func parseQualityArg(raw json.RawMessage) (prism.Quality, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if q := prism.QualityCustom(n); q.IsSet() {
			return q, nil
		}
		return 0, fmt.Errorf("quality must be positive, got %d", n)
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return 0, fmt.Errorf("quality must be a string or integer: %s", raw)
	}
	return prism.QualityByName(name)
}

// scale returns the requested display scale or the configured one.
func (s *Server) scale(a optionArgs) float64 {
	if a.Scale > 0 {
		return a.Scale
	}
	return s.cfg.DisplayScale
}

// === URL Operation Handlers ===

type buildURLArgs struct {
	URL string `json:"url"`
	optionArgs
}

// BuildURLResult is returned by prism_build_url.
type BuildURLResult struct {
	URL string `json:"url"`

	// Changed is false when the URL was passed through untouched.
	Changed bool `json:"changed"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

func (s *Server) handleBuildURL(args json.RawMessage) (interface{}, error) {
	var a buildURLArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	base, err := url.Parse(a.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}

	built, err := prism.NewBuilder(base).
		SetHostMarker(s.cfg.HostMarker).
		SetScale(s.scale(a.optionArgs)).
		SetOptions(opts).
		Build()
	if err != nil {
		return nil, fmt.Errorf("cannot build url: %w", err)
	}

	result := &BuildURLResult{URL: built.String(), Changed: built != base}
	if result.Changed {
		result.Width, result.Height, _ = opts.Size(s.scale(a.optionArgs))
	}
	return result, nil
}

type parseURLArgs struct {
	URL string `json:"url"`
}

// ParseURLResult is the decoded form of a Prism query.
type ParseURLResult struct {
	Host          string      `json:"host" yaml:"host"`
	IsPrism       bool        `json:"is_prism" yaml:"is_prism"`
	ImageType     string      `json:"image_type,omitempty" yaml:"image_type,omitempty"`
	Width         int         `json:"width,omitempty" yaml:"width,omitempty"`
	Height        int         `json:"height,omitempty" yaml:"height,omitempty"`
	ResizeMode    string      `json:"resize_mode,omitempty" yaml:"resize_mode,omitempty"`
	Quality       int         `json:"quality,omitempty" yaml:"quality,omitempty"`
	CropRect      *prism.Rect `json:"crop_rect,omitempty" yaml:"crop_rect,omitempty"`
	PreserveRatio *bool       `json:"preserve_ratio,omitempty" yaml:"preserve_ratio,omitempty"`
	Premultiplied *bool       `json:"premultiplied,omitempty" yaml:"premultiplied,omitempty"`
	Gravity       string      `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	FrameBGColor  *string     `json:"frame_bg_color,omitempty" yaml:"frame_bg_color,omitempty"`
}

func (s *Server) handleParseURL(args json.RawMessage) (interface{}, error) {
	var a parseURLArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	u, err := url.Parse(a.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	opts, err := prism.Decode(u)
	if err != nil {
		return nil, err
	}

	return NewParseURLResult(u, opts, s.cfg.HostMarker), nil
}

// NewParseURLResult flattens decoded options for display.
func NewParseURLResult(u *url.URL, opts prism.Options, hostMarker string) *ParseURLResult {
	r := &ParseURLResult{
		Host:          u.Hostname(),
		IsPrism:       u.Hostname() != "" && strings.Contains(u.Hostname(), hostMarker),
		ImageType:     opts.ImageType.String(),
		Width:         int(opts.Width),
		Height:        int(opts.Height),
		ResizeMode:    opts.ResizeMode.String(),
		Quality:       int(opts.Quality),
		PreserveRatio: opts.PreserveRatio,
		Premultiplied: opts.Premultiplied,
		Gravity:       opts.Gravity.String(),
		FrameBGColor:  opts.FrameBackgroundColor,
	}
	if !opts.CropRect.Empty() {
		crop := opts.CropRect
		r.CropRect = &crop
	}
	return r
}

type validateHexArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleValidateHex(args json.RawMessage) (interface{}, error) {
	var a validateHexArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"color": a.Color,
		"valid": prism.IsValidHex(a.Color),
	}, nil
}

// === Local Image Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type previewArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	optionArgs
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, opts, s.scale(a.optionArgs), a.OutputPath)
}

type suggestBackgroundArgs struct {
	Path         string `json:"path"`
	Alternatives *int   `json:"alternatives"`
}

func (s *Server) handleSuggestBackground(args json.RawMessage) (interface{}, error) {
	var a suggestBackgroundArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	alternatives := 3
	if a.Alternatives != nil && *a.Alternatives >= 0 {
		alternatives = *a.Alternatives
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SuggestBackground(img, alternatives)
}
