package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// optionProperties describes the Prism options shared by the URL and
// preview tools.
func optionProperties() map[string]interface{} {
	return map[string]interface{}{
		"width": map[string]interface{}{
			"type":        "number",
			"description": "Requested width in points; multiplied by scale. 0 or omitted lets the CDN use 320 pixels",
		},
		"height": map[string]interface{}{
			"type":        "number",
			"description": "Requested height in points; multiplied by scale. 0 or omitted lets the CDN use 320 pixels",
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Display pixel density (e.g. 2 or 3). Defaults to the server's configured scale",
		},
		"quality": map[string]interface{}{
			"type":        []string{"string", "integer"},
			"description": "high (100), normal (70), low (50) or a custom integer quality",
		},
		"resize_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"resize", "fit", "crop", "resize_then_fit", "resize_then_crop"},
			"description": "How the source is mapped onto the requested size",
		},
		"image_type": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"png", "jpg"},
			"description": "Output encoding",
		},
		"crop_rect": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x":      map[string]interface{}{"type": "number"},
				"y":      map[string]interface{}{"type": "number"},
				"width":  map[string]interface{}{"type": "number"},
				"height": map[string]interface{}{"type": "number"},
			},
			"description": "Region of the source to cut before resizing, in source pixels. Ignored when width or height is 0",
		},
		"preserve_ratio": map[string]interface{}{
			"type":        "boolean",
			"description": "Keep the aspect ratio while resizing",
		},
		"premultiplied": map[string]interface{}{
			"type":        "boolean",
			"description": "Use premultiplied alpha for PNG transparency",
		},
		"gravity": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"top_left", "center"},
			"description": "Crop focal point",
		},
		"frame_bg_color": map[string]interface{}{
			"type":        "string",
			"description": "Frame background color as hex without '#', at most 6 characters. Invalid values are dropped",
		},
		"use_defaults": map[string]interface{}{
			"type":        "boolean",
			"description": "Start from the SDK defaults (quality high, resize_then_crop, png, premultiplied) before applying the other fields",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to a local image file",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// URL Operations
		{
			Name:        "prism_build_url",
			Description: "Build a Prism image CDN URL for the given size and transform options. Non-Prism URLs and URLs that already have a query are returned unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(optionProperties(), map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "Base image URL",
					},
				}),
				"required": []string{"url"},
			},
		},
		{
			Name:        "prism_parse_url",
			Description: "Decode the transform options carried by a Prism URL's query string.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "Prism image URL with query parameters",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        "prism_validate_hex",
			Description: "Check whether a string is accepted as frame_bg_color (at most 6 characters, at least one hex digit).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Candidate color, without '#'",
					},
				},
				"required": []string{"color"},
			},
		},

		// Local Image Operations
		{
			Name:        "prism_image_info",
			Description: "Get the dimensions, format and alpha channel of a local source image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "prism_preview",
			Description: "Render a local approximation of the Prism variant for a local source image and return it as base64, or write it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(optionProperties(), map[string]interface{}{
					"path": pathProperty,
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the preview to instead of returning base64",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "prism_suggest_background",
			Description: "Suggest a frame_bg_color matching the dominant border color of a local image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"alternatives": map[string]interface{}{
						"type":        "integer",
						"description": "Number of runner-up colors to include (default 3)",
						"default":     3,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
