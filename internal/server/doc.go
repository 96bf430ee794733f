// Package server implements the MCP (Model Context Protocol) server for Prism image URLs.
//
// The server exposes the prism URL builder and a local preview renderer to
// MCP clients, so an assistant can produce CDN URLs for the sizes a screen
// needs and check what a set of transform options does to a source image.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// URL Operations:
//   - prism_build_url: Append Prism query parameters to an image URL
//   - prism_parse_url: Decode the options carried by a Prism URL
//   - prism_validate_hex: Check a frame_bg_color value
//
// Local Image Operations:
//   - prism_image_info: Dimensions, format and alpha of a source image
//   - prism_preview: Render an approximation of a Prism variant
//   - prism_suggest_background: Pick a frame color from the image border
//
// The configured host marker and display scale apply to every call; the
// scale can be overridden per call.
//
// # Image Caching
//
// Source images are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, logger, version)
//	if err := srv.Run(); err != nil {
//	    logger.Error("server stopped", "error", err)
//	}
package server
