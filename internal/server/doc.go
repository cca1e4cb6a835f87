// Package server implements the MCP (Model Context Protocol) server for the
// page scanner.
//
// This package provides a JSON-RPC 2.0 server that exposes page detection,
// perspective correction, OCR preparation and image quality scoring through
// the MCP protocol.
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
//   - image_info: Load image and get metadata
//   - page_detect: Find the page outline, optionally with an overlay
//   - page_transform: Warp the page to an upright rectangle
//   - page_prepare: Binarize a page for OCR
//   - page_scan: Run the whole pipeline and write <name>.png
//   - image_quality: Blur and exposure metrics
//   - color_balance: Simplest color balance
//
// Tools that produce an image write it to the "output" path when given and
// return it as base64 PNG otherwise. Defaults for every optional argument
// come from the config.Config the server was created with.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images keyed by path.
// Cached images are never modified; every operation works on a copy.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A page that cannot be found is not an error: page_detect reports the
// fallback outcome and page_transform returns the image unchanged.
//
// # Usage
//
//	srv, err := server.New(cfg, logger, version)
//	if err != nil {
//	    return err
//	}
//	return srv.Serve(os.Stdin, os.Stdout)
package server
