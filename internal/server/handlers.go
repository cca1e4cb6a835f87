package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/pagescan/internal/balance"
	"github.com/ironsheep/pagescan/internal/detection"
	"github.com/ironsheep/pagescan/internal/geometry"
	"github.com/ironsheep/pagescan/internal/imaging"
	"github.com/ironsheep/pagescan/internal/ocr"
	"github.com/ironsheep/pagescan/internal/perspective"
	"github.com/ironsheep/pagescan/internal/pipeline"
	"github.com/ironsheep/pagescan/internal/quality"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "page_detect", "image_quality").
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
	case "image_info":
		return s.handleImageInfo(args)
	case "page_detect":
		return s.handlePageDetect(args)
	case "page_transform":
		return s.handlePageTransform(args)
	case "page_prepare":
		return s.handlePagePrepare(args)
	case "page_scan":
		return s.handlePageScan(args)
	case "image_quality":
		return s.handleImageQuality(args)
	case "color_balance":
		return s.handleColorBalance(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments and loads the image they name.
func (s *Server) decodeArgs(args json.RawMessage, v interface{ path() string }) (image.Image, error) {
	if err := json.Unmarshal(args, v); err != nil {
		return nil, err
	}
	if v.path() == "" {
		return nil, fmt.Errorf("path is required")
	}
	return s.cache.Load(v.path())
}

// ImageResult describes an image produced by a tool. The image is written
// to Output when a path was given, otherwise returned inline.
type ImageResult struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Output string `json:"output,omitempty"`
	Base64 string `json:"image_base64,omitempty"`
}

func emitImage(img image.Image, output string) (*ImageResult, error) {
	b := img.Bounds()
	res := &ImageResult{Width: b.Dx(), Height: b.Dy()}
	if output != "" {
		if err := imaging.Save(img, output); err != nil {
			return nil, err
		}
		res.Output = output
		return res, nil
	}
	enc, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	res.Base64 = enc
	return res, nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) path() string { return a.Path }

// === Image Information ===

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Page Detection ===

type pageDetectArgs struct {
	pathArgs
	Strategy        string  `json:"strategy"`
	MinPageFraction float64 `json:"min_page_fraction"`
	Overlay         bool    `json:"overlay"`
	OverlayColor    string  `json:"overlay_color"`
}

// PageDetectResult is the answer of the page_detect tool.
type PageDetectResult struct {
	Outcome  detection.Outcome `json:"outcome"`
	Strategy string            `json:"strategy"`
	Corners  geometry.Quad     `json:"corners"`
	// Ordered holds the corners as top-left, top-right, bottom-right,
	// bottom-left when a page was found.
	Ordered *geometry.Quad `json:"ordered,omitempty"`
	Error   string         `json:"error,omitempty"`
	Overlay string         `json:"overlay_base64,omitempty"`
}

func (s *Server) handlePageDetect(args json.RawMessage) (interface{}, error) {
	var a pageDetectArgs
	img, err := s.decodeArgs(args, &a)
	if err != nil {
		return nil, err
	}

	d := s.pipe.Detector(nil)
	if a.Strategy != "" {
		strategy, err := detection.StrategyByName(a.Strategy)
		if err != nil {
			return nil, err
		}
		d.Strategy = strategy
	}
	if a.MinPageFraction != 0 {
		if a.MinPageFraction < 0 || a.MinPageFraction > 1 {
			return nil, fmt.Errorf("min_page_fraction must be in (0, 1], got %g", a.MinPageFraction)
		}
		d.MinPageFraction = a.MinPageFraction
	}

	res := d.DetectPage(img)
	out := &PageDetectResult{
		Outcome:  res.Outcome,
		Strategy: res.Strategy,
		Corners:  res.Corners,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	outline := res.Corners
	if q, err := geometry.OrderCorners(res.Points()); err == nil {
		outline = q
		if res.Outcome == detection.Found {
			out.Ordered = &q
		}
	}

	if a.Overlay {
		var col color.Color = imaging.AcceptedColor
		if a.OverlayColor != "" {
			c, err := imaging.ParseHexColor(a.OverlayColor)
			if err != nil {
				return nil, fmt.Errorf("invalid overlay_color: %w", err)
			}
			col = c
		}
		enc, err := imaging.EncodePNGBase64(imaging.DrawQuad(img, outline, col))
		if err != nil {
			return nil, err
		}
		out.Overlay = enc
	}
	return out, nil
}

// === Perspective Correction ===

type pageTransformArgs struct {
	pathArgs
	// Corners are x,y pairs of the page outline in any order. When
	// omitted the page is detected first.
	Corners []float64 `json:"corners"`
	Output  string    `json:"output"`
}

func (s *Server) handlePageTransform(args json.RawMessage) (interface{}, error) {
	var a pageTransformArgs
	img, err := s.decodeArgs(args, &a)
	if err != nil {
		return nil, err
	}

	var pts []geometry.Point
	switch {
	case len(a.Corners) == 8:
		for i := 0; i < 8; i += 2 {
			pts = append(pts, geometry.Pt(a.Corners[i], a.Corners[i+1]))
		}
	case len(a.Corners) == 0:
		res := s.pipe.Detector(nil).DetectPage(img)
		if res.Outcome != detection.Found {
			return emitImage(imaging.Clone(img), a.Output)
		}
		pts = res.Points()
	default:
		return nil, fmt.Errorf("corners must hold 4 x,y pairs, got %d values", len(a.Corners))
	}
	return emitImage(perspective.Transform(img, pts, s.log), a.Output)
}

// === OCR Preparation ===

type pagePrepareArgs struct {
	pathArgs
	Equalize *bool  `json:"equalize"`
	Blend    *bool  `json:"blend"`
	Method   string `json:"method"`
	Output   string `json:"output"`
}

func (s *Server) handlePagePrepare(args json.RawMessage) (interface{}, error) {
	var a pagePrepareArgs
	img, err := s.decodeArgs(args, &a)
	if err != nil {
		return nil, err
	}

	opts := s.pipe.OCROptions()
	if a.Equalize != nil {
		opts.EqualizeHistogram = *a.Equalize
	}
	if a.Blend != nil {
		opts.Blend = *a.Blend
	}
	if a.Method != "" {
		if a.Method != ocr.MethodGaussian && a.Method != ocr.MethodSauvola {
			return nil, fmt.Errorf("unknown threshold method %q", a.Method)
		}
		opts.Method = a.Method
	}
	return emitImage(ocr.Prepare(img, opts), a.Output)
}

// === Full Pipeline ===

type pageScanArgs struct {
	pathArgs
	OutputDir string `json:"output_dir"`
	DebugDir  string `json:"debug_dir"`
}

func (s *Server) handlePageScan(args json.RawMessage) (interface{}, error) {
	var a pageScanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	pipe := s.pipe
	if a.OutputDir != "" || a.DebugDir != "" {
		cfg := *s.cfg
		if a.OutputDir != "" {
			cfg.OutputDir = a.OutputDir
		}
		if a.DebugDir != "" {
			cfg.DebugDir = a.DebugDir
		}
		p, err := pipeline.New(&cfg, s.log)
		if err != nil {
			return nil, err
		}
		pipe = p
	}

	res := pipe.ProcessFile(a.Path)
	if res.Err != nil {
		return nil, res.Err
	}
	return res, nil
}

// === Quality ===

type imageQualityArgs struct {
	pathArgs
	TenengradKsize int `json:"tenengrad_ksize"`
}

func (s *Server) handleImageQuality(args json.RawMessage) (interface{}, error) {
	var a imageQualityArgs
	img, err := s.decodeArgs(args, &a)
	if err != nil {
		return nil, err
	}
	report := quality.Assess(img)
	if a.TenengradKsize != 0 {
		report.Tenengrad = quality.Tenengrad(img, a.TenengradKsize)
	}
	return report, nil
}

// === Colour Balance ===

type colorBalanceArgs struct {
	pathArgs
	Percent float64 `json:"percent"`
	Variant string  `json:"variant"`
	Output  string  `json:"output"`
}

func (s *Server) handleColorBalance(args json.RawMessage) (interface{}, error) {
	var a colorBalanceArgs
	img, err := s.decodeArgs(args, &a)
	if err != nil {
		return nil, err
	}
	v, err := balance.VariantByName(a.Variant)
	if err != nil {
		return nil, err
	}
	percent := a.Percent
	if percent == 0 {
		percent = v.DefaultPercent()
	}
	return emitImage(balance.Balance(img, percent, v), a.Output)
}
