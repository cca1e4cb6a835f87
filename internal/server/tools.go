package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func outputProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional path to write the result to. The format follows the extension. If omitted, the image is returned as base64 PNG.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_info",
			Description: "Load an image file and return its dimensions, format, channel count and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Page Operations
		{
			Name:        "page_detect",
			Description: "Find the outline of a document page in a photograph. Returns the outcome (found, fallback or error) and four corners in image coordinates. Fallback corners are the full frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"hull", "area", "minrect"},
						"description": "Contour ranking strategy. Default hull",
					},
					"min_page_fraction": map[string]interface{}{
						"type":        "number",
						"description": "Smallest page area accepted, as a fraction of the image area in (0, 1]. Default 0.5",
						"default":     0.5,
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the image with the outline drawn on it as base64 PNG",
						"default":     false,
					},
					"overlay_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (e.g. #00C800)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "page_transform",
			Description: "Warp a page to a flat, upright rectangle. Uses the given corners, or detects the page when none are given. Without a page the image is returned unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"corners": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"minItems":    8,
						"maxItems":    8,
						"description": "Four corners as x1,y1,...,x4,y4 in any order",
					},
					"output": outputProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "page_prepare",
			Description: "Binarize a page for OCR: grayscale, optional histogram equalization, edge-preserving smoothing and a local threshold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"equalize": map[string]interface{}{
						"type":        "boolean",
						"description": "Equalize the histogram before thresholding",
					},
					"blend": map[string]interface{}{
						"type":        "boolean",
						"description": "Blend the binary result 60/40 with the grayscale page",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"gaussian", "sauvola"},
						"description": "Local threshold method. Default gaussian",
					},
					"output": outputProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "page_scan",
			Description: "Run the whole scan on a photograph: quality check, page detection, perspective correction and OCR preparation. Writes <name>.png and returns a summary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the prepared image. Default is next to the input",
					},
					"debug_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for edge map and contour overlays",
					},
				},
				"required": []string{"path"},
			},
		},

		// Analysis Operations
		{
			Name:        "image_quality",
			Description: "Score focus and exposure: variance of Laplacian, modified Laplacian, Tenengrad, normalized gray-level variance, brightness, contrast and a blur verdict.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"tenengrad_ksize": map[string]interface{}{
						"type":        "integer",
						"description": "Gradient kernel for Tenengrad: 1 for central differences, otherwise Sobel. Default 3",
						"default":     3,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "color_balance",
			Description: "Simplest color balance: clip a percentage of the darkest and brightest values per channel and stretch the rest.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"percent": map[string]interface{}{
						"type":        "number",
						"description": "Total percentage clipped per channel. Default 1 for full, 5 for half",
					},
					"variant": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"full", "half"},
						"description": "Output range: full is 0-255, half is 0-127. Default full",
					},
					"output": outputProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}
