package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"golang.org/x/image/vector"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// Overlay colours used for debug artifacts.
var (
	CandidateColor = color.RGBA{255, 0, 0, 255}
	AcceptedColor  = color.RGBA{0, 200, 0, 255}
)

// DrawContours renders closed contours over a copy of base, labelling each
// with its index in the slice.
func DrawContours(base image.Image, contours []geometry.Contour, c color.Color) *image.RGBA {
	dst := toRGBA(base)
	for i, contour := range contours {
		strokePolygon(dst, contour, c, 2)
		if len(contour) > 0 {
			p := contour[0].ImagePoint()
			drawLabel(dst, p.X+2, p.Y+2, strconv.Itoa(i), color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}
	return dst
}

// DrawQuad renders a quadrilateral over a copy of base and labels its
// corners 0-3 in stored order.
func DrawQuad(base image.Image, q geometry.Quad, c color.Color) *image.RGBA {
	dst := toRGBA(base)
	strokePolygon(dst, q.Contour(), c, 3)
	for i, p := range q {
		ip := p.ImagePoint()
		drawLabel(dst, ip.X+3, ip.Y+3, strconv.Itoa(i), color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}
	return dst
}

// EncodePNGBase64 encodes an image as base64 PNG.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// strokePolygon draws each edge of a closed polygon as a filled quad of the
// given width. Edges are rasterized one at a time so overlapping segments
// with opposite winding do not cancel.
func strokePolygon(dst *image.RGBA, c geometry.Contour, col color.Color, width float64) {
	n := len(c)
	if n < 2 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	src := image.NewUniform(col)
	half := width / 2

	for i := 0; i < n; i++ {
		a, e := c[i], c[(i+1)%n]
		d := e.Sub(a)
		length := geometry.Distance(a, e)
		if length == 0 {
			continue
		}
		nx, ny := -d.Y/length*half, d.X/length*half

		z.Reset(b.Dx(), b.Dy())
		z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		z.LineTo(float32(e.X+nx), float32(e.Y+ny))
		z.LineTo(float32(e.X-nx), float32(e.Y-ny))
		z.LineTo(float32(a.X-nx), float32(a.Y-ny))
		z.ClosePath()
		z.Draw(dst, b, src, image.Point{})
	}
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// glyphs is a 3x5 pixel font for digits.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws a small numeric label with a background box.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					if p := image.Pt(cx+col, y+row); p.In(bounds) {
						img.Set(p.X, p.Y, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
