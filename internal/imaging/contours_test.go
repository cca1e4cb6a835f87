package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// drawOutline sets a 1-pixel rectangle outline from (x0,y0) to (x1,y1)
// inclusive.
func drawOutline(img *image.Gray, x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		img.SetGray(x, y0, color.Gray{Y: 255})
		img.SetGray(x, y1, color.Gray{Y: 255})
	}
	for y := y0; y <= y1; y++ {
		img.SetGray(x0, y, color.Gray{Y: 255})
		img.SetGray(x1, y, color.Gray{Y: 255})
	}
}

func TestFindContours_Outline(t *testing.T) {
	img := newGray(60, 50, 0)
	drawOutline(img, 10, 10, 40, 30)

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}

	c := contours[0]
	if len(c) != 100 {
		t.Errorf("perimeter pixels: got %d, want 100", len(c))
	}
	min, max := c.Bounds()
	if min != geometry.Pt(10, 10) || max != geometry.Pt(40, 30) {
		t.Errorf("bounds: got %v-%v, want (10,10)-(40,30)", min, max)
	}
	if area := geometry.PolygonArea(c); math.Abs(area-600) > 1e-9 {
		t.Errorf("area: got %.1f, want 600", area)
	}
	if c[0] != geometry.Pt(10, 10) {
		t.Errorf("trace should start at the top-left pixel, got %v", c[0])
	}
	if c[1] != geometry.Pt(11, 10) {
		t.Errorf("trace should run clockwise, second point %v", c[1])
	}
}

func TestFindContours_FilledBlock(t *testing.T) {
	img := newGray(30, 30, 0)
	for y := 5; y < 15; y++ {
		for x := 5; x < 25; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	// Outer boundary pixels of a 20x10 block enclose 19x9.
	if area := geometry.PolygonArea(contours[0]); math.Abs(area-171) > 1e-9 {
		t.Errorf("area: got %.1f, want 171", area)
	}
}

func TestFindContours_OpenLine(t *testing.T) {
	img := newGray(40, 10, 0)
	for x := 5; x < 35; x++ {
		img.SetGray(x, 5, color.Gray{Y: 255})
	}

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	if area := geometry.PolygonArea(contours[0]); area != 0 {
		t.Errorf("open line should enclose no area, got %.1f", area)
	}
	min, max := contours[0].Bounds()
	if min.X != 5 || max.X != 34 {
		t.Errorf("trace should cover the whole line, got x %v..%v", min.X, max.X)
	}
}

func TestFindContours_MultipleAndNoise(t *testing.T) {
	img := newGray(80, 40, 0)
	drawOutline(img, 50, 5, 70, 20)
	drawOutline(img, 2, 10, 20, 30)
	img.SetGray(40, 35, color.Gray{Y: 255}) // single pixel noise

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 2 {
		t.Fatalf("expected 2 contours, got %d", len(contours))
	}
	// Raster order of the first pixel: the outline starting at y=5 first.
	if contours[0][0] != geometry.Pt(50, 5) {
		t.Errorf("first contour starts at %v, want (50,5)", contours[0][0])
	}
	if contours[1][0] != geometry.Pt(2, 10) {
		t.Errorf("second contour starts at %v, want (2,10)", contours[1][0])
	}
}

func TestFindContours_Diagonal(t *testing.T) {
	img := newGray(30, 30, 0)
	for i := 0; i < 20; i++ {
		img.SetGray(5+i, 5+i, color.Gray{Y: 255})
	}

	contours, err := FindContours(img)
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("8-connected diagonal should be one contour, got %d", len(contours))
	}
}

func TestFindContours_Empty(t *testing.T) {
	contours, err := FindContours(newGray(10, 10, 0))
	if err != nil {
		t.Fatalf("FindContours failed: %v", err)
	}
	if len(contours) != 0 {
		t.Errorf("expected no contours, got %d", len(contours))
	}

	if _, err := FindContours(image.NewGray(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("FindContours should fail on an empty image")
	}
}

func TestFindContoursMode_Holes(t *testing.T) {
	img := newGray(60, 50, 0)
	drawOutline(img, 10, 10, 40, 30)
	// A 5x5 ring encloses a 3x3 hole, below the noise size.
	drawOutline(img, 50, 5, 54, 9)

	tests := []struct {
		name string
		mode ContourMode
		want int
	}{
		{"external", ContourExternal, 2},
		{"list", ContourList, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours, err := FindContoursMode(img, tt.mode)
			if err != nil {
				t.Fatalf("FindContoursMode failed: %v", err)
			}
			if len(contours) != tt.want {
				t.Fatalf("got %d contours, want %d", len(contours), tt.want)
			}
		})
	}

	contours, _ := FindContoursMode(img, ContourList)
	var hole geometry.Contour
	for _, c := range contours {
		if c[0] == geometry.Pt(11, 11) {
			hole = c
		}
	}
	if hole == nil {
		t.Fatal("no contour starts at the hole's first pixel (11,11)")
	}
	min, max := hole.Bounds()
	if min != geometry.Pt(11, 11) || max != geometry.Pt(39, 29) {
		t.Errorf("hole bounds: got %v-%v, want (11,11)-(39,29)", min, max)
	}
	if area := geometry.PolygonArea(hole); math.Abs(area-28*18) > 1e-9 {
		t.Errorf("hole area: got %.1f, want %d", area, 28*18)
	}
}

func TestFindContoursMode_OpenShapeHasNoHole(t *testing.T) {
	img := newGray(40, 40, 0)
	drawOutline(img, 5, 5, 30, 30)
	img.SetGray(5, 20, color.Gray{Y: 0})

	contours, err := FindContoursMode(img, ContourList)
	if err != nil {
		t.Fatalf("FindContoursMode failed: %v", err)
	}
	if len(contours) != 1 {
		t.Errorf("a broken outline encloses nothing: got %d contours", len(contours))
	}
}

func TestToolkit_ContourMode(t *testing.T) {
	img := newGray(60, 50, 0)
	drawOutline(img, 10, 10, 40, 30)

	outer, _ := Toolkit{}.FindContours(img)
	all, _ := Toolkit{Contours: ContourList}.FindContours(img)
	if len(outer) != 1 || len(all) != 2 {
		t.Errorf("got %d outer and %d listed contours, want 1 and 2", len(outer), len(all))
	}
}
