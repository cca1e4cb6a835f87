package imaging

import (
	"image"
	"image/color"
	"testing"
)

// newGray creates a uniform gray image.
func newGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// createStepImage creates a gray image that is black left of splitX and
// white from splitX onward.
func createStepImage(width, height, splitX int) *image.Gray {
	img := newGray(width, height, 0)
	for y := 0; y < height; y++ {
		for x := splitX; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func countEdges(img *image.Gray) int {
	n := 0
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestCanny_StrongEdge(t *testing.T) {
	img := createStepImage(100, 100, 50)

	edges, err := Canny(img, 50, 150)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}

	if edges.Bounds().Dx() != 100 || edges.Bounds().Dy() != 100 {
		t.Fatalf("dimensions: got %v, want 100x100", edges.Bounds())
	}

	// Non-maximum suppression leaves exactly one pixel per interior row.
	for y := 1; y < 99; y++ {
		row := 0
		for x := 0; x < 100; x++ {
			if edges.GrayAt(x, y).Y != 0 {
				row++
				if x != 49 {
					t.Errorf("row %d: unexpected edge at x=%d", y, x)
				}
			}
		}
		if row != 1 {
			t.Errorf("row %d: got %d edge pixels, want 1", y, row)
		}
	}
}

func TestCanny_UniformImage(t *testing.T) {
	edges, err := Canny(newGray(50, 50, 128), 50, 150)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if n := countEdges(edges); n != 0 {
		t.Errorf("uniform image should have no edges, got %d", n)
	}
}

func TestCanny_Thresholds(t *testing.T) {
	// A weak step of 20 intensity levels gives a Sobel magnitude of 80.
	img := newGray(60, 60, 100)
	for y := 0; y < 60; y++ {
		for x := 30; x < 60; x++ {
			img.SetGray(x, y, color.Gray{Y: 120})
		}
	}

	tests := []struct {
		name      string
		low, high float64
		wantEdges bool
	}{
		{"below low", 100, 200, false},
		{"between low and high", 50, 100, false},
		{"above high", 20, 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, err := Canny(img, tt.low, tt.high)
			if err != nil {
				t.Fatalf("Canny failed: %v", err)
			}
			if got := countEdges(edges) > 0; got != tt.wantEdges {
				t.Errorf("edges found: got %v, want %v", got, tt.wantEdges)
			}
		})
	}
}

func TestCanny_SmallImage(t *testing.T) {
	edges, err := Canny(newGray(2, 2, 10), 10, 20)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if edges.Bounds().Dx() != 2 || edges.Bounds().Dy() != 2 {
		t.Errorf("dimensions: got %v, want 2x2", edges.Bounds())
	}
}

func TestCanny_Empty(t *testing.T) {
	if _, err := Canny(image.NewGray(image.Rect(0, 0, 0, 0)), 10, 20); err == nil {
		t.Error("Canny should fail on an empty image")
	}
}

func TestSobel_StepResponse(t *testing.T) {
	gx, gy := Sobel(PlaneOf(createStepImage(10, 10, 5)))

	if got := gx.At(4, 5); got != 1020 {
		t.Errorf("gx at step: got %.1f, want 1020", got)
	}
	if got := gx.At(1, 5); got != 0 {
		t.Errorf("gx away from step: got %.1f, want 0", got)
	}
	if got := gy.At(4, 5); got != 0 {
		t.Errorf("gy on vertical step: got %.1f, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-3, 1, 0},
	}

	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
