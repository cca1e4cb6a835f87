package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestToGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 14, 22))
	for y := 20; y < 22; y++ {
		for x := 10; x < 14; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	g, err := ToGray(img)
	if err != nil {
		t.Fatalf("ToGray failed: %v", err)
	}
	if g.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("bounds: got %v, want (0,0)-(4,2)", g.Bounds())
	}
	// 0.299 * 255 = 76.2
	if v := g.GrayAt(0, 0).Y; v != 76 {
		t.Errorf("luminance: got %d, want 76", v)
	}
}

func TestToGray_CopiesGrayInput(t *testing.T) {
	src := newGray(3, 3, 50)
	g, err := ToGray(src)
	if err != nil {
		t.Fatalf("ToGray failed: %v", err)
	}
	g.Pix[0] = 200
	if src.Pix[0] != 50 {
		t.Error("ToGray must not alias its input")
	}
}

func TestToGray_Empty(t *testing.T) {
	if _, err := ToGray(image.NewRGBA(image.Rect(0, 0, 0, 5))); err != ErrEmptyImage {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}

func TestChannels(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want int
	}{
		{"gray", image.NewGray(image.Rect(0, 0, 1, 1)), 1},
		{"gray16", image.NewGray16(image.Rect(0, 0, 1, 1)), 1},
		{"rgba", image.NewRGBA(image.Rect(0, 0, 1, 1)), 3},
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 1, 1)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Channels(tt.img); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBilateral_Uniform(t *testing.T) {
	out := Bilateral(newGray(20, 20, 90), 7, 75, 75)
	for i, v := range out.Pix {
		if v != 90 {
			t.Fatalf("pixel %d: got %d, want 90", i, v)
		}
	}
}

func TestBilateral_PreservesEdge(t *testing.T) {
	out := Bilateral(createStepImage(40, 10, 20), 7, 75, 75)

	if v := out.GrayAt(10, 5).Y; v != 0 {
		t.Errorf("dark side: got %d, want 0", v)
	}
	if v := out.GrayAt(30, 5).Y; v != 255 {
		t.Errorf("bright side: got %d, want 255", v)
	}
	if v := out.GrayAt(19, 5).Y; v > 10 {
		t.Errorf("pixel next to edge leaked too much: got %d", v)
	}
	if v := out.GrayAt(20, 5).Y; v < 245 {
		t.Errorf("pixel next to edge leaked too much: got %d", v)
	}
}

func TestGaussianBlur(t *testing.T) {
	out := GaussianBlur(newGray(10, 10, 128), 5)
	for i, v := range out.Pix {
		if v != 128 {
			t.Fatalf("uniform image changed at %d: got %d", i, v)
		}
	}

	spot := newGray(11, 11, 0)
	spot.SetGray(5, 5, color.Gray{Y: 255})
	out = GaussianBlur(spot, 5)

	if out.GrayAt(5, 5).Y >= 255 {
		t.Error("bright spot should be reduced after blur")
	}
	if out.GrayAt(5, 4).Y == 0 || out.GrayAt(4, 5).Y == 0 {
		t.Error("neighbors should receive some brightness from blur")
	}
}

func TestGaussianSigma(t *testing.T) {
	if got := GaussianSigma(5); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("ksize 5: got %.3f, want 1.1", got)
	}
	if got := GaussianSigma(13); math.Abs(got-2.3) > 1e-9 {
		t.Errorf("ksize 13: got %.3f, want 2.3", got)
	}
}

func TestResizeAndFitRatio(t *testing.T) {
	tests := []struct {
		w, h      int
		wantRatio float64
	}{
		{800, 600, 0.8},
		{1280, 480, 0.5},
		{320, 240, 2},
	}

	for _, tt := range tests {
		ratio := FitRatio(tt.w, tt.h, 640, 480)
		if math.Abs(ratio-tt.wantRatio) > 1e-9 {
			t.Errorf("FitRatio(%d,%d): got %.3f, want %.3f", tt.w, tt.h, ratio, tt.wantRatio)
		}
	}

	out := Resize(newGray(800, 600, 77), 640, 480)
	if out.Bounds().Dx() != 640 || out.Bounds().Dy() != 480 {
		t.Fatalf("Resize: got %v, want 640x480", out.Bounds())
	}
	if v := out.GrayAt(320, 240).Y; v != 77 {
		t.Errorf("Resize changed uniform value: got %d", v)
	}
}

func TestPad(t *testing.T) {
	out := Pad(newGray(10, 6, 200), 15, 0)

	if out.Bounds() != image.Rect(0, 0, 40, 36) {
		t.Fatalf("bounds: got %v, want 40x36", out.Bounds())
	}
	if v := out.GrayAt(0, 0).Y; v != 0 {
		t.Errorf("border: got %d, want 0", v)
	}
	if v := out.GrayAt(14, 20).Y; v != 0 {
		t.Errorf("border edge: got %d, want 0", v)
	}
	if v := out.GrayAt(15, 15).Y; v != 200 {
		t.Errorf("content origin: got %d, want 200", v)
	}
	if v := out.GrayAt(24, 20).Y; v != 200 {
		t.Errorf("content corner: got %d, want 200", v)
	}
	if v := out.GrayAt(25, 20).Y; v != 0 {
		t.Errorf("right border: got %d, want 0", v)
	}
}

func TestMedian(t *testing.T) {
	img := newGray(10, 30, 0)
	for y := 0; y < 30; y++ {
		v := uint8(10 * (y/10 + 1)) // rows of 10, 20, 30
		for x := 0; x < 10; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	if got := Median(img); got != 20 {
		t.Errorf("got %d, want 20", got)
	}

	// Exactly half the pixels at 0: the first bin must exceed N/2.
	half := createStepImage(10, 10, 5)
	if got := Median(half); got != 255 {
		t.Errorf("half/half: got %d, want 255", got)
	}
}

func TestHistogram(t *testing.T) {
	h := Histogram(createStepImage(10, 4, 3))
	if len(h) != 256 {
		t.Fatalf("bins: got %d, want 256", len(h))
	}
	if h[0] != 12 || h[255] != 28 {
		t.Errorf("counts: got %d black / %d white, want 12 / 28", h[0], h[255])
	}
}

func TestEqualize(t *testing.T) {
	img := newGray(10, 10, 100)
	for y := 5; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetGray(x, y, color.Gray{Y: 150})
		}
	}

	out := Equalize(img)
	if v := out.GrayAt(0, 0).Y; v != 0 {
		t.Errorf("dark half: got %d, want 0", v)
	}
	if v := out.GrayAt(0, 9).Y; v != 255 {
		t.Errorf("bright half: got %d, want 255", v)
	}
	if img.GrayAt(0, 0).Y != 100 {
		t.Error("Equalize must not modify its input")
	}

	flat := Equalize(newGray(4, 4, 60))
	if flat.GrayAt(1, 1).Y != 60 {
		t.Errorf("single-valued image: got %d, want 60", flat.GrayAt(1, 1).Y)
	}
}

func TestAdaptiveGaussian(t *testing.T) {
	img := newGray(40, 40, 200)
	for y := 18; y < 22; y++ {
		for x := 18; x < 22; x++ {
			img.SetGray(x, y, color.Gray{Y: 40})
		}
	}

	out := AdaptiveGaussian(img, 13, 4)
	if v := out.GrayAt(20, 20).Y; v != 0 {
		t.Errorf("dark mark: got %d, want 0", v)
	}
	if v := out.GrayAt(2, 2).Y; v != 255 {
		t.Errorf("flat background: got %d, want 255", v)
	}
}

func TestSauvola(t *testing.T) {
	img := newGray(40, 40, 220)
	for y := 10; y < 30; y++ {
		img.SetGray(20, y, color.Gray{Y: 10})
	}

	out := Sauvola(img, 0.3, 15)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("bounds: got %v, want %v", out.Bounds(), img.Bounds())
	}
	if v := out.GrayAt(20, 20).Y; v != 0 {
		t.Errorf("stroke: got %d, want 0", v)
	}
}

func TestSauvola_FlatIsWhite(t *testing.T) {
	out := Sauvola(newGray(12, 9, 90), 0.3, 5)
	for i, v := range out.Pix {
		if v != 255 {
			t.Fatalf("pixel %d: got %d, want 255", i, v)
		}
	}
}

func TestIntegralImages(t *testing.T) {
	img := newGray(3, 2, 0)
	copy(img.Pix, []uint8{1, 2, 3, 4, 5, 6})

	sum, sq := integralImages(img)
	if len(sum) != 12 {
		t.Fatalf("table size: got %d, want 12", len(sum))
	}
	if got := sum[len(sum)-1]; got != 21 {
		t.Errorf("total: got %v, want 21", got)
	}
	if got := sq[len(sq)-1]; got != 91 {
		t.Errorf("total of squares: got %v, want 91", got)
	}
	// Rows 0-1, columns 0-1: 1+2+4+5
	if got := sum[2*4+2]; got != 12 {
		t.Errorf("prefix sum: got %v, want 12", got)
	}
}

func TestErode(t *testing.T) {
	img := newGray(9, 9, 255)
	img.SetGray(4, 4, color.Gray{Y: 0})

	out := Erode(img, 1)
	for y := 3; y <= 5; y++ {
		for x := 3; x <= 5; x++ {
			if v := out.GrayAt(x, y).Y; v != 0 {
				t.Errorf("(%d,%d): got %d, want 0", x, y, v)
			}
		}
	}
	if v := out.GrayAt(1, 1).Y; v != 255 {
		t.Errorf("far pixel: got %d, want 255", v)
	}

	if same := Erode(img, 0); same.GrayAt(3, 3).Y != 255 {
		t.Error("radius 0 should copy the input")
	}
}

func TestBlend(t *testing.T) {
	bg := newGray(4, 4, 100)
	fg := newGray(4, 4, 200)

	out := Blend(bg, fg, 0.6)
	// 0.6*200 + 0.4*100 = 160, within one level of float truncation
	if v := int(out.GrayAt(1, 1).Y); v < 159 || v > 160 {
		t.Errorf("got %d, want 160", v)
	}
}

func TestPlaneConvolve_Signed(t *testing.T) {
	p := PlaneOf(createStepImage(6, 3, 3))
	lap := p.Convolve([][]float64{{0, 1, 0}, {1, -4, 1}, {0, 1, 0}})

	if got := lap.At(2, 1); got != 255 {
		t.Errorf("dark side of step: got %.1f, want 255", got)
	}
	if got := lap.At(3, 1); got != -255 {
		t.Errorf("bright side of step: got %.1f, want -255", got)
	}
	if got := lap.Gray().GrayAt(3, 1).Y; got != 0 {
		t.Errorf("Gray() should saturate negatives to 0, got %d", got)
	}
}

func TestPlaneSepConvolve_MatchesFull(t *testing.T) {
	img := newGray(7, 7, 0)
	img.SetGray(3, 3, color.Gray{Y: 255})
	p := PlaneOf(img)

	k := []float64{0.25, 0.5, 0.25}
	sep := p.SepConvolve(k, k)
	full := p.Convolve([][]float64{
		{0.0625, 0.125, 0.0625},
		{0.125, 0.25, 0.125},
		{0.0625, 0.125, 0.0625},
	})

	for i := range sep.Pix {
		if math.Abs(sep.Pix[i]-full.Pix[i]) > 1e-9 {
			t.Fatalf("pixel %d: separable %.4f, full %.4f", i, sep.Pix[i], full.Pix[i])
		}
	}
}
