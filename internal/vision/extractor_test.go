package vision

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestResizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	dst := resizeImage(src, 112, 112)

	b := dst.Bounds()
	if b.Dx() != 112 || b.Dy() != 112 {
		t.Fatalf("resized to %dx%d, want 112x112", b.Dx(), b.Dy())
	}
}

func TestImageToFloat32CHW(t *testing.T) {
	// a uniform gray image maps to ~0 after detection normalization
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	gray := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, gray)
		}
	}

	data := preprocessForDetection(src, 8, 8)
	if len(data) != 3*8*8 {
		t.Fatalf("got %d values, want %d", len(data), 3*8*8)
	}
	for i, v := range data {
		if math.Abs(float64(v)) > 0.01 {
			t.Fatalf("data[%d] = %v, want ~0 for mid-gray input", i, v)
		}
	}
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	normalize(v)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Fatalf("norm^2 = %v after normalize, want 1", sum)
	}

	// zero vector stays untouched instead of dividing by zero
	z := []float32{0, 0, 0}
	normalize(z)
	for _, x := range z {
		if x != 0 {
			t.Fatalf("zero vector changed: %v", z)
		}
	}
}

func TestIOU(t *testing.T) {
	a := [4]float32{0, 0, 10, 10}
	if got := iou(a, a); math.Abs(float64(got)-1) > 1e-6 {
		t.Errorf("iou of identical boxes = %v, want 1", got)
	}

	b := [4]float32{20, 20, 30, 30}
	if got := iou(a, b); got != 0 {
		t.Errorf("iou of disjoint boxes = %v, want 0", got)
	}

	c := [4]float32{5, 0, 15, 10}
	got := iou(a, c)
	want := float32(50.0 / 150.0)
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("iou of half-overlapping boxes = %v, want %v", got, want)
	}
}

func TestNMSSuppressesOverlaps(t *testing.T) {
	dets := []Detection{
		{BBox: [4]float32{0, 0, 10, 10}, Confidence: 0.9},
		{BBox: [4]float32{1, 1, 11, 11}, Confidence: 0.8},
		{BBox: [4]float32{50, 50, 60, 60}, Confidence: 0.7},
	}

	kept := nms(dets, 0.4)
	if len(kept) != 2 {
		t.Fatalf("kept %d detections, want 2", len(kept))
	}
	if kept[0].Confidence != 0.9 {
		t.Errorf("highest-confidence detection not kept first: %+v", kept[0])
	}
}
