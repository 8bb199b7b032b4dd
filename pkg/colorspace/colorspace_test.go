package colorspace

import (
	"math"
	"testing"

	"da3d/pkg/image"
)

func testImage(rows, cols int) *image.Image {
	img := image.New(rows, cols, 3)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			for ch := 0; ch < 3; ch++ {
				img.SetVal(col, row, ch, float32(math.Sin(float64(5*row+3*col+ch)))*100+120)
			}
		}
	}
	return img
}

// Forward followed by inverse must be the identity.
func TestRoundTrip(t *testing.T) {
	img := testImage(8, 9)
	orig := img.Copy()

	Transform(img)
	TransformInverse(img)

	for row := 0; row < img.Rows(); row++ {
		for col := 0; col < img.Columns(); col++ {
			for ch := 0; ch < 3; ch++ {
				diff := math.Abs(float64(img.Val(col, row, ch) - orig.Val(col, row, ch)))
				if diff > 1e-4 {
					t.Fatalf("Round trip at (%d,%d,%d): diff %g", col, row, ch, diff)
				}
			}
		}
	}
}

// The transform is orthonormal, so distances between pixel vectors must
// be preserved.
func TestDistanceInvariance(t *testing.T) {
	img := testImage(4, 4)

	dist := func(im *image.Image, c1, r1, c2, r2 int) float64 {
		sum := 0.0
		for ch := 0; ch < 3; ch++ {
			d := float64(im.Val(c1, r1, ch) - im.Val(c2, r2, ch))
			sum += d * d
		}
		return sum
	}

	before := dist(img, 0, 0, 3, 2)
	Transform(img)
	after := dist(img, 0, 0, 3, 2)

	if math.Abs(before-after) > before*1e-5+1e-6 {
		t.Errorf("Distance changed: %f before, %f after", before, after)
	}
}

// Gray value (v, v, v) must map to luminance sqrt(3)*v with zero chroma.
func TestGrayAxis(t *testing.T) {
	img := image.New(1, 1, 3)
	for ch := 0; ch < 3; ch++ {
		img.SetVal(0, 0, ch, 10)
	}

	Transform(img)

	if math.Abs(float64(img.Val(0, 0, 0))-10*math.Sqrt(3)) > 1e-4 {
		t.Errorf("Luminance = %f; want %f", img.Val(0, 0, 0), 10*math.Sqrt(3))
	}
	if math.Abs(float64(img.Val(0, 0, 1))) > 1e-5 || math.Abs(float64(img.Val(0, 0, 2))) > 1e-5 {
		t.Errorf("Chroma channels (%f, %f) not zero", img.Val(0, 0, 1), img.Val(0, 0, 2))
	}
}

// Single-channel images bypass the transform entirely.
func TestGrayscaleBypass(t *testing.T) {
	img := image.New(2, 2, 1)
	img.SetVal(1, 1, 0, 42)

	Transform(img)
	if img.Val(1, 1, 0) != 42 {
		t.Errorf("Grayscale image modified by Transform")
	}

	TransformInverse(img)
	if img.Val(1, 1, 0) != 42 {
		t.Errorf("Grayscale image modified by TransformInverse")
	}
}
