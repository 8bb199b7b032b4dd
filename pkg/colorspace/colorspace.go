// Package colorspace implements the orthonormal color transform applied
// before denoising. The transform concentrates luminance energy in the
// first channel while preserving Euclidean distances between pixels, so
// range kernels computed in the transformed space are unchanged.
package colorspace

import (
	"github.com/chewxy/math32"

	"da3d/pkg/image"
)

var (
	sqrt2 = math32.Sqrt(2)
	sqrt3 = math32.Sqrt(3)
	sqrt6 = math32.Sqrt(6)
)

// Transform converts an RGB image to the decorrelated YUV-like space in
// place. Single-channel images pass through untouched.
func Transform(img *image.Image) {
	if img.Channels() != 3 {
		return
	}
	for row := 0; row < img.Rows(); row++ {
		for col := 0; col < img.Columns(); col++ {
			r := img.Val(col, row, 0)
			g := img.Val(col, row, 1)
			b := img.Val(col, row, 2)
			img.SetVal(col, row, 0, (r+g+b)/sqrt3)
			img.SetVal(col, row, 1, (r-b)/sqrt2)
			img.SetVal(col, row, 2, (r-2*g+b)/sqrt6)
		}
	}
}

// TransformInverse applies the transpose of the forward matrix in
// place, recovering RGB. Single-channel images pass through untouched.
func TransformInverse(img *image.Image) {
	if img.Channels() != 3 {
		return
	}
	for row := 0; row < img.Rows(); row++ {
		for col := 0; col < img.Columns(); col++ {
			y := img.Val(col, row, 0)
			u := img.Val(col, row, 1)
			v := img.Val(col, row, 2)
			img.SetVal(col, row, 0, (sqrt2*y+sqrt3*u+v)/sqrt6)
			img.SetVal(col, row, 1, (y-sqrt2*v)/sqrt3)
			img.SetVal(col, row, 2, (sqrt2*y-sqrt3*u+v)/sqrt6)
		}
	}
}
