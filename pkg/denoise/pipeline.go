package denoise

import (
	"gonum.org/v1/gonum/mat"

	"da3d/pkg/dft"
	"da3d/pkg/image"
	"da3d/pkg/mathutil"
)

// maxChannels bounds the per-channel state kept across pipeline stages.
const maxChannels = 3

// regPlane holds per-channel slope coefficients of the fitted plane.
// Entry [ch][0] is the slope along rows, [ch][1] along columns; the
// plane value at offset (dr, dc) from the patch center is
// [ch][0]*dr + [ch][1]*dc.
type regPlane [maxChannels][2]float32

// extractPatch copies the window of src anchored at (pr, pc) with the
// shape of dst into dst. src is padded, so the window is always fully
// inside; rows are contiguous runs and are copied in bulk.
func extractPatch(src *image.Image, pr, pc int, dst *image.Image) {
	width := dst.Columns() * dst.Channels()
	for row := 0; row < dst.Rows(); row++ {
		srcOff := ((pr+row)*src.Columns() + pc) * src.Channels()
		dstOff := row * width
		copy(dst.Data()[dstOff:dstOff+width], src.Data()[srcOff:srcOff+width])
	}
}

// bilateralWeight fills k with the bilateral mask of g around the patch
// center (r, r): the product of a range Gaussian on the color distance
// to the center pixel and a spatial Gaussian on the offset.
func bilateralWeight(g, k *image.Image, r int, gammaRSigma2, sigmaS2 float32) {
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			var x float32
			for ch := 0; ch < g.Channels(); ch++ {
				d := g.Val(col, row, ch) - g.Val(r, r, ch)
				x += d * d
			}
			x /= gammaRSigma2
			x += float32((row-r)*(row-r)+(col-r)*(col-r)) / (2 * sigmaS2)
			k.SetVal(col, row, 0, mathutil.FastExp(-x))
		}
	}
}

// computeRegressionPlane fits, per channel, the weighted least-squares
// plane through y relative to the central guide value. The normal
// equations form a single 2x2 system
//
//	|a  b| |slopeRow|   |d|
//	|    | |        | = | |
//	|b  c| |slopeCol|   |e|
//
// shared by all channels; only the right-hand side is per-channel. A
// singular system (all mask weight collapsed onto a line) yields the
// zero plane.
func computeRegressionPlane(y, g, k *image.Image, r int, plane *regPlane) {
	var a, b, c float64
	for row := 0; row < y.Rows(); row++ {
		for col := 0; col < y.Columns(); col++ {
			w := float64(k.Val(col, row, 0))
			a += float64((row-r)*(row-r)) * w
			b += float64((row-r)*(col-r)) * w
			c += float64((col-r)*(col-r)) * w
		}
	}

	if a*c-b*b == 0 {
		for ch := 0; ch < y.Channels(); ch++ {
			plane[ch][0] = 0
			plane[ch][1] = 0
		}
		return
	}

	lhs := mat.NewDense(2, 2, []float64{a, b, b, c})
	var sol mat.VecDense
	for ch := 0; ch < y.Channels(); ch++ {
		var d, e float64
		central := float64(g.Val(r, r, ch))
		for row := 0; row < y.Rows(); row++ {
			for col := 0; col < y.Columns(); col++ {
				w := float64(k.Val(col, row, 0))
				diff := float64(y.Val(col, row, ch)) - central
				d += float64(row-r) * diff * w
				e += float64(col-r) * diff * w
			}
		}
		if err := sol.SolveVec(lhs, mat.NewVecDense(2, []float64{d, e})); err != nil {
			plane[ch][0] = 0
			plane[ch][1] = 0
			continue
		}
		plane[ch][0] = float32(sol.AtVec(0))
		plane[ch][1] = float32(sol.AtVec(1))
	}
}

// subtractPlane removes the fitted plane from img in place.
func subtractPlane(r int, plane *regPlane, img *image.Image) {
	for row := 0; row < img.Rows(); row++ {
		for col := 0; col < img.Columns(); col++ {
			for ch := 0; ch < img.Channels(); ch++ {
				img.AddVal(col, row, ch,
					-(plane[ch][0]*float32(row-r) + plane[ch][1]*float32(col-r)))
			}
		}
	}
}

// modifyPatch fills the space domain of dst with the masked patch:
// the patch value where the mask is full, blending toward the
// mask-weighted channel average where it is not. This keeps the border
// of the patch smooth so the subsequent DFT sees no mask discontinuity.
// If average is non-nil it receives the per-channel weighted averages.
func modifyPatch(patch, k *image.Image, dst *dft.Patch, average []float32) {
	var weight float32
	for row := 0; row < k.Rows(); row++ {
		for col := 0; col < k.Columns(); col++ {
			weight += k.Val(col, row, 0)
		}
	}

	for ch := 0; ch < patch.Channels(); ch++ {
		var avg float32
		for row := 0; row < patch.Rows(); row++ {
			for col := 0; col < patch.Columns(); col++ {
				avg += k.Val(col, row, 0) * patch.Val(col, row, ch)
			}
		}
		avg /= weight
		for row := 0; row < patch.Rows(); row++ {
			for col := 0; col < patch.Columns(); col++ {
				kv := k.Val(col, row, 0)
				dst.SetSpace(col, row, ch,
					complex(float64(kv*patch.Val(col, row, ch)+(1-kv)*avg), 0))
			}
		}
		if average != nil {
			average[ch] = avg
		}
	}
}
