package denoise

import (
	"da3d/pkg/dft"
	"da3d/pkg/image"
	"da3d/pkg/mathutil"
	"da3d/pkg/tiling"
	"da3d/pkg/weightmap"
)

// denoiseBlock runs the patch pipeline over a single padded tile until
// every anchor position has accumulated at least the threshold weight.
// It returns the tile's partial output and aggregation weights, plus
// the number of patches processed.
//
// Each iteration anchors a patch at the least-covered position, fits
// and removes a local plane, attenuates frequency components of the
// masked noisy patch according to the guide spectrum, restores the
// plane and aggregates the result weighted by the bilateral mask.
func denoiseBlock(noisy, guide *image.Image, p Params) (tiling.Tile, int) {
	s := mathutil.NextPowerOf2(2*p.Radius + 1)
	r := p.Radius
	sigma2 := p.Sigma * p.Sigma
	gammaRSigma2 := p.GammaR * sigma2
	sigmaS2 := p.SigmaS * p.SigmaS

	// widened scales for the regression mask
	gammaRRSigma2 := gammaRSigma2 * 10
	sigmaSR2 := sigmaS2 * 2

	channels := guide.Channels()
	y := image.New(s, s, channels)
	g := image.New(s, s, channels)
	kReg := image.New(s, s, 1)
	k := image.New(s, s, 1)
	ym := dft.New(s, channels)
	gm := dft.New(s, channels)
	var plane regPlane
	yt := make([]float32, channels)
	agg := weightmap.New(guide.Rows()-s+1, guide.Columns()-s+1)

	output := image.New(guide.Rows(), guide.Columns(), channels)
	weights := image.New(guide.Rows(), guide.Columns(), 1)

	iterations := 0
	for agg.Minimum() < p.Threshold {
		iterations++
		pr, pc := agg.FindMinimum()

		extractPatch(noisy, pr, pc, y)
		extractPatch(guide, pr, pc, g)

		bilateralWeight(g, kReg, r, gammaRRSigma2, sigmaSR2)
		computeRegressionPlane(y, g, kReg, r, &plane)
		subtractPlane(r, &plane, y)
		subtractPlane(r, &plane, g)

		bilateralWeight(g, k, r, gammaRSigma2, sigmaS2)
		modifyPatch(y, k, ym, yt)
		modifyPatch(g, k, gm, nil)
		ym.ToFreq()
		gm.ToFreq()

		var sigmaF2 float32
		for row := 0; row < s; row++ {
			for col := 0; col < s; col++ {
				kv := k.Val(col, row, 0)
				sigmaF2 += kv * kv
			}
		}
		sigmaF2 *= sigma2

		// Attenuate every bin except DC, which is kept unchanged so the
		// mean level of the masked patch survives the shrinkage.
		for row := 0; row < s; row++ {
			for col := 0; col < s; col++ {
				if row == 0 && col == 0 {
					continue
				}
				for ch := 0; ch < channels; ch++ {
					gf := gm.Freq(col, row, ch)
					g2 := float32(real(gf)*real(gf) + imag(gf)*imag(gf))
					ym.ScaleFreq(col, row, ch, mathutil.FastExp(-p.GammaF*sigmaF2/g2))
				}
			}
		}
		ym.ToSpace()

		for row := 0; row < s; row++ {
			for col := 0; col < s; col++ {
				kv := k.Val(col, row, 0)
				for ch := 0; ch < channels; ch++ {
					trend := plane[ch][0]*float32(row-r) + plane[ch][1]*float32(col-r)
					output.AddVal(col+pc, row+pr, ch,
						(float32(real(ym.Space(col, row, ch)))+trend*kv-(1-kv)*yt[ch])*kv)
				}
				kv *= kv
				k.SetVal(col, row, 0, kv)
				weights.AddVal(col+pc, row+pr, 0, kv)
			}
		}
		agg.IncreaseWeights(k, pr-r, pc-r)
	}

	return tiling.Tile{Output: output, Weights: weights}, iterations
}
