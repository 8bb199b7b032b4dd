// Package metrics computes image quality metrics between a denoised
// result and a reference image. The metrics are the usual ones reported
// for denoising benchmarks: RMSE, PSNR and a global SSIM.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"da3d/pkg/image"
)

// Report holds the quality metrics of a result against a reference.
type Report struct {
	// RMSE is the root mean square error over all elements.
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB for the given
	// dynamic range. Higher is better; +Inf for identical images.
	PSNR float64

	// SSIM is the global structural similarity index in [-1, 1],
	// computed on means, variances and covariance of the whole image.
	SSIM float64
}

// Compare computes the metrics of result against reference. maxValue is
// the dynamic range of the data (255 for 8-bit images, 1 for unit-range
// data).
func Compare(result, reference *image.Image, maxValue float64) (Report, error) {
	if result.Rows() != reference.Rows() || result.Columns() != reference.Columns() ||
		result.Channels() != reference.Channels() {
		return Report{}, fmt.Errorf("metrics: shape mismatch: (%d, %d, %d) vs (%d, %d, %d)",
			result.Rows(), result.Columns(), result.Channels(),
			reference.Rows(), reference.Columns(), reference.Channels())
	}

	a := toFloat64(result)
	b := toFloat64(reference)

	rmse := calculateRMSE(a, b)
	return Report{
		RMSE: rmse,
		PSNR: calculatePSNR(rmse, maxValue),
		SSIM: calculateSSIM(a, b, maxValue),
	}, nil
}

func toFloat64(img *image.Image) []float64 {
	data := img.Data()
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

// calculateRMSE computes the root mean square error
func calculateRMSE(a, b []float64) float64 {
	mse := 0.0
	for i := range a {
		diff := a[i] - b[i]
		mse += diff * diff
	}
	mse /= float64(len(a))
	return math.Sqrt(mse)
}

// calculatePSNR converts an RMSE to decibels relative to the peak value
func calculatePSNR(rmse, maxValue float64) float64 {
	if rmse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(maxValue/rmse)
}

// calculateSSIM computes a single Structural Similarity Index over the
// whole image using Gonum for the moments
func calculateSSIM(a, b []float64, maxValue float64) float64 {
	const k1 = 0.01
	const k2 = 0.03

	c1 := (k1 * maxValue) * (k1 * maxValue)
	c2 := (k2 * maxValue) * (k2 * maxValue)

	muX := stat.Mean(a, nil)
	muY := stat.Mean(b, nil)
	sigmaX := stat.Variance(a, nil)
	sigmaY := stat.Variance(b, nil)
	sigmaXY := stat.Covariance(a, b, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)

	if den > 0 {
		return num / den
	}
	return 0
}
