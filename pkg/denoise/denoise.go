// Package denoise implements the DA3D second-step denoising algorithm
// from "DA3D: Fast and Data Adaptive Dual Domain Denoising" by
// Pierazzo, Morel and Facciolo.
//
// Given a noisy image and a coarsely pre-denoised guide of the same
// shape, the algorithm refines the estimate by processing overlapping
// square patches chosen adaptively: an aggregation weight map steers
// each new patch toward the least-covered position, and every patch
// goes through a bilateral mask, a weighted planar regression and a
// frequency-domain shrinkage guided by the guide spectrum.
//
// The image is split into padded tiles processed in parallel, one
// worker per tile, and the partial results are merged by per-pixel
// weight normalization.
package denoise

import (
	"runtime"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"da3d/pkg/colorspace"
	"da3d/pkg/image"
	"da3d/pkg/mathutil"
	"da3d/pkg/tiling"
)

// Params holds the denoising parameters. Zero values for the tuning
// fields select the defaults documented on each field.
type Params struct {
	// Sigma is the standard deviation of the noise in the noisy image.
	// It must be positive.
	Sigma float32

	// Threads is the number of tiles processed in parallel.
	// 0 selects the number of available CPUs.
	Threads int

	// Radius is the patch radius; the processing patch is the next
	// power of two >= 2*Radius+1 on each side. 0 selects 8.
	Radius int

	// SigmaS is the spatial scale of the bilateral kernels.
	// 0 selects 4.
	SigmaS float32

	// GammaR scales the range term of the bilateral kernels.
	// 0 selects 0.4 per channel.
	GammaR float32

	// GammaF scales the frequency shrinkage.
	// 0 selects 0.4 per channel.
	GammaF float32

	// Threshold is the aggregation weight every pixel must reach
	// before a tile is finished. 0 selects 1.
	Threshold float32
}

// DefaultParams returns the recommended parameters for a given noise
// level, leaving the per-channel defaults to be resolved at run time.
func DefaultParams(sigma float32) Params {
	return Params{Sigma: sigma}
}

// resolve fills in defaults for zero-valued tuning fields. GammaR and
// GammaF grow with the channel count because the range and shrinkage
// terms sum squared differences over channels.
func (p Params) resolve(channels int) Params {
	if p.Threads <= 0 {
		p.Threads = runtime.NumCPU()
	}
	if p.Radius == 0 {
		p.Radius = 8
	}
	if p.SigmaS == 0 {
		p.SigmaS = 4
	}
	if p.GammaR == 0 {
		p.GammaR = 0.4 * float32(channels)
	}
	if p.GammaF == 0 {
		p.GammaF = 0.4 * float32(channels)
	}
	if p.Threshold == 0 {
		p.Threshold = 1
	}
	return p
}

// validate reports precondition violations on the inputs.
func validate(noisy, guide *image.Image, p Params) error {
	if noisy == nil || guide == nil {
		return errors.New("denoise: noisy and guide images are required")
	}
	if noisy.Rows() != guide.Rows() || noisy.Columns() != guide.Columns() ||
		noisy.Channels() != guide.Channels() {
		return errors.Errorf("denoise: shape mismatch: noisy (%d, %d, %d) vs guide (%d, %d, %d)",
			noisy.Rows(), noisy.Columns(), noisy.Channels(),
			guide.Rows(), guide.Columns(), guide.Channels())
	}
	if guide.Channels() != 1 && guide.Channels() != 3 {
		return errors.Errorf("denoise: unsupported channel count %d", guide.Channels())
	}
	if !(p.Sigma > 0) {
		return errors.Errorf("denoise: sigma must be positive, got %f", p.Sigma)
	}
	if p.Radius < 0 {
		return errors.Errorf("denoise: radius must not be negative, got %d", p.Radius)
	}
	if p.Threshold < 0 {
		return errors.Errorf("denoise: threshold must not be negative, got %f", p.Threshold)
	}
	return nil
}

// Denoise refines the noisy image using the pre-denoised guide and
// returns a new image of the same shape. The inputs are not modified.
func Denoise(noisy, guide *image.Image, p Params) (*image.Image, error) {
	if err := validate(noisy, guide, p); err != nil {
		return nil, err
	}
	p = p.resolve(guide.Channels())

	// A tile must contain at least one interior row and column.
	if p.Threads > guide.Rows() {
		p.Threads = guide.Rows()
	}
	if p.Threads > guide.Columns() {
		p.Threads = guide.Columns()
	}

	s := mathutil.NextPowerOf2(2*p.Radius + 1)
	padBefore := p.Radius
	padAfter := s - p.Radius - 1

	grid := tiling.Compute(guide.Rows(), guide.Columns(), p.Threads)
	log.Debugf("denoising %dx%dx%d image with %dx%d tiles, patch size %d",
		guide.Rows(), guide.Columns(), guide.Channels(), grid.Rows, grid.Cols, s)

	noisyT := noisy.Copy()
	guideT := guide.Copy()
	colorspace.Transform(noisyT)
	colorspace.Transform(guideT)

	noisyTiles := tiling.Split(noisyT, padBefore, padAfter, grid)
	guideTiles := tiling.Split(guideT, padBefore, padAfter, grid)

	type blockResult struct {
		index      int
		tile       tiling.Tile
		iterations int
	}
	resultChan := make(chan blockResult)
	for i := range noisyTiles {
		go func(index int) {
			tile, iterations := denoiseBlock(noisyTiles[index], guideTiles[index], p)
			resultChan <- blockResult{index: index, tile: tile, iterations: iterations}
		}(i)
	}

	results := make([]tiling.Tile, len(noisyTiles))
	for range noisyTiles {
		res := <-resultChan
		results[res.index] = res.tile
		log.Debugf("tile %d finished after %d patches", res.index, res.iterations)
	}

	merged := tiling.Merge(results, guide.Rows(), guide.Columns(), padBefore, padAfter, grid)
	colorspace.TransformInverse(merged)
	return merged, nil
}
