// Package dft provides the fixed-size square complex patch used for
// frequency-domain shrinkage. A patch carries one complex buffer per
// channel; the buffer holds the space-domain signal before ToFreq and
// the frequency spectrum after it, until ToSpace switches it back.
package dft

import "gonum.org/v1/gonum/dsp/fourier"

// Patch is an S x S complex buffer per channel with an in-place
// forward/inverse 2D DFT. The space and frequency views share storage:
// after ToFreq the space view is meaningless until ToSpace, and vice
// versa.
type Patch struct {
	size     int
	channels int
	buf      [][]complex128
	fft      *fourier.CmplxFFT
	scratch  []complex128
}

// New creates a patch of the given square size and channel count.
func New(size, channels int) *Patch {
	buf := make([][]complex128, channels)
	for ch := range buf {
		buf[ch] = make([]complex128, size*size)
	}
	return &Patch{
		size:     size,
		channels: channels,
		buf:      buf,
		fft:      fourier.NewCmplxFFT(size),
		scratch:  make([]complex128, size),
	}
}

// Size returns the side length S.
func (p *Patch) Size() int { return p.size }

// Channels returns the channel count.
func (p *Patch) Channels() int { return p.channels }

// Space returns the space-domain sample at (col, row, ch).
func (p *Patch) Space(col, row, ch int) complex128 {
	return p.buf[ch][row*p.size+col]
}

// SetSpace stores a space-domain sample at (col, row, ch).
func (p *Patch) SetSpace(col, row, ch int, v complex128) {
	p.buf[ch][row*p.size+col] = v
}

// Freq returns the frequency bin at (col, row, ch).
func (p *Patch) Freq(col, row, ch int) complex128 {
	return p.buf[ch][row*p.size+col]
}

// SetFreq stores a frequency bin at (col, row, ch).
func (p *Patch) SetFreq(col, row, ch int, v complex128) {
	p.buf[ch][row*p.size+col] = v
}

// ScaleFreq multiplies the frequency bin at (col, row, ch) by k.
func (p *Patch) ScaleFreq(col, row, ch int, k float32) {
	p.buf[ch][row*p.size+col] *= complex(float64(k), 0)
}

// ToFreq performs the forward 2D DFT on every channel, one 1D pass over
// the rows followed by one over the columns.
func (p *Patch) ToFreq() {
	for ch := 0; ch < p.channels; ch++ {
		p.transformRows(p.buf[ch], p.fft.Coefficients)
		p.transformColumns(p.buf[ch], p.fft.Coefficients)
	}
}

// ToSpace performs the inverse 2D DFT on every channel and divides by
// S*S, so that ToFreq followed by ToSpace is the identity.
func (p *Patch) ToSpace() {
	norm := complex(float64(p.size)*float64(p.size), 0)
	for ch := 0; ch < p.channels; ch++ {
		p.transformRows(p.buf[ch], p.fft.Sequence)
		p.transformColumns(p.buf[ch], p.fft.Sequence)
		for i := range p.buf[ch] {
			p.buf[ch][i] /= norm
		}
	}
}

func (p *Patch) transformRows(buf []complex128, pass func(dst, src []complex128) []complex128) {
	for row := 0; row < p.size; row++ {
		line := buf[row*p.size : (row+1)*p.size]
		copy(p.scratch, line)
		pass(line, p.scratch)
	}
}

func (p *Patch) transformColumns(buf []complex128, pass func(dst, src []complex128) []complex128) {
	for col := 0; col < p.size; col++ {
		for row := 0; row < p.size; row++ {
			p.scratch[row] = buf[row*p.size+col]
		}
		pass(p.scratch, p.scratch)
		for row := 0; row < p.size; row++ {
			buf[row*p.size+col] = p.scratch[row]
		}
	}
}
