// Package image provides the dense float32 image buffer used throughout
// the denoising pipeline. Pixels are stored row-major with interleaved
// channels, so the element at (col, row, ch) lives at linear index
// ((row*columns)+col)*channels + ch.
package image

// Image is a dense float32 buffer of shape (rows, columns, channels).
// The shape is fixed at construction; values are mutable.
type Image struct {
	rows     int
	columns  int
	channels int
	data     []float32
}

// New creates a zero-filled image with the given shape.
func New(rows, columns, channels int) *Image {
	return &Image{
		rows:     rows,
		columns:  columns,
		channels: channels,
		data:     make([]float32, rows*columns*channels),
	}
}

// FromData creates an image by copying the given interleaved data,
// which must hold rows*columns*channels elements.
func FromData(data []float32, rows, columns, channels int) *Image {
	img := New(rows, columns, channels)
	copy(img.data, data)
	return img
}

// Rows returns the number of rows.
func (im *Image) Rows() int { return im.rows }

// Columns returns the number of columns.
func (im *Image) Columns() int { return im.columns }

// Channels returns the number of channels.
func (im *Image) Channels() int { return im.channels }

// NumPixels returns rows*columns.
func (im *Image) NumPixels() int { return im.rows * im.columns }

// Val returns the element at (col, row, ch). Indices must be in range;
// the pipeline guarantees this by padding tiles before patch access.
func (im *Image) Val(col, row, ch int) float32 {
	return im.data[(row*im.columns+col)*im.channels+ch]
}

// SetVal stores v at (col, row, ch).
func (im *Image) SetVal(col, row, ch int, v float32) {
	im.data[(row*im.columns+col)*im.channels+ch] = v
}

// AddVal adds v to the element at (col, row, ch).
func (im *Image) AddVal(col, row, ch int, v float32) {
	im.data[(row*im.columns+col)*im.channels+ch] += v
}

// Data returns the raw linear buffer. It aliases the image storage and
// is intended for bulk copies.
func (im *Image) Data() []float32 { return im.data }

// Copy returns a deep copy of the image.
func (im *Image) Copy() *Image {
	return FromData(im.data, im.rows, im.columns, im.channels)
}
