// Package weightmap tracks the aggregation weight accumulated at every
// valid patch anchor position. The next patch is always anchored at the
// least-covered position, so the map needs a cheap minimum query and
// additive rectangular updates.
package weightmap

import "da3d/pkg/image"

// Map is a 2D grid of non-negative floats over the valid patch anchor
// positions of a tile. Values only ever grow. The minimum is cached and
// recomputed lazily: an update that touches the cached argmin marks the
// cache stale, and the next query rescans the grid.
type Map struct {
	rows    int
	columns int
	data    []float32

	minRow int
	minCol int
	minVal float32
	stale  bool
}

// New creates a zero-filled weight map of the given shape. The initial
// minimum is zero at (0, 0).
func New(rows, columns int) *Map {
	return &Map{
		rows:    rows,
		columns: columns,
		data:    make([]float32, rows*columns),
	}
}

// Rows returns the number of anchor rows.
func (m *Map) Rows() int { return m.rows }

// Columns returns the number of anchor columns.
func (m *Map) Columns() int { return m.columns }

// Val returns the weight at anchor (row, col).
func (m *Map) Val(row, col int) float32 {
	return m.data[row*m.columns+col]
}

// Minimum returns the current minimum weight, rescanning first if the
// cached value is stale.
func (m *Map) Minimum() float32 {
	m.refresh()
	return m.minVal
}

// FindMinimum returns the anchor coordinate of the current minimum.
// Ties are broken by row-major scan order.
func (m *Map) FindMinimum() (row, col int) {
	m.refresh()
	return m.minRow, m.minCol
}

// IncreaseWeights adds the kernel k to the grid with the kernel's
// (0, 0) element landing on anchor (row0, col0). Kernel cells falling
// outside the grid are ignored. Touching the cached argmin invalidates
// the cache; updates elsewhere cannot lower the minimum because weights
// only increase.
func (m *Map) IncreaseWeights(k *image.Image, row0, col0 int) {
	for dr := 0; dr < k.Rows(); dr++ {
		row := row0 + dr
		if row < 0 || row >= m.rows {
			continue
		}
		for dc := 0; dc < k.Columns(); dc++ {
			col := col0 + dc
			if col < 0 || col >= m.columns {
				continue
			}
			m.data[row*m.columns+col] += k.Val(dc, dr, 0)
			if row == m.minRow && col == m.minCol {
				m.stale = true
			}
		}
	}
}

func (m *Map) refresh() {
	if !m.stale {
		return
	}
	m.minVal = m.data[0]
	m.minRow = 0
	m.minCol = 0
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.columns; col++ {
			if v := m.data[row*m.columns+col]; v < m.minVal {
				m.minVal = v
				m.minRow = row
				m.minCol = col
			}
		}
	}
	m.stale = false
}
