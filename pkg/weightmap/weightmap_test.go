package weightmap

import (
	"testing"

	"da3d/pkg/image"
)

func kernel(rows, cols int, v float32) *image.Image {
	k := image.New(rows, cols, 1)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			k.SetVal(col, row, 0, v)
		}
	}
	return k
}

func TestInitialMinimum(t *testing.T) {
	m := New(3, 4)

	if m.Minimum() != 0 {
		t.Errorf("Expected initial minimum 0, got %f", m.Minimum())
	}

	row, col := m.FindMinimum()
	if row != 0 || col != 0 {
		t.Errorf("Expected initial argmin (0, 0), got (%d, %d)", row, col)
	}
}

func TestIncreaseMovesMinimum(t *testing.T) {
	m := New(4, 4)

	// Cover the whole grid except the last column.
	m.IncreaseWeights(kernel(4, 3, 1), 0, 0)

	row, col := m.FindMinimum()
	if row != 0 || col != 3 {
		t.Errorf("Expected argmin (0, 3), got (%d, %d)", row, col)
	}
	if m.Minimum() != 0 {
		t.Errorf("Expected minimum 0, got %f", m.Minimum())
	}
}

// Ties must resolve to the first cell in row-major order.
func TestRowMajorTieBreak(t *testing.T) {
	m := New(3, 3)

	m.IncreaseWeights(kernel(1, 3, 1), 0, 0) // first row covered

	row, col := m.FindMinimum()
	if row != 1 || col != 0 {
		t.Errorf("Expected row-major tie break (1, 0), got (%d, %d)", row, col)
	}
}

// Updates clipped at the grid border must not panic and must only touch
// in-range cells.
func TestIncreaseWeightsClipping(t *testing.T) {
	m := New(3, 3)

	m.IncreaseWeights(kernel(3, 3, 2), -1, -1)

	// Cells (0..1, 0..1) received weight, the rest did not.
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			want := float32(0)
			if row < 2 && col < 2 {
				want = 2
			}
			if m.Val(row, col) != want {
				t.Errorf("Cell (%d, %d) = %f; want %f", row, col, m.Val(row, col), want)
			}
		}
	}
}

// The minimum never decreases over any sequence of updates.
func TestMonotoneMinimum(t *testing.T) {
	m := New(5, 5)
	last := m.Minimum()

	offsets := []struct{ row, col int }{{0, 0}, {2, 2}, {-1, 3}, {4, 4}, {1, 0}}
	for _, off := range offsets {
		m.IncreaseWeights(kernel(2, 2, 0.5), off.row, off.col)
		cur := m.Minimum()
		if cur < last {
			t.Fatalf("Minimum decreased from %f to %f", last, cur)
		}
		last = cur
	}
}

// Repeatedly processing the argmin drives the minimum to a threshold,
// mirroring the termination condition of the block loop.
func TestMinimumReachesThreshold(t *testing.T) {
	m := New(6, 6)
	k := kernel(3, 3, 1)

	iterations := 0
	for m.Minimum() < 1 {
		row, col := m.FindMinimum()
		m.IncreaseWeights(k, row-1, col-1)
		iterations++
		if iterations > 100 {
			t.Fatal("Minimum did not reach the threshold in 100 iterations")
		}
	}

	for row := 0; row < 6; row++ {
		for col := 0; col < 6; col++ {
			if m.Val(row, col) < 1 {
				t.Errorf("Cell (%d, %d) = %f below threshold after loop",
					row, col, m.Val(row, col))
			}
		}
	}
}
