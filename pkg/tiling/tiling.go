// Package tiling splits an image into padded tiles for data-parallel
// processing and merges the partial results back together. Tiles are
// laid out on a near-square grid, padded with symmetric boundary
// reflection, and merged by per-pixel weight normalization.
package tiling

import (
	"github.com/chewxy/math32"

	"da3d/pkg/image"
	"da3d/pkg/mathutil"
)

// Grid describes the tile layout: Rows*Cols tiles, one per worker.
type Grid struct {
	Rows int
	Cols int
}

// Tile pairs a tile's partial output with its aggregation weights.
type Tile struct {
	Output  *image.Image
	Weights *image.Image
}

// Compute chooses a tile grid with Rows*Cols == tiles whose cells are
// as close to square as possible for an image of the given shape.
func Compute(rows, columns, tiles int) Grid {
	best := float32(rows) * float32(tiles) / float32(columns)
	rLow := int(math32.Sqrt(best))
	rUp := rLow + 1
	if rLow < 1 {
		return Grid{Rows: 1, Cols: tiles}
	}
	if rUp > tiles {
		return Grid{Rows: tiles, Cols: 1}
	}
	for tiles%rLow != 0 {
		rLow--
	}
	for tiles%rUp != 0 {
		rUp++
	}
	if rUp*rLow*columns > tiles*rows {
		return Grid{Rows: rLow, Cols: tiles / rLow}
	}
	return Grid{Rows: rUp, Cols: tiles / rUp}
}

// Split divides src into grid.Rows*grid.Cols tiles in row-major order.
// Cell boundaries are integer-proportional; each cell is expanded by
// padBefore on the top/left and padAfter on the bottom/right, with
// out-of-range coordinates folded symmetrically into the image.
func Split(src *image.Image, padBefore, padAfter int, grid Grid) []*image.Image {
	tiles := make([]*image.Image, 0, grid.Rows*grid.Cols)
	for tr := 0; tr < grid.Rows; tr++ {
		rstart := src.Rows()*tr/grid.Rows - padBefore
		rend := src.Rows()*(tr+1)/grid.Rows + padAfter
		for tc := 0; tc < grid.Cols; tc++ {
			cstart := src.Columns()*tc/grid.Cols - padBefore
			cend := src.Columns()*(tc+1)/grid.Cols + padAfter
			tile := image.New(rend-rstart, cend-cstart, src.Channels())
			for row := rstart; row < rend; row++ {
				srcRow := mathutil.SymmetricCoordinate(row, src.Rows())
				for col := cstart; col < cend; col++ {
					srcCol := mathutil.SymmetricCoordinate(col, src.Columns())
					for ch := 0; ch < src.Channels(); ch++ {
						tile.SetVal(col-cstart, row-rstart, ch, src.Val(srcCol, srcRow, ch))
					}
				}
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

// Merge recombines partial tile results into a full-size image of the
// given shape. Each tile's interior (clipped to the image bounds) is
// summed into an accumulator together with its weights; the final value
// at each pixel is the weighted sum divided by the total weight.
func Merge(tiles []Tile, rows, columns, padBefore, padAfter int, grid Grid) *image.Image {
	channels := tiles[0].Output.Channels()
	result := image.New(rows, columns, channels)
	weights := image.New(rows, columns, 1)

	i := 0
	for tr := 0; tr < grid.Rows; tr++ {
		rstart := rows*tr/grid.Rows - padBefore
		rend := rows*(tr+1)/grid.Rows + padAfter
		for tc := 0; tc < grid.Cols; tc++ {
			cstart := columns*tc/grid.Cols - padBefore
			cend := columns*(tc+1)/grid.Cols + padAfter
			tile := tiles[i]
			i++
			for row := max(0, rstart); row < min(rows, rend); row++ {
				for col := max(0, cstart); col < min(columns, cend); col++ {
					for ch := 0; ch < channels; ch++ {
						result.AddVal(col, row, ch, tile.Output.Val(col-cstart, row-rstart, ch))
					}
					weights.AddVal(col, row, 0, tile.Weights.Val(col-cstart, row-rstart, 0))
				}
			}
		}
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			w := weights.Val(col, row, 0)
			for ch := 0; ch < channels; ch++ {
				result.SetVal(col, row, ch, result.Val(col, row, ch)/w)
			}
		}
	}
	return result
}
