package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/CrateFill/internal/model"
)

// ErrOverlap is returned by Grid.Commit when a shape would share a cell
// with an earlier placement.
var ErrOverlap = errors.New("placement overlaps occupied cell")

// Grid is the voxel occupancy of a container, indexed [x][y][z] on
// (width, depth, height). Each cell holds the number of placements covering
// it, which is never more than one after a successful Commit.
type Grid struct {
	dims  [3]int
	cells []uint8
}

// NewGrid sizes a grid to the container with floor(length / gridSize) cells
// per axis.
func NewGrid(c model.Container, gridSize int) *Grid {
	return NewGridCells(c.Cells(gridSize))
}

// NewGridCells builds an empty grid with explicit cell counts.
func NewGridCells(dims [3]int) *Grid {
	for i := range dims {
		dims[i] = max(dims[i], 0)
	}
	return &Grid{dims: dims, cells: make([]uint8, dims[0]*dims[1]*dims[2])}
}

// Dims returns the cell counts along width, depth and height.
func (g *Grid) Dims() [3]int {
	return g.dims
}

func (g *Grid) index(x, y, z int) int {
	return (x*g.dims[1]+y)*g.dims[2] + z
}

func (g *Grid) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.dims[0] && y < g.dims[1] && z < g.dims[2]
}

// At returns the cover count of a cell; out of range cells read as empty.
func (g *Grid) At(x, y, z int) int {
	if !g.inBounds(x, y, z) {
		return 0
	}
	return int(g.cells[g.index(x, y, z)])
}

// Occupied reports whether a cell is covered.
func (g *Grid) Occupied(x, y, z int) bool {
	return g.At(x, y, z) > 0
}

// Fits reports whether the mask lies inside the grid at pos without
// touching an occupied cell.
func (g *Grid) Fits(pos [3]int, m *model.VoxelMask) bool {
	d := m.Dims()
	for a := 0; a < 3; a++ {
		if pos[a] < 0 || pos[a]+d[a] > g.dims[a] {
			return false
		}
	}
	for x := 0; x < d[0]; x++ {
		for y := 0; y < d[1]; y++ {
			for z := 0; z < d[2]; z++ {
				if m.At(x, y, z) && g.Occupied(pos[0]+x, pos[1]+y, pos[2]+z) {
					return false
				}
			}
		}
	}
	return true
}

// SupportFraction returns the share of the mask's bottom layer resting on
// occupied cells of layer z-1. On the floor it is 1; a mask with an empty
// bottom layer above the floor has no support.
func (g *Grid) SupportFraction(pos [3]int, m *model.VoxelMask) float64 {
	if pos[2] == 0 {
		return 1
	}
	base := m.BottomCount()
	if base == 0 {
		return 0
	}
	return float64(g.supportedBase(pos, m)) / float64(base)
}

// Supported applies the support threshold to SupportFraction.
func (g *Grid) Supported(pos [3]int, m *model.VoxelMask, threshold float64) bool {
	if pos[2] == 0 {
		return true
	}
	return g.SupportFraction(pos, m) >= threshold
}

func (g *Grid) supportedBase(pos [3]int, m *model.VoxelMask) int {
	d := m.Dims()
	n := 0
	for x := 0; x < d[0]; x++ {
		for y := 0; y < d[1]; y++ {
			if m.At(x, y, 0) && g.Occupied(pos[0]+x, pos[1]+y, pos[2]-1) {
				n++
			}
		}
	}
	return n
}

// Commit adds the mask at pos. The grid is left unchanged when any voxel
// falls outside it or onto an occupied cell.
func (g *Grid) Commit(pos [3]int, m *model.VoxelMask) error {
	d := m.Dims()
	for a := 0; a < 3; a++ {
		if pos[a] < 0 || pos[a]+d[a] > g.dims[a] {
			return fmt.Errorf("shape %v at %v exceeds grid %v", d, pos, g.dims)
		}
	}
	if !g.Fits(pos, m) {
		return fmt.Errorf("commit at %v: %w", pos, ErrOverlap)
	}
	for x := 0; x < d[0]; x++ {
		for y := 0; y < d[1]; y++ {
			for z := 0; z < d[2]; z++ {
				if m.At(x, y, z) {
					g.cells[g.index(pos[0]+x, pos[1]+y, pos[2]+z)]++
				}
			}
		}
	}
	return nil
}

// OccupiedCount returns the number of covered cells.
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, c := range g.cells {
		if c > 0 {
			n++
		}
	}
	return n
}

// LayerCount returns the number of covered cells in height layer z.
func (g *Grid) LayerCount(z int) int {
	if z < 0 || z >= g.dims[2] {
		return 0
	}
	n := 0
	for x := 0; x < g.dims[0]; x++ {
		for y := 0; y < g.dims[1]; y++ {
			if g.Occupied(x, y, z) {
				n++
			}
		}
	}
	return n
}

// LayerFill returns the covered fraction of each height layer.
func (g *Grid) LayerFill() []float64 {
	fill := make([]float64, g.dims[2])
	area := g.dims[0] * g.dims[1]
	if area == 0 {
		return fill
	}
	for z := range fill {
		fill[z] = float64(g.LayerCount(z)) / float64(area)
	}
	return fill
}

// Reset clears every cell.
func (g *Grid) Reset() {
	clear(g.cells)
}
