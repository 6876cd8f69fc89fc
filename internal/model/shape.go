package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Axis identifies a rotation axis of a voxel mask.
type Axis int

const (
	AxisX Axis = iota // Rotates in the depth/height plane
	AxisY             // Rotates in the width/height plane
	AxisZ             // Rotates in the width/depth plane
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// plane returns the pair of mask axes swapped by a quarter turn about a.
func (a Axis) plane() (int, int) {
	switch a {
	case AxisX:
		return 1, 2
	case AxisY:
		return 0, 2
	default:
		return 0, 1
	}
}

// VoxelMask is a 3D occupancy mask indexed [x][y][z], where x runs along
// the container width, y along the depth and z along the height. Each cell
// is one grid unit on a side.
type VoxelMask struct {
	dims  [3]int
	cells []bool
}

// NewVoxelMask returns an empty mask with the given cell counts.
// Negative counts are treated as zero.
func NewVoxelMask(x, y, z int) *VoxelMask {
	x, y, z = max(x, 0), max(y, 0), max(z, 0)
	return &VoxelMask{
		dims:  [3]int{x, y, z},
		cells: make([]bool, x*y*z),
	}
}

// SolidMask returns a fully occupied block.
func SolidMask(x, y, z int) *VoxelMask {
	m := NewVoxelMask(x, y, z)
	for i := range m.cells {
		m.cells[i] = true
	}
	return m
}

// MaskFromNested builds a mask from nested [x][y][z] values; any non-zero
// value is occupied. Ragged input is rejected with ErrInvalidShape.
func MaskFromNested(data [][][]int) (*VoxelMask, error) {
	nx := len(data)
	if nx == 0 {
		return nil, fmt.Errorf("%w: mask has no cells", ErrInvalidShape)
	}
	ny := len(data[0])
	if ny == 0 {
		return nil, fmt.Errorf("%w: mask has no cells", ErrInvalidShape)
	}
	nz := len(data[0][0])
	if nz == 0 {
		return nil, fmt.Errorf("%w: mask has no cells", ErrInvalidShape)
	}
	m := NewVoxelMask(nx, ny, nz)
	for x, plane := range data {
		if len(plane) != ny {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidShape, x, len(plane), ny)
		}
		for y, col := range plane {
			if len(col) != nz {
				return nil, fmt.Errorf("%w: column [%d][%d] has %d cells, want %d", ErrInvalidShape, x, y, len(col), nz)
			}
			for z, v := range col {
				if v != 0 {
					m.Set(x, y, z, true)
				}
			}
		}
	}
	return m, nil
}

// Dims returns the cell counts along x, y and z.
func (m *VoxelMask) Dims() [3]int {
	return m.dims
}

func (m *VoxelMask) index(x, y, z int) int {
	return (x*m.dims[1]+y)*m.dims[2] + z
}

func (m *VoxelMask) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < m.dims[0] && y < m.dims[1] && z < m.dims[2]
}

// At reports whether the cell is occupied. Out of range cells are empty.
func (m *VoxelMask) At(x, y, z int) bool {
	if !m.inBounds(x, y, z) {
		return false
	}
	return m.cells[m.index(x, y, z)]
}

// Set marks a cell. Out of range writes are ignored.
func (m *VoxelMask) Set(x, y, z int, v bool) {
	if !m.inBounds(x, y, z) {
		return
	}
	m.cells[m.index(x, y, z)] = v
}

// Count returns the number of occupied cells.
func (m *VoxelMask) Count() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// Empty reports whether the mask has no occupied cells or a zero axis.
func (m *VoxelMask) Empty() bool {
	return m == nil || m.Count() == 0
}

// BottomCount returns the occupied cells in the z = 0 layer.
func (m *VoxelMask) BottomCount() int {
	n := 0
	for x := 0; x < m.dims[0]; x++ {
		for y := 0; y < m.dims[1]; y++ {
			if m.At(x, y, 0) {
				n++
			}
		}
	}
	return n
}

// Bounds returns the inclusive min and max indices of occupied cells.
// ok is false when the mask is empty.
func (m *VoxelMask) Bounds() (lo, hi [3]int, ok bool) {
	lo = m.dims
	hi = [3]int{-1, -1, -1}
	for x := 0; x < m.dims[0]; x++ {
		for y := 0; y < m.dims[1]; y++ {
			for z := 0; z < m.dims[2]; z++ {
				if !m.At(x, y, z) {
					continue
				}
				p := [3]int{x, y, z}
				for a := 0; a < 3; a++ {
					lo[a] = min(lo[a], p[a])
					hi[a] = max(hi[a], p[a])
				}
				ok = true
			}
		}
	}
	if !ok {
		return [3]int{}, [3]int{}, false
	}
	return lo, hi, true
}

// Trim returns a copy cropped to the occupied extent on every axis.
// An empty mask trims to a 0x0x0 mask.
func (m *VoxelMask) Trim() *VoxelMask {
	lo, hi, ok := m.Bounds()
	if !ok {
		return NewVoxelMask(0, 0, 0)
	}
	out := NewVoxelMask(hi[0]-lo[0]+1, hi[1]-lo[1]+1, hi[2]-lo[2]+1)
	for x := 0; x < out.dims[0]; x++ {
		for y := 0; y < out.dims[1]; y++ {
			for z := 0; z < out.dims[2]; z++ {
				out.Set(x, y, z, m.At(x+lo[0], y+lo[1], z+lo[2]))
			}
		}
	}
	return out
}

// Rotate90 returns the mask turned k quarter turns about the given axis.
// For the swapped axis pair (a, b) the result has the two sizes exchanged
// and r[..p..q..] = m[..q..Nb-1-p..].
func (m *VoxelMask) Rotate90(axis Axis, k int) *VoxelMask {
	k = ((k % 4) + 4) % 4
	out := m.Clone()
	for ; k > 0; k-- {
		out = out.quarterTurn(axis)
	}
	return out
}

func (m *VoxelMask) quarterTurn(axis Axis) *VoxelMask {
	a, b := axis.plane()
	nd := m.dims
	nd[a], nd[b] = m.dims[b], m.dims[a]
	out := NewVoxelMask(nd[0], nd[1], nd[2])
	nb := m.dims[b]
	for x := 0; x < nd[0]; x++ {
		for y := 0; y < nd[1]; y++ {
			for z := 0; z < nd[2]; z++ {
				dst := [3]int{x, y, z}
				src := dst
				src[a] = dst[b]
				src[b] = nb - 1 - dst[a]
				out.Set(x, y, z, m.At(src[0], src[1], src[2]))
			}
		}
	}
	return out
}

// Clone returns an independent copy.
func (m *VoxelMask) Clone() *VoxelMask {
	out := &VoxelMask{dims: m.dims, cells: make([]bool, len(m.cells))}
	copy(out.cells, m.cells)
	return out
}

// Key identifies the mask by its dimensions and flattened content.
// Two masks with the same key are the same orientation.
func (m *VoxelMask) Key() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%dx%d:", m.dims[0], m.dims[1], m.dims[2])
	for _, c := range m.cells {
		if c {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Nested returns the mask as [x][y][z] 0/1 values.
func (m *VoxelMask) Nested() [][][]int {
	out := make([][][]int, m.dims[0])
	for x := range out {
		out[x] = make([][]int, m.dims[1])
		for y := range out[x] {
			out[x][y] = make([]int, m.dims[2])
			for z := range out[x][y] {
				if m.At(x, y, z) {
					out[x][y][z] = 1
				}
			}
		}
	}
	return out
}

// MarshalJSON encodes the mask as nested [x][y][z] arrays of 0/1.
func (m *VoxelMask) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Nested())
}

// UnmarshalJSON decodes nested [x][y][z] arrays, rejecting ragged input.
func (m *VoxelMask) UnmarshalJSON(data []byte) error {
	var nested [][][]int
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	parsed, err := MaskFromNested(nested)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// LShape returns the sample L-shaped solid: four cells in a 2x2x2 box,
// three on the floor and one stacked at (1, 0, 1).
func LShape() *VoxelMask {
	m := NewVoxelMask(2, 2, 2)
	m.Set(0, 0, 0, true)
	m.Set(0, 1, 0, true)
	m.Set(1, 0, 0, true)
	m.Set(1, 0, 1, true)
	return m
}
