package engine

import (
	"github.com/piwi3910/CrateFill/internal/model"
)

// Orientation is one allowed pose of an item as a voxel mask.
type Orientation struct {
	Index int
	Mask  *model.VoxelMask
}

// Orientations lists the poses the search may try for an item, in the
// order they are tried. Degenerate masks are never returned, so the list
// is empty when nothing usable remains.
//
// Items that cannot rotate (or any item when settings disable rotation)
// get their canonical pose only. Rotatable boxes get the distinct
// permutations of (width, height, depth) that fit the container. Rotatable
// custom shapes get the identity followed by quarter turns about x, y and
// z, trimmed and deduplicated by content.
func Orientations(it model.Item, c model.Container, s model.PackSettings) []Orientation {
	var masks []*model.VoxelMask
	switch {
	case !it.Rotatable || !s.AllowRotation:
		masks = []*model.VoxelMask{canonicalMask(it, s.GridSize)}
	case it.Shape == nil:
		masks = boxRotations(it, c, s.GridSize)
	default:
		masks = shapeRotations(it.Shape, c, s.GridSize)
	}

	out := make([]Orientation, 0, len(masks))
	for _, m := range masks {
		if m == nil || m.Empty() {
			continue
		}
		out = append(out, Orientation{Index: len(out), Mask: m})
	}
	return out
}

func canonicalMask(it model.Item, gridSize int) *model.VoxelMask {
	if it.Shape != nil {
		return it.Shape
	}
	return blockMask(it.Width, it.Height, it.Depth, gridSize)
}

// blockMask builds a solid block for a box of w x h x d mm.
func blockMask(w, h, d float64, gridSize int) *model.VoxelMask {
	g := float64(gridSize)
	return model.SolidMask(int(w/g), int(d/g), int(h/g))
}

// permutations of (width, height, depth) indices in lexicographic order.
var boxPermutations = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

func boxRotations(it model.Item, c model.Container, gridSize int) []*model.VoxelMask {
	dims := [3]float64{it.Width, it.Height, it.Depth}
	seen := make(map[[3]float64]bool, len(boxPermutations))
	var masks []*model.VoxelMask
	for _, perm := range boxPermutations {
		p := [3]float64{dims[perm[0]], dims[perm[1]], dims[perm[2]]}
		if seen[p] {
			continue
		}
		seen[p] = true
		if !c.Fits(p[0], p[1], p[2]) {
			continue
		}
		masks = append(masks, blockMask(p[0], p[1], p[2], gridSize))
	}
	return masks
}

func shapeRotations(shape *model.VoxelMask, c model.Container, gridSize int) []*model.VoxelMask {
	base := shape.Trim()
	candidates := []*model.VoxelMask{base}
	for _, axis := range []model.Axis{model.AxisX, model.AxisY, model.AxisZ} {
		for k := 1; k <= 3; k++ {
			candidates = append(candidates, base.Rotate90(axis, k).Trim())
		}
	}

	g := float64(gridSize)
	seen := make(map[string]bool)
	var masks []*model.VoxelMask
	for _, m := range candidates {
		if m.Empty() {
			continue
		}
		key := m.Key()
		if seen[key] {
			continue
		}
		d := m.Dims()
		if !c.Fits(float64(d[0])*g, float64(d[2])*g, float64(d[1])*g) {
			continue
		}
		seen[key] = true
		masks = append(masks, m)
	}
	return masks
}
