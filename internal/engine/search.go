package engine

import (
	"math"

	"github.com/piwi3910/CrateFill/internal/model"
)

// Candidate is the chosen pose and cell position for one unit.
type Candidate struct {
	Pos         [3]int
	Orientation Orientation
	Contact     int
}

// FindPosition scans every orientation and position for the lowest
// supported, non-overlapping placement. Among candidates at the lowest
// height the highest contact score wins; on equal scores the first one
// found wins, scanning orientations in order, then height, width and depth.
// Heights above the current best are skipped.
func FindPosition(g *Grid, orientations []Orientation, threshold float64) (Candidate, bool) {
	var best Candidate
	found := false
	bestZ := math.MaxInt
	gd := g.Dims()

	for _, o := range orientations {
		d := o.Mask.Dims()
		for z := 0; z+d[2] <= gd[2]; z++ {
			if z > bestZ {
				break
			}
			for x := 0; x+d[0] <= gd[0]; x++ {
				for y := 0; y+d[1] <= gd[1]; y++ {
					pos := [3]int{x, y, z}
					if !g.Fits(pos, o.Mask) || !g.Supported(pos, o.Mask, threshold) {
						continue
					}
					c := Contact(g, pos, o.Mask)
					if !found || z < bestZ || c > best.Contact {
						best = Candidate{Pos: pos, Orientation: o, Contact: c}
						bestZ = z
						found = true
					}
				}
			}
		}
	}
	return best, found
}

// placementFor builds the record for a committed candidate, reporting the
// bounding box of the mask's occupied voxels.
func placementFor(it model.Item, seq int, cand Candidate, gridSize int) model.Placement {
	m := cand.Orientation.Mask
	lo, hi, _ := m.Bounds()
	var cell, extent, position, size [3]int
	for a := 0; a < 3; a++ {
		cell[a] = cand.Pos[a] + lo[a]
		extent[a] = hi[a] - lo[a] + 1
		position[a] = cell[a] * gridSize
		size[a] = extent[a] * gridSize
	}
	voxels := m.Count()
	g := float64(gridSize)
	return model.Placement{
		ID:             model.PlacementID(seq, it.Name),
		ItemID:         it.ID,
		Name:           it.Name,
		Cell:           cell,
		Extent:         extent,
		Position:       position,
		Size:           size,
		Voxels:         voxels,
		Volume:         float64(voxels) * g * g * g,
		DeclaredVolume: it.DeclaredVolume(),
		Weight:         it.Weight,
		Orientation:    cand.Orientation.Index,
		Contact:        cand.Contact,
	}
}
