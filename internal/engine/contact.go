package engine

import "github.com/piwi3910/CrateFill/internal/model"

// Contact scores how snugly a mask sits at pos: bottom voxels resting on the
// floor or on occupied cells, plus boundary voxels of the four side faces of
// the mask's box that touch occupied cells just outside. Container walls and
// the top face do not count.
func Contact(g *Grid, pos [3]int, m *model.VoxelMask) int {
	d := m.Dims()
	gd := g.Dims()

	score := 0
	if pos[2] == 0 {
		score += m.BottomCount()
	} else {
		score += g.supportedBase(pos, m)
	}

	// -x and +x faces: local x = 0 and x = W-1, compared with the columns
	// just outside on the depth/height plane.
	if pos[0] > 0 {
		score += faceContact(g, d[1], d[2], func(u, v int) (bool, [3]int) {
			return m.At(0, u, v), [3]int{pos[0] - 1, pos[1] + u, pos[2] + v}
		})
	}
	if pos[0]+d[0] < gd[0] {
		score += faceContact(g, d[1], d[2], func(u, v int) (bool, [3]int) {
			return m.At(d[0]-1, u, v), [3]int{pos[0] + d[0], pos[1] + u, pos[2] + v}
		})
	}

	// -y and +y faces on the width/height plane.
	if pos[1] > 0 {
		score += faceContact(g, d[0], d[2], func(u, v int) (bool, [3]int) {
			return m.At(u, 0, v), [3]int{pos[0] + u, pos[1] - 1, pos[2] + v}
		})
	}
	if pos[1]+d[1] < gd[1] {
		score += faceContact(g, d[0], d[2], func(u, v int) (bool, [3]int) {
			return m.At(u, d[1]-1, v), [3]int{pos[0] + u, pos[1] + d[1], pos[2] + v}
		})
	}
	return score
}

// faceContact counts face voxels whose neighbour cell is occupied. Cells
// outside the grid read as empty, which clips the comparison to the
// overlapping region.
func faceContact(g *Grid, nu, nv int, cell func(u, v int) (bool, [3]int)) int {
	n := 0
	for u := 0; u < nu; u++ {
		for v := 0; v < nv; v++ {
			solid, at := cell(u, v)
			if solid && g.Occupied(at[0], at[1], at[2]) {
				n++
			}
		}
	}
	return n
}
