package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/CrateFill/internal/model"
)

// DXFOptions controls how 2D profiles become voxel shapes. Each closed
// outline lies in the width/depth plane and is extruded upward by Thickness.
type DXFOptions struct {
	GridSize  int     // mm per voxel edge
	Thickness float64 // extrusion height in mm
	Weight    float64 // kg per unit
	Quantity  int
	Rotatable bool
}

// DefaultDXFOptions extrudes one grid cell and imports one rotatable unit per outline.
func DefaultDXFOptions(gridSize int) DXFOptions {
	return DXFOptions{
		GridSize:  gridSize,
		Thickness: float64(gridSize),
		Quantity:  1,
		Rotatable: true,
	}
}

type point struct {
	X, Y float64
}

type outline []point

// segment is a line between two points, used for chaining loose LINE and
// ARC entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportDXF imports custom-shaped items from a DXF file. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) is rasterized at
// cell centres and becomes a separate item.
func ImportDXF(path string, opts DXFOptions) ImportResult {
	result := ImportResult{}

	if opts.GridSize <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Grid size must be positive, got %d", opts.GridSize))
		return result
	}
	if opts.Quantity <= 0 {
		opts.Quantity = 1
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})
		}
	}

	for _, co := range chainSegments(segments, 0.01) {
		if len(co) >= 3 {
			outlines = append(outlines, co)
		}
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, o := range outlines {
		name := fmt.Sprintf("DXF Shape %d", i+1)
		mask, width, depth := extrude(normalizeOutline(o), opts.GridSize, opts.Thickness)
		if mask == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %s: no grid cell inside outline (%.2f x %.2f mm)", name, width, depth))
			continue
		}

		item := model.NewShapedItem(name, mask, opts.GridSize, opts.Weight, opts.Quantity)
		item.Rotatable = opts.Rotatable
		result.Items = append(result.Items, item)
	}

	return result
}

// extrude rasterizes a normalized outline into a mask. A cell is set when
// its centre lies inside the polygon. Returns nil when no cell is set.
func extrude(o outline, gridSize int, thickness float64) (*model.VoxelMask, float64, float64) {
	min, max := o.boundingBox()
	width, depth := max.X-min.X, max.Y-min.Y
	g := float64(gridSize)

	nx := int(math.Ceil(width / g))
	ny := int(math.Ceil(depth / g))
	nz := int(math.Round(thickness / g))
	if nz < 1 {
		nz = 1
	}
	if nx < 1 || ny < 1 {
		return nil, width, depth
	}

	mask := model.NewVoxelMask(nx, ny, nz)
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			c := point{X: (float64(x) + 0.5) * g, Y: (float64(y) + 0.5) * g}
			if !o.contains(c) {
				continue
			}
			for z := 0; z < nz; z++ {
				mask.Set(x, y, z, true)
			}
		}
	}
	if mask.Empty() {
		return nil, width, depth
	}
	return mask.Trim(), width, depth
}

// contains reports whether p is inside the polygon (even-odd rule).
func (o outline) contains(p point) bool {
	inside := false
	n := len(o)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := o[i], o[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func (o outline) boundingBox() (point, point) {
	min := point{X: math.Inf(1), Y: math.Inf(1)}
	max := point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range o {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

func (o outline) translate(dx, dy float64) outline {
	out := make(outline, len(o))
	for i, p := range o {
		out[i] = point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// The next vertex is appended by its own iteration.
			o = append(o, arcPts[:len(arcPts)-1]...)
		} else {
			o = append(o, current)
		}
	}

	return o
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 point, bulge float64, numSegments int) outline {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make(outline, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, numSegments int) outline {
	o := make(outline, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		o[i] = point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return o
}

// arcToPoints converts a DXF ARC entity to a series of points.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func pointsToSegments(pts []point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines, largest
// area first. tolerance is the maximum endpoint gap treated as connected.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			outlines = append(outlines, outline(chain))
		}
	}

	sort.Slice(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

func pointsClose(a, b point, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// outlineArea computes the absolute polygon area with the shoelace formula.
func outlineArea(o outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}

// normalizeOutline translates the outline so its bounding box starts at (0, 0).
func normalizeOutline(o outline) outline {
	if len(o) == 0 {
		return o
	}
	min, _ := o.boundingBox()
	return o.translate(-min.X, -min.Y)
}
