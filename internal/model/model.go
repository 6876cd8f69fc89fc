package model

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Item is a packable object. Items with a Shape are custom solids whose
// nominal dimensions come from the mask extents; the rest are plain boxes.
type Item struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Width     float64    `json:"width"`  // mm
	Height    float64    `json:"height"` // mm
	Depth     float64    `json:"depth"`  // mm
	Weight    float64    `json:"weight"` // kg
	Quantity  int        `json:"quantity"`
	Rotatable bool       `json:"rotatable"`
	Shape     *VoxelMask `json:"shape,omitempty"`
}

func NewItem(name string, w, h, d, weight float64, qty int) Item {
	return Item{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Width:     w,
		Height:    h,
		Depth:     d,
		Weight:    weight,
		Quantity:  qty,
		Rotatable: true,
	}
}

// NewShapedItem creates a custom item whose width, depth and height are the
// mask's x, y and z cell counts times gridSize.
func NewShapedItem(name string, shape *VoxelMask, gridSize int, weight float64, qty int) Item {
	dims := shape.Dims()
	g := float64(gridSize)
	it := NewItem(name, float64(dims[0])*g, float64(dims[2])*g, float64(dims[1])*g, weight, qty)
	it.Shape = shape
	return it
}

// IsCustom reports whether the item carries its own voxel mask.
func (it Item) IsCustom() bool {
	return it.Shape != nil
}

// DeclaredVolume returns width x height x depth in cubic mm.
func (it Item) DeclaredVolume() float64 {
	return it.Width * it.Height * it.Depth
}

// SortVolume is the primary ordering key: declared volume for boxes,
// occupied voxels x grid^3 for custom shapes.
func (it Item) SortVolume(gridSize int) float64 {
	if it.Shape == nil {
		return it.DeclaredVolume()
	}
	g := float64(gridSize)
	return float64(it.Shape.Count()) * g * g * g
}

// SortFootprint is the secondary ordering key: width x depth for boxes,
// mask x cells x y cells x grid^2 for custom shapes.
func (it Item) SortFootprint(gridSize int) float64 {
	if it.Shape == nil {
		return it.Width * it.Depth
	}
	d := it.Shape.Dims()
	g := float64(gridSize)
	return float64(d[0]*d[1]) * g * g
}

// Container is the rectangular volume items are packed into.
type Container struct {
	Label     string  `json:"label,omitempty"`
	Width     float64 `json:"width"`      // mm
	Height    float64 `json:"height"`     // mm
	Depth     float64 `json:"depth"`      // mm
	MaxWeight float64 `json:"max_weight"` // kg
}

func NewContainer(w, h, d, maxWeight float64) Container {
	return Container{Width: w, Height: h, Depth: d, MaxWeight: maxWeight}
}

// Volume returns the container volume in cubic mm.
func (c Container) Volume() float64 {
	return c.Width * c.Height * c.Depth
}

// Fits reports whether a w x h x d box fits inside the container without
// rotation.
func (c Container) Fits(w, h, d float64) bool {
	return w <= c.Width && h <= c.Height && d <= c.Depth
}

// Cells returns the grid dimensions along width, depth and height.
// Remainders below one grid cell are dropped.
func (c Container) Cells(gridSize int) [3]int {
	if gridSize <= 0 {
		return [3]int{}
	}
	g := float64(gridSize)
	return [3]int{int(c.Width / g), int(c.Depth / g), int(c.Height / g)}
}

// PackSettings controls the discretization and placement rules.
type PackSettings struct {
	GridSize         int     `json:"grid_size" yaml:"grid_size"`                 // mm per voxel edge
	SupportThreshold float64 `json:"support_threshold" yaml:"support_threshold"` // minimum supported base fraction
	AllowRotation    bool    `json:"allow_rotation" yaml:"allow_rotation"`       // global override; false pins every item
}

func DefaultSettings() PackSettings {
	return PackSettings{
		GridSize:         5,
		SupportThreshold: 0.30,
		AllowRotation:    true,
	}
}

// Placement records one packed unit. Cell and Extent are in grid cells on
// (width, depth, height); Position and Size are the same box in mm.
type Placement struct {
	ID             string  `json:"id"`
	ItemID         string  `json:"item_id"`
	Name           string  `json:"name"`
	Cell           [3]int  `json:"cell"`
	Extent         [3]int  `json:"extent"`
	Position       [3]int  `json:"position"` // mm
	Size           [3]int  `json:"size"`     // mm
	Voxels         int     `json:"voxels"`
	Volume         float64 `json:"volume"`          // voxels x grid^3
	DeclaredVolume float64 `json:"declared_volume"` // item width x height x depth
	Weight         float64 `json:"weight"`
	Orientation    int     `json:"orientation"`
	Contact        int     `json:"contact"`
	ColorIndex     int     `json:"color_index"`
}

// Top returns the first height cell above the placement.
func (p Placement) Top() int {
	return p.Cell[2] + p.Extent[2]
}

// PlacementID derives a stable ID from the run sequence number and item name
// so repeated runs over the same input yield identical manifests.
func PlacementID(seq int, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name+"#"+strconv.Itoa(seq))).String()
}

// NameSummary aggregates placements sharing a name.
type NameSummary struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	TotalWeight float64 `json:"total_weight"`
}

// PackResult is the manifest of one packing run.
type PackResult struct {
	Container       Container      `json:"container"`
	Settings        PackSettings   `json:"settings"`
	Placements      []Placement    `json:"placements"`
	Failed          map[string]int `json:"failed"`
	Utilization     float64        `json:"utilization"` // percent, 0-100
	TotalWeight     float64        `json:"total_weight"`
	PlacedVolume    float64        `json:"placed_volume"`
	ContainerVolume float64        `json:"container_volume"`
	Attempted       int            `json:"attempted"`
	LayerFill       []float64      `json:"layer_fill"` // occupied fraction per height cell
	Elapsed         time.Duration  `json:"elapsed"`
}

// PlacedCount returns the number of packed units.
func (r PackResult) PlacedCount() int {
	return len(r.Placements)
}

// FailedCount returns the number of units that could not be packed.
func (r PackResult) FailedCount() int {
	n := 0
	for _, c := range r.Failed {
		n += c
	}
	return n
}

// FailedNames returns the names with failures, sorted.
func (r PackResult) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for n := range r.Failed {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Summary returns per-name counts and weights of packed units, sorted by name.
func (r PackResult) Summary() []NameSummary {
	byName := make(map[string]*NameSummary)
	var order []string
	for _, p := range r.Placements {
		s, ok := byName[p.Name]
		if !ok {
			s = &NameSummary{Name: p.Name}
			byName[p.Name] = s
			order = append(order, p.Name)
		}
		s.Count++
		s.TotalWeight += p.Weight
	}
	sort.Strings(order)
	out := make([]NameSummary, 0, len(order))
	for _, n := range order {
		out = append(out, *byName[n])
	}
	return out
}

// MaxHeight returns the highest occupied height cell boundary in mm.
func (r PackResult) MaxHeight() int {
	top := 0
	for _, p := range r.Placements {
		top = max(top, p.Position[2]+p.Size[2])
	}
	return top
}

// Project bundles a container, a backlog and settings, plus the last result.
type Project struct {
	Name      string       `json:"name"`
	Container Container    `json:"container"`
	Items     []Item       `json:"items"`
	Settings  PackSettings `json:"settings"`
	Result    *PackResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Settings: DefaultSettings(),
	}
}

// TotalUnits returns the sum of item quantities.
func (p Project) TotalUnits() int {
	n := 0
	for _, it := range p.Items {
		n += it.Quantity
	}
	return n
}
