package model

import "github.com/google/uuid"

// ContainerPreset is a reusable container definition.
type ContainerPreset struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Depth     float64 `json:"depth"`
	MaxWeight float64 `json:"max_weight"`
}

// NewContainerPreset creates a new ContainerPreset with a generated ID.
func NewContainerPreset(name string, w, h, d, maxWeight float64) ContainerPreset {
	return ContainerPreset{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Width:     w,
		Height:    h,
		Depth:     d,
		MaxWeight: maxWeight,
	}
}

// ToContainer converts the preset into a Container labelled with its name.
func (cp ContainerPreset) ToContainer() Container {
	c := NewContainer(cp.Width, cp.Height, cp.Depth, cp.MaxWeight)
	c.Label = cp.Name
	return c
}

// BoxPreset is a reusable box definition.
type BoxPreset struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Depth     float64 `json:"depth"`
	Weight    float64 `json:"weight"`
	Rotatable bool    `json:"rotatable"`
}

// NewBoxPreset creates a new rotatable BoxPreset with a generated ID.
func NewBoxPreset(name string, w, h, d, weight float64) BoxPreset {
	return BoxPreset{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Width:     w,
		Height:    h,
		Depth:     d,
		Weight:    weight,
		Rotatable: true,
	}
}

// ToItem converts a BoxPreset into an Item with the given quantity.
func (bp BoxPreset) ToItem(qty int) Item {
	it := NewItem(bp.Name, bp.Width, bp.Height, bp.Depth, bp.Weight, qty)
	it.Rotatable = bp.Rotatable
	return it
}

// Catalog holds the user's saved container and box presets.
type Catalog struct {
	Containers []ContainerPreset `json:"containers"`
	Boxes      []BoxPreset       `json:"boxes"`
}

// DefaultCatalog returns a catalog populated with common shipping sizes.
func DefaultCatalog() Catalog {
	flat := NewBoxPreset("Glass panel 1000x600x20", 1000, 600, 20, 30)
	flat.Rotatable = false
	return Catalog{
		Containers: []ContainerPreset{
			NewContainerPreset("ISO 20ft", 2352, 2393, 5898, 28200),
			NewContainerPreset("ISO 40ft", 2352, 2393, 12032, 26700),
			NewContainerPreset("ISO 40ft High Cube", 2352, 2698, 12032, 26580),
			NewContainerPreset("Euro pallet load 1200x800", 800, 1600, 1200, 1500),
			NewContainerPreset("Van 3.0m", 1700, 1400, 3000, 1200),
		},
		Boxes: []BoxPreset{
			NewBoxPreset("Parcel S 300x200x150", 300, 150, 200, 2),
			NewBoxPreset("Parcel M 400x300x250", 400, 250, 300, 5),
			NewBoxPreset("Parcel L 600x400x400", 600, 400, 400, 12),
			NewBoxPreset("Moving box 500x500x500", 500, 500, 500, 15),
			flat,
		},
	}
}

// FindContainerByID returns a pointer to the container preset with the given ID, or nil.
func (c *Catalog) FindContainerByID(id string) *ContainerPreset {
	for i := range c.Containers {
		if c.Containers[i].ID == id {
			return &c.Containers[i]
		}
	}
	return nil
}

// FindBoxByID returns a pointer to the box preset with the given ID, or nil.
func (c *Catalog) FindBoxByID(id string) *BoxPreset {
	for i := range c.Boxes {
		if c.Boxes[i].ID == id {
			return &c.Boxes[i]
		}
	}
	return nil
}

// ContainerNames returns the container preset names in catalog order.
func (c *Catalog) ContainerNames() []string {
	names := make([]string, len(c.Containers))
	for i, cp := range c.Containers {
		names[i] = cp.Name
	}
	return names
}

// BoxNames returns the box preset names in catalog order.
func (c *Catalog) BoxNames() []string {
	names := make([]string, len(c.Boxes))
	for i, b := range c.Boxes {
		names[i] = b.Name
	}
	return names
}

// FindContainerByName returns a pointer to the first container preset with the given name, or nil.
func (c *Catalog) FindContainerByName(name string) *ContainerPreset {
	for i := range c.Containers {
		if c.Containers[i].Name == name {
			return &c.Containers[i]
		}
	}
	return nil
}

// FindBoxByName returns a pointer to the first box preset with the given name, or nil.
func (c *Catalog) FindBoxByName(name string) *BoxPreset {
	for i := range c.Boxes {
		if c.Boxes[i].Name == name {
			return &c.Boxes[i]
		}
	}
	return nil
}

// Merge appends presets from other whose IDs are not already present.
// It returns the number of presets added.
func (c *Catalog) Merge(other Catalog) int {
	added := 0
	containerIDs := make(map[string]bool, len(c.Containers))
	for _, cp := range c.Containers {
		containerIDs[cp.ID] = true
	}
	boxIDs := make(map[string]bool, len(c.Boxes))
	for _, b := range c.Boxes {
		boxIDs[b.ID] = true
	}
	for _, cp := range other.Containers {
		if !containerIDs[cp.ID] {
			c.Containers = append(c.Containers, cp)
			containerIDs[cp.ID] = true
			added++
		}
	}
	for _, b := range other.Boxes {
		if !boxIDs[b.ID] {
			c.Boxes = append(c.Boxes, b)
			boxIDs[b.ID] = true
			added++
		}
	}
	return added
}
