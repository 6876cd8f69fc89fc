package model

// Limiting factors reported by EstimateLoad.
const (
	LimitNone   = "none"
	LimitVolume = "volume"
	LimitWeight = "weight"
)

// LoadEstimate holds pre-pack feasibility numbers for a backlog.
type LoadEstimate struct {
	Units           int     `json:"units"`
	BacklogVolume   float64 `json:"backlog_volume"`   // cubic mm, voxel volume for custom shapes
	BacklogWeight   float64 `json:"backlog_weight"`   // kg
	ContainerVolume float64 `json:"container_volume"` // cubic mm
	GridVolume      float64 `json:"grid_volume"`      // volume the voxel grid can address
	MaxWeight       float64 `json:"max_weight"`
	VolumeRatio     float64 `json:"volume_ratio"` // backlog / grid volume
	WeightRatio     float64 `json:"weight_ratio"` // backlog / max weight
	LimitingFactor  string  `json:"limiting_factor"`
}

// EstimateLoad compares the backlog's total volume and weight with the
// container. A ratio above 1 means the backlog cannot all be packed; the
// larger ratio names the limiting factor.
func EstimateLoad(items []Item, c Container, gridSize int) LoadEstimate {
	est := LoadEstimate{
		ContainerVolume: c.Volume(),
		MaxWeight:       c.MaxWeight,
		LimitingFactor:  LimitNone,
	}
	for _, it := range items {
		q := float64(it.Quantity)
		est.Units += it.Quantity
		est.BacklogVolume += it.SortVolume(gridSize) * q
		est.BacklogWeight += it.Weight * q
	}

	cells := c.Cells(gridSize)
	g := float64(gridSize)
	est.GridVolume = float64(cells[0]*cells[1]*cells[2]) * g * g * g

	if est.GridVolume > 0 {
		est.VolumeRatio = est.BacklogVolume / est.GridVolume
	}
	if c.MaxWeight > 0 {
		est.WeightRatio = est.BacklogWeight / c.MaxWeight
	} else if est.BacklogWeight > 0 {
		est.WeightRatio = est.BacklogWeight
	}

	switch {
	case est.VolumeRatio <= 1 && est.WeightRatio <= 1:
		est.LimitingFactor = LimitNone
	case est.WeightRatio > est.VolumeRatio:
		est.LimitingFactor = LimitWeight
	default:
		est.LimitingFactor = LimitVolume
	}
	return est
}
