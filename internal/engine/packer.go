package engine

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/model"
)

// State is the lifecycle stage of a Packer run.
type State int32

const (
	StateIdle State = iota
	StateSorting
	StatePlacing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSorting:
		return "sorting"
	case StatePlacing:
		return "placing"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// ProgressFunc receives the number of units processed so far and the total.
type ProgressFunc func(completed, total int)

// Option configures a Packer.
type Option func(*Packer)

// WithLogger sets the logger used for run and failure messages.
func WithLogger(l *zap.Logger) Option {
	return func(p *Packer) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithProgress registers a progress callback, called once per unit.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Packer) {
		p.progress = fn
	}
}

// Packer runs the greedy first-fit-decreasing placement of a backlog into
// one container. A Packer may be reused; each run starts from an empty grid.
type Packer struct {
	Settings model.PackSettings

	logger   *zap.Logger
	progress ProgressFunc
	state    atomic.Int32

	grid         *Grid
	weight       float64
	placedVolume float64
	failed       map[string]int
}

func New(settings model.PackSettings, opts ...Option) *Packer {
	p := &Packer{
		Settings: settings,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle stage. Safe for concurrent use.
func (p *Packer) State() State {
	return State(p.state.Load())
}

func (p *Packer) setState(s State) {
	p.state.Store(int32(s))
}

// Grid returns the occupancy grid of the last run.
func (p *Packer) Grid() *Grid {
	return p.grid
}

// unit is one expanded instance of a backlog item.
type unit struct {
	item  model.Item
	index int // position of the item in the backlog
}

// Pack places every unit of the backlog it can and reports the rest as
// failures. Malformed input fails the whole run.
func (p *Packer) Pack(c model.Container, items []model.Item) (model.PackResult, error) {
	return p.PackContext(context.Background(), c, items)
}

// PackContext is Pack with cancellation between units. A cancelled run
// returns the manifest built so far together with ctx.Err().
func (p *Packer) PackContext(ctx context.Context, c model.Container, items []model.Item) (model.PackResult, error) {
	if err := model.Validate(c, items, p.Settings); err != nil {
		p.setState(StateIdle)
		return model.PackResult{}, fmt.Errorf("pack: %w", err)
	}

	start := time.Now()
	p.setState(StateSorting)
	p.reset(c)

	units := expandUnits(items)
	sortUnits(units, p.Settings.GridSize)

	orientations := make(map[int][]Orientation, len(items))
	colors := make(map[string]int)

	result := model.PackResult{
		Container:       c,
		Settings:        p.Settings,
		Placements:      []model.Placement{},
		Failed:          p.failed,
		ContainerVolume: c.Volume(),
		Attempted:       len(units),
	}

	total := len(units)
	p.logger.Info("packing started",
		zap.Int("units", total),
		zap.Int("grid_size", p.Settings.GridSize),
		zap.Ints("grid_cells", p.grid.dims[:]),
	)

	p.setState(StatePlacing)
	if total == 0 {
		p.notify(0, 0)
	}

	var runErr error
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			runErr = err
			p.logger.Warn("packing cancelled", zap.Int("completed", i), zap.Int("total", total))
			break
		}

		if _, ok := colors[u.item.Name]; !ok {
			colors[u.item.Name] = len(colors)
		}

		if pl, ok := p.place(u, i, c, orientations); ok {
			pl.ColorIndex = colors[u.item.Name]
			result.Placements = append(result.Placements, pl)
		}
		p.notify(i+1, total)
	}

	result.TotalWeight = p.weight
	result.PlacedVolume = p.placedVolume
	if v := c.Volume(); v > 0 {
		result.Utilization = p.placedVolume / v * 100
	}
	result.LayerFill = p.grid.LayerFill()
	result.Elapsed = time.Since(start)

	p.setState(StateDone)
	p.logger.Info("packing finished",
		zap.Int("placed", result.PlacedCount()),
		zap.Int("failed", result.FailedCount()),
		zap.Float64("utilization", result.Utilization),
		zap.Float64("weight", result.TotalWeight),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, runErr
}

// place handles one unit: weight check, search, commit. A unit that is not
// placed is tallied under its name.
func (p *Packer) place(u unit, seq int, c model.Container, cache map[int][]Orientation) (model.Placement, bool) {
	it := u.item
	if p.weight+it.Weight > c.MaxWeight {
		p.fail(it.Name, "weight limit")
		return model.Placement{}, false
	}

	orients, ok := cache[u.index]
	if !ok {
		orients = Orientations(it, c, p.Settings)
		cache[u.index] = orients
	}
	if len(orients) == 0 {
		p.fail(it.Name, "no usable orientation")
		return model.Placement{}, false
	}

	cand, found := FindPosition(p.grid, orients, p.Settings.SupportThreshold)
	if !found {
		p.fail(it.Name, "no position")
		return model.Placement{}, false
	}
	if err := p.grid.Commit(cand.Pos, cand.Orientation.Mask); err != nil {
		p.logger.Error("commit rejected", zap.String("item", it.Name), zap.Error(err))
		p.fail(it.Name, "commit rejected")
		return model.Placement{}, false
	}

	pl := placementFor(it, seq, cand, p.Settings.GridSize)
	p.weight += it.Weight
	p.placedVolume += pl.Volume
	return pl, true
}

func (p *Packer) fail(name, reason string) {
	p.failed[name]++
	p.logger.Debug("unit not placed", zap.String("item", name), zap.String("reason", reason))
}

func (p *Packer) notify(completed, total int) {
	if p.progress != nil {
		p.progress(completed, total)
	}
}

func (p *Packer) reset(c model.Container) {
	p.grid = NewGrid(c, p.Settings.GridSize)
	p.weight = 0
	p.placedVolume = 0
	p.failed = make(map[string]int)
}

func expandUnits(items []model.Item) []unit {
	var units []unit
	for idx, it := range items {
		for i := 0; i < it.Quantity; i++ {
			cp := it
			cp.Quantity = 1
			units = append(units, unit{item: cp, index: idx})
		}
	}
	return units
}

// sortUnits orders units by volume, then footprint, then weight, all
// descending. Equal keys keep backlog order.
func sortUnits(units []unit, gridSize int) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i].item, units[j].item
		if va, vb := a.SortVolume(gridSize), b.SortVolume(gridSize); va != vb {
			return va > vb
		}
		if fa, fb := a.SortFootprint(gridSize), b.SortFootprint(gridSize); fa != fb {
			return fa > fb
		}
		return a.Weight > b.Weight
	})
}
