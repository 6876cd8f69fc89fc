package importer

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/piwi3910/CrateFill/internal/model"
)

// ErrInvalidBacklog is returned when a JSON backlog fails schema validation.
var ErrInvalidBacklog = errors.New("invalid backlog")

//go:embed backlog.schema.json
var backlogSchemaSource string

var backlogSchema = jsonschema.MustCompileString("backlog.schema.json", backlogSchemaSource)

// Backlog is a container plus the items to load into it. Settings is set
// only when the document carries its own pack settings.
type Backlog struct {
	Container model.Container
	Items     []model.Item
	Settings  *model.PackSettings
}

type backlogDoc struct {
	Container model.Container `json:"container"`
	Settings  *settingsDoc    `json:"settings,omitempty"`
	Items     []itemDoc       `json:"items"`
}

type settingsDoc struct {
	GridSize         *int     `json:"grid_size"`
	SupportThreshold *float64 `json:"support_threshold"`
	AllowRotation    *bool    `json:"allow_rotation"`
}

type itemDoc struct {
	Name      string    `json:"name"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Depth     float64   `json:"depth"`
	Weight    float64   `json:"weight"`
	Quantity  *int      `json:"quantity"`
	Rotatable *bool     `json:"rotatable"`
	Shape     [][][]int `json:"shape,omitempty"`
}

// LoadBacklog reads and parses a JSON backlog file.
func LoadBacklog(path string, defaults model.PackSettings) (Backlog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Backlog{}, fmt.Errorf("failed to read backlog: %w", err)
	}
	return ParseBacklog(data, defaults)
}

// ParseBacklog validates data against the backlog schema and builds the
// container and items. Custom shapes are scaled by the document's grid size
// when it has one, otherwise by defaults.GridSize.
func ParseBacklog(data []byte, defaults model.PackSettings) (Backlog, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Backlog{}, fmt.Errorf("%w: %v", ErrInvalidBacklog, err)
	}
	if err := backlogSchema.Validate(raw); err != nil {
		return Backlog{}, fmt.Errorf("%w: %v", ErrInvalidBacklog, err)
	}

	var doc backlogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Backlog{}, fmt.Errorf("%w: %v", ErrInvalidBacklog, err)
	}

	out := Backlog{Container: doc.Container}
	settings := defaults
	if doc.Settings != nil {
		if doc.Settings.GridSize != nil {
			settings.GridSize = *doc.Settings.GridSize
		}
		if doc.Settings.SupportThreshold != nil {
			settings.SupportThreshold = *doc.Settings.SupportThreshold
		}
		if doc.Settings.AllowRotation != nil {
			settings.AllowRotation = *doc.Settings.AllowRotation
		}
		out.Settings = &settings
	}

	for i, d := range doc.Items {
		item, err := d.toItem(settings.GridSize)
		if err != nil {
			return Backlog{}, fmt.Errorf("%w: item %d (%s): %v", ErrInvalidBacklog, i, d.Name, err)
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (d itemDoc) toItem(gridSize int) (model.Item, error) {
	qty := 1
	if d.Quantity != nil {
		qty = *d.Quantity
	}

	var item model.Item
	if len(d.Shape) > 0 {
		mask, err := model.MaskFromNested(d.Shape)
		if err != nil {
			return model.Item{}, err
		}
		if mask.Empty() {
			return model.Item{}, fmt.Errorf("shape has no filled cells")
		}
		item = model.NewShapedItem(d.Name, mask.Trim(), gridSize, d.Weight, qty)
	} else {
		item = model.NewItem(d.Name, d.Width, d.Height, d.Depth, d.Weight, qty)
	}
	if d.Rotatable != nil {
		item.Rotatable = *d.Rotatable
	}
	return item, nil
}

// MarshalBacklog renders a backlog in the document form ParseBacklog accepts.
func MarshalBacklog(b Backlog) ([]byte, error) {
	doc := backlogDoc{Container: b.Container, Items: []itemDoc{}}
	if b.Settings != nil {
		doc.Settings = &settingsDoc{
			GridSize:         &b.Settings.GridSize,
			SupportThreshold: &b.Settings.SupportThreshold,
			AllowRotation:    &b.Settings.AllowRotation,
		}
	}
	for _, it := range b.Items {
		qty, rot := it.Quantity, it.Rotatable
		d := itemDoc{
			Name:      it.Name,
			Width:     it.Width,
			Height:    it.Height,
			Depth:     it.Depth,
			Weight:    it.Weight,
			Quantity:  &qty,
			Rotatable: &rot,
		}
		if it.Shape != nil {
			d.Shape = it.Shape.Nested()
		}
		doc.Items = append(doc.Items, d)
	}
	return json.MarshalIndent(doc, "", "  ")
}
