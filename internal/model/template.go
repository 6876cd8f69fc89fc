package model

import (
	"time"

	"github.com/google/uuid"
)

// LoadTemplate is a reusable backlog: a container, items and settings,
// without any packing result.
type LoadTemplate struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	Container   Container    `json:"container"`
	Items       []Item       `json:"items"`
	Settings    PackSettings `json:"settings"`
}

// NewLoadTemplate captures the given backlog. Results are never stored.
func NewLoadTemplate(name, description string, container Container, items []Item, settings PackSettings) LoadTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return LoadTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Container:   container,
		Items:       copyItems(items),
		Settings:    settings,
	}
}

// ToProject creates a new Project from this template.
// Items get fresh IDs so they are independent of the template.
func (t LoadTemplate) ToProject(projectName string) Project {
	items := make([]Item, len(t.Items))
	for i, it := range t.Items {
		items[i] = NewItem(it.Name, it.Width, it.Height, it.Depth, it.Weight, it.Quantity)
		items[i].Rotatable = it.Rotatable
		if it.Shape != nil {
			items[i].Shape = it.Shape.Clone()
		}
	}
	return Project{
		Name:      projectName,
		Container: t.Container,
		Items:     items,
		Settings:  t.Settings,
	}
}

// TemplateStore holds a collection of load templates.
type TemplateStore struct {
	Templates []LoadTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []LoadTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t LoadTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *LoadTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *LoadTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

func copyItems(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	cp := make([]Item, len(items))
	copy(cp, items)
	return cp
}
