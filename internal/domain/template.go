package domain

import "context"

// Template is a named, independently stored snapshot of a whole document.
type Template struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Components Document `json:"components"`
}

// Clone returns a copy whose components share nothing with t.
func (t Template) Clone() Template {
	components := t.Components.Clone()
	if components == nil {
		components = Document{}
	}
	return Template{ID: t.ID, Name: t.Name, Components: components}
}

// KVStore is the persistence collaborator: named slots holding JSON text,
// last write wins.
type KVStore interface {
	// Get returns the slot's value, or ok=false when the slot was never written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Persisted slot names.
const (
	SlotComponents = "web-editor-components"
	SlotTemplates  = "web-editor-templates"
	SlotHistory    = "web-editor-history"
)
