package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNilComponent = errors.New("component is null")
	ErrMissingID    = errors.New("component has no id")
	ErrDuplicateID  = errors.New("duplicate component id")
	ErrReservedKey  = errors.New("reserved key stored as a field")
)

// Document is the ordered forest of root components.
type Document []*Component

// Location describes where a component lives inside a document.
type Location struct {
	Node   *Component
	Parent *Component // nil for roots
	Index  int        // position inside the owning sequence
}

// Locate finds id depth-first, root to leaf, first match wins. Every
// locate-then-mutate operation goes through here so they all share the
// same ordering.
func (d Document) Locate(id string) (Location, bool) {
	return locate(d, nil, id)
}

func locate(list []*Component, parent *Component, id string) (Location, bool) {
	for i, c := range list {
		if c == nil {
			continue
		}
		if c.ID == id {
			return Location{Node: c, Parent: parent, Index: i}, true
		}
		if c.Children != nil {
			if loc, ok := locate(c.Children, c, id); ok {
				return loc, true
			}
		}
	}
	return Location{}, false
}

// Find returns the component with id, or nil.
func (d Document) Find(id string) *Component {
	loc, ok := d.Locate(id)
	if !ok {
		return nil
	}
	return loc.Node
}

// Remove detaches the component with id from wherever it lives. The
// returned document shares its untouched nodes with d.
func (d Document) Remove(id string) (Document, *Component, bool) {
	loc, ok := d.Locate(id)
	if !ok {
		return d, nil, false
	}
	if loc.Parent == nil {
		return removeAt(d, loc.Index), loc.Node, true
	}
	loc.Parent.Children = removeAt(loc.Parent.Children, loc.Index)
	return d, loc.Node, true
}

func removeAt(list []*Component, i int) []*Component {
	out := make([]*Component, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// Walk visits every component depth-first with its depth (roots are 0).
// Returning false from fn skips the component's children.
func (d Document) Walk(fn func(c *Component, depth int) bool) {
	walk(d, 0, fn)
}

func walk(list []*Component, depth int, fn func(*Component, int) bool) {
	for _, c := range list {
		if c == nil {
			continue
		}
		if fn(c, depth) && c.Children != nil {
			walk(c.Children, depth+1, fn)
		}
	}
}

// IDs returns the set of ids in the forest.
func (d Document) IDs() map[string]struct{} {
	ids := make(map[string]struct{})
	d.Walk(func(c *Component, _ int) bool {
		ids[c.ID] = struct{}{}
		return true
	})
	return ids
}

// Count returns the number of components at every depth.
func (d Document) Count() int {
	n := 0
	d.Walk(func(*Component, int) bool {
		n++
		return true
	})
	return n
}

// Validate checks that every node is present and carries a non-empty id
// that is unique across the whole forest.
func (d Document) Validate() error {
	return validateTree(d, map[string]struct{}{})
}

// ValidateAgainst checks that the subtree rooted at c is well-formed and
// that none of its ids already exist in d.
func (d Document) ValidateAgainst(c *Component) error {
	return validateTree([]*Component{c}, d.IDs())
}

func validateTree(list []*Component, seen map[string]struct{}) error {
	for i, c := range list {
		if c == nil {
			return fmt.Errorf("%w at index %d", ErrNilComponent, i)
		}
		if c.ID == "" {
			return fmt.Errorf("%w (type %q at index %d)", ErrMissingID, c.Type, i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
		for _, k := range reservedKeys {
			if _, ok := c.Fields.Get(k); ok {
				return fmt.Errorf("%w: %s on %s", ErrReservedKey, k, c.ID)
			}
		}
		if err := validateTree(c.Children, seen); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a structurally independent copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, c := range d {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the component and its subtree.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := &Component{
		ID:           c.ID,
		Type:         c.Type,
		Fields:       c.Fields.Clone(),
		CustomStyles: c.CustomStyles.Clone(),
	}
	if c.Children != nil {
		out.Children = make([]*Component, len(c.Children))
		for i, child := range c.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// CloneValue deep-copies a JSON-shaped field value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, e := range t {
			out[k] = e
		}
		return out
	default:
		return t
	}
}

// Equal reports whether d and o serialize identically, field order and
// children presence included.
func (d Document) Equal(o Document) bool {
	a, errA := EncodeJSON(d.orEmpty(), "")
	b, errB := EncodeJSON(o.orEmpty(), "")
	return errA == nil && errB == nil && string(a) == string(b)
}

func (d Document) orEmpty() Document {
	if d == nil {
		return Document{}
	}
	return d
}
