package domain

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields holds the type-specific properties of a component in insertion
// order. The zero value is an empty, usable set.
type Fields struct {
	m *orderedmap.OrderedMap[string, any]
}

func (f *Fields) init() {
	if f.m == nil {
		f.m = orderedmap.New[string, any]()
	}
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	if f.m == nil {
		return nil, false
	}
	return f.m.Get(key)
}

// Set stores value under key, keeping the key's original position when it exists.
func (f *Fields) Set(key string, value any) {
	f.init()
	f.m.Set(key, value)
}

// Delete removes key.
func (f *Fields) Delete(key string) {
	if f.m == nil {
		return
	}
	f.m.Delete(key)
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	if f.m == nil {
		return nil
	}
	keys := make([]string, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every field in insertion order.
func (f *Fields) Each(fn func(key string, value any)) {
	if f.m == nil {
		return
	}
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns a deep copy.
func (f *Fields) Clone() Fields {
	var out Fields
	f.Each(func(key string, value any) {
		out.Set(key, CloneValue(value))
	})
	return out
}

// Styles maps camelCase CSS property names to values, in insertion order.
type Styles struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewStyles builds a style map from alternating property/value pairs.
func NewStyles(pairs ...string) *Styles {
	s := &Styles{m: orderedmap.New[string, string]()}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.m.Set(pairs[i], pairs[i+1])
	}
	return s
}

func (s *Styles) init() {
	if s.m == nil {
		s.m = orderedmap.New[string, string]()
	}
}

// Get returns the value of a property.
func (s *Styles) Get(prop string) (string, bool) {
	if s == nil || s.m == nil {
		return "", false
	}
	return s.m.Get(prop)
}

// Set writes a single property.
func (s *Styles) Set(prop, value string) {
	s.init()
	s.m.Set(prop, value)
}

// Len returns the number of properties.
func (s *Styles) Len() int {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Each calls fn for every property in insertion order.
func (s *Styles) Each(fn func(prop, value string)) {
	if s == nil || s.m == nil {
		return
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Merge overwrites existing properties in place and appends new ones in
// sorted order, so repeated merges of the same patch are deterministic.
func (s *Styles) Merge(patch map[string]string) {
	s.init()
	for _, prop := range sortedKeys(patch) {
		s.m.Set(prop, patch[prop])
	}
}

// MergeStyles overwrites with every property of other, in other's order.
func (s *Styles) MergeStyles(other *Styles) {
	s.init()
	other.Each(func(prop, value string) {
		s.m.Set(prop, value)
	})
}

// Map returns an unordered copy.
func (s *Styles) Map() map[string]string {
	out := make(map[string]string, s.Len())
	s.Each(func(prop, value string) {
		out[prop] = value
	})
	return out
}

// Clone returns an independent copy. Cloning nil yields nil.
func (s *Styles) Clone() *Styles {
	if s == nil {
		return nil
	}
	out := NewStyles()
	s.Each(func(prop, value string) {
		out.m.Set(prop, value)
	})
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
