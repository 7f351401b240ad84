package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"pagebuilder/internal/domain"
)

// componentFlags are the flags shared by add and add-child.
type componentFlags struct {
	id     string
	raw    string
	fields []string
	styles []string
}

// build assembles a component from --json and the key=value flags, which
// override keys from --json. The positional type and --id win over both.
func (f *componentFlags) build(typ string) (*domain.Component, error) {
	c := &domain.Component{}
	if f.raw != "" {
		if err := json.Unmarshal([]byte(f.raw), c); err != nil {
			return nil, fmt.Errorf("--json: %w", err)
		}
	}
	fields, err := parseFieldPairs(f.fields)
	if err != nil {
		return nil, err
	}
	for _, k := range sortedKeys(fields) {
		if err := c.SetField(k, fields[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
	}
	if typ != "" {
		c.Type = domain.ComponentType(typ)
	}
	if f.id != "" {
		c.ID = f.id
	}
	styles, err := parseStylePairs(f.styles)
	if err != nil {
		return nil, err
	}
	if len(styles) > 0 {
		c.EnsureStyles().Merge(styles)
	}
	return c, nil
}

// parseFieldPairs turns key=value pairs into a field map. A value that
// parses as JSON keeps its JSON type; anything else is a string.
func parseFieldPairs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("field %q must be key=value", p)
		}
		out[k] = fieldValue(v)
	}
	return out, nil
}

func fieldValue(v string) any {
	dec := json.NewDecoder(strings.NewReader(v))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil || dec.More() {
		return v
	}
	return parsed
}

// parseStylePairs turns property=value pairs into a style patch.
func parseStylePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("style %q must be property=value", p)
		}
		out[k] = v
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
