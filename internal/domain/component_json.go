package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MarshalJSON writes id and type first, then the fields in insertion order,
// then customStyles and children when present. HTML characters are not escaped.
func (c *Component) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := encodeJSON(key)
		if err != nil {
			return err
		}
		v, err := encodeJSON(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write(KeyID, c.ID); err != nil {
		return nil, err
	}
	if err := write(KeyType, string(c.Type)); err != nil {
		return nil, err
	}
	var fieldErr error
	c.Fields.Each(func(key string, value any) {
		if fieldErr == nil {
			fieldErr = write(key, value)
		}
	})
	if fieldErr != nil {
		return nil, fieldErr
	}
	if c.CustomStyles != nil {
		if err := write(KeyCustomStyles, c.CustomStyles); err != nil {
			return nil, err
		}
	}
	if c.Children != nil {
		if err := write(KeyChildren, c.Children); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any JSON object. Unknown keys become fields and
// numbers are kept as json.Number so nothing is lost on the way back out.
func (c *Component) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("component must be a JSON object")
	}

	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, raw); err != nil {
		return fmt.Errorf("decode component: %w", err)
	}

	var out Component
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case KeyID:
			if err := json.Unmarshal(pair.Value, &out.ID); err != nil {
				return fmt.Errorf("component id must be a string: %w", err)
			}
		case KeyType:
			var typ string
			if err := json.Unmarshal(pair.Value, &typ); err != nil {
				return fmt.Errorf("component %q: type must be a string: %w", out.ID, err)
			}
			out.Type = ComponentType(typ)
		case KeyCustomStyles:
			if isNull(pair.Value) {
				continue
			}
			styles := NewStyles()
			if err := json.Unmarshal(pair.Value, styles); err != nil {
				return fmt.Errorf("component %q: %w", out.ID, err)
			}
			out.CustomStyles = styles
		case KeyChildren:
			if isNull(pair.Value) {
				continue
			}
			children := []*Component{}
			if err := json.Unmarshal(pair.Value, &children); err != nil {
				return fmt.Errorf("component %q: children: %w", out.ID, err)
			}
			out.Children = children
		default:
			v, err := decodeValue(pair.Value)
			if err != nil {
				return fmt.Errorf("component %q: field %q: %w", out.ID, pair.Key, err)
			}
			out.Fields.Set(pair.Key, v)
		}
	}
	*c = out
	return nil
}

// MarshalJSON writes the properties in insertion order.
func (s *Styles) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	var err error
	s.Each(func(prop, value string) {
		if err != nil {
			return
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var k, v []byte
		if k, err = encodeJSON(prop); err != nil {
			return
		}
		if v, err = encodeJSON(value); err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON requires an object whose values are all strings.
func (s *Styles) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("customStyles must be a JSON object")
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, raw); err != nil {
		return fmt.Errorf("decode customStyles: %w", err)
	}
	out := NewStyles()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		var value string
		if err := json.Unmarshal(pair.Value, &value); err != nil {
			return fmt.Errorf("customStyles.%s must be a string", pair.Key)
		}
		out.Set(pair.Key, value)
	}
	*s = *out
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	return EncodeJSON(v, "")
}

func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// NormalizeValue converts an arbitrary Go value into the JSON shapes a
// component field may hold (string, json.Number, bool, nil, []any,
// map[string]any).
func NormalizeValue(v any) (any, error) {
	data, err := encodeJSON(v)
	if err != nil {
		return nil, err
	}
	return decodeValue(data)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// EncodeJSON marshals v without escaping HTML characters, indenting each
// level with indent when it is non-empty.
func EncodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
