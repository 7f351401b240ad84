package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type ComponentType string

const (
	ComponentHeader      ComponentType = "header"
	ComponentParagraph   ComponentType = "paragraph"
	ComponentHeading     ComponentType = "heading"
	ComponentButton      ComponentType = "button"
	ComponentImage       ComponentType = "image"
	ComponentLink        ComponentType = "link"
	ComponentContainer   ComponentType = "container"
	ComponentGrid        ComponentType = "grid"
	ComponentFlexbox     ComponentType = "flexbox"
	ComponentSection     ComponentType = "section"
	ComponentHero        ComponentType = "hero"
	ComponentFeatures    ComponentType = "features"
	ComponentCTA         ComponentType = "cta"
	ComponentCard        ComponentType = "card"
	ComponentNavbar      ComponentType = "navbar"
	ComponentNavigation  ComponentType = "navigation"
	ComponentFooter      ComponentType = "footer"
	ComponentTable       ComponentType = "table"
	ComponentList        ComponentType = "list"
	ComponentInput       ComponentType = "input"
	ComponentTextarea    ComponentType = "textarea"
	ComponentSelect      ComponentType = "select"
	ComponentDropdown    ComponentType = "dropdown"
	ComponentContact     ComponentType = "contact"
	ComponentTestimonial ComponentType = "testimonial"
	ComponentForm        ComponentType = "form"
)

// KnownComponentTypes lists every kind the HTML renderer has a dedicated shape for.
var KnownComponentTypes = []ComponentType{
	ComponentHeader, ComponentParagraph, ComponentHeading, ComponentButton,
	ComponentImage, ComponentLink, ComponentContainer, ComponentGrid,
	ComponentFlexbox, ComponentSection, ComponentHero, ComponentFeatures,
	ComponentCTA, ComponentCard, ComponentNavbar, ComponentNavigation,
	ComponentFooter, ComponentTable, ComponentList, ComponentInput,
	ComponentTextarea, ComponentSelect, ComponentDropdown, ComponentContact,
	ComponentTestimonial, ComponentForm,
}

// IsContainer reports whether the kind exists to hold child components.
func (t ComponentType) IsContainer() bool {
	switch t {
	case ComponentContainer, ComponentGrid, ComponentFlexbox, ComponentSection:
		return true
	}
	return false
}

// Keys with a dedicated home on Component; everything else lives in Fields.
const (
	KeyID           = "id"
	KeyType         = "type"
	KeyCustomStyles = "customStyles"
	KeyChildren     = "children"
	KeyClasses      = "classes"
	KeyContent      = "content"
)

// Component is one node of the editable document tree.
//
// Children distinguishes an absent field (nil) from a present but empty
// one; both render as "no children". CustomStyles is nil until the first
// style write.
type Component struct {
	ID           string
	Type         ComponentType
	Fields       Fields
	CustomStyles *Styles
	Children     []*Component
}

// NewComponent builds a component of the given kind with optional fields.
func NewComponent(id string, typ ComponentType, fields map[string]any) *Component {
	c := &Component{ID: id, Type: typ}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.SetField(k, fields[k]); err != nil {
			// left in Fields for Validate to reject
			c.Fields.Set(k, fields[k])
		}
	}
	return c
}

var reservedKeys = []string{KeyID, KeyType, KeyCustomStyles, KeyChildren}

// IsReservedKey reports whether key maps to a dedicated Component field
// rather than to Fields.
func IsReservedKey(key string) bool {
	for _, k := range reservedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SetField stores value under key, routing id, type, customStyles and
// children to their dedicated fields. customStyles merges into existing
// styles; children replaces the subtree. Ids are not checked here.
func (c *Component) SetField(key string, value any) error {
	switch key {
	case KeyID:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("id must be a string")
		}
		c.ID = s
	case KeyType:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("type must be a string")
		}
		c.Type = ComponentType(s)
	case KeyCustomStyles:
		if value == nil {
			return nil
		}
		if m, ok := value.(map[string]string); ok {
			c.EnsureStyles().Merge(m)
			return nil
		}
		obj, ok := AsObject(value)
		if !ok {
			return fmt.Errorf("customStyles must be an object")
		}
		patch := make(map[string]string, len(obj))
		for prop, v := range obj {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("customStyles.%s must be a string", prop)
			}
			patch[prop] = s
		}
		c.EnsureStyles().Merge(patch)
	case KeyChildren:
		if value == nil {
			c.Children = nil
			return nil
		}
		data, err := EncodeJSON(value, "")
		if err != nil {
			return fmt.Errorf("children: %w", err)
		}
		var children []*Component
		if err := json.Unmarshal(data, &children); err != nil {
			return fmt.Errorf("children: %w", err)
		}
		if children == nil {
			children = []*Component{}
		}
		c.Children = children
	default:
		c.Fields.Set(key, value)
	}
	return nil
}

// EnsureStyles initializes CustomStyles and returns it.
func (c *Component) EnsureStyles() *Styles {
	if c.CustomStyles == nil {
		c.CustomStyles = NewStyles()
	}
	return c.CustomStyles
}

// HasChildren reports whether the component carries at least one child.
func (c *Component) HasChildren() bool {
	return len(c.Children) > 0
}

// Classes returns the utility-class string used by the tailwind output mode.
func (c *Component) Classes() string {
	return c.String(KeyClasses)
}

// String returns a field rendered as text. Missing and null fields yield "".
func (c *Component) String(key string) string {
	v, ok := c.Fields.Get(key)
	if !ok {
		return ""
	}
	return Text(v)
}

// Int returns a numeric field, accepting numbers and numeric strings.
func (c *Component) Int(key string, def int) int {
	v, ok := c.Fields.Get(key)
	if !ok {
		return def
	}
	if n, ok := Number(v); ok {
		return n
	}
	return def
}

// Bool reports whether a field is truthy.
func (c *Component) Bool(key string) bool {
	v, ok := c.Fields.Get(key)
	if !ok {
		return false
	}
	return Truthy(v)
}

// List returns a sequence field, or nil when the field is absent or not a list.
func (c *Component) List(key string) []any {
	v, ok := c.Fields.Get(key)
	if !ok {
		return nil
	}
	return AsList(v)
}

// Text renders a JSON-shaped value the way the exporter prints it.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Number converts a JSON-shaped value to an int when it holds an integral number.
func Number(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case float64:
		return int(t), true
	case float32:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Truthy mirrors the loose truthiness the editor applies to flags like "required".
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

// AsList returns v as a sequence when it is one.
func AsList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	}
	return nil
}

// AsObject returns v as an object when it is one.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Field reads key from an object-shaped value as text.
func Field(v any, key string) string {
	m, ok := AsObject(v)
	if !ok {
		return ""
	}
	return Text(m[key])
}
