package domain

import (
	"fmt"
	"strings"
)

type PropertyKind string

const (
	PropertyText  PropertyKind = ""
	PropertyColor PropertyKind = "color"
)

// StyleProperty describes one CSS property the property panel can edit.
// Name is the camelCase key stored in customStyles.
type StyleProperty struct {
	Name    string       `json:"name"`
	Label   string       `json:"label"`
	Options []string     `json:"options"`
	Kind    PropertyKind `json:"kind,omitempty"`
}

// PropertyGroup is a labelled section of the property panel.
type PropertyGroup struct {
	Name       string   `json:"name"`
	Properties []string `json:"properties"`
}

var colorPalette = []string{
	"#000000", "#ffffff", "#f44336", "#e91e63", "#9c27b0", "#673ab7",
	"#3f51b5", "#2196f3", "#03a9f4", "#00bcd4", "#009688", "#4caf50",
	"#8bc34a", "#cddc39", "#ffeb3b", "#ffc107", "#ff9800", "#ff5722",
	"#795548", "#9e9e9e", "#607d8b",
}

// StyleProperties is the read-only table of stylable properties.
var StyleProperties = []StyleProperty{
	{Name: "margin", Label: "Margin", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "marginTop", Label: "Margin Top", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "marginBottom", Label: "Margin Bottom", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "marginLeft", Label: "Margin Left", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "marginRight", Label: "Margin Right", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "padding", Label: "Padding", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "paddingTop", Label: "Padding Top", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "paddingBottom", Label: "Padding Bottom", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "paddingLeft", Label: "Padding Left", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "paddingRight", Label: "Padding Right", Options: []string{"0", "1px", "2px", "4px", "8px", "16px", "24px", "32px", "48px", "64px"}},
	{Name: "width", Label: "Width", Options: []string{"auto", "25%", "50%", "75%", "100%", "200px", "300px", "400px", "500px", "600px", "fit-content", "max-content", "min-content"}},
	{Name: "height", Label: "Height", Options: []string{"auto", "100px", "200px", "300px", "400px", "500px", "100%", "fit-content", "max-content", "min-content"}},
	{Name: "maxWidth", Label: "Max Width", Options: []string{"none", "100%", "300px", "500px", "800px", "1000px", "1200px"}},
	{Name: "minWidth", Label: "Min Width", Options: []string{"0", "100px", "200px", "300px", "400px", "500px"}},
	{Name: "fontSize", Label: "Font Size", Options: []string{"12px", "14px", "16px", "18px", "20px", "24px", "28px", "32px", "36px", "48px", "64px"}},
	{Name: "fontWeight", Label: "Font Weight", Options: []string{"normal", "bold", "100", "200", "300", "400", "500", "600", "700", "800", "900"}},
	{Name: "textAlign", Label: "Text Align", Options: []string{"left", "center", "right", "justify"}},
	{Name: "lineHeight", Label: "Line Height", Options: []string{"1", "1.25", "1.5", "1.75", "2", "2.5"}},
	{Name: "letterSpacing", Label: "Letter Spacing", Options: []string{"normal", "0.05em", "0.1em", "-0.05em"}},
	{Name: "textDecoration", Label: "Text Decoration", Options: []string{"none", "underline", "overline", "line-through"}},
	{Name: "textTransform", Label: "Text Transform", Options: []string{"none", "uppercase", "lowercase", "capitalize"}},
	{Name: "fontStyle", Label: "Font Style", Options: []string{"normal", "italic", "oblique"}},
	{Name: "color", Label: "Text Color", Options: colorPalette, Kind: PropertyColor},
	{Name: "backgroundColor", Label: "Background Color", Options: append(append([]string{}, colorPalette...), "transparent"), Kind: PropertyColor},
	{Name: "backgroundImage", Label: "Background Image", Options: []string{"none", `url("https://via.placeholder.com/1200x800")`, "linear-gradient(to right, #4facfe 0%, #00f2fe 100%)"}},
	{Name: "backgroundSize", Label: "Background Size", Options: []string{"auto", "cover", "contain", "100% 100%"}},
	{Name: "backgroundPosition", Label: "Background Position", Options: []string{"center", "top", "bottom", "left", "right", "top left", "top right", "bottom left", "bottom right"}},
	{Name: "backgroundRepeat", Label: "Background Repeat", Options: []string{"repeat", "no-repeat", "repeat-x", "repeat-y"}},
	{Name: "borderWidth", Label: "Border Width", Options: []string{"0", "1px", "2px", "4px", "8px"}},
	{Name: "borderStyle", Label: "Border Style", Options: []string{"none", "solid", "dashed", "dotted", "double"}},
	{Name: "borderColor", Label: "Border Color", Options: colorPalette, Kind: PropertyColor},
	{Name: "borderRadius", Label: "Border Radius", Options: []string{"0", "2px", "4px", "8px", "16px", "24px", "32px", "50%"}},
	{Name: "display", Label: "Display", Options: []string{"block", "inline", "inline-block", "flex", "inline-flex", "grid", "none"}},
	{Name: "position", Label: "Position", Options: []string{"static", "relative", "absolute", "fixed", "sticky"}},
	{Name: "top", Label: "Top", Options: []string{"auto", "0", "50%", "100%", "10px", "20px", "30px"}},
	{Name: "right", Label: "Right", Options: []string{"auto", "0", "50%", "100%", "10px", "20px", "30px"}},
	{Name: "bottom", Label: "Bottom", Options: []string{"auto", "0", "50%", "100%", "10px", "20px", "30px"}},
	{Name: "left", Label: "Left", Options: []string{"auto", "0", "50%", "100%", "10px", "20px", "30px"}},
	{Name: "zIndex", Label: "Z-Index", Options: []string{"auto", "0", "1", "10", "100", "1000"}},
	{Name: "flexDirection", Label: "Flex Direction", Options: []string{"row", "row-reverse", "column", "column-reverse"}},
	{Name: "flexWrap", Label: "Flex Wrap", Options: []string{"nowrap", "wrap", "wrap-reverse"}},
	{Name: "justifyContent", Label: "Justify Content", Options: []string{"flex-start", "flex-end", "center", "space-between", "space-around", "space-evenly"}},
	{Name: "alignItems", Label: "Align Items", Options: []string{"stretch", "flex-start", "flex-end", "center", "baseline"}},
	{Name: "alignSelf", Label: "Align Self", Options: []string{"auto", "flex-start", "flex-end", "center", "baseline", "stretch"}},
	{Name: "gap", Label: "Gap", Options: []string{"0", "4px", "8px", "16px", "24px", "32px", "48px"}},
	{Name: "opacity", Label: "Opacity", Options: []string{"0", "0.25", "0.5", "0.75", "1"}},
	{Name: "boxShadow", Label: "Box Shadow", Options: []string{"none", "0 1px 3px rgba(0,0,0,0.12), 0 1px 2px rgba(0,0,0,0.24)", "0 3px 6px rgba(0,0,0,0.16), 0 3px 6px rgba(0,0,0,0.23)", "0 10px 20px rgba(0,0,0,0.19), 0 6px 6px rgba(0,0,0,0.23)", "0 14px 28px rgba(0,0,0,0.25), 0 10px 10px rgba(0,0,0,0.22)", "0 19px 38px rgba(0,0,0,0.30), 0 15px 12px rgba(0,0,0,0.22)"}},
	{Name: "transform", Label: "Transform", Options: []string{"none", "translateX(10px)", "translateY(10px)", "scale(1.1)", "rotate(5deg)", "skew(5deg)"}},
	{Name: "filter", Label: "Filter", Options: []string{"none", "blur(5px)", "brightness(1.2)", "contrast(1.2)", "grayscale(50%)", "hue-rotate(90deg)", "invert(75%)", "sepia(50%)"}},
	{Name: "transition", Label: "Transition", Options: []string{"none", "all 0.3s ease", "all 0.5s ease", "opacity 0.3s ease", "transform 0.3s ease"}},
	{Name: "animation", Label: "Animation", Options: []string{"none", "fadeIn 1s ease", "slideIn 0.5s ease", "pulse 2s infinite", "bounce 1s infinite"}},
	{Name: "cursor", Label: "Cursor", Options: []string{"auto", "default", "pointer", "help", "text", "not-allowed", "zoom-in", "zoom-out", "grab"}},
	{Name: "overflow", Label: "Overflow", Options: []string{"visible", "hidden", "scroll", "auto"}},
	{Name: "userSelect", Label: "User Select", Options: []string{"auto", "none", "text", "all"}},
}

var PropertyGroups = []PropertyGroup{
	{Name: "Layout", Properties: []string{
		"margin", "marginTop", "marginBottom", "marginLeft", "marginRight",
		"padding", "paddingTop", "paddingBottom", "paddingLeft", "paddingRight",
		"width", "height", "maxWidth", "minWidth",
	}},
	{Name: "Typography", Properties: []string{"fontSize", "fontWeight", "textAlign", "lineHeight", "letterSpacing", "textDecoration", "textTransform", "fontStyle"}},
	{Name: "Colors", Properties: []string{"color", "backgroundColor", "backgroundImage", "backgroundSize", "backgroundPosition", "backgroundRepeat"}},
	{Name: "Borders", Properties: []string{"borderWidth", "borderStyle", "borderColor", "borderRadius"}},
	{Name: "Display & Position", Properties: []string{"display", "position", "top", "right", "bottom", "left", "zIndex", "flexDirection", "flexWrap", "justifyContent", "alignItems", "alignSelf", "gap"}},
	{Name: "Effects", Properties: []string{"opacity", "boxShadow", "transform", "filter", "transition", "animation"}},
	{Name: "Other", Properties: []string{"cursor", "overflow", "userSelect"}},
}

var propertyIndex = func() map[string]*StyleProperty {
	idx := make(map[string]*StyleProperty, len(StyleProperties))
	for i := range StyleProperties {
		idx[StyleProperties[i].Name] = &StyleProperties[i]
	}
	return idx
}()

// LookupStyleProperty returns the metadata for a camelCase property name.
func LookupStyleProperty(name string) (StyleProperty, bool) {
	p, ok := propertyIndex[name]
	if !ok {
		return StyleProperty{}, false
	}
	return *p, true
}

// CSSFromProperties renders the known, non-empty properties of props as
// "prop: value;" lines.
func CSSFromProperties(props *Styles) string {
	var b strings.Builder
	props.Each(func(name, value string) {
		if value == "" {
			return
		}
		if _, ok := propertyIndex[name]; !ok {
			return
		}
		fmt.Fprintf(&b, "%s: %s;\n", name, value)
	})
	return b.String()
}
