package domain

// OutputMode selects the styling strategy of the HTML export.
type OutputMode string

const (
	OutputTailwind     OutputMode = "tailwind"      // utility classes from the `classes` field
	OutputInlineStyles OutputMode = "inline-styles" // style attribute built from customStyles
	OutputCSSClasses   OutputMode = "css-classes"   // generated .component-<id> stylesheet
)

// OutputModes lists the accepted modes in display order.
var OutputModes = []OutputMode{OutputTailwind, OutputInlineStyles, OutputCSSClasses}

// ParseOutputMode validates s against the closed set of modes.
func ParseOutputMode(s string) (OutputMode, bool) {
	for _, m := range OutputModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}
