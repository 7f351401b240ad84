package render

import (
	"fmt"
	"strconv"
	"strings"

	"pagebuilder/internal/domain"
)

const tailwindCDN = "https://cdn.tailwindcss.com"

// baselineCSS keeps the page presentable when the utility-class engine is
// not loaded.
var baselineCSS = []string{
	"/* Basic responsive styles */",
	".container { width: 100%; max-width: 1200px; margin: 0 auto; padding: 0 15px; }",
	"img { max-width: 100%; height: auto; }",
	"table { border-collapse: collapse; width: 100%; }",
	"th, td { border: 1px solid #ccc; padding: 8px; text-align: left; }",
	"th { background-color: #f4f4f4; font-weight: bold; }",
	".form-group { margin-bottom: 1rem; }",
	".form-group label { display: block; margin-bottom: 0.5rem; font-weight: bold; }",
	".form-group input, .form-group textarea, .form-group select { width: 100%; padding: 0.5rem; border: 1px solid #ccc; border-radius: 4px; }",
	".card-content { padding: 1rem; }",
	".nav-container { display: flex; justify-content: space-between; align-items: center; }",
	".nav-menu { list-style: none; display: flex; gap: 1rem; margin: 0; padding: 0; }",
	".nav-menu a { text-decoration: none; color: inherit; }",
	".grid-item { background-color: #f0f0f0; padding: 1rem; border-radius: 4px; }",
	"@media (min-width: 768px) {",
	"  .hero-content { display: flex; align-items: center; }",
	"  .hero-text, .hero-image { width: 50%; }",
	"  .feature-item { display: inline-block; width: calc(33.333% - 20px); margin: 10px; vertical-align: top; }",
	"}",
	"@media (max-width: 767px) {",
	"  .feature-item { margin-bottom: 20px; }",
	"  .nav-container { flex-direction: column; }",
	"  .nav-menu { margin-top: 1rem; }",
	"  table, th, td { font-size: 0.9rem; }",
	"}",
}

// HTML renders a complete page for doc using the given styling strategy.
// Every type string renders; unknown kinds become a comment marker.
func HTML(doc domain.Document, mode domain.OutputMode) string {
	w := &htmlWriter{mode: mode}

	w.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	w.line(1, `<meta charset="UTF-8">`)
	w.line(1, `<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	w.line(1, "<title>Exported Landing Page</title>")

	switch mode {
	case domain.OutputTailwind:
		w.line(1, `<script src="%s"></script>`, tailwindCDN)
	case domain.OutputCSSClasses:
		w.line(1, "<style>")
		doc.Walk(func(c *domain.Component, _ int) bool {
			if c.CustomStyles.Len() == 0 {
				return true
			}
			w.line(2, ".component-%s {", c.ID)
			c.CustomStyles.Each(func(prop, value string) {
				w.line(3, "%s: %s;", Kebab(prop), value)
			})
			w.line(2, "}")
			return true
		})
		w.line(1, "</style>")
	}

	w.raw("</head>\n<body>\n")
	for _, c := range doc {
		w.component(c, 1)
	}

	if mode != domain.OutputTailwind {
		w.line(1, "<style>")
		for _, rule := range baselineCSS {
			w.line(2, "%s", rule)
		}
		w.line(1, "</style>")
	}

	w.raw("</body>\n</html>")
	return w.b.String()
}

// Kebab converts a camelCase CSS property name to kebab-case.
func Kebab(prop string) string {
	var b strings.Builder
	for _, r := range prop {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InlineStyle joins the styles as "kebab-key: value" pairs separated by "; ".
func InlineStyle(styles *domain.Styles) string {
	parts := make([]string, 0, styles.Len())
	styles.Each(func(prop, value string) {
		parts = append(parts, Kebab(prop)+": "+value)
	})
	return strings.Join(parts, "; ")
}

type htmlWriter struct {
	b    strings.Builder
	mode domain.OutputMode
}

func (w *htmlWriter) raw(s string) {
	w.b.WriteString(s)
}

// line writes one indented line; each depth level is two spaces.
func (w *htmlWriter) line(depth int, format string, args ...any) {
	w.b.WriteString(strings.Repeat("  ", depth))
	if len(args) == 0 {
		w.b.WriteString(format)
	} else {
		fmt.Fprintf(&w.b, format, args...)
	}
	w.b.WriteByte('\n')
}

// attrs returns the class and style attributes for the component's
// outermost tag under the active mode.
func (w *htmlWriter) attrs(c *domain.Component) string {
	switch w.mode {
	case domain.OutputTailwind:
		if classes := c.Classes(); classes != "" {
			return ` class="` + classes + `"`
		}
	case domain.OutputCSSClasses:
		return ` class="component-` + c.ID + `"`
	case domain.OutputInlineStyles:
		if style := InlineStyle(c.CustomStyles); style != "" {
			return ` style="` + style + `"`
		}
	}
	return ""
}

func (w *htmlWriter) children(c *domain.Component, depth int) {
	for _, child := range c.Children {
		w.component(child, depth)
	}
}

func (w *htmlWriter) component(c *domain.Component, depth int) {
	if c == nil {
		return
	}
	a := w.attrs(c)

	switch c.Type {
	case domain.ComponentHeader:
		w.textTag(c, depth, "header", a)
	case domain.ComponentParagraph:
		w.textTag(c, depth, "p", a)
	case domain.ComponentHeading:
		w.textTag(c, depth, "h"+strconv.Itoa(headingLevel(c)), a)
	case domain.ComponentButton:
		w.textTag(c, depth, "button", a)
	case domain.ComponentLink:
		target := ""
		if c.String("target") == "_blank" {
			target = ` target="_blank"`
		}
		open := fmt.Sprintf(`a href="%s"%s`, c.String("href"), target)
		w.textTagOpen(c, depth, "a", open, a)
	case domain.ComponentImage:
		w.line(depth, `<img src="%s" alt="%s"%s>`, c.String("src"), c.String("alt"), a)
		// img is void, so children follow as siblings
		w.children(c, depth)

	case domain.ComponentContainer:
		w.line(depth, "<div%s>", a)
		if c.HasChildren() {
			w.children(c, depth+1)
		} else {
			w.line(depth+1, "<!-- Empty Container -->")
		}
		w.line(depth, "</div>")
	case domain.ComponentGrid:
		w.grid(c, depth, a)
	case domain.ComponentFlexbox:
		w.line(depth, "<div%s>", a)
		if c.HasChildren() {
			w.children(c, depth+1)
		} else {
			w.line(depth+1, `<div class="flex-item">Flex Item 1</div>`)
			w.line(depth+1, `<div class="flex-item">Flex Item 2</div>`)
		}
		w.line(depth, "</div>")
	case domain.ComponentSection:
		w.line(depth, "<section%s>", a)
		w.children(c, depth+1)
		w.line(depth, "</section>")

	case domain.ComponentHero:
		w.hero(c, depth, a)
	case domain.ComponentFeatures:
		w.features(c, depth, a)
	case domain.ComponentCTA:
		w.line(depth, "<section%s>", a)
		w.line(depth+1, `<div class="container">`)
		w.line(depth+2, "<h2>%s</h2>", c.String("heading"))
		w.line(depth+2, "<button>%s</button>", c.String("buttonText"))
		w.line(depth+1, "</div>")
		w.children(c, depth+1)
		w.line(depth, "</section>")
	case domain.ComponentCard:
		w.card(c, depth, a)
	case domain.ComponentNavbar, domain.ComponentNavigation:
		w.nav(c, depth, a)
	case domain.ComponentFooter:
		w.footer(c, depth, a)
	case domain.ComponentTable:
		w.table(c, depth, a)
	case domain.ComponentList:
		w.list(c, depth, a)
	case domain.ComponentInput:
		w.line(depth, "<div%s>", a)
		w.label(c, depth+1)
		inputType := c.String("inputType")
		if inputType == "" {
			inputType = "text"
		}
		w.line(depth+1, `<input type="%s" placeholder="%s"%s>`, inputType, c.String("placeholder"), required(c.Bool("required")))
		w.children(c, depth+1)
		w.line(depth, "</div>")
	case domain.ComponentTextarea:
		w.line(depth, "<div%s>", a)
		w.label(c, depth+1)
		rows := c.Int("rows", 4)
		if rows <= 0 {
			rows = 4
		}
		w.line(depth+1, `<textarea placeholder="%s" rows="%d"%s></textarea>`, c.String("placeholder"), rows, required(c.Bool("required")))
		w.children(c, depth+1)
		w.line(depth, "</div>")
	case domain.ComponentSelect:
		w.line(depth, "<div%s>", a)
		w.label(c, depth+1)
		placeholder := c.String("placeholder")
		if placeholder == "" {
			placeholder = "Choose an option"
		}
		w.line(depth+1, "<select>")
		w.line(depth+2, `<option value="">%s</option>`, placeholder)
		w.options(c, depth+2)
		w.line(depth+1, "</select>")
		w.children(c, depth+1)
		w.line(depth, "</div>")
	case domain.ComponentDropdown:
		w.line(depth, "<select%s>", a)
		w.line(depth+1, `<option value="">%s</option>`, c.String("label"))
		w.options(c, depth+1)
		w.line(depth, "</select>")
		// option lists cannot hold components, so children follow as siblings
		w.children(c, depth)
	case domain.ComponentContact:
		w.contact(c, depth, a)
	case domain.ComponentTestimonial:
		w.testimonial(c, depth, a)
	case domain.ComponentForm:
		w.form(c, depth, a)

	default:
		w.line(depth, "<!-- Unknown component type: %s -->", c.Type)
		w.children(c, depth)
	}
}

// textTag renders a single-line element, switching to block form when the
// component carries children.
func (w *htmlWriter) textTag(c *domain.Component, depth int, tag, a string) {
	w.textTagOpen(c, depth, tag, tag, a)
}

func (w *htmlWriter) textTagOpen(c *domain.Component, depth int, tag, open, a string) {
	if !c.HasChildren() {
		w.line(depth, "<%s%s>%s</%s>", open, a, c.String(domain.KeyContent), tag)
		return
	}
	w.line(depth, "<%s%s>", open, a)
	if content := c.String(domain.KeyContent); content != "" {
		w.line(depth+1, "%s", content)
	}
	w.children(c, depth+1)
	w.line(depth, "</%s>", tag)
}

func (w *htmlWriter) grid(c *domain.Component, depth int, a string) {
	w.line(depth, "<div%s>", a)
	switch {
	case c.HasChildren():
		w.children(c, depth+1)
	case len(c.List("items")) > 0:
		for _, item := range c.List("items") {
			w.line(depth+1, `<div class="grid-item">%s</div>`, itemText(item))
		}
	default:
		columns := c.Int("columns", 3)
		if columns <= 0 {
			columns = 3
		}
		for i := 1; i <= columns; i++ {
			w.line(depth+1, `<div class="grid-item">Grid Item %d</div>`, i)
		}
	}
	w.line(depth, "</div>")
}

func (w *htmlWriter) hero(c *domain.Component, depth int, a string) {
	w.line(depth, "<section%s>", a)
	w.line(depth+1, `<div class="container">`)
	w.line(depth+2, "<h2>%s</h2>", c.String("heading"))
	w.line(depth+2, "<p>%s</p>", c.String("subheading"))
	w.line(depth+2, `<div class="hero-content">`)
	w.line(depth+3, `<div class="hero-text">`)
	w.line(depth+4, "<p>%s</p>", c.String(domain.KeyContent))
	w.line(depth+3, "</div>")
	w.line(depth+3, `<div class="hero-image">`)
	w.line(depth+4, `<img src="%s" alt="Hero image">`, c.String("imageUrl"))
	w.line(depth+3, "</div>")
	w.line(depth+2, "</div>")
	w.line(depth+1, "</div>")
	w.children(c, depth+1)
	w.line(depth, "</section>")
}

func (w *htmlWriter) features(c *domain.Component, depth int, a string) {
	w.line(depth, "<section%s>", a)
	w.line(depth+1, `<div class="container">`)
	for _, item := range c.List("items") {
		w.line(depth+2, `<div class="feature-item">`)
		w.line(depth+3, "<h3>%s</h3>", domain.Field(item, "title"))
		w.line(depth+3, "<p>%s</p>", domain.Field(item, "description"))
		w.line(depth+2, "</div>")
	}
	w.line(depth+1, "</div>")
	w.children(c, depth+1)
	w.line(depth, "</section>")
}

func (w *htmlWriter) card(c *domain.Component, depth int, a string) {
	w.line(depth, "<div%s>", a)
	if img := c.String("imageUrl"); img != "" {
		w.line(depth+1, `<img src="%s" alt="Card image">`, img)
	}
	w.line(depth+1, `<div class="card-content">`)
	w.line(depth+2, "<h3>%s</h3>", c.String("title"))
	w.line(depth+2, "<p>%s</p>", c.String(domain.KeyContent))
	if text := c.String("buttonText"); text != "" {
		w.line(depth+2, "<button>%s</button>", text)
	}
	w.line(depth+1, "</div>")
	w.children(c, depth+1)
	w.line(depth, "</div>")
}

func (w *htmlWriter) nav(c *domain.Component, depth int, a string) {
	w.line(depth, "<nav%s>", a)
	w.line(depth+1, `<div class="nav-container">`)
	w.line(depth+2, `<div class="nav-brand">%s</div>`, c.String("brand"))
	if items := c.List("items"); len(items) > 0 {
		w.line(depth+2, `<ul class="nav-menu">`)
		for _, item := range items {
			w.line(depth+3, `<li><a href="%s">%s</a></li>`, domain.Field(item, "href"), domain.Field(item, "label"))
		}
		w.line(depth+2, "</ul>")
	}
	w.line(depth+1, "</div>")
	w.children(c, depth+1)
	w.line(depth, "</nav>")
}

func (w *htmlWriter) footer(c *domain.Component, depth int, a string) {
	w.line(depth, "<footer%s>", a)
	w.line(depth+1, `<div class="footer-container">`)
	w.line(depth+2, `<div class="footer-brand">%s</div>`, c.String("brand"))
	for _, column := range c.List("columns") {
		w.line(depth+2, `<div class="footer-column">`)
		w.line(depth+3, "<h4>%s</h4>", domain.Field(column, "title"))
		col, _ := domain.AsObject(column)
		if links := domain.AsList(col["links"]); len(links) > 0 {
			w.line(depth+3, "<ul>")
			for _, link := range links {
				w.line(depth+4, `<li><a href="%s">%s</a></li>`, domain.Field(link, "href"), domain.Field(link, "label"))
			}
			w.line(depth+3, "</ul>")
		}
		w.line(depth+2, "</div>")
	}
	w.line(depth+2, `<div class="footer-copyright">%s</div>`, c.String("copyright"))
	w.line(depth+1, "</div>")
	w.children(c, depth+1)
	w.line(depth, "</footer>")
}

func (w *htmlWriter) table(c *domain.Component, depth int, a string) {
	w.line(depth, "<table%s>", a)
	if headers := c.List("headers"); len(headers) > 0 {
		w.line(depth+1, "<thead>")
		w.line(depth+2, "<tr>")
		for _, h := range headers {
			w.line(depth+3, "<th>%s</th>", itemText(h))
		}
		w.line(depth+2, "</tr>")
		w.line(depth+1, "</thead>")
	}
	if rows := c.List("rows"); len(rows) > 0 {
		w.line(depth+1, "<tbody>")
		for _, row := range rows {
			w.line(depth+2, "<tr>")
			cells := domain.AsList(row)
			if obj, ok := domain.AsObject(row); ok {
				cells = domain.AsList(obj["cells"])
			}
			for _, cell := range cells {
				w.line(depth+3, "<td>%s</td>", itemText(cell))
			}
			w.line(depth+2, "</tr>")
		}
		w.line(depth+1, "</tbody>")
	}
	w.line(depth, "</table>")
	// table content models reject arbitrary elements, so children follow as siblings
	w.children(c, depth)
}

func (w *htmlWriter) list(c *domain.Component, depth int, a string) {
	tag := "ul"
	if c.String("listType") == "ol" {
		tag = "ol"
	}
	w.line(depth, "<%s%s>", tag, a)
	for _, item := range c.List("items") {
		w.line(depth+1, "<li>%s</li>", itemText(item))
	}
	for _, child := range c.Children {
		w.line(depth+1, "<li>")
		w.component(child, depth+2)
		w.line(depth+1, "</li>")
	}
	w.line(depth, "</%s>", tag)
}

func (w *htmlWriter) contact(c *domain.Component, depth int, a string) {
	w.line(depth, "<div%s>", a)
	w.line(depth+1, "<h2>%s</h2>", c.String("title"))
	w.line(depth+1, "<p>%s</p>", c.String("subtitle"))
	w.line(depth+1, "<form>")
	for _, field := range c.List("fields") {
		f, _ := domain.AsObject(field)
		name := domain.Text(f["name"])
		req := domain.Truthy(f["required"])
		star := ""
		if req {
			star = " *"
		}
		w.line(depth+2, `<div class="form-group">`)
		w.line(depth+3, `<label for="%s">%s%s</label>`, name, domain.Text(f["label"]), star)
		w.formControl(depth+3, f, req)
		w.line(depth+2, "</div>")
	}
	w.line(depth+2, `<button type="submit">%s</button>`, c.String("submitText"))
	w.line(depth+1, "</form>")
	w.children(c, depth+1)
	w.line(depth, "</div>")
}

func (w *htmlWriter) form(c *domain.Component, depth int, a string) {
	w.line(depth, "<form%s>", a)
	if title := c.String("title"); title != "" {
		w.line(depth+1, "<h3>%s</h3>", title)
	}
	for _, field := range c.List("fields") {
		f, _ := domain.AsObject(field)
		w.line(depth+1, `<div class="form-group">`)
		w.line(depth+2, `<label for="%s">%s</label>`, domain.Text(f["name"]), domain.Text(f["label"]))
		w.formControl(depth+2, f, false)
		w.line(depth+1, "</div>")
	}
	w.children(c, depth+1)
	w.line(depth+1, `<button type="submit">%s</button>`, c.String("submitText"))
	w.line(depth, "</form>")
}

func (w *htmlWriter) formControl(depth int, f map[string]any, req bool) {
	name := domain.Text(f["name"])
	placeholder := domain.Text(f["placeholder"])
	fieldType := domain.Text(f["type"])
	if fieldType == "textarea" {
		w.line(depth, `<textarea id="%s" name="%s" placeholder="%s"%s></textarea>`, name, name, placeholder, required(req))
		return
	}
	w.line(depth, `<input type="%s" id="%s" name="%s" placeholder="%s"%s>`, fieldType, name, name, placeholder, required(req))
}

func (w *htmlWriter) testimonial(c *domain.Component, depth int, a string) {
	w.line(depth, "<div%s>", a)
	if avatar := c.String("avatar"); avatar != "" {
		w.line(depth+1, `<img src="%s" alt="Avatar" class="testimonial-avatar">`, avatar)
	}
	w.line(depth+1, `<blockquote>"%s"</blockquote>`, c.String("quote"))
	w.line(depth+1, `<div class="testimonial-author">`)
	w.line(depth+2, `<div class="author-name">%s</div>`, c.String("author"))
	w.line(depth+2, `<div class="author-position">%s</div>`, c.String("position"))
	if rating := c.Int("rating", 0); rating != 0 {
		rating = min(max(rating, 0), 5)
		w.line(depth+2, `<div class="rating">%s%s</div>`, strings.Repeat("★", rating), strings.Repeat("☆", 5-rating))
	}
	w.line(depth+1, "</div>")
	w.children(c, depth+1)
	w.line(depth, "</div>")
}

func (w *htmlWriter) label(c *domain.Component, depth int) {
	if label := c.String("label"); label != "" {
		w.line(depth, "<label>%s</label>", label)
	}
}

func (w *htmlWriter) options(c *domain.Component, depth int) {
	for _, opt := range c.List("options") {
		w.line(depth, `<option value="%s">%s</option>`, domain.Field(opt, "value"), domain.Field(opt, "label"))
	}
}

func headingLevel(c *domain.Component) int {
	level := c.Int("level", 1)
	if level < 1 || level > 6 {
		return 1
	}
	return level
}

// itemText prints a list entry that is either a bare value or an object
// carrying a "content" key.
func itemText(v any) string {
	if obj, ok := domain.AsObject(v); ok {
		return domain.Text(obj[domain.KeyContent])
	}
	return domain.Text(v)
}

func required(req bool) string {
	if req {
		return " required"
	}
	return ""
}
