package render

import (
	"fmt"

	tp "github.com/xlab/treeprint"

	"pagebuilder/internal/domain"
)

const previewLen = 32

// Tree prints the document outline, one node per component, labelled with
// the kind and id and a short preview of its text content.
func Tree(doc domain.Document) string {
	p := tp.NewWithRoot(fmt.Sprintf("document (%d components)", doc.Count()))
	for _, c := range doc {
		addTreeNode(p, c)
	}
	return p.String()
}

func addTreeNode(p tp.Tree, c *domain.Component) {
	if c == nil {
		return
	}
	label := c.ID
	if content := c.String(domain.KeyContent); content != "" {
		label += fmt.Sprintf(" %q", preview(content))
	}
	if !c.HasChildren() {
		p.AddMetaNode(c.Type, label)
		return
	}
	branch := p.AddMetaBranch(c.Type, label)
	for _, child := range c.Children {
		addTreeNode(branch, child)
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "…"
}
