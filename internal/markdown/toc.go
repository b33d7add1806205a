package markdown

import (
	"bytes"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"go.abhg.dev/goldmark/toc"
)

// renderTOC renders the headings of a parsed document as a nested list. The
// root list is numbered (<ol type="1">); nested levels stay unordered. A
// document without headings yields an empty string.
func renderTOC(root gmast.Node, source []byte, r renderer.Renderer) (string, error) {
	tree, err := toc.Inspect(root, source, toc.Compact(true))
	if err != nil {
		return "", err
	}
	if len(tree.Items) == 0 {
		return "", nil
	}
	node := toc.RenderList(tree)
	if list, ok := node.(*gmast.List); ok {
		list.Marker = '.'
		list.Start = 1
		list.SetAttributeString("type", []byte("1"))
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, source, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
