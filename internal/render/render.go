// Package render turns a (possibly elided) classified tree back into
// text, walking it in byte order and substituting placeholder text only
// where a pass has set it.
package render

import (
	"strings"

	"github.com/Max-Moro/lg-cli/internal/cst"
)

// Render walks tree and produces the final output text (spec §4.8): every
// retained byte span is emitted verbatim in original order, and every
// elided node contributes its placeholder text in its place. It never
// reformats retained code.
func Render(tree *cst.Tree) string {
	var sb strings.Builder
	renderSiblings(&sb, tree.Source, tree.TopLevel, 0, len(tree.Source))
	return sb.String()
}

// renderSiblings renders nodes in order, filling the byte gaps before,
// between, and after them with the original source text (blank lines,
// preprocessor/comment text the adapter left unattached to any node, and
// the trailing bytes after the last node) the same way renderContainer
// does for a container's Children.
func renderSiblings(sb *strings.Builder, src string, nodes []*cst.Node, start, end int) {
	pos := start
	for _, n := range nodes {
		if !n.Suppressed && n.ByteRange.Start > pos {
			sb.WriteString(src[pos:n.ByteRange.Start])
		}
		renderNode(sb, src, n)
		if n.ByteRange.End > pos {
			pos = n.ByteRange.End
		}
	}
	if end > pos {
		sb.WriteString(src[pos:end])
	}
}

func renderNode(sb *strings.Builder, src string, n *cst.Node) {
	if n == nil || n.Suppressed {
		return
	}
	if n.Elided != nil {
		sb.WriteString(n.Elided.Text)
		return
	}
	if len(n.Children) > 0 {
		renderContainer(sb, src, n)
		return
	}
	if n.Body != nil {
		sb.WriteString(src[n.ByteRange.Start:n.Body.ByteRange.Start])
		renderNode(sb, src, n.Body)
		if n.Body.ByteRange.End < n.ByteRange.End {
			sb.WriteString(src[n.Body.ByteRange.End:n.ByteRange.End])
		}
		return
	}
	sb.WriteString(n.Text)
}

// renderContainer reconstructs a class/struct/namespace node from its
// Children: the signature/header prefix, each child in order with the
// original inter-child source bytes (blank lines, access labels the
// classifier left unattached) preserved verbatim between them, and the
// trailing suffix after the last child. It deliberately ignores n.Text,
// which holds the pre-elision raw slice and would undo member filtering.
func renderContainer(sb *strings.Builder, src string, n *cst.Node) {
	pos := n.ByteRange.Start
	for _, c := range n.Children {
		if !c.Suppressed && c.ByteRange.Start > pos {
			sb.WriteString(src[pos:c.ByteRange.Start])
		}
		renderNode(sb, src, c)
		if c.ByteRange.End > pos {
			pos = c.ByteRange.End
		}
	}
	if n.ByteRange.End > pos {
		sb.WriteString(src[pos:n.ByteRange.End])
	}
}
