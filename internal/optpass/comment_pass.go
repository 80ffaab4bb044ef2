package optpass

import (
	"strings"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// CommentPass implements spec §4.2. Docstrings are governed separately
// from ordinary comments (keep_doc keeps them verbatim while stripping
// everything else); keep_first_sentence truncates a docstring's inner
// text to its first sentence in place rather than replacing it with a
// generic placeholder. After individual comments are replaced, adjacent
// runs of two or more placeholder comments spanning four or more
// original lines combine into one "N comments omitted" placeholder.
//
// A trailing comment embedded on the same line as code was never split
// into its own node by the adapters (it stays inside the owning
// declaration's text), so this pass only ever sees standalone comment
// and docstring nodes, not inline trailing ones.
type CommentPass struct{}

func (p *CommentPass) Name() string { return "comments" }

func (p *CommentPass) Apply(tree *cst.Tree, pol policy.Policy, adp adapter.Adapter, _ tokenizer.Counter) ([]cst.Record, error) {
	if pol.Comments == "" || pol.Comments == policy.CommentKeepAll {
		return nil, nil
	}
	var records []cst.Record
	p.walk(tree.TopLevel, pol, adp, &records)
	return records, nil
}

func (p *CommentPass) walk(nodes []*cst.Node, pol policy.Policy, adp adapter.Adapter, records *[]cst.Record) {
	for _, n := range nodes {
		if n.Suppressed || n.Elided != nil {
			continue
		}
		switch n.Kind {
		case "comment_line", "comment_block":
			p.applyComment(n, pol, adp, records)
		case "docstring":
			p.applyDocstring(n, pol, adp, records)
		default:
			if len(n.Children) > 0 {
				p.walk(n.Children, pol, adp, records)
			}
		}
	}
	p.coalesce(nodes, adp, records)
}

func (p *CommentPass) applyComment(n *cst.Node, pol policy.Policy, adp adapter.Adapter, records *[]cst.Record) {
	if n.HasRole(cst.RoleDocstring) {
		p.applyDocstring(n, pol, adp, records)
		return
	}
	switch pol.Comments {
	case policy.CommentKeepDoc, policy.CommentKeepFirstSentence, policy.CommentStripAll:
		text := adp.Placeholder(cst.ElisionComment, adapter.PlaceholderDetail{})
		n.Elided = &cst.ElidedReplacement{Text: text}
		*records = append(*records, cst.Record{Kind: cst.ElisionComment, Node: n, ReplacementText: text, DroppedLineCount: n.LineRange.Lines()})
	}
}

func (p *CommentPass) applyDocstring(n *cst.Node, pol policy.Policy, adp adapter.Adapter, records *[]cst.Record) {
	switch pol.Comments {
	case policy.CommentKeepAll, policy.CommentKeepDoc:
		// preserved verbatim
	case policy.CommentKeepFirstSentence:
		truncateToFirstSentence(n)
	case policy.CommentStripAll:
		lines := n.LineRange.Lines()
		text := adp.Placeholder(cst.ElisionDocstring, adapter.PlaceholderDetail{Lines: lines})
		n.Elided = &cst.ElidedReplacement{Text: text}
		*records = append(*records, cst.Record{Kind: cst.ElisionDocstring, Node: n, ReplacementText: text, DroppedLineCount: lines})
	}
}

// coalesce merges a run of standalone comment nodes that were each just
// replaced with an individual placeholder into one combined placeholder,
// when the run has at least two comments spanning at least four original
// lines together (spec §4.2).
func (p *CommentPass) coalesce(nodes []*cst.Node, adp adapter.Adapter, records *[]cst.Record) {
	i := 0
	for i < len(nodes) {
		n := nodes[i]
		if !isLoneCommentPlaceholder(n) {
			i++
			continue
		}
		lines := n.LineRange.Lines()
		count := 1
		j := i + 1
		for j < len(nodes) && isLoneCommentPlaceholder(nodes[j]) {
			lines += nodes[j].LineRange.Lines()
			count++
			j++
		}
		if count >= 2 && lines >= 4 {
			text := adp.Placeholder(cst.ElisionComment, adapter.PlaceholderDetail{Count: count, Lines: lines})
			n.Elided = &cst.ElidedReplacement{Text: text}
			for k := i + 1; k < j; k++ {
				nodes[k].Suppressed = true
			}
			*records = append(*records, cst.Record{Kind: cst.ElisionComment, Node: n, ReplacementText: text, DroppedLineCount: lines, SummaryCount: count})
		}
		i = j
	}
}

func isLoneCommentPlaceholder(n *cst.Node) bool {
	return (n.Kind == "comment_line" || n.Kind == "comment_block") && n.Elided != nil && !n.Suppressed
}

// truncateToFirstSentence mutates n.Text in place, cutting a docstring's
// inner content at the end of its first sentence (or first line, if no
// sentence terminator is found) and appending an ellipsis.
func truncateToFirstSentence(n *cst.Node) {
	open, close, inner, ok := splitDocstringDelimiters(n.Text)
	if !ok {
		return
	}
	trimmed := strings.TrimSpace(inner)
	cut := firstSentenceCut(trimmed)
	if cut >= len(trimmed) {
		return
	}
	truncated := strings.TrimRight(trimmed[:cut], " \t") + "…"
	n.Text = open + " " + truncated + " " + close
}

func splitDocstringDelimiters(text string) (open, close, inner string, ok bool) {
	t := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(t, "/**") && strings.HasSuffix(t, "*/") && len(t) >= 5:
		return "/**", "*/", t[3 : len(t)-2], true
	case strings.HasPrefix(t, `"""`) && strings.HasSuffix(t, `"""`) && len(t) >= 6:
		return `"""`, `"""`, t[3:len(t)-3], true
	case strings.HasPrefix(t, "'''") && strings.HasSuffix(t, "'''") && len(t) >= 6:
		return "'''", "'''", t[3 : len(t)-3], true
	default:
		return "", "", "", false
	}
}

func firstSentenceCut(s string) int {
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '.' && (s[i+1] == ' ' || s[i+1] == '\t' || s[i+1] == '\n') {
			return i + 1
		}
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		return nl
	}
	return len(s)
}
