package optpass

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// LiteralPass implements spec §4.4: string literals longer than a
// per-literal token budget are truncated to their largest sub-budget
// prefix plus an ellipsis; collection literals are truncated element by
// element, recursing into nested collections with a shrunk sub-budget.
// It has no real expression parser available (spec §1 rules one out), so
// it re-scans each declaration's and function body's raw text for
// quote-delimited and brace-delimited spans directly, the same
// span-scanning technique the adapters use to split source into items.
type LiteralPass struct{}

func (p *LiteralPass) Name() string { return "literals" }

func (p *LiteralPass) Apply(tree *cst.Tree, pol policy.Policy, adp adapter.Adapter, counter tokenizer.Counter) ([]cst.Record, error) {
	if pol.Literals == "" || pol.Literals == policy.LiteralKeepAll {
		return nil, nil
	}
	maxTokens := pol.LiteralMaxTokens
	if maxTokens <= 0 {
		maxTokens = 30
	}
	var records []cst.Record
	var walk func(nodes []*cst.Node)
	walk = func(nodes []*cst.Node) {
		for _, n := range nodes {
			if n.Suppressed || n.Elided != nil {
				continue
			}
			if len(n.Children) > 0 {
				walk(n.Children)
			}
			if n.Body != nil && !n.Body.Suppressed && n.Body.Elided == nil {
				// Function bodies are opaque blobs: only string literals
				// inside them are trimmed, never brace regions, since a
				// raw brace scan cannot tell a collection initializer
				// from an ordinary if/for/while block here.
				p.processNode(n.Body, maxTokens, adp, counter, &records, false)
			}
			if n.Kind == "variable_declaration" || n.Kind == "forward_declaration" {
				p.processNode(n, maxTokens, adp, counter, &records, true)
			}
		}
	}
	walk(tree.TopLevel)
	return records, nil
}

type literalSpan struct{ start, end int }

// appendWithLineTrailingAnnotation writes replacement followed by whatever
// trailing code shares its physical line (a statement terminator like ";",
// a trailing "," before a brace, etc.), then the elision annotation, so
// `x = "…"; // literal string (−N tokens)` keeps the annotation a true
// trailing comment instead of splicing it in front of the statement's own
// trailing code. It returns the position the caller should resume copying
// from (the end of that line).
func appendWithLineTrailingAnnotation(sb *strings.Builder, text string, tEnd int, replacement, ann string) int {
	lineEnd := strings.IndexByte(text[tEnd:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += tEnd
	}
	sb.WriteString(replacement)
	sb.WriteString(text[tEnd:lineEnd])
	sb.WriteString(" ")
	sb.WriteString(ann)
	return lineEnd
}

func (p *LiteralPass) processNode(n *cst.Node, maxTokens int, adp adapter.Adapter, counter tokenizer.Counter, records *[]cst.Record, allowCollections bool) {
	if n.Text == "" {
		return
	}
	var braceSpans []literalSpan
	if allowCollections {
		braceSpans = findBraceSpans(n.Text)
	}
	strSpansAll := findStringSpans(n.Text)
	var strSpans []literalSpan
outer:
	for _, s := range strSpansAll {
		for _, b := range braceSpans {
			if s.start >= b.start && s.end <= b.end {
				continue outer
			}
		}
		strSpans = append(strSpans, s)
	}

	type tagged struct {
		literalSpan
		isBrace bool
	}
	all := make([]tagged, 0, len(braceSpans)+len(strSpans))
	for _, b := range braceSpans {
		all = append(all, tagged{b, true})
	}
	for _, s := range strSpans {
		all = append(all, tagged{s, false})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].start < all[j].start })

	var sb strings.Builder
	pos := 0
	changed := false
	for _, t := range all {
		if t.start < pos {
			continue
		}
		sb.WriteString(n.Text[pos:t.start])
		original := n.Text[t.start:t.end]
		if t.isBrace {
			if replacement, dropped, did := truncateCollection(original, maxTokens, counter); did {
				ann := adp.Placeholder(cst.ElisionLiteralCollection, adapter.PlaceholderDetail{Tokens: dropped})
				pos = appendWithLineTrailingAnnotation(&sb, n.Text, t.end, replacement, ann)
				*records = append(*records, cst.Record{Kind: cst.ElisionLiteralCollection, Node: n, ReplacementText: ann, DroppedTokenDelta: dropped})
				changed = true
				continue
			}
			sb.WriteString(original)
		} else {
			replacement, dropped := truncateLiteral(original, maxTokens, counter)
			if dropped > 0 {
				ann := adp.Placeholder(cst.ElisionLiteralString, adapter.PlaceholderDetail{Tokens: dropped})
				pos = appendWithLineTrailingAnnotation(&sb, n.Text, t.end, replacement, ann)
				*records = append(*records, cst.Record{Kind: cst.ElisionLiteralString, Node: n, ReplacementText: ann, DroppedTokenDelta: dropped})
				changed = true
				continue
			}
			sb.WriteString(original)
		}
		pos = t.end
	}
	sb.WriteString(n.Text[pos:])
	if changed {
		n.Text = sb.String()
	}
}

// findStringSpans locates quote-delimited tokens in text and merges
// whitespace-adjacent runs of them into one span, so C-style concatenated
// string literals ("a" "b") are treated as a single logical literal.
func findStringSpans(text string) []literalSpan {
	var spans []literalSpan
	n := len(text)
	for i := 0; i < n; i++ {
		c := text[i]
		if c == '"' || c == '\'' {
			start := i
			quote := c
			j := i + 1
			for j < n && text[j] != quote {
				if text[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				j++
			}
			if j < n {
				j++
			}
			spans = append(spans, literalSpan{start, j})
			i = j - 1
		}
	}
	return mergeAdjacentConcatenations(text, spans)
}

func mergeAdjacentConcatenations(text string, spans []literalSpan) []literalSpan {
	if len(spans) == 0 {
		return spans
	}
	var merged []literalSpan
	cur := spans[0]
	for _, sp := range spans[1:] {
		between := text[cur.end:sp.start]
		if strings.TrimSpace(between) == "" {
			cur.end = sp.end
			continue
		}
		merged = append(merged, cur)
		cur = sp
	}
	merged = append(merged, cur)
	return merged
}

// findBraceSpans locates outermost {...} balanced regions in text, the
// declaration-level heuristic for "this is a collection initializer".
func findBraceSpans(text string) []literalSpan {
	var spans []literalSpan
	depth := 0
	start := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					spans = append(spans, literalSpan{start, i + 1})
					start = -1
				}
			}
		}
	}
	return spans
}

// truncateLiteral shrinks full (a quoted string token, or a run of
// concatenated ones) to the largest prefix whose token count with a
// trailing ellipsis fits within maxTokens, by geometric shrink rather
// than exact search — adequate for an annotation whose only hard
// requirement is using the canonical ellipsis rune, not an exact byte
// count.
func truncateLiteral(full string, maxTokens int, counter tokenizer.Counter) (result string, dropped int) {
	origTokens := counter.Count(full)
	if origTokens <= maxTokens {
		return full, 0
	}
	q := byte('"')
	inner := full
	if len(full) >= 2 && full[0] == full[len(full)-1] && (full[0] == '"' || full[0] == '\'') {
		q = full[0]
		inner = full[1 : len(full)-1]
	}
	best := len(inner)
	for best > 0 {
		candidate := string(q) + inner[:best] + "…" + string(q)
		if counter.Count(candidate) <= maxTokens {
			break
		}
		shrink := best / 10
		if shrink < 1 {
			shrink = 1
		}
		best -= shrink
		for best > 0 && !utf8.RuneStart(inner[best]) {
			best--
		}
	}
	if best < 0 {
		best = 0
	}
	result = string(q) + inner[:best] + "…" + string(q)
	dropped = origTokens - counter.Count(result)
	if dropped < 0 {
		dropped = 0
	}
	return result, dropped
}

// truncateCollection shrinks a {...} region to the first elements whose
// cumulative token count fits maxTokens, appending a trailing-comma
// ellipsis element, and recurses into nested-collection elements with a
// sub-budget split across the remaining slots.
func truncateCollection(region string, maxTokens int, counter tokenizer.Counter) (result string, dropped int, truncated bool) {
	origTokens := counter.Count(region)
	if origTokens <= maxTokens {
		return region, 0, false
	}
	inner := strings.TrimSpace(region)
	if !strings.HasPrefix(inner, "{") || !strings.HasSuffix(inner, "}") {
		return region, 0, false
	}
	body := inner[1 : len(inner)-1]
	elems := splitTopLevel(body, ',')
	var kept []string
	budget := maxTokens
	remaining := 0
	for _, e := range elems {
		if strings.TrimSpace(e) != "" {
			remaining++
		}
	}
	for _, e := range elems {
		et := strings.TrimSpace(e)
		if et == "" {
			continue
		}
		candidate := et
		if strings.HasPrefix(et, "{") {
			subBudget := budget
			if remaining > 1 {
				subBudget = budget / remaining
				if subBudget < 1 {
					subBudget = 1
				}
			}
			if r, _, ch := truncateCollection(et, subBudget, counter); ch {
				candidate = r
			}
		}
		tk := counter.Count(candidate)
		if tk > budget {
			break
		}
		kept = append(kept, candidate)
		budget -= tk
		remaining--
	}
	if len(kept) == 0 {
		result = "{…}"
	} else {
		result = "{" + strings.Join(kept, ", ") + ", …}"
	}
	dropped = origTokens - counter.Count(result)
	if dropped < 0 {
		dropped = 0
	}
	return result, dropped, true
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// brackets/braces/parens or quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	var inStr byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
