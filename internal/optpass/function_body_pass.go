package optpass

import (
	"regexp"
	"strings"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// FunctionBodyPass implements spec §4.5. strip_large/strip_all replace a
// whole body with a placeholder (dropping the braces too when the policy
// and the language both support it); max_tokens truncates to a leading
// token-budget prefix plus a truncation placeholder and, when
// recoverable, the function's final return statement. A body that is
// empty or holds at most one statement is never touched, regardless of
// mode.
type FunctionBodyPass struct{}

func (p *FunctionBodyPass) Name() string { return "function_bodies" }

func (p *FunctionBodyPass) Apply(tree *cst.Tree, pol policy.Policy, adp adapter.Adapter, counter tokenizer.Counter) ([]cst.Record, error) {
	if pol.FunctionBodies == "" || pol.FunctionBodies == policy.BodyKeepAll {
		return nil, nil
	}
	var records []cst.Record
	var walk func(nodes []*cst.Node, inClass bool)
	walk = func(nodes []*cst.Node, inClass bool) {
		for _, n := range nodes {
			if n.Suppressed || n.Elided != nil {
				continue
			}
			if len(n.Children) > 0 {
				walk(n.Children, n.Kind != "namespace")
			}
			if n.Body != nil {
				p.processFunc(n, inClass, pol, adp, counter, &records)
			}
		}
	}
	walk(tree.TopLevel, false)
	return records, nil
}

func (p *FunctionBodyPass) processFunc(fn *cst.Node, inClass bool, pol policy.Policy, adp adapter.Adapter, counter tokenizer.Counter, records *[]cst.Record) {
	body := fn.Body
	if body.Suppressed || body.Elided != nil {
		return
	}
	if isTrivialBody(body.Text) {
		return
	}
	lines := 0
	for _, ln := range strings.Split(body.Text, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines++
		}
	}
	noun := "function"
	if inClass || fn.HasRole(cst.RoleMethodDefinition) {
		noun = "method"
	}

	switch pol.FunctionBodies {
	case policy.BodyStripLarge:
		threshold := pol.FunctionBodyMaxLines
		if threshold <= 0 {
			threshold = 20
		}
		if lines > threshold {
			p.elideWhole(fn, lines, noun, pol, adp, records)
		}
	case policy.BodyStripAll:
		p.elideWhole(fn, lines, noun, pol, adp, records)
	case policy.BodyMaxTokens:
		maxTok := pol.FunctionBodyMaxTokens
		if maxTok <= 0 {
			maxTok = 60
		}
		if counter.Count(body.Text) > maxTok {
			p.truncateBody(fn, maxTok, adp, counter, records)
		}
	}
}

// isTrivialBody reports whether a body is empty or holds at most one
// statement on a single physical line (spec §8: never elided).
func isTrivialBody(text string) bool {
	inner := strings.Trim(text, "{} \t\n\r")
	if inner == "" {
		return true
	}
	if strings.Count(inner, "\n") > 0 {
		return false
	}
	return strings.Count(inner, ";") <= 1
}

func (p *FunctionBodyPass) elideWhole(fn *cst.Node, lines int, noun string, pol policy.Policy, adp adapter.Adapter, records *[]cst.Record) {
	hasBraces := strings.Contains(fn.Text, "{")
	detail := adapter.PlaceholderDetail{Lines: lines, NounOne: noun}
	if pol.BodyBraceStyle == policy.BraceKeep || !hasBraces {
		text := adp.Placeholder(cst.ElisionFunctionBody, detail)
		if hasBraces {
			lead, trail := bodyIndentation(fn.Body.Text)
			text = "\n" + lead + text + "\n" + trail
		}
		fn.Body.Elided = &cst.ElidedReplacement{Text: text}
		*records = append(*records, cst.Record{Kind: cst.ElisionFunctionBody, Node: fn.Body, ReplacementText: text, DroppedLineCount: lines})
		return
	}
	text := adp.Placeholder(cst.ElisionFunctionBody, detail)
	sig := fn.Signature
	if sig == "" {
		sig = strings.TrimSpace(fn.Text)
	}
	combined := sig + " " + text
	fn.Elided = &cst.ElidedReplacement{Text: combined}
	*records = append(*records, cst.Record{Kind: cst.ElisionFunctionBody, Node: fn, ReplacementText: combined, DroppedLineCount: lines})
}

var reTrailingReturn = regexp.MustCompile(`(?m)^[ \t]*return\b[^\n]*$`)

func (p *FunctionBodyPass) truncateBody(fn *cst.Node, maxTokens int, adp adapter.Adapter, counter tokenizer.Counter, records *[]cst.Record) {
	body := fn.Body
	full := body.Text
	lines := body.LineRange.Lines()
	head := shrinkToTokenBudget(full, maxTokens, counter)

	detail := adapter.PlaceholderDetail{Truncated: true, Lines: lines}
	placeholder := adp.Placeholder(cst.ElisionFunctionBody, detail)

	var sb strings.Builder
	sb.WriteString(head)
	sb.WriteString("\n")
	sb.WriteString(placeholder)
	if ret := lastReturn(full); ret != "" && !strings.Contains(head, ret) {
		sb.WriteString("\n")
		sb.WriteString(ret)
	}
	newText := sb.String()
	dropped := counter.Count(full) - counter.Count(newText)
	if dropped < 0 {
		dropped = 0
	}
	body.Text = newText
	*records = append(*records, cst.Record{Kind: cst.ElisionFunctionBody, Node: body, ReplacementText: placeholder, DroppedTokenDelta: dropped, DroppedLineCount: lines})
}

// bodyIndentation derives the statement indent and the closing-brace
// indent from a brace body's own text, so a brace-kept elision placeholder
// lines up with the original body's nesting depth instead of a fixed
// column. text runs from just after '{' to just before '}', so its own
// trailing whitespace (after the last newline) is the closing brace's
// indent; the leading whitespace of its first non-blank line is the
// statement indent. lead falls back to four spaces only when the text has
// no non-blank line; trail is empty unless the text ends in a newline
// followed by whitespace only (so a single-line body gets no trail).
func bodyIndentation(text string) (lead, trail string) {
	lead = "    "
	for _, ln := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(ln, " \t")
		if trimmed != "" {
			lead = ln[:len(ln)-len(trimmed)]
			break
		}
	}
	if idx := strings.LastIndex(text, "\n"); idx >= 0 {
		rest := text[idx+1:]
		if strings.TrimSpace(rest) == "" {
			trail = rest
		}
	}
	return lead, trail
}

func lastReturn(text string) string {
	matches := reTrailingReturn.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1])
}

// shrinkToTokenBudget returns the longest prefix of text whose token
// count fits maxTokens, found by geometric shrink rather than exact
// search — fine for a best-effort truncation point, not a byte-exact one.
func shrinkToTokenBudget(text string, maxTokens int, counter tokenizer.Counter) string {
	best := len(text)
	for best > 0 && counter.Count(text[:best]) > maxTokens {
		shrink := best / 10
		if shrink < 1 {
			shrink = 1
		}
		best -= shrink
	}
	if best < 0 {
		best = 0
	}
	return strings.TrimRight(text[:best], " \t\r\n")
}
