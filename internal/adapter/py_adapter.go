package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Max-Moro/lg-cli/internal/cst"
)

func init() {
	Register(func() Adapter { return &pyFamily{} })
}

// pyFamily implements Adapter for indentation-delimited, Python-like
// source: '#' comments, leading-underscore/__all__ visibility, and a
// first-string-literal-statement docstring rule (spec §4.1 "Indentation-
// delimited languages").
type pyFamily struct{}

func (a *pyFamily) Language() string             { return "py" }
func (a *pyFamily) SupportedExtensions() []string { return []string{".py", ".pyw"} }

func (a *pyFamily) Parse(text string) (*cst.Tree, error) {
	items := splitModuleItems(text, 0)
	allSet := extractAllSet(items, text)
	nodes := a.classify(items, text, 0, allSet, true)
	return &cst.Tree{LanguageID: "py", Source: text, TopLevel: nodes}, nil
}

var (
	reImportFrom  = regexp.MustCompile(`^from\s+(\.*[\w.]*)\s+import\b`)
	reImportPlain = regexp.MustCompile(`^import\s+([\w., ]+)`)
	reClassHeader = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)`)
	reDefHeader   = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	reAllAssign   = regexp.MustCompile(`^__all__\s*\+?=`)
	reQuoted      = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
	reAssignLHS   = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?::[^=]+)?=(?:[^=]|$)`)
	reDocWhole    = regexp.MustCompile(`(?s)^(?:[rRuUbBfF]{1,2})?('''.*'''|""".*"""|'[^'\n]*'|"[^"\n]*")\s*$`)
	reWhitespace  = regexp.MustCompile(`\s+`)
)

// classify turns items into nodes; allSet is the module's __all__ export
// set (nil if none was found), consulted only at module scope.
func (a *pyFamily) classify(items []pyitem, src string, baseIndent int, allSet map[string]bool, isTopLevel bool) []*cst.Node {
	var nodes []*cst.Node
	firstDeclSeen := false
	decoStart, decoLine := -1, 0

	for _, it := range items {
		switch it.kind {
		case pyItemComment:
			n := &cst.Node{
				ByteRange: cst.ByteRange{Start: it.start, End: it.end},
				LineRange: cst.LineRange{Start: it.startLine, End: it.endLine},
				Text:      it.text(src),
				Kind:      "comment_line",
			}
			n.AddRole(cst.RoleLineComment)
			nodes = append(nodes, n)

		case pyItemDecl:
			trimmed := strings.TrimSpace(it.text(src))
			if strings.HasPrefix(trimmed, "@") {
				if decoStart < 0 {
					decoStart, decoLine = it.start, it.startLine
				}
				continue
			}
			isFirst := !firstDeclSeen
			firstDeclSeen = true
			declNodes := a.classifyDecl(it, src, baseIndent, allSet, isTopLevel, isFirst)
			if decoStart >= 0 && len(declNodes) > 0 {
				n := declNodes[0]
				n.ByteRange.Start = decoStart
				n.LineRange.Start = decoLine
				n.Text = src[n.ByteRange.Start:n.ByteRange.End]
				decoStart = -1
			}
			nodes = append(nodes, declNodes...)
		}
	}
	return nodes
}

func (a *pyFamily) classifyDecl(it pyitem, src string, baseIndent int, allSet map[string]bool, isTopLevel bool, isFirst bool) []*cst.Node {
	text := it.text(src)
	trimmed := strings.TrimSpace(text)

	base := &cst.Node{
		ByteRange: cst.ByteRange{Start: it.start, End: it.end},
		LineRange: cst.LineRange{Start: it.startLine, End: it.endLine},
		Text:      text,
	}

	if isFirst && reDocWhole.MatchString(trimmed) {
		base.Kind = "docstring"
		base.AddRole(cst.RoleDocstring)
		return []*cst.Node{base}
	}

	if m := reImportFrom.FindStringSubmatch(trimmed); m != nil {
		base.Kind = "import"
		base.Name = m[1]
		base.AddRole(cst.RoleImport)
		if m[1] == "" || strings.HasPrefix(m[1], ".") {
			base.AddRole(cst.RoleImportLocal)
		} else {
			base.AddRole(cst.RoleImportExternal)
		}
		return []*cst.Node{base}
	}
	if m := reImportPlain.FindStringSubmatch(trimmed); m != nil {
		base.Kind = "import"
		base.Name = strings.TrimSpace(m[1])
		base.AddRole(cst.RoleImport)
		base.AddRole(cst.RoleImportExternal)
		return []*cst.Node{base}
	}

	if m := reClassHeader.FindStringSubmatch(trimmed); m != nil {
		name := m[1]
		vis := visibilityFor(name, allSet, isTopLevel)
		base.Kind = "class"
		base.Name = name
		base.Visibility = vis
		addVisRole(base, vis)
		base.AddRole(cst.RoleClassDefinition)
		if bodyStart, bodyIndent, ok := findBodyStart(text); ok {
			body := text[bodyStart:]
			members := a.classify(splitModuleItems(body, bodyIndent), body, bodyIndent, nil, false)
			offsetNodes(members, it.start+bodyStart)
			base.Children = members
		}
		return []*cst.Node{base}
	}

	if m := reDefHeader.FindStringSubmatch(trimmed); m != nil {
		name := m[1]
		vis := visibilityFor(name, allSet, isTopLevel)
		base.Kind = "function_definition"
		base.Name = name
		base.Visibility = vis
		addVisRole(base, vis)
		if isTopLevel {
			base.AddRole(cst.RoleFunctionDefinition)
		} else {
			base.AddRole(cst.RoleMethodDefinition)
		}
		if ci := findTopLevelColon(text); ci >= 0 {
			base.Signature = strings.TrimSpace(reWhitespace.ReplaceAllString(text[:ci+1], " "))
		}
		if bodyStart, _, _, ok := findDefBody(text); ok {
			bodyText := text[bodyStart:]
			bodyNode := &cst.Node{
				ByteRange: cst.ByteRange{Start: it.start + bodyStart, End: it.end},
				LineRange: cst.LineRange{Start: lineAt(src, it.start+bodyStart), End: it.endLine},
				Text:      bodyText,
				Kind:      "function_body",
			}
			bodyNode.AddRole(cst.RoleFunctionBody)
			base.Body = bodyNode
		}
		return []*cst.Node{base}
	}

	base.Kind = "variable_declaration"
	vis := cst.VisibilityPublic
	if m := reAssignLHS.FindStringSubmatch(trimmed); m != nil {
		base.Name = m[1]
		vis = visibilityFor(m[1], allSet, isTopLevel)
	}
	base.Visibility = vis
	addVisRole(base, vis)
	base.AddRole(cst.RoleVariableDeclaration)
	return []*cst.Node{base}
}

func visibilityFor(name string, allSet map[string]bool, isTopLevel bool) cst.Visibility {
	if isTopLevel && allSet != nil {
		if allSet[name] {
			return cst.VisibilityPublic
		}
		return cst.VisibilityPrivate
	}
	if strings.HasPrefix(name, "_") {
		return cst.VisibilityPrivate
	}
	return cst.VisibilityPublic
}

func addVisRole(n *cst.Node, vis cst.Visibility) {
	if vis == cst.VisibilityPrivate {
		n.AddRole(cst.RoleVisibilityPrivate)
	} else {
		n.AddRole(cst.RoleVisibilityPublic)
	}
}

// extractAllSet finds a module-level "__all__ = [...]" assignment among
// items and returns the set of quoted names it lists, or nil if absent.
func extractAllSet(items []pyitem, src string) map[string]bool {
	for _, it := range items {
		if it.kind != pyItemDecl {
			continue
		}
		trimmed := strings.TrimSpace(it.text(src))
		if !reAllAssign.MatchString(trimmed) {
			continue
		}
		set := map[string]bool{}
		for _, m := range reQuoted.FindAllStringSubmatch(trimmed, -1) {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			if name != "" {
				set[name] = true
			}
		}
		return set
	}
	return nil
}

// findTopLevelColon returns the index of the first ':' in text that is
// not nested inside parens/brackets/braces (the colon ending a def/class
// header even when parameter type annotations contain their own colons).
func findTopLevelColon(text string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findBodyStart locates a class body: the indented block following the
// header's top-level colon. Returns ok=false for a one-line class
// (e.g. "class X: pass"), which is left unrecursed.
func findBodyStart(text string) (start int, indent int, ok bool) {
	ci := findTopLevelColon(text)
	if ci < 0 {
		return 0, 0, false
	}
	rest := text[ci+1:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return 0, 0, false
	}
	bodyStart := ci + 1 + nl + 1
	if bodyStart >= len(text) {
		return 0, 0, false
	}
	ind := lineIndent(text[bodyStart:])
	if ind < 0 {
		return 0, 0, false
	}
	return bodyStart, ind, true
}

// findDefBody locates a function body, which may be an indented block on
// following lines or, for a one-liner def, the tail of the header line
// itself (inline=true): spec §8's "single-statement function body is
// never elided" edge case applies naturally to that inline form.
func findDefBody(text string) (start int, indent int, inline bool, ok bool) {
	ci := findTopLevelColon(text)
	if ci < 0 {
		return 0, 0, false, false
	}
	rest := text[ci+1:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		if strings.TrimSpace(rest) == "" {
			return 0, 0, false, false
		}
		return ci + 1, 0, true, true
	}
	bodyStart := ci + 1 + nl + 1
	if bodyStart >= len(text) {
		return 0, 0, false, false
	}
	ind := lineIndent(text[bodyStart:])
	if ind < 0 {
		return 0, 0, false, false
	}
	return bodyStart, ind, false, true
}

// Placeholder renders the canonical hash-comment-family placeholder text
// for kind, per spec §6: '#' in place of '//', triple-quoted docstring
// placeholders in place of block-comment ones.
func (a *pyFamily) Placeholder(kind cst.ElisionKind, d PlaceholderDetail) string {
	switch kind {
	case cst.ElisionComment:
		if d.Count >= 2 {
			return fmt.Sprintf("# … %d comments omitted (%d lines)", d.Count, d.Lines)
		}
		return "# … comment omitted"

	case cst.ElisionDocstring:
		if d.Lines > 1 {
			return fmt.Sprintf(`"""… docstring omitted (%d lines)"""`, d.Lines)
		}
		return `"""… docstring omitted"""`

	case cst.ElisionImportGroup:
		return fmt.Sprintf("# … %d imports omitted (%d lines)", d.Count, d.Lines)

	case cst.ElisionLiteralString:
		return fmt.Sprintf("# literal string (%s%d tokens)", minusSign, d.Tokens)

	case cst.ElisionLiteralCollection:
		if d.Count > 0 {
			return fmt.Sprintf("# … (%d more, %s%d tokens)", d.Count, minusSign, d.Tokens)
		}
		return fmt.Sprintf("# literal array (%s%d tokens)", minusSign, d.Tokens)

	case cst.ElisionFunctionBody:
		noun := d.NounOne
		if noun == "" {
			noun = "function"
		}
		if d.Truncated {
			if d.Lines <= 1 {
				return "# … function body truncated"
			}
			return fmt.Sprintf("# … function body truncated (%d lines)", d.Lines)
		}
		return fmt.Sprintf("# … %s body omitted (%d lines)", noun, d.Lines)

	case cst.ElisionMember:
		if d.Count <= 1 {
			noun := d.NounOne
			if noun == "" {
				noun = "member"
			}
			return fmt.Sprintf("# … %s omitted (%d lines)", noun, d.Lines)
		}
		noun := d.NounMany
		if noun == "" {
			noun = "members"
		}
		return fmt.Sprintf("# … %d %s omitted (%d lines)", d.Count, noun, d.Lines)

	case cst.ElisionTopLevelDecl:
		if d.Count <= 1 {
			noun := d.NounOne
			if noun == "" {
				noun = "declaration"
			}
			return fmt.Sprintf("# … %s omitted (%d lines)", noun, d.Lines)
		}
		noun := d.NounMany
		if noun == "" {
			noun = "declarations"
		}
		return fmt.Sprintf("# … %d %s omitted (%d lines)", d.Count, noun, d.Lines)
	}
	return "# … omitted"
}
