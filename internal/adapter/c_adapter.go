package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Max-Moro/lg-cli/internal/cst"
)

// minusSign is U+2212, the canonical minus sign spec §6 requires inside
// token/line annotations instead of ASCII '-'.
const minusSign = "−"

func init() {
	Register(func() Adapter { return &cFamily{lang: "c", isCpp: false, isHeader: false, exts: []string{".c"}} })
	Register(func() Adapter { return &cFamily{lang: "c", isCpp: false, isHeader: true, exts: []string{".h"}} })
	Register(func() Adapter {
		return &cFamily{lang: "cpp", isCpp: true, isHeader: false, exts: []string{".cpp", ".cc", ".cxx"}}
	})
	Register(func() Adapter {
		return &cFamily{lang: "cpp", isCpp: true, isHeader: true, exts: []string{".hpp", ".hh", ".hxx"}}
	})
}

// cFamily implements Adapter for the C and C++ language family, including
// the header-file visibility rule of spec §4.1 ("all forward declarations
// and prototypes are public by definition") and the C++ additions
// (anonymous namespace, access-section visibility) of spec §4.1.
type cFamily struct {
	lang     string
	isCpp    bool
	isHeader bool
	exts     []string
}

func (a *cFamily) Language() string               { return a.lang }
func (a *cFamily) SupportedExtensions() []string   { return a.exts }

func (a *cFamily) Parse(text string) (*cst.Tree, error) {
	items := splitItems(text)
	nodes := a.classify(items, text)
	markHeaderGuard(nodes)
	return &cst.Tree{LanguageID: a.lang, Source: text, TopLevel: nodes}, nil
}

var reInclude = regexp.MustCompile(`^#\s*include\s*([<"])([^>"]*)[>"]`)
var reIfndef = regexp.MustCompile(`^#\s*ifndef\s+(\w+)`)
var reDefine = regexp.MustCompile(`^#\s*define\s+(\w+)`)
var reEndif = regexp.MustCompile(`^#\s*endif\b`)

var reStructLike = regexp.MustCompile(`^(typedef\s+)?(struct|union|enum|class)\s*([A-Za-z_]\w*)?`)
var reNamespace = regexp.MustCompile(`^namespace\s*([A-Za-z_]\w*)?\s*\{`)
var reAccessSpecifier = regexp.MustCompile(`(?m)^[ \t]*(public|private|protected)[ \t]*:[ \t]*$`)
var reFuncSig = regexp.MustCompile(`([A-Za-z_]\w*(?:\s*::\s*~?[A-Za-z_]\w*)?)\s*\([^;{}]*\)\s*(const)?\s*\{`)
var reTrailingName = regexp.MustCompile(`\}\s*([A-Za-z_]\w*)\s*;\s*$`)

func (a *cFamily) classify(items []citem, src string) []*cst.Node {
	var nodes []*cst.Node
	for idx := 0; idx < len(items); idx++ {
		it := items[idx]
		switch it.kind {
		case itemComment:
			n := &cst.Node{
				ByteRange: cst.ByteRange{Start: it.start, End: it.end},
				LineRange: cst.LineRange{Start: it.startLine, End: it.endLine},
				Text:      it.text(src),
				Kind:      "comment_line",
			}
			if it.isBlockComment {
				n.Kind = "comment_block"
				n.AddRole(cst.RoleBlockComment)
				if idx+1 < len(items) && items[idx+1].kind == itemDecl && strings.HasPrefix(strings.TrimSpace(n.Text), "/**") {
					n.AddRole(cst.RoleDocstring)
				}
			} else {
				n.AddRole(cst.RoleLineComment)
			}
			nodes = append(nodes, n)

		case itemPreproc:
			text := it.text(src)
			trimmed := strings.TrimSpace(text)
			n := &cst.Node{
				ByteRange: cst.ByteRange{Start: it.start, End: it.end},
				LineRange: cst.LineRange{Start: it.startLine, End: it.endLine},
				Text:      text,
				Kind:      "preproc",
			}
			if m := reInclude.FindStringSubmatch(trimmed); m != nil {
				n.Kind = "include"
				n.Name = m[2]
				n.AddRole(cst.RoleImport)
				if m[1] == "<" {
					n.AddRole(cst.RoleImportExternal)
				} else {
					n.AddRole(cst.RoleImportLocal)
				}
			}
			nodes = append(nodes, n)

		case itemDecl:
			nodes = append(nodes, a.classifyDecl(it, src)...)
		}
	}
	return nodes
}

// classifyDecl turns one declaration item into one or more nodes: usually
// one, but a class/struct/namespace body expands into the container node
// plus its recursively classified members.
func (a *cFamily) classifyDecl(it citem, src string) []*cst.Node {
	text := it.text(src)
	trimmed := strings.TrimSpace(text)

	vis := cst.VisibilityPublic
	if hasWord(trimmed, "static") {
		vis = cst.VisibilityPrivate
	}

	base := &cst.Node{
		ByteRange:  cst.ByteRange{Start: it.start, End: it.end},
		LineRange:  cst.LineRange{Start: it.startLine, End: it.endLine},
		Text:       text,
		Visibility: vis,
	}
	if vis == cst.VisibilityPublic {
		base.AddRole(cst.RoleVisibilityPublic)
	} else {
		base.AddRole(cst.RoleVisibilityPrivate)
	}

	// Anonymous namespace: contents classify as private (C++ addition).
	if a.isCpp {
		if m := reNamespace.FindStringSubmatch(trimmed); m != nil {
			base.Kind = "namespace"
			base.Name = m[1]
			if m[1] == "" {
				base.AddRole(cst.RoleNamespaceAnonymous)
			}
			body, bodyStart := extractBraceBody(text)
			members := a.classify(splitItems(body), body)
			offsetNodes(members, it.start+bodyStart)
			if m[1] == "" {
				for _, mem := range members {
					mem.Visibility = cst.VisibilityPrivate
					mem.Roles[cst.RoleVisibilityPublic] = false
					mem.AddRole(cst.RoleVisibilityPrivate)
				}
			}
			base.Children = members
			return []*cst.Node{base}
		}
	}

	// struct/union/enum/class/typedef.
	if m := reStructLike.FindStringSubmatch(trimmed); m != nil {
		keyword := m[2]
		base.Name = m[3]
		if m[1] != "" {
			base.Kind = "typedef_" + keyword
			base.AddRole(cst.RoleTypeDeclaration)
		} else if keyword == "class" {
			base.Kind = "class"
			base.AddRole(cst.RoleClassDefinition)
		} else {
			base.Kind = keyword
			base.AddRole(cst.RoleTypeDeclaration)
		}
		if tn := reTrailingName.FindStringSubmatch(trimmed); tn != nil && base.Name == "" {
			base.Name = tn[1]
		}
		if body, bodyStart, ok := tryExtractBraceBody(text); ok && (keyword == "struct" || keyword == "class") {
			defaultVis := cst.VisibilityPublic
			if keyword == "class" {
				defaultVis = cst.VisibilityPrivate
			}
			base.Children = a.classifyMembers(body, it.start+bodyStart, defaultVis)
		}
		return []*cst.Node{base}
	}

	// Function/method definition: has a top-level brace-opened body.
	if m := reFuncSig.FindStringSubmatch(trimmed); m != nil && strings.Contains(trimmed, "{") {
		base.Kind = "function_definition"
		base.Name = lastIdent(m[1])
		base.Signature = strings.TrimSpace(trimmed[:strings.Index(trimmed, "{")])
		base.AddRole(cst.RoleFunctionDefinition)
		body, bodyStart, ok := tryExtractBraceBody(text)
		if ok {
			// bodyStart+len(body) lands on the matching '}' itself, not
			// past it: the renderer treats Body.End as the byte offset of
			// the closing brace so it emits the brace (and anything after
			// it, such as a trailing newline) as trailing bytes.
			bodyNode := &cst.Node{
				ByteRange: cst.ByteRange{Start: it.start + bodyStart, End: it.start + bodyStart + len(body)},
				LineRange: cst.LineRange{Start: lineAt(src, it.start+bodyStart), End: it.endLine},
				Text:      body,
				Kind:      "function_body",
			}
			bodyNode.AddRole(cst.RoleFunctionBody)
			base.Body = bodyNode
		}
		return []*cst.Node{base}
	}

	// Forward declaration / prototype: has parens but no body brace.
	if strings.Contains(trimmed, "(") && strings.HasSuffix(strings.TrimRight(trimmed, " \t\n"), ";") && !strings.Contains(trimmed, "{") {
		base.Kind = "forward_declaration"
		base.AddRole(cst.RoleForwardDeclaration)
		if a.isHeader {
			// spec §3: header files make every forward declaration/prototype
			// public by definition.
			base.Visibility = cst.VisibilityPublic
			delete(base.Roles, cst.RoleVisibilityPrivate)
			base.AddRole(cst.RoleVisibilityPublic)
		}
		return []*cst.Node{base}
	}

	// Everything else is a variable/constant declaration.
	base.Kind = "variable_declaration"
	base.AddRole(cst.RoleVariableDeclaration)
	return []*cst.Node{base}
}

// classifyMembers splits a class/struct body into access-specifier
// sections and member declarations, tracking visibility per section
// (spec §4.6: access specifier labels are preserved to mark the region).
func (a *cFamily) classifyMembers(body string, baseOffset int, defaultVis cst.Visibility) []*cst.Node {
	matches := reAccessSpecifier.FindAllStringIndex(body, -1)
	var nodes []*cst.Node

	curVis := defaultVis
	segStart := 0
	emitSegment := func(segText string, segOffset int, vis cst.Visibility) {
		members := a.classify(splitItems(segText), segText)
		offsetNodes(members, baseOffset+segOffset)
		for _, m := range members {
			m.Visibility = vis
			delete(m.Roles, cst.RoleVisibilityPublic)
			delete(m.Roles, cst.RoleVisibilityPrivate)
			if vis == cst.VisibilityPublic {
				m.AddRole(cst.RoleVisibilityPublic)
			} else {
				m.AddRole(cst.RoleVisibilityPrivate)
			}
		}
		nodes = append(nodes, members...)
	}

	for _, m := range matches {
		emitSegment(body[segStart:m[0]], segStart, curVis)
		label := strings.TrimSpace(body[m[0]:m[1]])
		specNode := &cst.Node{
			ByteRange: cst.ByteRange{Start: baseOffset + m[0], End: baseOffset + m[1]},
			LineRange: cst.LineRange{Start: lineAt(body, m[0]), End: lineAt(body, m[1])},
			Text:      body[m[0]:m[1]],
			Kind:      "access_specifier",
		}
		nodes = append(nodes, specNode)
		if strings.HasPrefix(label, "public") {
			curVis = cst.VisibilityPublic
		} else {
			curVis = cst.VisibilityPrivate
		}
		segStart = m[1]
	}
	emitSegment(body[segStart:], segStart, curVis)
	return nodes
}

func markHeaderGuard(nodes []*cst.Node) {
	var preprocIdx []int
	for i, n := range nodes {
		if n.Kind == "preproc" || n.Kind == "include" {
			preprocIdx = append(preprocIdx, i)
		}
	}
	if len(preprocIdx) < 2 {
		return
	}
	first := nodes[preprocIdx[0]]
	second := nodes[preprocIdx[1]]
	last := nodes[preprocIdx[len(preprocIdx)-1]]

	mIf := reIfndef.FindStringSubmatch(strings.TrimSpace(first.Text))
	mDef := reDefine.FindStringSubmatch(strings.TrimSpace(second.Text))
	mEnd := reEndif.FindStringSubmatch(strings.TrimSpace(last.Text))
	if mIf != nil && mDef != nil && mEnd != nil && mIf[1] == mDef[1] {
		first.AddRole(cst.RoleHeaderGuard)
		second.AddRole(cst.RoleHeaderGuard)
		last.AddRole(cst.RoleHeaderGuard)
	}
}

// --- small text helpers ---

func hasWord(s, word string) bool {
	i := strings.Index(s, word)
	for i >= 0 {
		before := i == 0 || !isIdentByte(s[i-1])
		after := i+len(word) >= len(s) || !isIdentByte(s[i+len(word)])
		if before && after {
			return true
		}
		next := strings.Index(s[i+1:], word)
		if next < 0 {
			return false
		}
		i = i + 1 + next
	}
	return false
}

func lastIdent(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "::"); idx >= 0 {
		return s[idx+2:]
	}
	return strings.TrimPrefix(s, "~")
}

// extractBraceBody returns the text between the first top-level '{' and
// its matching '}', plus the byte offset (within text) of that '{'.
func extractBraceBody(text string) (string, int) {
	body, start, _ := tryExtractBraceBody(text)
	return body, start
}

func tryExtractBraceBody(text string) (string, int, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", 0, false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start+1 : i], start + 1, true
			}
		}
	}
	return "", 0, false
}

// offsetNodes shifts every node's byte range (recursively) by delta, used
// after classifying a substring back into its place in the original file.
func offsetNodes(nodes []*cst.Node, delta int) {
	for _, n := range nodes {
		n.ByteRange.Start += delta
		n.ByteRange.End += delta
		if n.Body != nil {
			offsetNodes([]*cst.Node{n.Body}, delta)
		}
		offsetNodes(n.Children, delta)
	}
}

// Placeholder renders the canonical C/C++-family placeholder text for kind,
// per spec §6's bit-exact forms (U+2026 ellipsis, U+2212 minus sign).
func (a *cFamily) Placeholder(kind cst.ElisionKind, d PlaceholderDetail) string {
	switch kind {
	case cst.ElisionComment:
		if d.Count >= 2 {
			return fmt.Sprintf("// … %d comments omitted (%d lines)", d.Count, d.Lines)
		}
		return "// … comment omitted"

	case cst.ElisionDocstring:
		if d.Lines > 1 {
			return fmt.Sprintf("/** … docstring omitted (%d lines) */", d.Lines)
		}
		return "/** … docstring omitted */"

	case cst.ElisionImportGroup:
		return fmt.Sprintf("// … %d imports omitted", d.Count)

	case cst.ElisionLiteralString:
		return fmt.Sprintf("// literal string (%s%d tokens)", minusSign, d.Tokens)

	case cst.ElisionLiteralCollection:
		if d.Count > 0 {
			return fmt.Sprintf("// … (%d more, %s%d tokens)", d.Count, minusSign, d.Tokens)
		}
		return fmt.Sprintf("// literal array (%s%d tokens)", minusSign, d.Tokens)

	case cst.ElisionFunctionBody:
		noun := d.NounOne
		if noun == "" {
			noun = "function"
		}
		if d.Truncated {
			if d.Lines <= 1 {
				return "// … function body truncated"
			}
			return fmt.Sprintf("// … function body truncated (%d lines)", d.Lines)
		}
		return fmt.Sprintf("// … %s body omitted (%d lines)", noun, d.Lines)

	case cst.ElisionMember:
		if d.Count <= 1 {
			noun := d.NounOne
			if noun == "" {
				noun = "member"
			}
			return fmt.Sprintf("// … %s omitted (%d lines)", noun, d.Lines)
		}
		noun := d.NounMany
		if noun == "" {
			noun = "members"
		}
		return fmt.Sprintf("// … %d %s omitted (%d lines)", d.Count, noun, d.Lines)

	case cst.ElisionTopLevelDecl:
		if d.Count <= 1 {
			noun := d.NounOne
			if noun == "" {
				noun = "declaration"
			}
			return fmt.Sprintf("// … %s omitted (%d lines)", noun, d.Lines)
		}
		noun := d.NounMany
		if noun == "" {
			noun = "declarations"
		}
		return fmt.Sprintf("// … %d %s omitted (%d lines)", d.Count, noun, d.Lines)
	}
	return "// … omitted"
}
