package adapter

import "strings"

// pyItemKind distinguishes the two shapes splitModuleItems produces at a
// given indentation scope; fine declaration-kind classification (def,
// class, import, assignment) happens in py_adapter.go from the item's
// text, the same division of labor c_items.go/c_adapter.go use.
type pyItemKind int

const (
	pyItemComment pyItemKind = iota
	pyItemDecl
)

type pyitem struct {
	kind               pyItemKind
	start, end         int
	startLine, endLine int
}

func (it pyitem) text(src string) string { return src[it.start:it.end] }

// splitModuleItems walks src (a whole file, or a class/function body
// slice reparsed in its own coordinate frame) and groups its lines into
// standalone comments and statements, using indentation instead of
// braces to find each statement's extent: a line at exactly baseIndent
// that is not a bracket/backslash continuation of the previous line
// starts a new item; everything indented deeper belongs to the item
// above it. This does not understand Python's full grammar, but spec
// §4.1 only requires indentation-stable classification, not full
// semantic parsing.
func splitModuleItems(src string, baseIndent int) []pyitem {
	spans := scanPy(src)

	// continuation[line] marks a physical line that is the interior or
	// tail of a multi-line (triple-quoted) string that began on an
	// earlier line — its leading whitespace is string content, not
	// indentation, and must never be read as a scope boundary.
	continuation := map[int]bool{}
	for _, sp := range spans {
		if sp.kind == pySpanString {
			for ln := sp.startLine + 1; ln <= sp.endLine; ln++ {
				continuation[ln] = true
			}
		}
	}

	// depthAtLineStart/contAtLineStart record, for each physical line,
	// whether it is an implicit continuation of the statement above it:
	// inside an unclosed bracket, or following a backslash line-join.
	depthAtLineStart := map[int]int{1: 0}
	contAtLineStart := map[int]bool{}
	depth := 0
	line := 1
	lastWasBackslash := false
	for _, sp := range spans {
		if sp.kind != pySpanCode {
			if sp.endLine > sp.startLine {
				for ln := sp.startLine + 1; ln <= sp.endLine; ln++ {
					depthAtLineStart[ln] = depth
					contAtLineStart[ln] = false
				}
				line = sp.endLine
			}
			lastWasBackslash = false
			continue
		}
		for k := sp.start; k < sp.end; k++ {
			c := src[k]
			switch c {
			case '(', '[', '{':
				depth++
				lastWasBackslash = false
			case ')', ']', '}':
				if depth > 0 {
					depth--
				}
				lastWasBackslash = false
			case '\\':
				lastWasBackslash = true
			case '\n':
				contAtLineStart[line+1] = lastWasBackslash
				line++
				depthAtLineStart[line] = depth
				lastWasBackslash = false
			case ' ', '\t', '\r':
				// preserve lastWasBackslash across trailing whitespace
			default:
				lastWasBackslash = false
			}
		}
	}

	lineStarts := []int{0}
	for idx := 0; idx < len(src); idx++ {
		if src[idx] == '\n' {
			lineStarts = append(lineStarts, idx+1)
		}
	}
	totalLines := len(lineStarts)

	var items []pyitem
	declStart := -1
	declStartLine := 0

	flushDecl := func(end int, endLine int) {
		if declStart >= 0 && end > declStart {
			items = append(items, pyitem{kind: pyItemDecl, start: declStart, end: end, startLine: declStartLine, endLine: endLine})
		}
		declStart = -1
	}

	for ln := 1; ln <= totalLines; ln++ {
		lineStart := lineStarts[ln-1]
		var lineEnd int
		if ln < totalLines {
			lineEnd = lineStarts[ln]
		} else {
			lineEnd = len(src)
		}
		trimmedRight := strings.TrimRight(src[lineStart:lineEnd], "\n")
		indent := 0
		for indent < len(trimmedRight) && (trimmedRight[indent] == ' ' || trimmedRight[indent] == '\t') {
			indent++
		}
		content := trimmedRight[indent:]
		if content == "" {
			continue
		}
		isContinuation := continuation[ln] || depthAtLineStart[ln] > 0 || contAtLineStart[ln]

		if !isContinuation && indent == baseIndent {
			if content[0] == '#' {
				flushDecl(lineStart, ln-1)
				items = append(items, pyitem{kind: pyItemComment, start: lineStart, end: lineEnd, startLine: ln, endLine: ln})
				continue
			}
			if declStart >= 0 {
				flushDecl(lineStart, ln-1)
			}
			declStart = lineStart
			declStartLine = ln
		} else if !isContinuation && indent < baseIndent {
			// dedented past this scope; a well-formed single-scope slice
			// never reaches here, but guard against a malformed one.
			flushDecl(lineStart, ln-1)
			break
		}
	}
	if declStart >= 0 {
		flushDecl(len(src), totalLines)
	}
	return items
}

// lineIndent returns the count of leading spaces/tabs on the first
// non-blank line of s, or -1 if s has no non-blank line.
func lineIndent(s string) int {
	for _, raw := range strings.Split(s, "\n") {
		trimmed := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		n := 0
		for n < len(trimmed) && (trimmed[n] == ' ' || trimmed[n] == '\t') {
			n++
		}
		return n
	}
	return -1
}
