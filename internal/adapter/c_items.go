package adapter

import "strings"

// itemKind distinguishes the three shapes a top-level scan produces; fine
// declaration-kind classification (function/typedef/variable/...) happens
// in c_adapter.go from the item's text.
type itemKind int

const (
	itemComment itemKind = iota
	itemPreproc
	itemDecl
)

type citem struct {
	kind               itemKind
	start, end         int
	startLine, endLine int
	isBlockComment     bool
}

func (it citem) text(src string) string { return src[it.start:it.end] }

// splitItems walks src (a whole file or a class/namespace body slice) and
// groups it into comments, preprocessor directives, and declarations,
// using brace/paren/bracket depth to find each declaration's end. It does
// not understand C grammar beyond matching delimiters; that is sufficient
// to locate declaration boundaries because spec §4.1 only requires
// classification stable under the grammar's own delimiter structure, not
// full semantic parsing.
func splitItems(src string) []citem {
	spans := scanC(src)
	var items []citem

	depth := 0
	declStart := -1
	sawBraceClose := false
	braceCloseEnd := 0

	flushDecl := func(end int) {
		if declStart >= 0 && end > declStart {
			items = append(items, citem{kind: itemDecl, start: declStart, end: end,
				startLine: lineAt(src, declStart), endLine: lineAt(src, end-1)})
		}
		declStart = -1
		sawBraceClose = false
	}

	for _, sp := range spans {
		switch sp.kind {
		case spanLineComment, spanBlockComment:
			if declStart < 0 {
				items = append(items, citem{kind: itemComment, start: sp.start, end: sp.end,
					startLine: sp.startLine, endLine: sp.endLine, isBlockComment: sp.kind == spanBlockComment})
				continue
			}
			// Comment appears mid-declaration (e.g. trailing same-line
			// comment after a statement); leave it embedded in the
			// declaration's byte range rather than splitting it out.
		case spanPreproc:
			if declStart < 0 && depth == 0 {
				items = append(items, citem{kind: itemPreproc, start: sp.start, end: sp.end,
					startLine: sp.startLine, endLine: sp.endLine})
				continue
			}
		case spanString, spanChar:
			if declStart < 0 {
				declStart = sp.start
			}
			continue
		case spanCode:
			if declStart < 0 {
				// find first non-whitespace byte in this span
				for k := sp.start; k < sp.end; k++ {
					if !isSpace(src[k]) {
						declStart = k
						break
					}
				}
			}
			for k := sp.start; k < sp.end; k++ {
				c := src[k]
				switch c {
				case '(', '{', '[':
					depth++
				case ')', '}', ']':
					if depth > 0 {
						depth--
					}
					if c == '}' && depth == 0 {
						sawBraceClose = true
						braceCloseEnd = k + 1
					}
				case ';':
					if depth == 0 && declStart >= 0 {
						flushDecl(k + 1)
					}
				}
			}
			if sawBraceClose && depth == 0 {
				// Look for an optional trailing "Name;" on the same
				// line (typedef struct {...} Name;) using only raw
				// bytes, stopping at the first character that isn't
				// whitespace or identifier-ish so a following comment
				// or new declaration is never absorbed.
				end := scanTrailingSemicolon(src, braceCloseEnd)
				if end > braceCloseEnd {
					flushDecl(end)
				} else {
					flushDecl(braceCloseEnd)
				}
			}
		}
	}
	if declStart >= 0 {
		flushDecl(len(src))
	}
	return items
}

// scanTrailingSemicolon looks for "[ \t]*[A-Za-z_][A-Za-z0-9_]*[ \t]*;" or
// "[ \t]*;" starting at pos, returning the offset just past the ';' if
// found, or pos if not (no extension).
func scanTrailingSemicolon(src string, pos int) int {
	i := pos
	n := len(src)
	for i < n && isSpace(src[i]) && src[i] != '\n' {
		i++
	}
	j := i
	for j < n && isIdentByte(src[j]) {
		j++
	}
	k := j
	for k < n && isSpace(src[k]) && src[k] != '\n' {
		k++
	}
	if k < n && src[k] == ';' {
		return k + 1
	}
	return pos
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func lineAt(src string, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return 1 + strings.Count(src[:pos], "\n")
}
