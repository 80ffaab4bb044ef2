package adapter

// pyscanner tokenizes indentation-delimited (Python-like) source into a
// flat sequence of spans separating comments and string literals
// (including triple-quoted and prefixed forms) from everything else, the
// same two-layer strategy cscanner.go uses for the C family: spec §1
// places the real CST parser out of scope, so lg-cli hand-rolls a
// classifying scanner instead. Block structure here comes from
// indentation rather than braces, handled one layer up in py_items.go.

type pySpanKind int

const (
	pySpanCode pySpanKind = iota
	pySpanComment
	pySpanString
)

type pspan struct {
	kind      pySpanKind
	start     int
	end       int
	startLine int
	endLine   int
}

// isStringPrefixByte reports whether c can appear in a Python string
// literal prefix (r, u, b, f in either case).
func isStringPrefixByte(c byte) bool {
	switch c {
	case 'r', 'R', 'u', 'U', 'b', 'B', 'f', 'F':
		return true
	}
	return false
}

// stringPrefixLen returns the length (0, 1 or 2) of a valid string
// literal prefix starting at i, provided it is immediately followed by a
// quote character.
func stringPrefixLen(src string, i int) int {
	n := len(src)
	j := i
	for j < n && j < i+2 && isStringPrefixByte(src[j]) {
		j++
	}
	if j == i {
		return 0
	}
	if j < n && (src[j] == '\'' || src[j] == '"') {
		return j - i
	}
	return 0
}

// scanPy splits src into code/comment/string spans.
func scanPy(src string) []pspan {
	var spans []pspan
	n := len(src)
	i := 0
	line := 1
	advanceLine := func(from, to int) {
		for k := from; k < to; k++ {
			if src[k] == '\n' {
				line++
			}
		}
	}

	for i < n {
		c := src[i]

		if c == '#' {
			start := i
			startLine := line
			j := i
			for j < n && src[j] != '\n' {
				j++
			}
			spans = append(spans, pspan{kind: pySpanComment, start: start, end: j, startLine: startLine, endLine: startLine})
			i = j
			continue
		}

		prefixLen := 0
		if isStringPrefixByte(c) {
			prefixLen = stringPrefixLen(src, i)
		}
		if prefixLen > 0 || c == '\'' || c == '"' {
			start := i
			startLine := line
			qi := i + prefixLen
			quote := src[qi]
			triple := qi+2 < n && src[qi+1] == quote && src[qi+2] == quote
			var j int
			if triple {
				j = qi + 3
				for j+2 < n && !(src[j] == quote && src[j+1] == quote && src[j+2] == quote) {
					if src[j] == '\\' && j+1 < n {
						j += 2
						continue
					}
					j++
				}
				if j+2 < n {
					j += 3
				} else {
					j = n
				}
			} else {
				j = qi + 1
				for j < n && src[j] != quote && src[j] != '\n' {
					if src[j] == '\\' && j+1 < n {
						j += 2
						continue
					}
					j++
				}
				if j < n && src[j] == quote {
					j++
				}
			}
			advanceLine(start, j)
			spans = append(spans, pspan{kind: pySpanString, start: start, end: j, startLine: startLine, endLine: line})
			i = j
			continue
		}

		// Accumulate a "code" span up to the next special character.
		start := i
		startLine := line
		j := i
		for j < n {
			cj := src[j]
			if cj == '\n' {
				j++
				break
			}
			if cj == '#' {
				break
			}
			if cj == '\'' || cj == '"' {
				break
			}
			if isStringPrefixByte(cj) && stringPrefixLen(src, j) > 0 {
				break
			}
			j++
		}
		advanceLine(start, j)
		spans = append(spans, pspan{kind: pySpanCode, start: start, end: j, startLine: startLine, endLine: line})
		i = j
	}
	return spans
}
