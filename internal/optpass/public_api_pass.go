package optpass

import (
	"strings"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// PublicAPIPass implements spec §4.6: when enabled, every private
// top-level declaration and private class/struct member is replaced with
// a placeholder, grouping adjacent same-kind private items into one
// summary placeholder. It runs first so every later pass sees a smaller
// tree.
type PublicAPIPass struct{}

func (p *PublicAPIPass) Name() string { return "public_api" }

func (p *PublicAPIPass) Apply(tree *cst.Tree, pol policy.Policy, adp adapter.Adapter, _ tokenizer.Counter) ([]cst.Record, error) {
	if !pol.PublicAPIOnly {
		return nil, nil
	}
	var records []cst.Record
	p.filterSiblings(tree.TopLevel, false, adp, &records)
	return records, nil
}

func isDeclNode(n *cst.Node) bool {
	return n.HasRole(cst.RoleFunctionDefinition) ||
		n.HasRole(cst.RoleMethodDefinition) ||
		n.HasRole(cst.RoleClassDefinition) ||
		n.HasRole(cst.RoleTypeDeclaration) ||
		n.HasRole(cst.RoleVariableDeclaration) ||
		n.HasRole(cst.RoleForwardDeclaration)
}

// isLoneStandaloneComment reports whether n is a plain comment node not
// already claimed by some other elision (a docstring, or a comment already
// folded into an earlier placeholder).
func isLoneStandaloneComment(n *cst.Node) bool {
	return (n.Kind == "comment_line" || n.Kind == "comment_block") && !n.Suppressed && n.Elided == nil
}

// categoryFor returns the singular/plural noun used for a grouped
// placeholder covering nodes of n's kind. isMember distinguishes a
// class/struct member (method/field) from a top-level declaration
// (function/variable), since the spec uses different nouns for each.
func categoryFor(n *cst.Node, isMember bool) (one, many string) {
	switch {
	case n.HasRole(cst.RoleFunctionDefinition), n.HasRole(cst.RoleMethodDefinition):
		if isMember {
			return "method", "methods"
		}
		return "function", "functions"
	case n.HasRole(cst.RoleClassDefinition):
		return "class", "classes"
	case n.HasRole(cst.RoleTypeDeclaration):
		base := n.Kind
		if base == "" {
			base = "type"
		}
		if strings.HasPrefix(base, "typedef") {
			return "typedef", "typedefs"
		}
		return base, base + "s"
	case n.HasRole(cst.RoleVariableDeclaration), n.HasRole(cst.RoleForwardDeclaration):
		// A bodyless top-level declaration (a plain variable, or a function
		// prototype with no definition attached) is grouped under the same
		// noun: neither carries a function body to distinguish it by.
		if isMember {
			return "field", "fields"
		}
		return "variable", "variables"
	default:
		return "declaration", "declarations"
	}
}

// filterSiblings walks one list of sibling nodes (a file's top level, or
// one class/struct/namespace's members) left to right, collapsing runs of
// adjacent private same-category declarations into a single placeholder
// carried by the run's first node; the rest of the run is Suppressed.
// Retained containers (public classes, namespaces) recurse into their own
// children so nested private members are filtered too.
func (p *PublicAPIPass) filterSiblings(nodes []*cst.Node, isMember bool, adp adapter.Adapter, records *[]cst.Record) {
	i := 0
	for i < len(nodes) {
		n := nodes[i]
		switch {
		case n.Kind == "access_specifier":
			i++
		case n.Kind == "namespace":
			p.filterSiblings(n.Children, isMember, adp, records)
			i++
		case isDeclNode(n):
			if n.Visibility == cst.VisibilityPrivate {
				one, many := categoryFor(n, isMember)
				lines := n.LineRange.Lines()
				count := 1
				j := i + 1
				for j < len(nodes) && isDeclNode(nodes[j]) && nodes[j].Visibility == cst.VisibilityPrivate {
					mOne, _ := categoryFor(nodes[j], isMember)
					if mOne != one {
						break
					}
					lines += nodes[j].LineRange.Lines()
					count++
					j++
				}
				// A standalone label comment directly above the run (e.g.
				// "// Private helpers") describes only the declarations it
				// introduces, so it is folded into the same placeholder
				// instead of left dangling above it.
				anchor := n
				first := i
				if i > 0 && isLoneStandaloneComment(nodes[i-1]) {
					anchor = nodes[i-1]
					first = i - 1
					lines += anchor.LineRange.Lines()
				}
				kind := cst.ElisionTopLevelDecl
				if isMember {
					kind = cst.ElisionMember
				}
				text := adp.Placeholder(kind, adapter.PlaceholderDetail{
					Count:    count,
					Lines:    lines,
					NounOne:  one,
					NounMany: many,
				})
				anchor.Elided = &cst.ElidedReplacement{Text: text}
				for k := first; k < j; k++ {
					if nodes[k] != anchor {
						nodes[k].Suppressed = true
					}
				}
				*records = append(*records, cst.Record{
					Kind:             kind,
					Node:             anchor,
					ReplacementText:  text,
					DroppedLineCount: lines,
					SummaryCount:     count,
				})
				i = j
				continue
			}
			if len(n.Children) > 0 {
				p.filterSiblings(n.Children, true, adp, records)
			}
			i++
		default:
			i++
		}
	}
}
