package optpass

import (
	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// ImportPass implements spec §4.3: a contiguous run of import/include
// nodes (fewer than two blank source lines apart) forms one group. Under
// summarize_groups, a group of two or more collapses to one placeholder;
// a lone import is left alone. Under strip_all, every group collapses
// regardless of size. A leading standalone comment above a group is never
// touched by this pass, so it stays verbatim above the placeholder.
type ImportPass struct{}

func (p *ImportPass) Name() string { return "imports" }

func (p *ImportPass) Apply(tree *cst.Tree, pol policy.Policy, adp adapter.Adapter, _ tokenizer.Counter) ([]cst.Record, error) {
	if pol.Imports == "" || pol.Imports == policy.ImportKeepAll {
		return nil, nil
	}
	var records []cst.Record
	p.processSiblings(tree.TopLevel, pol, adp, &records)
	var walk func(nodes []*cst.Node)
	walk = func(nodes []*cst.Node) {
		for _, n := range nodes {
			if n.Kind == "namespace" {
				p.processSiblings(n.Children, pol, adp, &records)
				walk(n.Children)
			}
		}
	}
	walk(tree.TopLevel)
	return records, nil
}

func (p *ImportPass) processSiblings(nodes []*cst.Node, pol policy.Policy, adp adapter.Adapter, records *[]cst.Record) {
	i := 0
	for i < len(nodes) {
		n := nodes[i]
		if n.Suppressed || n.Elided != nil || !n.HasRole(cst.RoleImport) {
			i++
			continue
		}
		groupStart := n.LineRange.Start
		lastLine := n.LineRange.End
		count := 1
		j := i + 1
		for j < len(nodes) {
			m := nodes[j]
			if m.Suppressed || m.Elided != nil || !m.HasRole(cst.RoleImport) {
				break
			}
			gap := m.LineRange.Start - lastLine - 1
			if gap >= 2 {
				break
			}
			lastLine = m.LineRange.End
			count++
			j++
		}
		collapse := pol.Imports == policy.ImportStripAll || (pol.Imports == policy.ImportSummarizeGroups && count >= 2)
		if collapse {
			lines := lastLine - groupStart + 1
			text := adp.Placeholder(cst.ElisionImportGroup, adapter.PlaceholderDetail{Count: count, Lines: lines})
			n.Elided = &cst.ElidedReplacement{Text: text}
			for k := i + 1; k < j; k++ {
				nodes[k].Suppressed = true
			}
			*records = append(*records, cst.Record{
				Kind:             cst.ElisionImportGroup,
				Node:             n,
				ReplacementText:  text,
				DroppedLineCount: lines,
				SummaryCount:     count,
			})
		}
		i = j
	}
}
