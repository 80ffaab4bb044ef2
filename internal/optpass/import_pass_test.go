package optpass

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
)

func importNode(line int) *cst.Node {
	n := &cst.Node{
		Kind:      "include",
		LineRange: cst.LineRange{Start: line, End: line},
	}
	n.AddRole(cst.RoleImport)
	return n
}

func TestImportPassSummarizeGroupsCollapsesRunOfTwoOrMore(t *testing.T) {
	adp := adapter.ForExtension(".c")
	nodes := []*cst.Node{importNode(1), importNode(2), importNode(3)}
	tree := &cst.Tree{TopLevel: nodes}
	pol := policy.Policy{Imports: policy.ImportSummarizeGroups}

	recs, err := (&ImportPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 group record, got %d", len(recs))
	}
	if recs[0].SummaryCount != 3 {
		t.Errorf("expected the group to summarize all 3 imports, got %d", recs[0].SummaryCount)
	}
	if nodes[0].Elided == nil {
		t.Error("the first import should carry the group placeholder")
	}
	if !nodes[1].Suppressed || !nodes[2].Suppressed {
		t.Error("the remaining imports in the group should be suppressed")
	}
}

func TestImportPassSummarizeGroupsLeavesLoneImportAlone(t *testing.T) {
	adp := adapter.ForExtension(".c")
	n := importNode(1)
	tree := &cst.Tree{TopLevel: []*cst.Node{n}}
	pol := policy.Policy{Imports: policy.ImportSummarizeGroups}

	recs, err := (&ImportPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("a single import should not be collapsed under summarize_groups, got %d records", len(recs))
	}
	if n.Elided != nil {
		t.Error("a lone import must stay untouched under summarize_groups")
	}
}

func TestImportPassStripAllCollapsesEvenALoneImport(t *testing.T) {
	adp := adapter.ForExtension(".c")
	n := importNode(1)
	tree := &cst.Tree{TopLevel: []*cst.Node{n}}
	pol := policy.Policy{Imports: policy.ImportStripAll}

	recs, err := (&ImportPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 1 || n.Elided == nil {
		t.Error("strip_all should collapse a group of any size, including a single import")
	}
}

func TestImportPassStripAllRecordShapeForMixedGroups(t *testing.T) {
	adp := adapter.ForExtension(".c")
	// two groups of imports separated by a 2-blank-line gap
	nodes := []*cst.Node{importNode(1), importNode(2), importNode(5)}
	tree := &cst.Tree{TopLevel: nodes}
	pol := policy.Policy{Imports: policy.ImportStripAll}

	recs, err := (&ImportPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	want := []cst.Record{
		{Kind: cst.ElisionImportGroup, ReplacementText: "// … 2 imports omitted", SummaryCount: 2},
		{Kind: cst.ElisionImportGroup, ReplacementText: "// … 1 imports omitted", SummaryCount: 1},
	}
	if diff := cmp.Diff(want, recs, cmpopts.IgnoreFields(cst.Record{}, "Node", "DroppedLineCount", "DroppedTokenDelta")); diff != "" {
		t.Errorf("record shape mismatch (-want +got):\n%s", diff)
	}
}

func TestImportPassBlankLineGapBreaksGroup(t *testing.T) {
	adp := adapter.ForExtension(".c")
	// two blank lines (gap of 2) between line 1 and line 4 should split the
	// run into two separate groups
	nodes := []*cst.Node{importNode(1), importNode(4)}
	tree := &cst.Tree{TopLevel: nodes}
	pol := policy.Policy{Imports: policy.ImportSummarizeGroups}

	recs, err := (&ImportPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("a 2-blank-line gap should keep each import its own 1-item group, got %d records", len(recs))
	}
}
