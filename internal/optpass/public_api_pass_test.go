package optpass

import (
	"strings"
	"testing"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
)

func declNode(kind string, role cst.Role, vis cst.Visibility, line int) *cst.Node {
	n := &cst.Node{
		Kind:      kind,
		Visibility: vis,
		LineRange: cst.LineRange{Start: line, End: line},
	}
	n.AddRole(role)
	return n
}

func TestPublicAPIPassNoopWhenDisabled(t *testing.T) {
	adp := adapter.ForExtension(".c")
	n := declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPrivate, 1)
	tree := &cst.Tree{TopLevel: []*cst.Node{n}}
	pol := policy.Policy{PublicAPIOnly: false}

	recs, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 0 || n.Elided != nil {
		t.Error("the pass should be a no-op when public_api_only is disabled")
	}
}

func TestPublicAPIPassCollapsesRunOfPrivateFunctions(t *testing.T) {
	adp := adapter.ForExtension(".c")
	nodes := []*cst.Node{
		declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPrivate, 1),
		declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPrivate, 2),
		declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPublic, 3),
	}
	tree := &cst.Tree{TopLevel: nodes}
	pol := policy.Policy{PublicAPIOnly: true}

	recs, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 grouped record for the 2 private functions, got %d", len(recs))
	}
	if recs[0].SummaryCount != 2 {
		t.Errorf("expected a group of 2, got %d", recs[0].SummaryCount)
	}
	if nodes[0].Elided == nil {
		t.Error("the first private function should carry the group placeholder")
	}
	if !nodes[1].Suppressed {
		t.Error("the second private function should be suppressed into the group")
	}
	if nodes[2].Elided != nil || nodes[2].Suppressed {
		t.Error("the public function must be left untouched")
	}
}

func TestPublicAPIPassDoesNotMergeAcrossCategories(t *testing.T) {
	adp := adapter.ForExtension(".c")
	nodes := []*cst.Node{
		declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPrivate, 1),
		declNode("variable_declaration", cst.RoleVariableDeclaration, cst.VisibilityPrivate, 2),
	}
	tree := &cst.Tree{TopLevel: nodes}
	pol := policy.Policy{PublicAPIOnly: true}

	recs, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("a private function and a private variable are different categories, expected 2 separate records, got %d", len(recs))
	}
	if nodes[1].Suppressed {
		t.Error("the variable should carry its own placeholder, not be suppressed into the function's group")
	}
}

func TestPublicAPIPassAccessSpecifierIsBoundaryNotMerged(t *testing.T) {
	adp := adapter.ForExtension(".c")
	class := &cst.Node{Kind: "class"}
	class.AddRole(cst.RoleClassDefinition)
	class.Visibility = cst.VisibilityPublic
	private1 := declNode("function_definition", cst.RoleMethodDefinition, cst.VisibilityPrivate, 2)
	spec := &cst.Node{Kind: "access_specifier", LineRange: cst.LineRange{Start: 3, End: 3}}
	private2 := declNode("function_definition", cst.RoleMethodDefinition, cst.VisibilityPrivate, 4)
	class.Children = []*cst.Node{private1, spec, private2}
	tree := &cst.Tree{TopLevel: []*cst.Node{class}}
	pol := policy.Policy{PublicAPIOnly: true}

	recs, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("an access_specifier node sits between the two private methods and must break the run, expected 2 records, got %d", len(recs))
	}
	if private2.Suppressed {
		t.Error("a method after an access_specifier boundary should get its own placeholder, not be merged")
	}
}

func TestPublicAPIPassUsesMemberNounInsideClass(t *testing.T) {
	adp := adapter.ForExtension(".py")
	class := &cst.Node{Kind: "class"}
	class.AddRole(cst.RoleClassDefinition)
	class.Visibility = cst.VisibilityPublic
	method := declNode("function_definition", cst.RoleMethodDefinition, cst.VisibilityPrivate, 2)
	class.Children = []*cst.Node{method}
	tree := &cst.Tree{TopLevel: []*cst.Node{class}}
	pol := policy.Policy{PublicAPIOnly: true}

	if _, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	one, many := categoryFor(method, true)
	if one != "method" || many != "methods" {
		t.Errorf("a member function should use the member noun \"method\", got %q/%q", one, many)
	}
	if method.Elided == nil || !strings.Contains(method.Elided.Text, "method omitted") {
		t.Errorf("the pass should elide the private member under the noun \"method\", got %+v", method.Elided)
	}
}

func TestCategoryForIsIndependentOfRoleChoicePerAdapter(t *testing.T) {
	// The C adapter never sets RoleMethodDefinition (only RoleFunctionDefinition),
	// while the Python adapter does for nested defs. categoryFor must still pick
	// the right noun purely from the isMember flag threaded by the caller.
	cFn := declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPrivate, 1)
	one, _ := categoryFor(cFn, true)
	if one != "method" {
		t.Errorf("a C-style function under a member context should still read as \"method\", got %q", one)
	}
	one, _ = categoryFor(cFn, false)
	if one != "function" {
		t.Errorf("the same node at top level should read as \"function\", got %q", one)
	}
}

func TestPublicAPIPassAbsorbsLeadingLabelComment(t *testing.T) {
	adp := adapter.ForExtension(".c")
	label := &cst.Node{Kind: "comment_line", LineRange: cst.LineRange{Start: 1, End: 1}}
	fn := declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPrivate, 2)
	nodes := []*cst.Node{label, fn}
	tree := &cst.Tree{TopLevel: nodes}
	pol := policy.Policy{PublicAPIOnly: true}

	recs, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if label.Elided == nil {
		t.Error("the label comment directly above the private run should carry the placeholder")
	}
	if !fn.Suppressed {
		t.Error("the private function should be suppressed once its label comment carries the placeholder")
	}
	if recs[0].DroppedLineCount != 2 {
		t.Errorf("the dropped line count should include the absorbed comment's own line, got %d", recs[0].DroppedLineCount)
	}
}

func TestPublicAPIPassLeavesUnrelatedCommentAlone(t *testing.T) {
	adp := adapter.ForExtension(".c")
	note := &cst.Node{Kind: "comment_line", LineRange: cst.LineRange{Start: 1, End: 1}}
	fn := declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPublic, 2)
	nodes := []*cst.Node{note, fn}
	tree := &cst.Tree{TopLevel: nodes}
	pol := policy.Policy{PublicAPIOnly: true}

	if _, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if note.Elided != nil || note.Suppressed {
		t.Error("a comment above a public declaration must be left untouched")
	}
}

func TestPublicAPIPassNamespaceRecursesTransparently(t *testing.T) {
	adp := adapter.ForExtension(".c")
	inner := declNode("function_definition", cst.RoleFunctionDefinition, cst.VisibilityPrivate, 2)
	ns := &cst.Node{Kind: "namespace", Children: []*cst.Node{inner}}
	tree := &cst.Tree{TopLevel: []*cst.Node{ns}}
	pol := policy.Policy{PublicAPIOnly: true}

	recs, err := (&PublicAPIPass{}).Apply(tree, pol, adp, nil)
	if err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if len(recs) != 1 || inner.Elided == nil {
		t.Error("a private function nested in a namespace should still be filtered as a top-level declaration")
	}
}
