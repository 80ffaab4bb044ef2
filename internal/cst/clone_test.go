package cst

import "testing"

func TestCloneTreeResetsElisionState(t *testing.T) {
	child := &Node{Text: "child", Roles: map[Role]bool{RoleLineComment: true}}
	body := &Node{Text: "body"}
	original := &Node{
		Text:       "parent",
		Elided:     &ElidedReplacement{Text: "…omitted"},
		Suppressed: true,
		Children:   []*Node{child},
		Body:       body,
		Roles:      map[Role]bool{RoleFunctionDefinition: true},
	}
	tree := &Tree{LanguageID: "c", Source: "parent{child}", TopLevel: []*Node{original}}

	clone := CloneTree(tree)

	if len(clone.TopLevel) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(clone.TopLevel))
	}
	cn := clone.TopLevel[0]
	if cn.Elided != nil {
		t.Error("clone should reset Elided to nil")
	}
	if cn.Suppressed {
		t.Error("clone should reset Suppressed to false")
	}
	if !original.Suppressed || original.Elided == nil {
		t.Error("cloning must not mutate the original node")
	}
	if cn == original {
		t.Error("clone must allocate a new Node, not reuse the pointer")
	}
	if !cn.HasRole(RoleFunctionDefinition) {
		t.Error("clone should preserve roles")
	}
	cn.Roles[RoleClassDefinition] = true
	if original.HasRole(RoleClassDefinition) {
		t.Error("clone's Roles map must be independent of the original's")
	}
	if len(cn.Children) != 1 || cn.Children[0] == child {
		t.Error("clone must deep-copy Children")
	}
	if cn.Body == nil || cn.Body == body {
		t.Error("clone must deep-copy Body")
	}
}

func TestCloneTreeNilSafe(t *testing.T) {
	if CloneTree(nil) != nil {
		t.Error("CloneTree(nil) should return nil")
	}
	tree := &Tree{TopLevel: nil}
	clone := CloneTree(tree)
	if clone.TopLevel != nil {
		t.Error("cloning a nil slice should stay nil")
	}
}
