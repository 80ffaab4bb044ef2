package cst

import "testing"

func TestNodeRolesNilSafe(t *testing.T) {
	var n *Node
	if n.HasRole(RoleImport) {
		t.Error("nil node should not carry any role")
	}
	n = &Node{}
	if n.HasRole(RoleImport) {
		t.Error("fresh node should have no roles set")
	}
	n.AddRole(RoleImport)
	if !n.HasRole(RoleImport) {
		t.Error("AddRole should set the role")
	}
}

func TestLineRangeLines(t *testing.T) {
	cases := []struct {
		r    LineRange
		want int
	}{
		{LineRange{Start: 5, End: 5}, 1},
		{LineRange{Start: 5, End: 8}, 4},
		{LineRange{Start: 8, End: 5}, 0},
	}
	for _, c := range cases {
		if got := c.r.Lines(); got != c.want {
			t.Errorf("LineRange{%d,%d}.Lines() = %d, want %d", c.r.Start, c.r.End, got, c.want)
		}
	}
}

func TestVisibilityString(t *testing.T) {
	if VisibilityPublic.String() != "public" {
		t.Error("VisibilityPublic should stringify to \"public\"")
	}
	if VisibilityPrivate.String() != "private" {
		t.Error("VisibilityPrivate should stringify to \"private\"")
	}
	if VisibilityUnknown.String() != "unknown" {
		t.Error("VisibilityUnknown should stringify to \"unknown\"")
	}
}
