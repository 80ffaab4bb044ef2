package cst

// CloneTree returns a deep copy of t whose nodes can be mutated by a pass
// run without disturbing the original tree. Source is shared (it is never
// mutated), but every Node, its Children, its Body, and its Roles map are
// copied so Elided/Suppressed/Text edits in one run never leak into
// another — the budget controller clones the initial tree fresh for every
// escalation round rather than trying to undo one.
func CloneTree(t *Tree) *Tree {
	if t == nil {
		return nil
	}
	return &Tree{
		LanguageID: t.LanguageID,
		Source:     t.Source,
		TopLevel:   cloneNodes(t.TopLevel),
	}
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Elided = nil
	cp.Suppressed = false
	if n.Roles != nil {
		cp.Roles = make(map[Role]bool, len(n.Roles))
		for k, v := range n.Roles {
			cp.Roles[k] = v
		}
	}
	cp.Children = cloneNodes(n.Children)
	cp.Body = cloneNode(n.Body)
	return &cp
}
