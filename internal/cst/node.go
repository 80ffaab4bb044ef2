// Package cst holds the language-agnostic classified-node representation
// that every syntax adapter produces and every optimization pass consumes.
package cst

// Role tags a classified node with one of the closed set of semantic
// categories the core reasons about. A node may carry more than one role
// (e.g. a quoted #include is both Import and ImportLocal).
type Role string

const (
	RoleImport             Role = "import"
	RoleImportExternal     Role = "import_external"
	RoleImportLocal        Role = "import_local"
	RoleDocstring          Role = "docstring"
	RoleLineComment        Role = "line_comment"
	RoleBlockComment       Role = "block_comment"
	RoleStringLiteral      Role = "string_literal"
	RoleCollectionLiteral  Role = "collection_literal"
	RoleFunctionDefinition Role = "function_definition"
	RoleMethodDefinition   Role = "method_definition"
	RoleClassDefinition    Role = "class_definition"
	RoleTypeDeclaration    Role = "type_declaration"
	RoleVariableDeclaration Role = "variable_declaration"
	RoleFunctionBody        Role = "function_body"
	RoleVisibilityPublic    Role = "visibility_public"
	RoleVisibilityPrivate   Role = "visibility_private"
	RoleHeaderGuard         Role = "header_guard"
	RoleForwardDeclaration  Role = "forward_declaration"
	RoleNamespaceAnonymous  Role = "namespace_anonymous"
)

// Visibility classifies a node's exposure, derived purely from syntax.
type Visibility int

const (
	VisibilityUnknown Visibility = iota
	VisibilityPublic
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// ByteRange is a half-open [Start, End) span into the original source text.
type ByteRange struct {
	Start int
	End   int
}

// LineRange is an inclusive 1-indexed [Start, End] line span.
type LineRange struct {
	Start int
	End   int
}

// Lines returns the number of lines spanned, counting a single line as 1.
func (r LineRange) Lines() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Node is one classified unit of the concrete syntax tree. byte_range and
// line_range track the original source and are never updated after parse.
type Node struct {
	Roles      map[Role]bool
	Visibility Visibility
	ByteRange  ByteRange
	LineRange  LineRange
	// TokenCount is not set by any adapter, pass or the budget controller;
	// it stays zero.
	TokenCount int
	Children   []*Node
	// Body points at the mutable function/method body child, if any.
	Body *Node

	// Text is the raw source slice for this node (Start:End of the owning
	// file). Leaf nodes always set this; container nodes may leave it
	// empty and rely on Children for rendering.
	Text string

	// Kind is an adapter-specific label (e.g. "function_definition",
	// "struct", "include") used by passes to group nodes without depending on
	// role combinations alone.
	Kind string

	// Name is the declared identifier, when syntactically recoverable
	// (function/method/class/type/variable name). Used for diagnostics
	// and placeholder text, not for semantic resolution.
	Name string

	// Signature is the declaration line (return type, name, params) for
	// function/method definitions, used when rendering brace-replacing
	// elisions.
	Signature string

	// Elided, when set, replaces this node's rendered text entirely. It is
	// populated by passes via elision records and consumed by the renderer.
	Elided *ElidedReplacement

	// Suppressed marks a node that renders nothing at all: used when a run
	// of adjacent nodes (private members, comments, import statements) is
	// coalesced into a single placeholder carried by the run's first node.
	Suppressed bool
}

// ElidedReplacement is the renderer-facing payload attached to a Node once
// a pass has decided to replace it.
type ElidedReplacement struct {
	Text string
}

// HasRole reports whether the node carries the given role.
func (n *Node) HasRole(r Role) bool {
	if n == nil || n.Roles == nil {
		return false
	}
	return n.Roles[r]
}

// AddRole tags the node with the given role.
func (n *Node) AddRole(r Role) {
	if n.Roles == nil {
		n.Roles = make(map[Role]bool)
	}
	n.Roles[r] = true
}

// Tree is a full classified file: an ordered sequence of top-level nodes
// plus the original text they were sliced from.
type Tree struct {
	LanguageID string
	Source     string
	TopLevel   []*Node
}
