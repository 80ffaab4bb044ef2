package cst

// ElisionKind enumerates the categories of replacement a pass can record.
type ElisionKind string

const (
	ElisionComment           ElisionKind = "comment"
	ElisionDocstring         ElisionKind = "docstring"
	ElisionImportGroup       ElisionKind = "import_group"
	ElisionLiteralString     ElisionKind = "literal_string"
	ElisionLiteralCollection ElisionKind = "literal_collection"
	ElisionFunctionBody      ElisionKind = "function_body"
	ElisionMember            ElisionKind = "member"
	ElisionTopLevelDecl      ElisionKind = "toplevel_decl"
)

// Record describes one replacement made by a pass: what was replaced, with
// what, and the token/line delta. Records are append-only per pass and are
// consumed by the renderer only after every pass has run.
type Record struct {
	Kind              ElisionKind
	Node              *Node
	ReplacementText   string
	DroppedTokenDelta int
	DroppedLineCount  int
	// SummaryCount is the number of original items this single record
	// summarizes (e.g. "3 functions omitted" -> SummaryCount == 3).
	SummaryCount int
}
