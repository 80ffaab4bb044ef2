// Package adapter converts language-specific source text into the
// cross-language cst.Tree representation, one Adapter implementation per
// language family.
package adapter

import (
	"fmt"
	"strings"

	"github.com/Max-Moro/lg-cli/internal/cst"
)

// Adapter is the contract every syntax adapter implements: parse raw text
// into a classified tree, report the extensions it handles, and render
// this language's canonical elision placeholder for a given kind. The
// three-method shape is grounded on the teacher pack's CodeParser
// interface (Parse/SupportedExtensions/Language), generalized from
// fact-emission to role-classification.
type Adapter interface {
	// Parse classifies raw into a cst.Tree. A malformed-beyond-recovery
	// input returns a *ParseError; the caller must then return the input
	// unchanged (spec §4.1 Error conditions).
	Parse(text string) (*cst.Tree, error)

	// Language is the short lowercase language identifier used in
	// diagnostics (e.g. "c", "cpp", "py").
	Language() string

	// SupportedExtensions lists file extensions this adapter handles,
	// leading dot included; the first is the canonical extension.
	SupportedExtensions() []string

	// Placeholder renders the canonical placeholder text for one
	// cst.ElisionKind in this language's comment syntax (spec §6).
	Placeholder(kind cst.ElisionKind, detail PlaceholderDetail) string
}

// PlaceholderDetail carries the counts a placeholder renders: how many
// lines/tokens/items were elided, what kind of declaration, etc.
type PlaceholderDetail struct {
	Lines     int
	Tokens    int
	Count     int    // number of items summarized (functions, comments, imports...)
	NounOne   string // singular noun, e.g. "function", "variable", "typedef"
	NounMany  string // plural noun, e.g. "functions", "variables"
	Truncated bool   // function-body pass: truncated (head-kept) vs fully omitted
}

// ParseError is the typed error spec §4.1/§7 requires: the adapter
// refuses to optimize and the caller returns the original text unchanged.
type ParseError struct {
	Language string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("adapter(%s): parse error: %s", e.Language, e.Reason)
}

// registry maps a lowercased extension (with leading dot) to a factory
// function, so callers can add languages without touching call sites.
var registry = map[string]func() Adapter{}

// Register installs factory for every extension the adapter returns from
// a throwaway instance's SupportedExtensions. Adapters call this from an
// init() in their own file.
func Register(factory func() Adapter) {
	a := factory()
	for _, ext := range a.SupportedExtensions() {
		registry[strings.ToLower(ext)] = factory
	}
}

// ForExtension returns a fresh Adapter for ext (leading dot), or nil if no
// adapter is registered for it.
func ForExtension(ext string) Adapter {
	factory, ok := registry[strings.ToLower(ext)]
	if !ok {
		return nil
	}
	return factory()
}
