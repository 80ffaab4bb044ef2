// Package optpass implements the five deterministic optimization passes
// and their fixed execution order.
package optpass

import (
	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// Pass is a pure transformation (tree, policy) -> tree: it mutates tree
// in place (setting Node.Elided/Suppressed/Text) and returns the elision
// records it produced, for logging and budget-controller bookkeeping.
// A Pass never measures the whole-document token count itself — only
// the budget controller does that, by re-rendering and re-counting — but
// a pass may call the tokenizer for its own internal sizing decisions
// (literal truncation width, function-body truncation point), since
// those require comparing candidate substrings against a per-item
// budget the controller does not compute for it.
type Pass interface {
	Name() string
	Apply(tree *cst.Tree, pol policy.Policy, adp adapter.Adapter, counter tokenizer.Counter) ([]cst.Record, error)
}

// Pipeline returns the five passes in the fixed order spec §5 requires:
// filter shrinks the tree first so every other pass sees fewer nodes;
// comments run last, after everything else has settled. Only comments
// that are nodes of their own are processed: a comment sharing a line
// with code stays inside that code's node and is left as it is.
func Pipeline() []Pass {
	return []Pass{
		&PublicAPIPass{},
		&ImportPass{},
		&LiteralPass{},
		&FunctionBodyPass{},
		&CommentPass{},
	}
}
