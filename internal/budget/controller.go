// Package budget drives the pass layer with the token-budget state
// machine: apply passes at the policy's aggressiveness, measure, and
// escalate one lever at a time in a fixed priority order until the
// target is met or every lever is saturated.
package budget

import (
	"context"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/optpass"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/render"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// Outcome reports which terminal state of the Initial->Applied->Measured
// ->(Satisfied|Escalate)->Final machine the run ended in.
type Outcome string

const (
	// Satisfied means the rendered output is at or under target_tokens,
	// or no target was set at all.
	Satisfied Outcome = "satisfied"
	// Final means every escalation lever was saturated before the
	// target was reached; the caller surfaces this as a warning, never
	// an error (spec §7 "Budget unreachable").
	Final Outcome = "final"
	// Aborted means a cancellation signal was seen before a pass ran; the
	// result carries the untouched input tree.
	Aborted Outcome = "aborted"
)

// Result is the controller's terminal output.
type Result struct {
	Tree    *cst.Tree
	Records []cst.Record
	Tokens  int
	Outcome Outcome
	// Rounds counts how many apply-measure cycles ran, level 0 included.
	Rounds int
}

// Run executes the state machine against a freshly parsed tree. initial
// is never mutated: every round clones it before applying passes, so an
// escalation never has to undo a prior round's edits.
func Run(ctx context.Context, initial *cst.Tree, pol policy.Policy, adp adapter.Adapter, counter tokenizer.Counter) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return &Result{Tree: initial, Outcome: Aborted}, nil
	}

	cur := pol
	rounds := 0
	for {
		tree := cst.CloneTree(initial)
		var records []cst.Record
		for _, p := range optpass.Pipeline() {
			if err := ctx.Err(); err != nil {
				return &Result{Tree: initial, Outcome: Aborted, Rounds: rounds}, nil
			}
			recs, err := p.Apply(tree, cur, adp, counter)
			if err != nil {
				return nil, err
			}
			records = append(records, recs...)
		}
		rounds++
		text := render.Render(tree)
		tokens := counter.Count(text)

		if cur.TargetTokens <= 0 || tokens <= cur.TargetTokens {
			return &Result{Tree: tree, Records: records, Tokens: tokens, Outcome: Satisfied, Rounds: rounds}, nil
		}

		if err := ctx.Err(); err != nil {
			return &Result{Tree: initial, Outcome: Aborted, Rounds: rounds}, nil
		}

		next, escalated := escalate(cur)
		if !escalated {
			return &Result{Tree: tree, Records: records, Tokens: tokens, Outcome: Final, Rounds: rounds}, nil
		}
		cur = next
	}
}

// escalate tries each lever in spec §4.7's fixed priority order and
// applies the first one that still has room to tighten. Because it
// always starts scanning from the top of the priority list, a
// fully-saturated lever is transparently skipped on every call without
// needing separate state beyond the policy itself.
func escalate(p policy.Policy) (policy.Policy, bool) {
	if next, ok := escalateComment(p); ok {
		return next, true
	}
	if next, ok := escalateLiteral(p); ok {
		return next, true
	}
	if next, ok := escalateBody(p); ok {
		return next, true
	}
	if next, ok := escalateImport(p); ok {
		return next, true
	}
	if next, ok := escalatePublicAPI(p); ok {
		return next, true
	}
	return p, false
}

var commentLadder = []policy.CommentMode{
	policy.CommentKeepAll,
	policy.CommentKeepDoc,
	policy.CommentKeepFirstSentence,
	policy.CommentStripAll,
}

func escalateComment(p policy.Policy) (policy.Policy, bool) {
	idx := 0
	for i, v := range commentLadder {
		if v == p.Comments {
			idx = i
			break
		}
	}
	if idx >= len(commentLadder)-1 {
		return p, false
	}
	p.Comments = commentLadder[idx+1]
	return p, true
}

// escalateLiteral implements spec §4.7(ii): N <- max(10, N/2). A policy
// that starts at keep_all is first switched into trim_large at a
// starting budget, since there is no existing N to halve yet.
func escalateLiteral(p policy.Policy) (policy.Policy, bool) {
	if p.Literals == "" || p.Literals == policy.LiteralKeepAll {
		p.Literals = policy.LiteralTrimLarge
		p.LiteralMaxTokens = 50
		return p, true
	}
	if p.LiteralMaxTokens <= 10 {
		return p, false
	}
	n := p.LiteralMaxTokens / 2
	if n < 10 {
		n = 10
	}
	if n == p.LiteralMaxTokens {
		return p, false
	}
	p.LiteralMaxTokens = n
	return p, true
}

var bodyLadder = []policy.FunctionBodyMode{
	policy.BodyKeepAll,
	policy.BodyStripLarge,
	policy.BodyStripAll,
	policy.BodyMaxTokens,
}

// escalateBody implements spec §4.7(iii): walk the mode ladder to
// max_tokens, then keep tightening the max_tokens budget the same way
// literals do.
func escalateBody(p policy.Policy) (policy.Policy, bool) {
	idx := 0
	for i, v := range bodyLadder {
		if v == p.FunctionBodies {
			idx = i
			break
		}
	}
	if idx < len(bodyLadder)-1 {
		p.FunctionBodies = bodyLadder[idx+1]
		if p.FunctionBodies == policy.BodyMaxTokens && p.FunctionBodyMaxTokens <= 0 {
			p.FunctionBodyMaxTokens = 80
		}
		return p, true
	}
	if p.FunctionBodyMaxTokens <= 10 {
		return p, false
	}
	n := p.FunctionBodyMaxTokens / 2
	if n < 10 {
		n = 10
	}
	if n == p.FunctionBodyMaxTokens {
		return p, false
	}
	p.FunctionBodyMaxTokens = n
	return p, true
}

var importLadder = []policy.ImportMode{
	policy.ImportKeepAll,
	policy.ImportSummarizeGroups,
	policy.ImportStripAll,
}

func escalateImport(p policy.Policy) (policy.Policy, bool) {
	idx := 0
	for i, v := range importLadder {
		if v == p.Imports {
			idx = i
			break
		}
	}
	if idx >= len(importLadder)-1 {
		return p, false
	}
	p.Imports = importLadder[idx+1]
	return p, true
}

func escalatePublicAPI(p policy.Policy) (policy.Policy, bool) {
	if p.PublicAPIOnly {
		return p, false
	}
	p.PublicAPIOnly = true
	return p, true
}
