// Package policy defines the immutable optimization policy consumed by
// every pass and by the budget controller.
package policy

import "fmt"

// CommentMode selects how the comment pass treats comments and docstrings.
type CommentMode string

const (
	CommentKeepAll          CommentMode = "keep_all"
	CommentKeepDoc          CommentMode = "keep_doc"
	CommentKeepFirstSentence CommentMode = "keep_first_sentence"
	CommentStripAll         CommentMode = "strip_all"
)

// ImportMode selects how the import pass treats import/include groups.
type ImportMode string

const (
	ImportKeepAll         ImportMode = "keep_all"
	ImportSummarizeGroups ImportMode = "summarize_groups"
	ImportStripAll        ImportMode = "strip_all"
)

// FunctionBodyMode selects how the function-body pass treats bodies.
type FunctionBodyMode string

const (
	BodyKeepAll    FunctionBodyMode = "keep_all"
	BodyStripLarge FunctionBodyMode = "strip_large"
	BodyStripAll   FunctionBodyMode = "strip_all"
	BodyMaxTokens  FunctionBodyMode = "max_tokens"
)

// BraceStyle resolves spec §9 Open Question (b): whether an elided
// function body keeps its braces or removes them outright.
type BraceStyle string

const (
	BraceReplace BraceStyle = "replace"
	BraceKeep    BraceStyle = "keep"
)

// Policy is an immutable configuration. Zero-value fields mean "not set";
// callers should start from Default() and override explicitly.
type Policy struct {
	Comments CommentMode
	Imports  ImportMode

	// Literals: LiteralMode selects behavior; LiteralMaxTokens is the
	// per-literal budget used by trim_large/max_tokens.
	Literals         LiteralMode
	LiteralMaxTokens int

	FunctionBodies      FunctionBodyMode
	FunctionBodyMaxTokens int
	// FunctionBodyMaxLines is the threshold used by strip_large.
	FunctionBodyMaxLines int
	BodyBraceStyle        BraceStyle

	PublicAPIOnly bool

	// TargetTokens is the budget controller's goal. Zero/negative means
	// "no budget": the controller runs every pass once at policy level
	// and stops (Satisfied trivially).
	TargetTokens int
}

// LiteralMode selects the literal pass's trimming behavior.
type LiteralMode string

const (
	LiteralKeepAll   LiteralMode = "keep_all"
	LiteralTrimLarge LiteralMode = "trim_large"
	LiteralMaxTokens LiteralMode = "max_tokens"
)

// Default returns the identity policy: every pass at keep_all, no budget.
// Running the optimizer with Default() must reproduce the input modulo
// insignificant whitespace (spec §8 invariant 2).
func Default() Policy {
	return Policy{
		Comments:              CommentKeepAll,
		Imports:                ImportKeepAll,
		Literals:                LiteralKeepAll,
		LiteralMaxTokens:        0,
		FunctionBodies:          BodyKeepAll,
		FunctionBodyMaxTokens:   0,
		FunctionBodyMaxLines:    0,
		BodyBraceStyle:          BraceReplace,
		PublicAPIOnly:           false,
		TargetTokens:            0,
	}
}

// Validate checks the policy against the recognized option set (spec §3
// table) and returns a *ConfigError wrapping the first problem found.
func (p Policy) Validate() error {
	switch p.Comments {
	case CommentKeepAll, CommentKeepDoc, CommentKeepFirstSentence, CommentStripAll, "":
	default:
		return &ConfigError{Option: "comments", Value: string(p.Comments)}
	}
	switch p.Imports {
	case ImportKeepAll, ImportSummarizeGroups, ImportStripAll, "":
	default:
		return &ConfigError{Option: "imports", Value: string(p.Imports)}
	}
	switch p.Literals {
	case LiteralKeepAll, LiteralTrimLarge, LiteralMaxTokens, "":
	default:
		return &ConfigError{Option: "literals", Value: string(p.Literals)}
	}
	switch p.FunctionBodies {
	case BodyKeepAll, BodyStripLarge, BodyStripAll, BodyMaxTokens, "":
	default:
		return &ConfigError{Option: "function_bodies", Value: string(p.FunctionBodies)}
	}
	switch p.BodyBraceStyle {
	case BraceReplace, BraceKeep, "":
	default:
		return &ConfigError{Option: "body_brace_style", Value: string(p.BodyBraceStyle)}
	}
	if p.TargetTokens < 0 {
		return &ConfigError{Option: "target_tokens", Value: fmt.Sprintf("%d", p.TargetTokens)}
	}
	return nil
}

// ConfigError reports an unrecognized option or an out-of-range value,
// spec §7's "Policy error" category. It is fatal: the caller must not
// optimize.
type ConfigError struct {
	Option string
	Value  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("policy: invalid value %q for option %q", e.Value, e.Option)
}
