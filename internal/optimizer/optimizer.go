// Package optimizer wires one file through parse -> pass pipeline ->
// budget controller -> render, the single entry point cmd/lg-cli and its
// batch walker both call.
package optimizer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/budget"
	"github.com/Max-Moro/lg-cli/internal/logging"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/render"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// Result is what the caller renders or writes out: the optimized text,
// the token count it measured against, and whether the run had to settle
// for less than target_tokens or was skipped entirely.
type Result struct {
	Path       string
	Language   string
	Text       string
	Tokens     int
	InputBytes int
	Skipped    bool // binary or unsupported extension: Text is the raw input
	Warning    string
	Aborted    bool
	Records    int
}

// Optimize runs one file's text through the full pipeline. path is used
// only to pick an adapter by extension and for diagnostics; data is the
// raw file content.
func Optimize(ctx context.Context, path string, data []byte, pol policy.Policy, counter tokenizer.Counter) (*Result, error) {
	// Looked up per call so it uses the base logger cmd/lg-cli installs
	// at startup rather than the no-op default present at package init.
	log := logging.Named("optimizer")
	if err := pol.Validate(); err != nil {
		return nil, &ErrPolicy{Err: err}
	}

	res := &Result{Path: path, InputBytes: len(data)}

	if isBinary(data) {
		res.Skipped = true
		res.Text = string(data)
		res.Tokens = counter.Count(res.Text)
		log.Debugw("skipped binary file", "path", path)
		return res, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	adp := adapter.ForExtension(ext)
	if adp == nil {
		res.Skipped = true
		res.Text = string(data)
		res.Tokens = counter.Count(res.Text)
		log.Debugw("no adapter for extension, passing through", "path", path, "ext", ext)
		return res, nil
	}
	res.Language = adp.Language()

	tree, err := adp.Parse(string(data))
	if err != nil {
		log.Warnw("parse error, returning input unchanged", "path", path, "err", err)
		res.Text = string(data)
		res.Tokens = counter.Count(res.Text)
		res.Warning = err.Error()
		return res, &ErrParse{Path: path, Err: err}
	}

	result, err := budget.Run(ctx, tree, pol, adp, counter)
	if err != nil {
		return nil, &ErrTokenizer{Err: err}
	}

	switch result.Outcome {
	case budget.Aborted:
		res.Aborted = true
		res.Text = string(data)
		res.Tokens = counter.Count(res.Text)
		return res, nil
	case budget.Final:
		res.Warning = "budget unreachable: all passes saturated above target_tokens"
		log.Infow("budget unreachable", "path", path, "tokens", result.Tokens, "target", pol.TargetTokens)
	}

	res.Text = render.Render(result.Tree)
	res.Tokens = result.Tokens
	res.Records = len(result.Records)
	return res, nil
}
