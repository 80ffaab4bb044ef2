package optimizer

import (
	"context"
	"errors"
	"testing"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

func init() {
	adapter.Register(func() adapter.Adapter { return brokenAdapter{} })
}

func TestOptimizeRejectsInvalidPolicy(t *testing.T) {
	pol := policy.Policy{Comments: "nonsense"}
	_, err := Optimize(context.Background(), "f.c", []byte("int x;"), pol, tokenizer.Approx)
	var perr *ErrPolicy
	if !errors.As(err, &perr) {
		t.Fatalf("expected an *ErrPolicy, got %v", err)
	}
}

func TestOptimizeSkipsBinaryInput(t *testing.T) {
	data := append([]byte{0x7f, 'E', 'L', 'F'}, make([]byte, 50)...)
	res, err := Optimize(context.Background(), "f.c", data, policy.Default(), tokenizer.Approx)
	if err != nil {
		t.Fatalf("Optimize returned an error: %v", err)
	}
	if !res.Skipped {
		t.Error("binary input should be reported as Skipped")
	}
	if res.Text != string(data) {
		t.Error("a skipped binary file's Text should be the raw input unchanged")
	}
}

func TestOptimizeSkipsUnsupportedExtension(t *testing.T) {
	data := []byte("some text content")
	res, err := Optimize(context.Background(), "f.unknownext", data, policy.Default(), tokenizer.Approx)
	if err != nil {
		t.Fatalf("Optimize returned an error: %v", err)
	}
	if !res.Skipped || res.Text != string(data) {
		t.Error("a file with no registered adapter should pass through unchanged and Skipped")
	}
}

func TestOptimizeDefaultPolicyIsIdentityModuloWhitespace(t *testing.T) {
	data := []byte("int add(int a, int b) {\n    return a + b;\n}\n")
	res, err := Optimize(context.Background(), "f.c", data, policy.Default(), tokenizer.Approx)
	if err != nil {
		t.Fatalf("Optimize returned an error: %v", err)
	}
	if res.Text != string(data) {
		t.Errorf("Default() policy should reproduce the input exactly, got %q want %q", res.Text, string(data))
	}
}

func TestOptimizeWrapsAdapterParseErrors(t *testing.T) {
	res, err := Optimize(context.Background(), "f.broken", []byte("whatever"), policy.Default(), tokenizer.Approx)
	var perr *ErrParse
	if !errors.As(err, &perr) {
		t.Fatalf("expected an *ErrParse, got %v", err)
	}
	if res == nil || res.Text != "whatever" {
		t.Error("a parse error should still return the input unchanged in Result.Text")
	}
	if res.Warning == "" {
		t.Error("a parse error should also be surfaced as a warning on the result")
	}
}

// brokenAdapter always fails to parse, to exercise the ErrParse path that
// neither real production adapter's Parse method ever actually takes.
type brokenAdapter struct{}

func (brokenAdapter) Parse(string) (*cst.Tree, error) {
	return nil, &parseFailure{}
}
func (brokenAdapter) Language() string              { return "broken" }
func (brokenAdapter) SupportedExtensions() []string  { return []string{".broken"} }
func (brokenAdapter) Placeholder(cst.ElisionKind, adapter.PlaceholderDetail) string {
	return ""
}

type parseFailure struct{}

func (*parseFailure) Error() string { return "simulated parse failure" }
