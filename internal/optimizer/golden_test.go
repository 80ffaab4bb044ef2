package optimizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

// goldenCase exercises one policy against a fixture pair under testdata/,
// the same input/output shape the original tool's own golden suite uses
// (spec §1/§6 treat that corpus as the authoritative rendering contract).
type goldenCase struct {
	name   string
	dir    string
	inPath string
	pol    policy.Policy
}

func TestOptimizeMatchesGoldenFixtures(t *testing.T) {
	cases := []goldenCase{
		{
			name:   "c/imports_strip_all",
			dir:    "../../testdata/c/imports_strip_all",
			inPath: "input.c",
			pol:    policy.Policy{Comments: policy.CommentKeepAll, Imports: policy.ImportStripAll, Literals: policy.LiteralKeepAll, FunctionBodies: policy.BodyKeepAll},
		},
		{
			name:   "c/function_bodies_strip_all",
			dir:    "../../testdata/c/function_bodies_strip_all",
			inPath: "input.c",
			pol:    policy.Policy{Comments: policy.CommentKeepAll, Imports: policy.ImportKeepAll, Literals: policy.LiteralKeepAll, FunctionBodies: policy.BodyStripAll, BodyBraceStyle: policy.BraceKeep},
		},
		{
			name:   "cpp/function_bodies_strip_all",
			dir:    "../../testdata/cpp/function_bodies_strip_all",
			inPath: "input.cpp",
			pol:    policy.Policy{Comments: policy.CommentKeepAll, Imports: policy.ImportKeepAll, Literals: policy.LiteralKeepAll, FunctionBodies: policy.BodyStripAll, BodyBraceStyle: policy.BraceKeep},
		},
		{
			name:   "c/public_api_basic",
			dir:    "../../testdata/c/public_api_basic",
			inPath: "input.c",
			pol:    policy.Policy{Comments: policy.CommentKeepAll, Imports: policy.ImportKeepAll, Literals: policy.LiteralKeepAll, FunctionBodies: policy.BodyKeepAll, PublicAPIOnly: true},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			inData, err := os.ReadFile(filepath.Join(c.dir, c.inPath))
			if err != nil {
				t.Fatalf("reading input fixture: %v", err)
			}
			wantPath := filepath.Join(c.dir, "expected"+filepath.Ext(c.inPath))
			want, err := os.ReadFile(wantPath)
			if err != nil {
				t.Fatalf("reading expected fixture: %v", err)
			}

			res, err := Optimize(context.Background(), c.inPath, inData, c.pol, tokenizer.Approx)
			if err != nil {
				t.Fatalf("Optimize returned an error: %v", err)
			}
			if res.Text != string(want) {
				t.Errorf("rendered output does not match the golden fixture %s\n--- got ---\n%s\n--- want ---\n%s", wantPath, res.Text, string(want))
			}
		})
	}
}
