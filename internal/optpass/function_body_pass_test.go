package optpass

import (
	"strings"
	"testing"

	"github.com/Max-Moro/lg-cli/internal/adapter"
	"github.com/Max-Moro/lg-cli/internal/cst"
	"github.com/Max-Moro/lg-cli/internal/policy"
	"github.com/Max-Moro/lg-cli/internal/tokenizer"
)

func cFunc(signature, bodyText string) *cst.Node {
	fn := &cst.Node{
		Kind:      "function_definition",
		Text:      signature + " {" + bodyText + "}",
		Signature: signature,
	}
	fn.AddRole(cst.RoleFunctionDefinition)
	fn.Body = &cst.Node{
		Kind:      "function_body",
		Text:      bodyText,
		LineRange: cst.LineRange{Start: 1, End: 1 + strings.Count(bodyText, "\n")},
	}
	return fn
}

func TestFunctionBodyPassExemptsTrivialBody(t *testing.T) {
	adp := adapter.ForExtension(".c")
	fn := cFunc("int f()", " return 1; ")
	tree := &cst.Tree{TopLevel: []*cst.Node{fn}}
	pol := policy.Policy{FunctionBodies: policy.BodyStripAll}

	if _, err := (&FunctionBodyPass{}).Apply(tree, pol, adp, tokenizer.Approx); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if fn.Body.Elided != nil || fn.Elided != nil {
		t.Error("a single-statement body must never be elided, even under strip_all")
	}
}

func TestFunctionBodyPassStripLargeHonorsLineThreshold(t *testing.T) {
	adp := adapter.ForExtension(".c")
	body := strings.Repeat("x();\n", 30)
	fn := cFunc("void big()", body)
	tree := &cst.Tree{TopLevel: []*cst.Node{fn}}
	pol := policy.Policy{FunctionBodies: policy.BodyStripLarge, FunctionBodyMaxLines: 5}

	if _, err := (&FunctionBodyPass{}).Apply(tree, pol, adp, tokenizer.Approx); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if fn.Body.Elided == nil {
		t.Error("a body well over the line threshold should be elided under strip_large")
	}
}

func TestFunctionBodyPassStripLargeLeavesSmallBodyAlone(t *testing.T) {
	adp := adapter.ForExtension(".c")
	body := "a();\nb();\n"
	fn := cFunc("void small()", body)
	tree := &cst.Tree{TopLevel: []*cst.Node{fn}}
	pol := policy.Policy{FunctionBodies: policy.BodyStripLarge, FunctionBodyMaxLines: 20}

	if _, err := (&FunctionBodyPass{}).Apply(tree, pol, adp, tokenizer.Approx); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if fn.Body.Elided != nil {
		t.Error("a body under the line threshold should be left alone under strip_large")
	}
}

func TestFunctionBodyPassBraceReplaceDropsWholeNode(t *testing.T) {
	adp := adapter.ForExtension(".c")
	body := strings.Repeat("x();\n", 10)
	fn := cFunc("void f()", body)
	tree := &cst.Tree{TopLevel: []*cst.Node{fn}}
	pol := policy.Policy{FunctionBodies: policy.BodyStripAll, BodyBraceStyle: policy.BraceReplace}

	if _, err := (&FunctionBodyPass{}).Apply(tree, pol, adp, tokenizer.Approx); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if fn.Elided == nil {
		t.Fatal("brace-replace should elide the whole function node, signature and braces included")
	}
	if !strings.HasPrefix(fn.Elided.Text, "void f()") {
		t.Errorf("brace-replace placeholder should start with the signature, got %q", fn.Elided.Text)
	}
}

func TestFunctionBodyPassBraceReplaceFallsBackForBracelessBody(t *testing.T) {
	adp := adapter.ForExtension(".py")
	body := strings.Repeat("    x()\n", 10)
	fn := &cst.Node{
		Kind:      "function_definition",
		Text:      "def f():\n" + body,
		Signature: "def f():",
	}
	fn.AddRole(cst.RoleFunctionDefinition)
	fn.Body = &cst.Node{Kind: "function_body", Text: body, LineRange: cst.LineRange{Start: 2, End: 11}}
	tree := &cst.Tree{TopLevel: []*cst.Node{fn}}
	pol := policy.Policy{FunctionBodies: policy.BodyStripAll, BodyBraceStyle: policy.BraceReplace}

	if _, err := (&FunctionBodyPass{}).Apply(tree, pol, adp, tokenizer.Approx); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if fn.Elided != nil {
		t.Error("a braceless body has no braces to elide alongside the signature, should fall back to eliding just the body")
	}
	if fn.Body.Elided == nil {
		t.Error("the body itself should still be elided")
	}
}

func TestFunctionBodyPassMaxTokensPreservesTrailingReturn(t *testing.T) {
	adp := adapter.ForExtension(".c")
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("step();\n")
	}
	sb.WriteString("return 0;")
	body := sb.String()
	fn := cFunc("int run()", body)
	tree := &cst.Tree{TopLevel: []*cst.Node{fn}}
	pol := policy.Policy{FunctionBodies: policy.BodyMaxTokens, FunctionBodyMaxTokens: 20}

	if _, err := (&FunctionBodyPass{}).Apply(tree, pol, adp, tokenizer.Approx); err != nil {
		t.Fatalf("Apply returned an error: %v", err)
	}
	if !strings.Contains(fn.Body.Text, "return 0;") {
		t.Error("the recoverable trailing return statement should be preserved after max_tokens truncation")
	}
	if tokenizer.Approx.Count(fn.Body.Text) >= tokenizer.Approx.Count(body) {
		t.Error("max_tokens truncation should meaningfully shrink the body")
	}
}

func TestIsTrivialBody(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"", true},
		{" ", true},
		{"return 1;", true},
		{"a(); b();", false}, // two statements on one physical line
		{"a();\nb();\n", false},
	}
	for _, c := range cases {
		if got := isTrivialBody(c.text); got != c.want {
			t.Errorf("isTrivialBody(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
