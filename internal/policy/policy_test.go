package policy

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should validate cleanly, got %v", err)
	}
}

func TestValidateRejectsUnknownOptions(t *testing.T) {
	cases := []struct {
		name string
		pol  Policy
	}{
		{"comments", Policy{Comments: "blorp"}},
		{"imports", Policy{Imports: "blorp"}},
		{"literals", Policy{Literals: "blorp"}},
		{"function_bodies", Policy{FunctionBodies: "blorp"}},
		{"body_brace_style", Policy{BodyBraceStyle: "blorp"}},
		{"target_tokens", Policy{TargetTokens: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.pol.Validate()
			if err == nil {
				t.Fatalf("expected a ConfigError for invalid %s", c.name)
			}
			var ce *ConfigError
			if !asConfigError(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Option != c.name {
				t.Errorf("ConfigError.Option = %q, want %q", ce.Option, c.name)
			}
		})
	}
}

func TestValidateAcceptsEveryEnumValue(t *testing.T) {
	pol := Policy{
		Comments:       CommentKeepFirstSentence,
		Imports:        ImportSummarizeGroups,
		Literals:       LiteralMaxTokens,
		FunctionBodies: BodyMaxTokens,
		BodyBraceStyle: BraceKeep,
		TargetTokens:   0,
	}
	if err := pol.Validate(); err != nil {
		t.Fatalf("expected every enum value to validate, got %v", err)
	}
}

func asConfigError(err error, out **ConfigError) bool {
	ce, ok := err.(*ConfigError)
	if ok {
		*out = ce
	}
	return ok
}
