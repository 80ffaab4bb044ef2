package tokenizer

import "testing"

func TestApproxCount(t *testing.T) {
	if n := Approx.Count(""); n != 0 {
		t.Errorf("empty string should count 0 tokens, got %d", n)
	}
	if n := Approx.Count("ab"); n != 1 {
		t.Errorf("a string shorter than 4 chars should still count as 1 token, got %d", n)
	}
	if n := Approx.Count("twelve chars"); n != 3 {
		t.Errorf("12 chars at 4 chars/token should count 3 tokens, got %d", n)
	}
}

func TestWithCacheMemoizesByContent(t *testing.T) {
	calls := 0
	inner := CountFunc(func(s string) int {
		calls++
		return len(s)
	})
	counter := WithCache(inner)

	if n := counter.Count("hello"); n != 5 {
		t.Errorf("Count(\"hello\") = %d, want 5", n)
	}
	if n := counter.Count("hello"); n != 5 {
		t.Errorf("second Count(\"hello\") = %d, want 5", n)
	}
	if calls != 1 {
		t.Errorf("expected the inner counter to run once for a repeated input, ran %d times", calls)
	}

	counter.Count("world")
	if calls != 2 {
		t.Errorf("a distinct input must still reach the inner counter, got %d calls", calls)
	}
}
