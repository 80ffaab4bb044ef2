// Package tokenizer defines the pluggable token-counting contract the
// budget controller measures against, plus a caching decorator shared by
// every concrete implementation.
package tokenizer

import (
	"crypto/sha256"
	"sync"
)

// Counter counts tokens in text. Implementations must be deterministic and
// safe for concurrent calls (spec §6 tokenizer contract).
type Counter interface {
	Count(text string) int
}

// CountFunc adapts a plain function to Counter.
type CountFunc func(string) int

// Count implements Counter.
func (f CountFunc) Count(text string) int { return f(text) }

// cached wraps a Counter with a content-hash-keyed cache. The cache is the
// only shared mutable state in the system (spec §5); sync.Map gives safe
// concurrent readers without a global lock on the common case.
type cached struct {
	inner Counter
	cache sync.Map // [32]byte -> int
}

// WithCache returns a Counter that memoizes inner.Count by a hash of the
// input text, safe for concurrent use across worker goroutines.
func WithCache(inner Counter) Counter {
	return &cached{inner: inner}
}

func (c *cached) Count(text string) int {
	key := sha256.Sum256([]byte(text))
	if v, ok := c.cache.Load(key); ok {
		return v.(int)
	}
	n := c.inner.Count(text)
	c.cache.Store(key, n)
	return n
}
