// Package logging provides a thin, component-scoped wrapper over a single
// process-wide zap logger, set once at startup from cmd/lg-cli.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu   sync.RWMutex
	base *zap.Logger = zap.NewNop()
)

// SetBase installs the process-wide base logger. Called once from
// cmd/lg-cli's cobra PersistentPreRunE; defaults to a no-op logger so
// library code and tests never need to configure logging explicitly.
func SetBase(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	base = logger
}

// Named returns a sugared logger scoped to component, e.g. "adapter.c" or
// "budget.controller". Every package logs through its own component name
// rather than holding a bare *zap.Logger.
func Named(component string) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Named(component).Sugar()
}
