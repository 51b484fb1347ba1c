// Package obslog holds the runtime's process-wide logger. It defaults to a
// no-op so embedding code pays nothing for logging unless it asks for it.
package obslog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	mu         sync.RWMutex
)

// L returns the current logger, defaulting to zap.NewNop() on first use.
func L() *zap.Logger {
	loggerOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the process-wide logger, letting cmd/corewasm wire in a
// real zap.Logger when its --verbose flag is set.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}
