package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/osrm-runtime/resource"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.RWMutex
)

// Logger returns the engine's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		if logger == nil {
			logger = zap.NewNop()
		}
		loggerMu.Unlock()
	})
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the package logger. A nil logger restores the no-op one.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// lifecycleLogger reports handle table events at debug level.
type lifecycleLogger struct {
	log *zap.Logger
}

func (l lifecycleLogger) OnResourceEvent(e resource.Event) {
	if ce := l.log.Check(zap.DebugLevel, "engine handle event"); ce != nil {
		ce.Write(
			zap.Stringer("event", e.Type),
			zap.Uint32("handle", uint32(e.Handle)),
			zap.Uint32("borrows", e.Borrows),
		)
	}
}
