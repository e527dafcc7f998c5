package log

import "sync"

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetDefaultLogger installs the process-wide logger. The root command calls
// this once after reading the configuration.
func SetDefaultLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// DefaultLogger returns the process-wide logger, creating one with the
// default configuration if nothing was installed yet.
func DefaultLogger() *Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()
	if logger != nil {
		return logger
	}

	logger = Default()
	SetDefaultLogger(logger)
	return logger
}
