package logging

import (
	"sync"
)

var (
	instance *Logger
	mu       sync.RWMutex
)

// Configure sets the logging configuration and builds the global logger.
// This should be called once at startup before any logger usage.
func Configure(config *Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		instance.Close()
	}
	instance = logger
	return nil
}

// GetLogger returns the singleton logger instance.
// If no config was provided via Configure(), it panics.
func GetLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()

	if instance == nil {
		panic("logger configuration not set - call logging.Configure() first")
	}
	return instance
}

// SetLogger replaces the global logger. Used by tests and tools that build
// their own Logger.
func SetLogger(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	instance = l
}
