// Package logtest installs a quiet global logger for package tests.
package logtest

import (
	"io"
	"os"
	"path/filepath"

	"github.com/osa911/contact-api/internal/logging"
)

// Init configures the global logger to write to a temporary file only and
// returns a cleanup func. Call it from TestMain.
func Init() func() {
	dir, err := os.MkdirTemp("", "contact-api-test-*")
	if err != nil {
		panic(err)
	}
	err = logging.Configure(&logging.Config{
		Level:    logging.LevelDebug,
		File:     filepath.Join(dir, "test.log"),
		MaxSize:  1,
		Requests: true,
		Console:  io.Discard,
	})
	if err != nil {
		panic(err)
	}
	return func() { os.RemoveAll(dir) }
}
