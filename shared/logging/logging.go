// Package logging configures the process-wide charmbracelet logger and hands
// out prefixed sub-loggers ("server", "client", "visual", ...).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var root = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.DateTime,
	Level:           log.InfoLevel,
})

// Init sets the level of the root logger. An empty level means info.
// Loggers obtained from For before Init keep the level they were created with.
func Init(level string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	root.SetLevel(lvl)
	return nil
}

// For returns a logger whose lines are prefixed with the given component name.
func For(prefix string) *log.Logger {
	return root.WithPrefix(prefix)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
