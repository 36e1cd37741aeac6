// Package plog wraps zerolog for the orchestrator's progress reporting and
// internal pipeline diagnostics. The teacher logs its own pipeline steps
// with bare fmt.Println; this package is the one ambient concern enriched
// from the rest of the retrieval pack, whose manifests consistently reach
// for zerolog rather than stdlib log.
package plog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human-readable console logger writing to w, timestamped.
func New(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).With().Timestamp().Logger()
}

// Default is the package-level logger used by components that don't carry
// their own, writing to stderr so progress output never interleaves with
// a CLI command's stdout result.
var Default = New(os.Stderr)

// OnMessage returns an onMessage(text) progress reporter, per spec.md §6,
// that logs at info level through logger. Passing a zero zerolog.Logger
// (as zerolog.Logger{}) yields a reporter that discards every message.
func OnMessage(logger zerolog.Logger) func(string) {
	return func(text string) {
		logger.Info().Msg(text)
	}
}

// Noop is the default onMessage reporter per spec.md §6: a no-op.
func Noop(string) {}
