// Package testutil carries shared helpers for package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level slog logger routed through tb.Log,
// so log output stays attached to the test that produced it and only
// shows up on failure or under -v.
func NewTestLogger(tb testing.TB) *slog.Logger {
	tb.Helper()
	return slog.New(slog.NewTextHandler(&logSink{tb: tb}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logSink struct {
	tb testing.TB
}

func (s *logSink) Write(p []byte) (int, error) {
	s.tb.Helper()
	// The text handler terminates every record with a newline; tb.Log adds
	// its own, so strip it to keep the -v output single spaced.
	s.tb.Log(string(bytes.TrimSuffix(p, []byte("\n"))))
	return len(p), nil
}
