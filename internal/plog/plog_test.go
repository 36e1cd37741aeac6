package plog

import (
	"bytes"
	"strings"
	"testing"
)

func TestOnMessageWritesToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	report := OnMessage(logger)

	report("fetching template")

	if !strings.Contains(buf.String(), "fetching template") {
		t.Fatalf("expected log output to contain the message, got %q", buf.String())
	}
}

func TestNoopDoesNotPanic(t *testing.T) {
	Noop("anything")
}
