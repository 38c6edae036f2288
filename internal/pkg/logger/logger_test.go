package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleLogger_Prefixes(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, LevelDebug)

	log.Info("armed at 18:00")
	log.Warn("config file missing")
	log.Debug("delay 3600")
	log.Error("shutdown failed", errors.New("exit status 1"))

	out := buf.String()
	assert.Contains(t, out, "INFO: armed at 18:00")
	assert.Contains(t, out, "⚠️ WARN: config file missing")
	assert.Contains(t, out, "DEBUG: delay 3600")
	assert.Contains(t, out, "🔴 ERROR: shutdown failed - exit status 1")
}

func TestSimpleLogger_ErrorWithoutCause(t *testing.T) {
	buf := &bytes.Buffer{}
	NewWithWriter(buf, LevelInfo).Error("handler not set", nil)
	assert.Contains(t, buf.String(), "🔴 ERROR: handler not set")
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestSimpleLogger_LevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, LevelWarn)

	log.Debug("hidden debug")
	log.Info("hidden info")
	log.Warn("shown warn")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warn")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" DEBUG ", LevelDebug},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "input %q", tt.in)
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		l := Nop()
		l.Error("x", errors.New("y"))
		l.Info("x")
	})
}
