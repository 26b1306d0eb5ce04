package logger

import (
	"bytes"
	"testing"

	"stock-insight/src/models"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarning, ParseLevel("WARN"))
	assert.Equal(t, LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, &models.MConfig{LogLevel: "WARNING"}, "Test")

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warning("shown %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[Test] WARNING: shown 3")
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, &models.MConfig{LogLevel: "ERROR"}, "Root").Named("Child")

	l.Info("nope")
	l.Error("boom")

	assert.NotContains(t, buf.String(), "nope")
	assert.Contains(t, buf.String(), "[Child] ERROR: boom")
}
