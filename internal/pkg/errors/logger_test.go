package errors

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("hidden warn")
	logger.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden debug")
	assert.NotContains(t, out, "hidden info")
	assert.NotContains(t, out, "hidden warn")
	assert.Contains(t, out, "ERROR: visible error")
}

func TestLogger_VerboseShowsEverything(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")
	logger.Error("error line")

	out := buf.String()
	assert.Contains(t, out, "DEBUG: debug line")
	assert.Contains(t, out, "INFO: info line")
	assert.Contains(t, out, "WARN: warn line")
	assert.Contains(t, out, "ERROR: error line")
}

func TestLogger_APIDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.LogAPIRequest("/v1/chat/completions", "openai/gpt-4.1", 512)
	logger.LogAPIResponse("/v1/chat/completions", 64, 120*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "model=openai/gpt-4.1")
	assert.Contains(t, out, "prompt_length=512")
	assert.Contains(t, out, "response_length=64")
}

func TestLogger_APIDiagnosticsSilentWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.LogAPIRequest("/v1/chat/completions", "openai/gpt-4.1", 512)
	logger.LogAPIResponse("/v1/chat/completions", 64, time.Millisecond)

	assert.Empty(t, buf.String())
}

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey(""))
	assert.Equal(t, "****", MaskAPIKey("sk-1"))
	assert.Equal(t, "*******cdef", MaskAPIKey("sk-89abcdef"))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
