package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToGivenWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, "warn", "JSON")
	logger.Info("dropped")
	logger.Warn("kept", "component", "crawl")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "crawl", entry["component"])
}

func TestNewDefaultsToText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "", "").Info("hello", "n", 1)
	assert.Contains(t, buf.String(), "msg=hello n=1")
}

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		" Warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, levelFromString(in), in)
	}
}
