package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONToFallback(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := New(Options{Level: "info", Format: "json", Fallback: &buf})
	require.NoError(t, err)
	defer closer.Close()

	Component(l, "web").Info("hello", slog.Int("n", 3))
	l.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "web", rec["component"])
	assert.Equal(t, "showcase", rec["system"])
	assert.Equal(t, float64(3), rec["n"])
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.log")
	l, closer, err := New(Options{Level: "debug", Format: "text", File: path})
	require.NoError(t, err)

	l.Debug("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
