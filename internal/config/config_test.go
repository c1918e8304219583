package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHOWCASE_CONFIG", "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Widget Showcase", c.Page.Title)
	assert.Equal(t, "wide", c.Page.Layout)
	assert.Equal(t, ":8501", c.Server.Addr)
	assert.Equal(t, int64(200<<20), c.Upload.MaxBytes)
	assert.Equal(t, 5, c.Upload.PreviewRows)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, uint64(0), c.Sample.Seed)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "showcase.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[page]
title = "Demo"
layout = "centered"

[upload]
preview_rows = 3

[sample]
seed = 11
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Demo", c.Page.Title)
	assert.Equal(t, "centered", c.Page.Layout)
	assert.Equal(t, 3, c.Upload.PreviewRows)
	assert.Equal(t, uint64(11), c.Sample.Seed)

	opts := c.Options()
	assert.Equal(t, "Demo", opts.Title)
	assert.Equal(t, 3, opts.PreviewRows)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SHOWCASE_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("SHOWCASE_LOG_LEVEL", "debug")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("SHOWCASE_PAGE_LAYOUT", "sideways")
	t.Setenv("SHOWCASE_LOG_FORMAT", "xml")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page.layout")
	assert.Contains(t, err.Error(), "log.format")
}
