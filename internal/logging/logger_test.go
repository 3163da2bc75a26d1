package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WriterFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	logger.Debug("hidden at info")
	logger.Warn("log poll failed", zap.String("character", "Sorc"))
	require.NoError(t, closeFn())

	out := buf.String()
	assert.NotContains(t, out, "hidden at info")
	assert.Contains(t, out, "\tW\t")
	assert.Contains(t, out, "log poll failed")
	assert.Contains(t, out, `"character": "Sorc"`)
	assert.Contains(t, out, "logger_test")
	assert.NotContains(t, out, "\033[", "writer output must not be colored")
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Writer: &buf, Debug: true})
	require.NoError(t, err)

	logger.Debug("applied batch")
	assert.Contains(t, buf.String(), "\tD\t")
}

func TestNew_FileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "lookout", "lookout.log")

	logger, closeFn, err := New(Options{Path: path})
	require.NoError(t, err)
	logger.Info("started")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(data)), "started"))
}

func TestNew_FileUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, _, err := New(Options{Path: filepath.Join(blocker, "lookout.log")})
	assert.Error(t, err)
}
