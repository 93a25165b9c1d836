package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerToWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexus.log")
	logger, err := NewLoggerTo("debug", path)
	require.NoError(t, err)

	logger.Infof("hello %s", "world")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
}

func TestNewLoggerToRejectsUnwritablePath(t *testing.T) {
	_, err := NewLoggerTo("debug", filepath.Join(t.TempDir(), "missing", "nexus.log"))
	assert.Error(t, err)
}

func TestNewLoggerNeverNil(t *testing.T) {
	assert.NotNil(t, NewLogger("debug"))
	assert.NotNil(t, NewLogger("not-a-level"))
}
