package logging

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_NoDirIsNop(t *testing.T) {
	logger, err := NewLogger(Options{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1), "nop logger should not enable any level")
}

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(Options{Dir: dir, Level: "info"})
	require.NoError(t, err)

	logger.Info("billing added")
	require.NoError(t, logger.Sync())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "shiptrack-"))

	data, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "billing added")
	assert.Contains(t, string(data), "INFO")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(Options{Dir: t.TempDir(), Level: "loud"})
	assert.Error(t, err)
}
