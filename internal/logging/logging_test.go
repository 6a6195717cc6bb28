package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	log, err := New(Options{File: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("session started")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.NotContains(t, string(data), "hidden")
}

func TestNewVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	log, err := New(Options{File: path, Verbose: true, Console: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
