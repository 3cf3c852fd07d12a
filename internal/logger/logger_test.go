package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	closeFn, err := Init(Options{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, closeFn())

	// Nothing to observe, but it must not panic.
	Warn("ignored", "k", 1)
}

func TestInitTextLevelFilter(t *testing.T) {
	var out bytes.Buffer
	closeFn, err := Init(Options{Enabled: true, Output: &out})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Init(Options{}) })
	defer closeFn()

	Info("hidden")
	Warn("clipped mark", "lo", 0x10)

	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "clipped mark")
	require.Contains(t, out.String(), "lo=16")
}

func TestInitJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "romkit.log")
	closeFn, err := Init(Options{Enabled: true, JSON: true, Path: path, Level: slog.LevelDebug})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Init(Options{}) })

	Debug("trace", "offset", "0x1000")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"trace"`)
	require.Contains(t, string(data), `"offset":"0x1000"`)
}
