package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/existflow/journal/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("DEBUG"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARN"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("ERROR"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("bogus"))
	assert.Equal(t, "WARN", logger.WARN.String())
}

func TestWriterLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWriter(&buf, logger.DEBUG).WithFields(logger.F("component", "test"))

	l.Info("hello", logger.F("count", 3), logger.F("error", errors.New("boom")))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, float64(3), line["count"])
	assert.Equal(t, "boom", line["error"])
}

func TestWriterLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWriter(&buf, logger.WARN)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestFileLoggerRotatesLargeFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	path := filepath.Join(dir, "journal.log")
	old := strings.Repeat("x", 1024*1024)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(path, []byte(old), 0644))

	l, err := logger.New(logger.Config{
		Level:      logger.INFO,
		FilePath:   path,
		MaxSize:    1,
		MaxAge:     7,
		MaxBackups: 2,
	})
	require.NoError(t, err)

	l.Info("after rotation")
	require.NoError(t, l.Close())

	backups, err := filepath.Glob(filepath.Join(dir, "journal-*.log"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	backup, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, old, string(backup))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), "after rotation")
	assert.Contains(t, string(current), "logger_test.go")
}

func TestFileLoggerKeepsSmallFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	path := filepath.Join(dir, "journal.log")

	l, err := logger.New(logger.Config{Level: logger.INFO, FilePath: path, MaxSize: 1, MaxBackups: 2})
	require.NoError(t, err)

	l.Info("first")
	l.Info("second")
	require.NoError(t, l.Close())

	backups, err := filepath.Glob(filepath.Join(dir, "journal-*.log"))
	require.NoError(t, err)
	assert.Empty(t, backups)

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), "first")
	assert.Contains(t, string(current), "second")
}
