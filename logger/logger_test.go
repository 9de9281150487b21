package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func useTempLog(t *testing.T) string {
	t.Helper()
	ResetLogger()
	path := filepath.Join(t.TempDir(), "dsgen.log")
	SetLogPath(path)
	t.Cleanup(func() {
		ResetLogger()
		SetLevel(zap.InfoLevel)
	})
	return path
}

// TestInitLogger ensures that the logger initializes and creates its file.
func TestInitLogger(t *testing.T) {
	path := useTempLog(t)

	InitLogger()
	require.NotNil(t, log)
	log.Info("chunk complete")

	_, err := os.Stat(path)
	assert.NoError(t, err, "log file was not created")
}

func TestGetLogger_InitializesLazily(t *testing.T) {
	useTempLog(t)

	l := GetLogger()
	require.NotNil(t, l)
	assert.Same(t, l, GetLogger())
}

// TestSync checks that flushed records reach the file as JSON.
func TestSync(t *testing.T) {
	path := useTempLog(t)

	GetLogger().Info("generated rows", zap.String("table", "reason"), zap.Int64("rows", 35))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"generated rows"`)
	assert.Contains(t, string(data), `"table":"reason"`)
}

func TestSetLevel(t *testing.T) {
	path := useTempLog(t)

	SetLevel(zap.WarnLevel)
	GetLogger().Info("hidden message")
	GetLogger().Warn("visible message")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden message")
	assert.Contains(t, string(data), "visible message")
}

func TestResetLogger(t *testing.T) {
	useTempLog(t)
	first := GetLogger()

	SetLogPath(filepath.Join(t.TempDir(), "other.log"))
	ResetLogger()
	assert.NotSame(t, first, GetLogger())
}
