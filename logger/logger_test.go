package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggersWritesConfiguredFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "gowafly.log")
	InitLoggers(logFile)

	InfoLogger.WithField("bookingReference", "ABC123").Info("booking created")
	InfoLogger.Debug("hidden below info")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"booking created"`)
	assert.Contains(t, string(data), `"bookingReference":"ABC123"`)
	assert.NotContains(t, string(data), "hidden below info")
}
