package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, GetLevel("warn"))
	assert.Equal(t, log.ErrorLevel, GetLevel("error"))
	assert.Equal(t, log.InfoLevel, GetLevel("whatever"))
}

func TestSetup_FileOutput(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stdout)
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.InfoLevel)
	})

	logFile := filepath.Join(t.TempDir(), "fitlab")
	Setup(LoggerSetupParams{
		LogFileName:   logFile,
		LogLevel:      "debug",
		LogFormatJSON: true,
	})
	log.Debug("written to file")

	data, err := os.ReadFile(logFile + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
