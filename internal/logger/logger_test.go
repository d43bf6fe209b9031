package logger

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToHomeLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		Close()
	})

	require.NoError(t, Init())

	path := GetLogPath()
	assert.Equal(t, filepath.Join(home, ".domino-dominicano", "debug.log"), path)

	LogInfo("hello %s", "world")
	LogError("broken: %v", os.ErrNotExist)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello world")
	assert.Contains(t, string(data), "[ERROR] broken")
}
