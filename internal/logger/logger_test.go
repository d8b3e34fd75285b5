package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/allbin/v5serial/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestFileOutputAndLevelChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "v5serial.log")

	log, err := New(config.LogConfig{
		Level:  "warn",
		Format: "console",
		File:   config.LogFileConfig{Path: path, MaxSize: 1},
	})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept", zap.String("port", "COM3"))

	log.SetLevel("debug")
	assert.Equal(t, zapcore.DebugLevel, log.Level())
	log.Debug("after level change")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var lines []map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(raw, &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 2)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "COM3", lines[0]["port"])
	assert.Equal(t, "after level change", lines[1]["msg"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("nothing")
	log.SetLevel("error")
	assert.Equal(t, zapcore.ErrorLevel, log.Level())
}
