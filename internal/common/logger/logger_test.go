package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	l := NewStructured("info", "json", path)
	l.Info("lookup served", map[string]interface{}{"status": "found"})
	_ = l.(*zapWrapper).l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "lookup served", entry["msg"])
	assert.Equal(t, "found", entry["status"])
}

func TestNew_UnwritableOutputFallsBack(t *testing.T) {
	l := New("info", "json", filepath.Join(t.TempDir(), "missing", "dir", "bot.log"))
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestOutputPaths(t *testing.T) {
	assert.Nil(t, outputPaths(nil))
	assert.Equal(t, []string{"stderr", "/tmp/a.log"}, outputPaths([]string{" stderr , /tmp/a.log ", ""}))
}

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "unit-lookup"})

	l.WithError(errors.New("sheet gone")).Error("store read failed", map[string]interface{}{
		"source": "sheets",
		"cause":  errors.New("timeout"),
	})
	l.With(nil).Debug("scanned", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "unit-lookup", fields["taskType"])
	assert.Equal(t, "sheets", fields["source"])
	assert.Equal(t, "sheet gone", fields["error"])
	assert.Equal(t, "timeout", fields["cause"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestNewNoOpLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoOpLogger().Warn("ignored", map[string]interface{}{"k": 1})
	})
}
