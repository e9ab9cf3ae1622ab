package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vtruck/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.WarnLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(logger.Config{Level: "info", Format: "json", Writer: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("shown", zap.String("load_id", "7"))
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "7", entry["load_id"])
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := logger.New(logger.Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(logger.Config{Level: "debug", Format: "json", Writer: &buf})
	require.NoError(t, err)

	assert.NotNil(t, logger.FromContext(context.Background()))

	ctx := logger.WithRequestID(logger.WithContext(context.Background(), l), "req-1")
	assert.Equal(t, "req-1", logger.RequestID(ctx))

	logger.FromContext(ctx).Info("tagged")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
