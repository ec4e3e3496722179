package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf}).
		WithComponent("watcher").
		With("profile", "title")

	logger.Warn(context.Background(), errors.New("boom"), "reload failed", "path", "profiles.yml")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "reload failed", record["msg"])
	assert.Equal(t, "watcher", record["component"])
	assert.Equal(t, "title", record["profile"])
	assert.Equal(t, "profiles.yml", record["path"])
	assert.Equal(t, "boom", record["err"])
}

func TestTextLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Format: "text", Output: &buf, NoColor: true})

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "hidden too")
	assert.Empty(t, buf.String())

	logger.Error(context.Background(), nil, "shown", "count", 3)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "count=3")
}

func TestNopDiscardsEverything(t *testing.T) {
	logger := NewNop()
	assert.NotPanics(t, func() {
		logger.Fatal(context.Background(), errors.New("x"), "ignored")
		logger.With("a", 1).Info(context.TODO(), "ignored")
	})
}

func TestPerfLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	op := logger.StartOperation("reload")
	op.End(context.Background(), "profiles", 2)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "reload", record["operation"])
	assert.Equal(t, float64(2), record["profiles"])
	assert.Contains(t, record, "duration")
}
