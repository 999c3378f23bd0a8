package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		gt.Equal(t, ParseLevel(tt.in), tt.want)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	gt.NoError(t, err)
	gt.Equal(t, f, FormatJSON)

	_, err = ParseFormat("xml")
	gt.Error(t, err)
}

func TestNew_AutoIsJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, &buf, FormatAuto)
	logger.Debug("hidden")
	logger.Info("loaded", "records", 3)

	var line map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &line)).Required()
	gt.Equal(t, line["msg"], any("loaded"))
	gt.Equal(t, line["records"], any(float64(3)))
}
