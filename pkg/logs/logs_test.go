package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

func TestHandler_StampsRequestID(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	log := slog.New(NewHandler(cfg, &buf))
	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "abc"})
	log.DebugContext(ctx, "hello", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc", rec["request_id"])
}

func TestHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Logging.Level = "warn"

	log := slog.New(NewHandler(cfg, &buf))
	log.Info("dropped")
	assert.Zero(t, buf.Len())
	log.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestHandler_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontdesk.log")
	cfg := &config.Config{}
	cfg.Logging.Output.File = config.FileLogConfig{Enabled: true, Path: path, MaxSizeMB: 1}

	slog.New(NewHandler(cfg, nil)).Info("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
