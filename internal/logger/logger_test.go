package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/travel-bucket/internal/config"
)

func TestNewLoggerProductionWritesJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Str("destination", "Goa").Msg("place created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "place created", entry["message"])
	assert.Equal(t, "Goa", entry["destination"])
	assert.Equal(t, config.ServiceName, entry["service"])
	assert.Equal(t, "production", entry["environment"])
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerServiceDisabledWithoutLicense(t *testing.T) {
	svc := NewLoggerService(config.DefaultObservabilityConfig())
	assert.Nil(t, svc.GetApplication())
	svc.Shutdown()

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, 5, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, 4, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, 2, GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, 1, GetPgxTraceLogLevel(zerolog.Disabled))
}
