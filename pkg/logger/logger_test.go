package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureOutputRoutesPackageLogger(t *testing.T) {
	t.Cleanup(func() { ConfigureOutput(&bytes.Buffer{}, "console", "info") })

	var logs bytes.Buffer
	ConfigureOutput(&logs, "json", "warn")

	log.Warn().Str("product", "Product_1").Msg("artifact: failed to load model")
	log.Info().Msg("dropped below level")

	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Product_1", entry["product"])
	assert.Equal(t, "stockcast", entry["service"])
}

func TestSetLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { ConfigureOutput(&bytes.Buffer{}, "console", "info") })

	var logs bytes.Buffer
	ConfigureOutput(&logs, "json", "release")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
