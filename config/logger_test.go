package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	prevLogger, prevLevel := zlog.Logger, zerolog.GlobalLevel()
	zlog.Logger = zerolog.New(buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		zlog.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return buf
}

func TestLoggerStructuredEvents(t *testing.T) {
	buf := captureLogs(t)

	var l *Logger
	l.ZWarn().Err(errors.New("boom")).Str("address", "cosmos1abc").Msg("Error getting balances")
	l.ZDebug().Str("hash", "ABCDEF...123456").Msg("Could not decode tx")
	l.ZInfo().Str("network", "juno").Msg("Network changed, refreshing")
	l.Warnf("ignored keys: %v", []string{"a"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "warn", first["level"])
	assert.Equal(t, "boom", first["error"])
	assert.Equal(t, "cosmos1abc", first["address"])
	assert.Equal(t, "Error getting balances", first["message"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "debug", second["level"])
	assert.Equal(t, "ABCDEF...123456", second["hash"])

	var last map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &last))
	assert.Equal(t, "ignored keys: [a]", last["message"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := captureLogs(t)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	Log.ZDebug().Msg("hidden")
	Log.Debugf("hidden %d", 1)
	Log.ZInfo().Msg("hidden")
	assert.Empty(t, buf.String())
}
