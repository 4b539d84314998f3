package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", false, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("component", "store").Msg("skill added")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "skill added", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", true, &buf)

	logger.Debug().Msg("rendering document")
	assert.Contains(t, buf.String(), "rendering document")
	assert.NotContains(t, buf.String(), `"message"`)
}
