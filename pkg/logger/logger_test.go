package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf, level)
	t.Cleanup(func() { SetOutput(os.Stdout, zerolog.InfoLevel) })
	return buf
}

func TestInfo_KeyValuePairs(t *testing.T) {
	buf := capture(t, zerolog.DebugLevel)

	Info("feed served", "user_id", "u1", "count", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "feed served", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestError_TrailingErrorAttached(t *testing.T) {
	buf := capture(t, zerolog.DebugLevel)

	Error("save failed", "user_id", "u1", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "u1", entry["user_id"])
}

func TestDebug_SuppressedBelowLevel(t *testing.T) {
	buf := capture(t, zerolog.InfoLevel)

	Debug("noisy", "k", "v")

	assert.Zero(t, buf.Len())
}
