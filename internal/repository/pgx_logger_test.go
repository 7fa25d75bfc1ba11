package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgxLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	l := newPgxLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	l.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{
		"sql":  "SELECT 1",
		"args": []any{1},
		"time": "1ms",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pgx", entry["component"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "SELECT 1", entry["sql"])
	assert.Equal(t, "1ms", entry["time"])
	assert.Equal(t, "Query", entry["message"])
}

func TestPgxLogger_NoneIsSilent(t *testing.T) {
	var buf bytes.Buffer
	l := newPgxLogger(zerolog.New(&buf))
	l.Log(context.Background(), tracelog.LogLevelNone, "ignored", nil)
	assert.Zero(t, buf.Len())
}

func TestTraceLevelFor(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelTrace, traceLevelFor(zerolog.TraceLevel))
	assert.Equal(t, tracelog.LogLevelDebug, traceLevelFor(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelInfo, traceLevelFor(zerolog.InfoLevel))
	assert.Equal(t, tracelog.LogLevelWarn, traceLevelFor(zerolog.WarnLevel))
	assert.Equal(t, tracelog.LogLevelError, traceLevelFor(zerolog.ErrorLevel))
}
