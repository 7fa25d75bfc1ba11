package migrations

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "up", want: Up},
		{in: " DOWN ", want: Down},
		{in: "Status", want: Status},
		{in: "redo", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(files, dir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	body, err := fs.ReadFile(files, names[0])
	require.NoError(t, err)
	sql := string(body)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS members")
	assert.True(t, strings.Index(sql, "teams (") < strings.Index(sql, "members ("), "teams must be created before members")
}

func TestGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := gooseLogger{logger: zerolog.New(&buf)}

	l.Printf("OK   %s\n", "00001_init.sql")
	l.Fatalf("failed: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, `"level":"info","message":"OK   00001_init.sql"`)
	assert.Contains(t, out, `"level":"error","message":"failed: boom"`)
}
