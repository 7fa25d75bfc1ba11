// Package migrations applies the embedded goose schema migrations.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

// goose keeps its dialect, FS and logger in package globals.
var mu sync.Mutex

// Direction selects what Run does with the migration set.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// ParseDirection accepts up, down or status in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down, Status:
		return d, nil
	default:
		return "", fmt.Errorf("unknown migration direction %q", s)
	}
}

// Run executes goose against the pool through a database/sql adapter.
func Run(ctx context.Context, pool *pgxpool.Pool, d Direction, logger zerolog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return RunDB(ctx, db, d, logger)
}

// RunDB is Run for callers that already hold a *sql.DB.
func RunDB(ctx context.Context, db *sql.DB, d Direction, logger zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{logger: logger.With().Str("component", "goose").Logger()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	var err error
	switch d {
	case Up:
		err = goose.UpContext(ctx, db, dir)
	case Down:
		err = goose.DownContext(ctx, db, dir)
	case Status:
		err = goose.StatusContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown migration direction %q", d)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", d, err)
	}
	return nil
}

// gooseLogger implements goose.Logger on top of zerolog.
type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs without exiting; goose still returns the error to the caller.
func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
