package repository

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger forwards pgx trace events to zerolog under component=pgx,
// so SQL noise stays filterable.
type pgxLogger struct {
	logger zerolog.Logger
}

func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	return &pgxLogger{logger: logger.With().Str("component", "pgx").Logger()}
}

// Log implements tracelog.Logger.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	event := l.event(level)
	if event == nil {
		return
	}
	if sql, ok := data["sql"].(string); ok {
		event = event.Str("sql", sql)
		delete(data, "sql")
	}
	if args, ok := data["args"]; ok {
		event = event.Interface("args", args)
		delete(data, "args")
	}
	if len(data) > 0 {
		event = event.Fields(data)
	}
	event.Msg(msg)
}

func (l *pgxLogger) event(level tracelog.LogLevel) *zerolog.Event {
	switch level {
	case tracelog.LogLevelNone:
		return nil
	case tracelog.LogLevelTrace:
		return l.logger.Trace()
	case tracelog.LogLevelDebug:
		return l.logger.Debug()
	case tracelog.LogLevelInfo:
		return l.logger.Info()
	case tracelog.LogLevelWarn:
		return l.logger.Warn()
	case tracelog.LogLevelError:
		return l.logger.Error()
	default:
		return l.logger.Info().Str("pgx_log_level", level.String())
	}
}

// traceLevelFor keeps pgx's own filter in step with the zerolog level.
func traceLevelFor(level zerolog.Level) tracelog.LogLevel {
	switch {
	case level <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case level <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case level <= zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case level <= zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}
