package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger routes pgx tracer output into zerolog.
// Bind values are never logged: staff inserts carry password hashes.
type pgxLogger struct {
	logger zerolog.Logger
}

func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	return &pgxLogger{logger: logger.With().Str("component", "pgx").Logger()}
}

// Log implements tracelog.Logger.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelNone:
		return
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info().Str("pgx_log_level", level.String())
	}

	fields := make(map[string]any, len(data))
	for k, v := range data {
		switch k {
		case "args":
			if args, ok := v.([]any); ok {
				fields["arg_count"] = len(args)
			}
		case "sql":
			fields["sql"] = fmt.Sprint(v)
		default:
			fields[k] = v
		}
	}
	event.Fields(fields).Msg(msg)
}

// mysqlLogger receives the MySQL driver's connection-level complaints
// (bad packets, broken pipes) that never surface as query errors.
type mysqlLogger struct {
	logger zerolog.Logger
}

func newMySQLLogger(logger zerolog.Logger) mysqlLogger {
	return mysqlLogger{logger: logger.With().Str("component", "mysql").Logger()}
}

// Print implements mysql.Logger.
func (l mysqlLogger) Print(v ...any) {
	l.logger.Warn().Msg(fmt.Sprint(v...))
}
