package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/maxviazov/billing-admin-service/internal/config"
	"github.com/rs/zerolog"
)

// Database owns the connection pool behind a driver-neutral sqlx handle.
type Database struct {
	DB    *sqlx.DB
	pool  *pgxpool.Pool
	mysql *mysql.Config
}

// Open connects to the configured driver and verifies the connection.
func Open(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	var (
		d   *Database
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		d, err = openPostgres(ctx, cfg.Database, *logger)
	case "mysql":
		d, err = openMySQL(cfg.Database, *logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	// check the connection with a timeout so startup doesn't hang
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.Ping(pingCtx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Database.Driver, err)
	}

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("user", cfg.Database.User).
		Str("db", cfg.Database.DBName).
		Msg("Successfully connected to database")

	return d, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Database, error) {
	// build the DSN through url.URL for proper escaping
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	if cfg.User != "" || cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()

	poolConfig, err := pgxpool.ParseConfig(u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newPgxLogger(logger),
		LogLevel: traceLevel(logger.GetLevel()),
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = time.Duration(cfg.MaxConnIdleTime) * time.Second
	poolConfig.HealthCheckPeriod = time.Duration(cfg.HealthCheckPeriod) * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	// database/sql view over the same pool so sqlx and goose can share it
	db := sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
	return &Database{DB: db, pool: pool}, nil
}

func openMySQL(cfg config.DatabaseConfig, logger zerolog.Logger) (*Database, error) {
	// the driver logger is process wide
	if err := mysql.SetLogger(newMySQLLogger(logger)); err != nil {
		return nil, fmt.Errorf("failed to set mysql logger: %w", err)
	}
	mc := mysqlConfig(cfg)

	db, err := sqlx.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.MaxConnIdleTime) * time.Second)
	return &Database{DB: db, mysql: mc}, nil
}

// mysqlConfig builds the serving pool settings. Multi statements stay off here.
func mysqlConfig(cfg config.DatabaseConfig) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host + ":" + strconv.Itoa(cfg.Port)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	if cfg.SSLMode != "" && cfg.SSLMode != "disable" {
		mc.TLSConfig = "true"
	}
	return mc
}

// migrationDSN is the serving DSN with multi statements enabled for goose.
func (d *Database) migrationDSN() string {
	mc := d.mysql.Clone()
	mc.MultiStatements = true
	return mc.FormatDSN()
}

// MigrationDB returns a handle for schema migrations and a func releasing it.
// MySQL gets a dedicated single-connection handle with multi statements enabled;
// other drivers reuse the serving pool.
func (d *Database) MigrationDB() (*sql.DB, func() error, error) {
	if d.mysql == nil {
		return d.DB.DB, func() error { return nil }, nil
	}
	db, err := sql.Open("mysql", d.migrationDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open mysql migration handle: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, db.Close, nil
}

// traceLevel maps the service log level onto pgx's tracer level.
func traceLevel(l zerolog.Level) tracelog.LogLevel {
	switch {
	case l <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case l <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case l <= zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case l <= zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}

// Ping checks the underlying connection.
func (d *Database) Ping(ctx context.Context) error {
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.DB.PingContext(ctx)
}

// Close releases every pooled connection.
func (d *Database) Close() {
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
