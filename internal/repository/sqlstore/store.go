// Package sqlstore implements the repository contracts on top of sqlx. The same
// statements run against Postgres (pgx stdlib) and MySQL (go-sql-driver/mysql);
// only bind style, limit syntax and id retrieval differ per driver.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

// Pagination strategies accepted by NewStore.
const (
	StrategySimple   = "simple"
	StrategyAdvanced = "advanced"
)

// q is a minimal query executor implemented by *sqlx.DB, *sqlx.Tx and *sqlx.Conn.
type q interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

type txKey struct{}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok && tx != nil
}

// Store is the shared datastore handle every repository in this package is built on.
// It is safe for concurrent use.
type Store struct {
	db        *sqlx.DB
	bind      int
	returning bool
	pager     *pagination.Pager
	advanced  bool
	log       zerolog.Logger
}

// NewStore wraps db. strategy selects how list endpoints count rows.
func NewStore(db *sqlx.DB, strategy string, logger zerolog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlx db is nil")
	}
	switch strategy {
	case "", StrategySimple, StrategyAdvanced:
	default:
		return nil, fmt.Errorf("unknown pagination strategy %q", strategy)
	}
	driver := db.DriverName()
	s := &Store{
		db:        db,
		bind:      sqlx.BindType(driver),
		returning: sqlx.BindType(driver) == sqlx.DOLLAR,
		advanced:  strategy == StrategyAdvanced,
		log:       logger.With().Str("module", "repository").Str("component", "sqlstore").Str("driver", driver).Logger(),
	}
	s.pager = pagination.New(s, pagination.DialectFor(driver), logger)
	return s, nil
}

// DB exposes the underlying handle, e.g. for migrations.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) getQ(ctx context.Context) q {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return s.db
}

// named expands :name placeholders from arg (a map or a db-tagged struct) into the
// driver's bind style.
func (s *Store) named(query string, arg any) (string, []any, error) {
	if arg == nil {
		return sqlx.Rebind(s.bind, query), nil, nil
	}
	if p, ok := arg.(pagination.Params); ok {
		if len(p) == 0 {
			return sqlx.Rebind(s.bind, query), nil, nil
		}
		arg = map[string]any(p)
	}
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, fmt.Errorf("bind %q: %w", query, err)
	}
	return sqlx.Rebind(s.bind, bound), args, nil
}

// exec runs a write statement and reports the affected row count.
func (s *Store) exec(ctx context.Context, query string, arg any) (int64, error) {
	bound, args, err := s.named(query, arg)
	if err != nil {
		return 0, err
	}
	res, err := s.getQ(ctx).ExecContext(ctx, bound, args...)
	if err != nil {
		return 0, repository.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, repository.MapError(err)
	}
	return n, nil
}

// insert runs an INSERT and returns the generated id. Postgres hands it back through
// RETURNING, MySQL through LastInsertId.
func (s *Store) insert(ctx context.Context, query string, arg any) (int64, error) {
	if s.returning {
		query += " RETURNING id"
	}
	bound, args, err := s.named(query, arg)
	if err != nil {
		return 0, err
	}
	exec := s.getQ(ctx)
	if s.returning {
		var id int64
		if err := exec.QueryRowxContext(ctx, bound, args...).Scan(&id); err != nil {
			return 0, repository.MapError(err)
		}
		return id, nil
	}
	res, err := exec.ExecContext(ctx, bound, args...)
	if err != nil {
		return 0, repository.MapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, repository.MapError(err)
	}
	return id, nil
}

// get scans a single row into dest; no row maps to repository.ErrNotFound.
func (s *Store) get(ctx context.Context, dest any, query string, arg any) error {
	bound, args, err := s.named(query, arg)
	if err != nil {
		return err
	}
	if err := sqlx.GetContext(ctx, s.getQ(ctx), dest, bound, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return repository.MapError(err)
	}
	return nil
}

// selectAll scans every row into dest, a pointer to a slice.
func (s *Store) selectAll(ctx context.Context, dest any, query string, arg any) error {
	bound, args, err := s.named(query, arg)
	if err != nil {
		return err
	}
	if err := sqlx.SelectContext(ctx, s.getQ(ctx), dest, bound, args...); err != nil {
		return repository.MapError(err)
	}
	return nil
}

// QueryRows implements pagination.Querier.
func (s *Store) QueryRows(ctx context.Context, query string, params pagination.Params) ([]pagination.Row, error) {
	return s.on(s.getQ(ctx)).QueryRows(ctx, query, params)
}

// QueryScalar implements pagination.Querier.
func (s *Store) QueryScalar(ctx context.Context, query string, params pagination.Params) (any, error) {
	return s.on(s.getQ(ctx)).QueryScalar(ctx, query, params)
}

// WithSession implements pagination.Sessioner. Inside a transaction the statements
// already share a connection; otherwise one is taken from the pool for fn.
func (s *Store) WithSession(ctx context.Context, fn func(ctx context.Context, q pagination.Querier) error) error {
	if tx, ok := txFrom(ctx); ok {
		return fn(ctx, s.on(tx))
	}
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return repository.MapError(err)
	}
	defer conn.Close()
	return fn(ctx, s.on(conn))
}

func (s *Store) on(exec q) *session { return &session{store: s, exec: exec} }

// session runs pager statements on one executor.
type session struct {
	store *Store
	exec  q
}

func (c *session) QueryRows(ctx context.Context, query string, params pagination.Params) ([]pagination.Row, error) {
	bound, args, err := c.store.named(query, params)
	if err != nil {
		return nil, err
	}
	c.store.log.Trace().Str("sql", bound).Msg("query rows")
	rows, err := c.exec.QueryxContext(ctx, bound, args...)
	if err != nil {
		return nil, repository.MapError(err)
	}
	defer rows.Close()

	var out []pagination.Row
	for rows.Next() {
		row := make(pagination.Row)
		if err := rows.MapScan(row); err != nil {
			return nil, repository.MapError(err)
		}
		normalizeRow(row)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func (c *session) QueryScalar(ctx context.Context, query string, params pagination.Params) (any, error) {
	bound, args, err := c.store.named(query, params)
	if err != nil {
		return nil, err
	}
	var v any
	if err := c.exec.QueryRowxContext(ctx, bound, args...).Scan(&v); err != nil {
		return nil, repository.MapError(err)
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return v, nil
}

// normalizeRow turns driver byte slices (MySQL text and decimal columns) into strings.
func normalizeRow(row pagination.Row) {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
}

// page runs a paginated statement with the configured strategy.
func (s *Store) page(ctx context.Context, query string, params pagination.Params, req pagination.Request) (pagination.ResultSet[pagination.Row], error) {
	if s.advanced {
		return s.pager.Advanced(ctx, query, params, req)
	}
	return s.pager.Simple(ctx, query, params, req)
}

// list runs a paginated statement and decodes each row into T.
func list[T any](ctx context.Context, s *Store, query string, params pagination.Params, req pagination.Request) (pagination.ResultSet[T], error) {
	rs, err := s.page(ctx, query, params, req)
	if err != nil {
		return pagination.ResultSet[T]{}, err
	}
	return pagination.Map(rs, decodeRow[T])
}

// decodeRow maps a column map onto a db-tagged struct.
func decodeRow[T any](row pagination.Row) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(row); err != nil {
		return out, fmt.Errorf("decode row: %w", err)
	}
	return out, nil
}

var (
	_ pagination.Querier   = (*Store)(nil)
	_ pagination.Sessioner = (*Store)(nil)
)
