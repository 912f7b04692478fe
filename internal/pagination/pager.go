// Package pagination wraps arbitrary SELECT statements into page windows and
// computes the total row count and page metadata for them.
package pagination

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// Querier is the datastore collaborator the pager runs statements against.
type Querier interface {
	QueryRows(ctx context.Context, sql string, params Params) ([]Row, error)
	QueryScalar(ctx context.Context, sql string, params Params) (any, error)
}

// Sessioner is implemented by queriers that can pin consecutive statements to one
// connection. The advanced strategy needs it to read session-scoped counters.
type Sessioner interface {
	WithSession(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
}

// Pager runs paginated statements. It holds no per-call state and is safe for concurrent use.
type Pager struct {
	q       Querier
	dialect Dialect
	log     zerolog.Logger
}

// New builds a Pager. A nil dialect means MySQL syntax.
func New(q Querier, d Dialect, logger zerolog.Logger) *Pager {
	if d == nil {
		d = MySQLDialect{}
	}
	l := logger.With().Str("module", "pagination").Logger()
	return &Pager{q: q, dialect: d, log: l}
}

// Dialect reports the dialect used to render limit clauses.
func (p *Pager) Dialect() Dialect { return p.dialect }

// Simple fetches the page with one statement and the total with a separate count statement.
// The two statements are not isolated from each other: concurrent writes between them can
// make the total disagree with the page.
func (p *Pager) Simple(ctx context.Context, query string, params Params, req Request) (ResultSet[Row], error) {
	if err := req.Validate(); err != nil {
		return ResultSet[Row]{}, err
	}
	q, err := ParseDialectQuery(p.dialect, query)
	if err != nil {
		return ResultSet[Row]{}, err
	}
	return p.simple(ctx, p.q, q, params, req)
}

func (p *Pager) simple(ctx context.Context, exec Querier, q Query, params Params, req Request) (ResultSet[Row], error) {
	rows, err := exec.QueryRows(ctx, q.WithLimit(p.dialect, req.Offset(), req.PerPage), params)
	if err != nil {
		return ResultSet[Row]{}, datastoreErr("query page", err)
	}
	raw, err := exec.QueryScalar(ctx, q.WithCountProjection(), params)
	if err != nil {
		return ResultSet[Row]{}, datastoreErr("count rows", err)
	}
	total, err := toCount(raw)
	if err != nil {
		return ResultSet[Row]{}, datastoreErr("count rows", err)
	}
	p.log.Trace().Int("page", req.Page).Int("per_page", req.PerPage).Int("total", total).Msg("page fetched")
	return NewResultSet(req, total, rows), nil
}

// Advanced fetches the page and reads the unlimited row count from the session
// (SQL_CALC_FOUND_ROWS / FOUND_ROWS()). Without dialect or session support it
// behaves exactly like Simple.
func (p *Pager) Advanced(ctx context.Context, query string, params Params, req Request) (ResultSet[Row], error) {
	if err := req.Validate(); err != nil {
		return ResultSet[Row]{}, err
	}
	q, err := ParseDialectQuery(p.dialect, query)
	if err != nil {
		return ResultSet[Row]{}, err
	}

	fr, okDialect := p.dialect.(FoundRowsDialect)
	sess, okSession := p.q.(Sessioner)
	if !okDialect || !okSession {
		p.log.Debug().Bool("dialect_found_rows", okDialect).Bool("session", okSession).Msg("found rows unavailable, falling back to count query")
		return p.simple(ctx, p.q, q, params, req)
	}

	var out ResultSet[Row]
	err = sess.WithSession(ctx, func(ctx context.Context, exec Querier) error {
		rows, err := exec.QueryRows(ctx, q.WithFoundRows()+" "+p.dialect.Limit(req.Offset(), req.PerPage), params)
		if err != nil {
			return datastoreErr("query page", err)
		}
		raw, err := exec.QueryScalar(ctx, fr.FoundRowsQuery(), nil)
		if err != nil {
			return datastoreErr("found rows", err)
		}
		total, err := toCount(raw)
		if err != nil {
			return datastoreErr("found rows", err)
		}
		out = NewResultSet(req, total, rows)
		return nil
	})
	if err != nil {
		var dsErr *DatastoreError
		if !errors.As(err, &dsErr) {
			err = datastoreErr("session", err)
		}
		return ResultSet[Row]{}, err
	}
	return out, nil
}

// toCount coerces a scalar count result. Drivers hand back int64, text or NULL.
func toCount(v any) (int, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("unexpected count value %v (%T): %w", v, v, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}
