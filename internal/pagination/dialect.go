package pagination

import "fmt"

// Dialect renders the row window clause appended to a paginated statement.
type Dialect interface {
	Limit(offset, count int) string
}

// FoundRowsDialect is implemented by dialects that can report the unlimited row
// count of the last statement executed on the same session.
type FoundRowsDialect interface {
	Dialect
	FoundRowsQuery() string
}

// MySQLDialect emits "LIMIT offset,count" and supports SQL_CALC_FOUND_ROWS.
type MySQLDialect struct{}

func (MySQLDialect) Limit(offset, count int) string {
	return fmt.Sprintf("LIMIT %d,%d", offset, count)
}

func (MySQLDialect) FoundRowsQuery() string { return "SELECT FOUND_ROWS()" }

// HashComments reports that "#" opens a line comment.
func (MySQLDialect) HashComments() bool { return true }

// PostgresDialect emits "LIMIT count OFFSET offset". Postgres has no session-scoped
// found-rows counter, so the advanced strategy falls back to a count query.
type PostgresDialect struct{}

func (PostgresDialect) Limit(offset, count int) string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", count, offset)
}

// DialectFor picks the dialect matching a database/sql driver name.
func DialectFor(driver string) Dialect {
	switch driver {
	case "postgres", "pgx":
		return PostgresDialect{}
	default:
		return MySQLDialect{}
	}
}

var (
	_ FoundRowsDialect = MySQLDialect{}
	_ Dialect          = PostgresDialect{}
)
