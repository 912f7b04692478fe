package pagination

import (
	"fmt"
	"strings"
)

// Query is a parsed SELECT statement split at its first top-level FROM.
// Keywords inside parentheses, quoted strings, quoted identifiers and comments
// are ignored, so a sub-select or a literal containing "FROM" does not move the split.
type Query struct {
	raw      string
	selectAt int // start of the leading SELECT keyword
	fromAt   int // start of the first top-level FROM keyword
	orderAt  int // start of a trailing top-level ORDER BY, or -1
	grouped  bool
}

// word is a bare keyword-like token found at nesting depth zero.
type word struct {
	upper string
	start int
}

// ParseQuery validates the statement for pagination using MySQL comment syntax.
// It must start with SELECT, carry a top-level FROM and must not already be limited.
func ParseQuery(sql string) (Query, error) {
	return ParseDialectQuery(MySQLDialect{}, sql)
}

// ParseDialectQuery is ParseQuery with comment rules taken from d. "#" starts a
// line comment only for dialects reporting HashComments.
func ParseDialectQuery(d Dialect, sql string) (Query, error) {
	hc, _ := d.(interface{ HashComments() bool })
	sql = strings.TrimRight(strings.TrimSpace(sql), "; \t\r\n")
	words := topLevelWords(sql, hc != nil && hc.HashComments())
	if len(words) == 0 || words[0].upper != "SELECT" {
		return Query{}, fmt.Errorf("%w: statement must start with SELECT", ErrInvalidQuery)
	}

	q := Query{raw: sql, selectAt: words[0].start, fromAt: -1, orderAt: -1}
	if len(words) > 1 && (words[1].upper == "DISTINCT" || words[1].upper == "DISTINCTROW") {
		q.grouped = true
	}
	for i, w := range words {
		switch w.upper {
		case "FROM":
			if q.fromAt < 0 {
				q.fromAt = w.start
			}
		case "LIMIT":
			return Query{}, fmt.Errorf("%w: statement already has LIMIT", ErrInvalidQuery)
		case "GROUP", "HAVING":
			if q.fromAt >= 0 {
				q.grouped = true
			}
		case "ORDER":
			if i+1 < len(words) && words[i+1].upper == "BY" {
				q.orderAt = w.start
			}
		case "UNION":
			// the count rewrite must cover every branch
			q.grouped = true
		}
	}
	if q.fromAt < 0 {
		return Query{}, fmt.Errorf("%w: statement has no top-level FROM", ErrInvalidQuery)
	}
	if q.orderAt >= 0 && q.orderAt < q.fromAt {
		q.orderAt = -1
	}
	return q, nil
}

// String returns the normalized statement without a trailing semicolon.
func (q Query) String() string { return q.raw }

// WithLimit appends the dialect's limit clause.
func (q Query) WithLimit(d Dialect, offset, count int) string {
	return q.raw + " " + d.Limit(offset, count)
}

// WithCountProjection builds the total-count statement.
// Plain statements keep the original FROM remainder; grouped or distinct ones are
// wrapped so that count(1) still yields a single row.
func (q Query) WithCountProjection() string {
	body := q.raw
	if q.orderAt >= 0 {
		body = strings.TrimSpace(body[:q.orderAt])
	}
	if q.grouped {
		return "SELECT count(1) FROM (" + body + ") AS paged_count"
	}
	return "SELECT count(1) " + body[q.fromAt:]
}

// WithFoundRows injects SQL_CALC_FOUND_ROWS after the leading SELECT only.
func (q Query) WithFoundRows() string {
	head := q.selectAt + len("SELECT")
	return q.raw[:head] + " SQL_CALC_FOUND_ROWS" + q.raw[head:]
}

// topLevelWords scans sql and returns identifier-like words at parenthesis depth zero.
// hashComments turns "#" into a line comment.
func topLevelWords(sql string, hashComments bool) []word {
	var (
		out   []word
		depth int
		n     = len(sql)
	)
	for i := 0; i < n; {
		c := sql[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(sql, i, c)
		case c == '-' && i+1 < n && sql[i+1] == '-', c == '#' && hashComments:
			for i < n && sql[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				i = n
			} else {
				i += end + 4
			}
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case isWordByte(c):
			start := i
			for i < n && isWordByte(sql[i]) {
				i++
			}
			// skip qualified names such as m.from_date and bound names such as :from
			if depth == 0 && (start == 0 || (sql[start-1] != '.' && sql[start-1] != ':' && sql[start-1] != '@')) {
				out = append(out, word{upper: strings.ToUpper(sql[start:i]), start: start})
			}
		default:
			i++
		}
	}
	return out
}

func skipQuoted(sql string, i int, quote byte) int {
	n := len(sql)
	i++
	for i < n {
		switch sql[i] {
		case '\\':
			if quote == '\'' {
				i += 2
				continue
			}
		case quote:
			if i+1 < n && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return n
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
