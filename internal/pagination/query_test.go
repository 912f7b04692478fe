package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/billing-admin-service/internal/pagination"
)

func TestWithCountProjection(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain",
			in:   "SELECT * FROM client",
			want: "SELECT count(1) FROM client",
		},
		{
			name: "join with filters keeps remainder",
			in: `SELECT m.*, c.currency as currency
              FROM client_balance as m
                LEFT JOIN client as c on c.id = m.client_id WHERE m.client_id = :client_id`,
			want: `SELECT count(1) FROM client_balance as m
                LEFT JOIN client as c on c.id = m.client_id WHERE m.client_id = :client_id`,
		},
		{
			name: "trailing order by dropped",
			in:   "SELECT id FROM admin WHERE role = :role ORDER by id DESC",
			want: "SELECT count(1) FROM admin WHERE role = :role",
		},
		{
			name: "sub-select in projection does not move the split",
			in:   "SELECT a.id, (SELECT name FROM admin_group g WHERE g.id = a.admin_group_id) AS grp FROM admin a",
			want: "SELECT count(1) FROM admin a",
		},
		{
			name: "literal and comment containing FROM",
			in:   "SELECT 'FROM here' AS note /* FROM nowhere */ FROM activity_admin_history h",
			want: "SELECT count(1) FROM activity_admin_history h",
		},
		{
			name: "lowercase keywords",
			in:   "select id from admin",
			want: "SELECT count(1) from admin",
		},
		{
			name: "qualified column named from",
			in:   "SELECT r.from, r.id FROM ranges r WHERE r.created_at >= :from",
			want: "SELECT count(1) FROM ranges r WHERE r.created_at >= :from",
		},
		{
			name: "group by is wrapped",
			in:   "SELECT client_id, SUM(amount) FROM client_balance GROUP BY client_id ORDER BY client_id",
			want: "SELECT count(1) FROM (SELECT client_id, SUM(amount) FROM client_balance GROUP BY client_id) AS paged_count",
		},
		{
			name: "distinct is wrapped",
			in:   "SELECT DISTINCT client_id FROM client_balance",
			want: "SELECT count(1) FROM (SELECT DISTINCT client_id FROM client_balance) AS paged_count",
		},
		{
			name: "trailing semicolon trimmed",
			in:   "SELECT id FROM admin;",
			want: "SELECT count(1) FROM admin",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := pagination.ParseQuery(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, q.WithCountProjection())
		})
	}
}

func TestParseQuery_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"not a select":     "DELETE FROM admin",
		"no from":          "SELECT 1",
		"already limited":  "SELECT id FROM admin LIMIT 10",
		"from only nested": "SELECT (SELECT 1 FROM dual)",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pagination.ParseQuery(in)
			assert.ErrorIs(t, err, pagination.ErrInvalidQuery)
		})
	}
}

func TestParseQuery_NestedLimitAllowed(t *testing.T) {
	_, err := pagination.ParseQuery("SELECT id FROM admin WHERE id IN (SELECT admin_id FROM activity_admin_history ORDER BY id DESC LIMIT 5)")
	assert.NoError(t, err)
}

func TestParseDialectQuery_HashComments(t *testing.T) {
	const xor = "SELECT flags # 1 AS x FROM admin"

	q, err := pagination.ParseDialectQuery(pagination.PostgresDialect{}, xor)
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(1) FROM admin", q.WithCountProjection())

	_, err = pagination.ParseDialectQuery(pagination.MySQLDialect{}, xor)
	assert.ErrorIs(t, err, pagination.ErrInvalidQuery)

	q, err = pagination.ParseDialectQuery(pagination.MySQLDialect{}, "SELECT id # FROM nowhere\nFROM admin")
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(1) FROM admin", q.WithCountProjection())

	// "--" comments apply to both dialects
	q, err = pagination.ParseDialectQuery(pagination.PostgresDialect{}, "SELECT id -- FROM nowhere\nFROM admin")
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(1) FROM admin", q.WithCountProjection())
}

func TestWithFoundRows_OnlyLeadingSelect(t *testing.T) {
	q, err := pagination.ParseQuery("SELECT a.id, (SELECT COUNT(*) FROM admin) AS n FROM admin a")
	require.NoError(t, err)
	assert.Equal(t, "SELECT SQL_CALC_FOUND_ROWS a.id, (SELECT COUNT(*) FROM admin) AS n FROM admin a", q.WithFoundRows())
}

func TestDialects(t *testing.T) {
	assert.Equal(t, "LIMIT 200,100", pagination.MySQLDialect{}.Limit(200, 100))
	assert.Equal(t, "LIMIT 100 OFFSET 200", pagination.PostgresDialect{}.Limit(200, 100))
	assert.IsType(t, pagination.PostgresDialect{}, pagination.DialectFor("pgx"))
	assert.IsType(t, pagination.MySQLDialect{}, pagination.DialectFor("mysql"))
}
