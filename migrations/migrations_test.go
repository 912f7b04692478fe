package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	for driver, want := range map[string]string{"postgres": "postgres", "pgx": "postgres", "mysql": "mysql"} {
		got, err := Dir(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Dir("sqlite3")
	assert.Error(t, err)
}

// Both dialects must ship the same versions so a schema can move between drivers.
func TestEmbeddedMigrationsMatchAcrossDrivers(t *testing.T) {
	names := func(dir string) []string {
		entries, err := fs.ReadDir(files, dir)
		require.NoError(t, err)
		var out []string
		for _, e := range entries {
			raw, err := fs.ReadFile(files, dir+"/"+e.Name())
			require.NoError(t, err)
			assert.Contains(t, string(raw), "-- +goose Up", e.Name())
			assert.Contains(t, string(raw), "-- +goose Down", e.Name())
			out = append(out, strings.TrimSuffix(e.Name(), ".sql"))
		}
		return out
	}
	pg := names("postgres")
	assert.NotEmpty(t, pg)
	assert.Equal(t, pg, names("mysql"))
}
