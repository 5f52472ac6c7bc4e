package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Stock Records", "per-store stock table")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14, "version is a sortable timestamp")
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_stock_records.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_stock_records.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add Stock Records")
	assert.Contains(t, string(up), "per-store stock table")
	assert.Contains(t, string(up), "UP migration")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "DOWN migration")
}

func TestCreateMigrationMakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)

	_, err = os.Stat(mf.UpPath)
	assert.NoError(t, err)
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"add_users_table", "add_users_table"},
		{"Add Users Table", "add_users_table"},
		{"add-price-history", "add_price_history"},
		{"weird!!chars##here", "weirdcharshere"},
		{"  spaced  out  ", "spaced_out"},
		{"trailing-", "trailing"},
		{"UPPER123", "upper123"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeName(tc.in), tc.in)
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"20240101000000_first.up.sql",
		"20240101000000_first.down.sql",
		"20240102000000_second.up.sql",
		"20240102000000_second.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"20240101000000_first",
		"20240102000000_second",
	}, migrations, "one entry per pair, non-sql files ignored")
}

func TestListMigrationsMissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
