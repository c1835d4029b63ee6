package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add cart lines", "add_cart_lines"},
		{"Add-Cart-Lines", "add_cart_lines"},
		{"ADD_CART_LINES", "add_cart_lines"},
		{"add__cart__lines", "add_cart_lines"},
		{"Index 123", "index_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"ünïcode", "ncode"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_FirstVersion(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "create cart lines", "Cart lines table")
	require.NoError(t, err)

	assert.Equal(t, "000001", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_cart_lines.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_create_cart_lines.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "create cart lines")
	assert.Contains(t, string(up), "Cart lines table")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_NextVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_init.up.sql",
		"000001_init.down.sql",
		"000007_orders.up.sql",
		"000007_orders.down.sql",
		"notes.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	mf, err := CreateMigration(dir, "add index", "")
	require.NoError(t, err)
	assert.Equal(t, "000008", mf.Version)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "test", "test migration")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_init.up.sql",
		"000001_init.down.sql",
		"000002_addresses.up.sql",
		"000002_addresses.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0o755))

	got, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_addresses"}, got)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	got, err := ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHighestVersion_FS(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_b.up.sql": {Data: []byte("--")},
		"000010_c.up.sql": {Data: []byte("--")},
		"x_d.up.sql":      {Data: []byte("--")},
	}
	v, err := highestVersion(fsys)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	ups, err := listUpMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, base := range ups {
		_, err := migrations.FS.Open(base + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", base)
	}
}
