package migration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Alert Rules")
	require.NoError(t, err)

	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
	assert.Contains(t, mf.UpPath, "_add_alert_rules.up.sql")
	assert.Contains(t, mf.DownPath, "_add_alert_rules.down.sql")

	content, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Add Alert Rules")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add Alert Rules", "add_alert_rules"},
		{"fix--dashes", "fix_dashes"},
		{"Trailing ", "trailing"},
		{"v2 schema!", "v2_schema"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), tt.in)
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "first")
	require.NoError(t, err)

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Contains(t, names[0], "_first")
}

func TestListMigrations_MissingDirIsEmpty(t *testing.T) {
	names, err := ListMigrations("/nonexistent/path")
	require.NoError(t, err)
	assert.Empty(t, names)
}
