package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "AddDocuments", "adddocuments"},
		{"spaces become underscores", "add documents table", "add_documents_table"},
		{"separator runs collapse", "add -- documents", "add_documents"},
		{"punctuation is dropped", "add.documents!", "adddocuments"},
		{"trailing separator is trimmed", "add_documents_", "add_documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Documents Table")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add_documents_table")
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory yields nothing", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("returns up migrations in version order", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{
			"20250101000000_init.up.sql",
			"20250101000000_init.down.sql",
			"20250202000000_add_sequences.up.sql",
			"20250202000000_add_sequences.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20250101000000_init", "20250202000000_add_sequences"}, names)
	})
}
