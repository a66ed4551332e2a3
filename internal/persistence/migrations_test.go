package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLMigrationsFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_tickets.sql", "001_init.sql", "README.md", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"001_init.sql", "002_tickets.sql"}, sqlMigrations(entries))
}

func TestRunMigrationsSkipsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}
