package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFileName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000001_create_votings.up.sql", "000001_create_votings.down.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.up.sql"), 0o700))

	name, err := migrationFileName(dir, "create_votings.down")
	require.NoError(t, err)
	assert.Equal(t, "000001_create_votings.down.sql", name)

	_, err = migrationFileName(dir, "nested.up")
	assert.Error(t, err)

	_, err = migrationFileName(dir, "create_results.up")
	assert.Error(t, err)
}

func TestMigrationFilesShipWithRepository(t *testing.T) {
	content, err := migrationFileContent(filepath.Join("..", "..", "internal", "adapters", "repository", "postgres", "migrations"), "000001_create_votings.up")
	require.NoError(t, err)
	assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS votings")
}

func TestUpMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_b.up.sql", "000001_a.down.sql", "000001_a.up.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	names, err := upMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a.up", "000002_b.up"}, names)
}
