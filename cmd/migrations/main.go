package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/voting/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("a migration name or \"all\" is required.")
	}
	migrationName := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")
	names := []string{migrationName}
	if migrationName == "all" {
		if names, err = upMigrations(basePath); err != nil {
			log.Fatal(err)
		}
	}

	for _, name := range names {
		fileContent, err := migrationFileContent(basePath, name)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := db.Exec(string(fileContent)); err != nil {
			log.Fatalf("Failed to execute SQL file %s: %v", name, err)
		}
		fmt.Printf("Migration %s executed successfully.\n", name)
	}
}

// upMigrations lists the up migrations in apply order, without the .sql suffix.
func upMigrations(basePath string) ([]string, error) {
	files, err := os.ReadDir(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".up.sql") {
			names = append(names, strings.TrimSuffix(f.Name(), ".sql"))
		}
	}
	sort.Strings(names)
	return names, nil
}

func migrationFileContent(basePath string, migrationName string) ([]byte, error) {
	fileName, err := migrationFileName(basePath, migrationName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(basePath, fileName))
}

// migrationFileName resolves names such as "000001_create_votings.up" to the
// file ending in that name.
func migrationFileName(basePath string, migrationName string) (string, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}
	for _, f := range files {
		if !f.IsDir() && pattern.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file %q not found", migrationName)
}
