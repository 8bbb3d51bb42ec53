package postgres

import (
	"strings"
	"testing"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	first := migrations[0]
	if first.Version != 1 || first.Name != "init" {
		t.Fatalf("unexpected first migration: %+v", first)
	}
	if !strings.Contains(first.UpSQL, "CREATE TABLE IF NOT EXISTS products") {
		t.Fatal("up migration must create products table")
	}
	if !strings.Contains(first.DownSQL, "DROP TABLE IF EXISTS products") {
		t.Fatal("down migration must drop products table")
	}

	// Версии строго возрастают.
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			t.Fatalf("migrations are not sorted: %d before %d",
				migrations[i-1].Version, migrations[i].Version)
		}
	}
}
