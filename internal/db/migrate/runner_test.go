package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"rbac-auth/backend/internal/db"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		_, err := Run(dsn, Up)
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL is not set") {
			t.Errorf("Run(%q) error = %v, want DATABASE_URL is not set", dsn, err)
		}
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, dir := range []string{"", "invalid", "UP", "Up", "both"} {
		t.Run(dir, func(t *testing.T) {
			_, err := Run("postgres://localhost/test", dir)
			if err == nil || !strings.Contains(err.Error(), "direction must be up or down") {
				t.Errorf("Run with direction %q: error = %v", dir, err)
			}
		})
	}
}

func TestRun_InvalidDSN(t *testing.T) {
	for _, dsn := range []string{"invalid-dsn", "://localhost/test", "postgres://localhost with spaces/test"} {
		if _, err := Run(dsn, Up); err == nil {
			t.Errorf("Run with invalid DSN %q should return error", dsn)
		}
	}
}

func TestMigrationFS_Pairs(t *testing.T) {
	files, err := fs.Glob(db.MigrationFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	ups, downs := 0, 0
	for _, f := range files {
		switch {
		case strings.HasSuffix(f, ".up.sql"):
			ups++
		case strings.HasSuffix(f, ".down.sql"):
			downs++
		default:
			t.Errorf("unexpected migration file %s", f)
		}
	}
	if ups == 0 || ups != downs {
		t.Errorf("want matching up/down migrations, got %d up and %d down", ups, downs)
	}
}
