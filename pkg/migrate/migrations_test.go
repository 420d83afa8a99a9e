package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ovenmade/ovenmade-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestQuotesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_quotes.sql")

	checks := []string{
		"CREATE TABLE quotes",
		"CREATE UNIQUE INDEX ux_quotes_baker_number ON quotes (baker_id, quote_number)",
		"REFERENCES quotes (id) ON DELETE CASCADE",
		"CREATE TABLE quote_counters",
		"DROP TABLE IF EXISTS quotes",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentsMigrationEnforcesExternalIDUniqueness(t *testing.T) {
	content := readMigration(t, "*_create_payments_orders.sql")

	checks := []string{
		"CREATE UNIQUE INDEX ux_payments_external_id ON payments (external_id)",
		"CREATE UNIQUE INDEX ux_orders_quote ON orders (quote_id)",
		"DROP TABLE IF EXISTS payments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
