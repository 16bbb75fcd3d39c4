package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestProductsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_base_schema.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CHECK (stock_quantity >= 0)",
		"CREATE SEQUENCE IF NOT EXISTS order_number_seq",
		"DROP TABLE IF EXISTS products",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCompoundsMigrationContainsBatchConstraints(t *testing.T) {
	content := readMigration(t, "*_create_compounds.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS compound_batches",
		"FOREIGN KEY (compound_id) REFERENCES compounds(id) ON DELETE CASCADE",
		"CHECK (total_volume_ml >= 0)",
		"ix_compound_batches_fifo",
		"CREATE TABLE IF NOT EXISTS compound_dispensations",
		"CHECK (volume_ml > 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationEnforcesItemShape(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"order_number BIGINT NOT NULL DEFAULT nextval('order_number_seq')",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"(type = 'product' AND product_id IS NOT NULL)",
		"(type = 'compound' AND compound_id IS NOT NULL)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
