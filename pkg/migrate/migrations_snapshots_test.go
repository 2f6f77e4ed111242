package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_stat_snapshots.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no stat snapshot migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS stat_snapshots",
		"CONSTRAINT idx_stat_snapshots_scope_key UNIQUE (scope, key)",
		"CHECK (scope IN ('owner', 'channel'))",
		"CHECK (total_views >= 0)",
		"DROP TABLE IF EXISTS stat_snapshots",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestChannelMigrationBindsOwner(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_channels.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no channel migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CONSTRAINT channels_external_id_key UNIQUE (external_id)",
		"FOREIGN KEY (owner_id) REFERENCES owners(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
