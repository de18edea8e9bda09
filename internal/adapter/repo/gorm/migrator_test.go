package gormrepo

import (
	"testing"
	"testing/fstest"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_action_log_entries.sql": {Data: []byte("SELECT 2;")},
		"0001_games.sql":              {Data: []byte("SELECT 1;")},
		"README.md":                   {Data: []byte("notes")},
		"archive/0000_old.sql":        {Data: []byte("SELECT 0;")},
	}
	files, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	if len(files) != 2 || files[0] != "0001_games.sql" || files[1] != "0002_action_log_entries.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}
