package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_cases",
		SQL: `CREATE TABLE IF NOT EXISTS cases (
  id           TEXT    PRIMARY KEY,
  title        TEXT    NOT NULL,
  jurisdiction TEXT    NOT NULL DEFAULT '',
  tags_json    TEXT    NOT NULL DEFAULT '[]',
  created_at   BIGINT  NOT NULL,
  updated_at   BIGINT  NOT NULL,
  archived_at  BIGINT
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id          TEXT   PRIMARY KEY,
  case_id     TEXT   NOT NULL REFERENCES cases(id),
  filename    TEXT   NOT NULL,
  mime        TEXT   NOT NULL,
  sha256      TEXT   NOT NULL,
  imported_at BIGINT NOT NULL
);`,
	},
	{
		Name: "create_table_journal_entries",
		SQL: `CREATE TABLE IF NOT EXISTS journal_entries (
  seq          BIGINT GENERATED ALWAYS AS IDENTITY,
  id           TEXT   PRIMARY KEY,
  case_id      TEXT   NOT NULL REFERENCES cases(id),
  ts           BIGINT NOT NULL,
  actor        TEXT   NOT NULL,
  action_type  TEXT   NOT NULL,
  payload_json TEXT   NOT NULL,
  payload_hash TEXT   NOT NULL,
  prev_hash    TEXT   NOT NULL DEFAULT '',
  entry_hash   TEXT   NOT NULL,
  UNIQUE (seq)
);`,
	},
	{
		Name: "create_index_documents_case_imported",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_case_imported ON documents (case_id, imported_at);`,
	},
	{
		Name: "create_index_documents_sha256",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_sha256 ON documents (sha256);`,
	},
	{
		Name: "create_index_journal_case_seq",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_journal_case_seq ON journal_entries (case_id, seq);`,
	},
}

// EnsureMigrated checks if the 'journal_entries' table exists and runs the
// migration steps if it doesn't. No step ever drops or rewrites existing
// rows; the journal table in particular is only ever created, never altered.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.journal_entries') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
