package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema for the MySQL tracking backend. Statements are idempotent so Apply
// can run at every startup.
var statements = []struct {
	name string
	sql  string
}{
	{
		name: "0001_execution_blobs",
		sql: `
CREATE TABLE IF NOT EXISTS execution_blobs (
  path VARCHAR(512) NOT NULL,
  body MEDIUMBLOB NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (path)
) ENGINE=InnoDB;
`,
	},
}

func Apply(ctx context.Context, db *sql.DB) error {
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return err
	}

	for _, st := range statements {
		applied, err := isApplied(ctx, db, st.name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if _, err := db.ExecContext(ctx, st.sql); err != nil {
			return fmt.Errorf("migration %s failed: %w", st.name, err)
		}

		if err := markApplied(ctx, db, st.name); err != nil {
			return err
		}
	}

	return nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name VARCHAR(255) NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (name)
) ENGINE=InnoDB;
`)
	return err
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT name FROM schema_migrations WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func markApplied(ctx context.Context, db *sql.DB, name string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (?)`, name)
	return err
}
