package track

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenMySQL opens the tracking database with conservative pool defaults.
func OpenMySQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

type MySQLBlobStore struct {
	db *sql.DB
}

func NewMySQLBlobStore(db *sql.DB) *MySQLBlobStore {
	return &MySQLBlobStore{db: db}
}

func (s *MySQLBlobStore) Put(ctx context.Context, path string, body []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO execution_blobs (path, body)
		 VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE body = VALUES(body)`,
		path, body,
	)
	return err
}

func (s *MySQLBlobStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(
		ctx,
		`SELECT body FROM execution_blobs WHERE path = ?`,
		path,
	).Scan(&body)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (s *MySQLBlobStore) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM execution_blobs WHERE path = ?`,
		path,
	)
	return err
}
