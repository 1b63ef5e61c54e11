package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// documentsDDL holds every collection of the document store. seq keeps
// insertion order for unordered queries and breaks ties in ordered ones.
const documentsDDL = `CREATE TABLE IF NOT EXISTS documents (
	seq        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	collection VARCHAR(512)    NOT NULL,
	doc_key    VARCHAR(191)    NOT NULL,
	data       JSON            NOT NULL,
	created_at TIMESTAMP(6)    NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	PRIMARY KEY (collection, doc_key),
	UNIQUE KEY uq_documents_seq (seq),
	KEY ix_documents_collection_seq (collection, seq)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`

// Migrate creates the documents table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, documentsDDL); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}
