// internal/storage/database.go
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Driver registration

	"github.com/campustrade/campustrade-api/config"
	"github.com/campustrade/campustrade-api/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		email_verified INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`},
	{"refresh_tokens", `
	CREATE TABLE IF NOT EXISTS refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMP NOT NULL,
		revoked_at TIMESTAMP NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`},
	{"files", `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		original_name TEXT NOT NULL,
		relative_path TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		thumbnail_path TEXT NOT NULL DEFAULT '',
		thumbnail_url TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL,
		size INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
	);`},
}

// ConnectMetadataDB initializes the connection pool for the SQLite database
// and ensures the required tables exist.
func ConnectMetadataDB(cfg *config.Config) (*sql.DB, error) {
	dbPath := filepath.Join(cfg.MetadataDbDir, cfg.MetadataDbFile)
	customLog.Printf("Storage: Initializing database: %s", dbPath)

	if err := os.MkdirAll(cfg.MetadataDbDir, 0750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.MetadataDbDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	for _, stmt := range schemaStatements {
		if _, err = db.Exec(stmt.sql); err != nil {
			db.Close()
			customLog.Warnf("Storage: Failed to create %s table: %v", stmt.name, err)
			return nil, fmt.Errorf("failed to ensure %s table: %w", stmt.name, err)
		}
	}
	customLog.Println("Storage: Schema ensured.")

	// SQLite serializes writers; one connection avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	return db, nil
}
