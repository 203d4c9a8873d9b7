package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// schema is the full database schema, applied idempotently
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS leases (
		lease_id BIGSERIAL PRIMARY KEY,
		agreement_title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		rent TEXT,
		term_months TEXT,
		start_date TEXT,
		end_date TEXT,
		allocation TEXT,
		rejection_reason TEXT,
		entered_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS lease_data_audit (
		audit_id BIGSERIAL PRIMARY KEY,
		lease_id BIGINT NOT NULL REFERENCES leases (lease_id),
		changed_by_user_id BIGINT NOT NULL,
		changed_by_username TEXT,
		change_timestamp TEXT NOT NULL,
		field_name TEXT NOT NULL,
		old_value TEXT,
		new_value TEXT,
		action TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lease_data_audit_feed
		ON lease_data_audit (lease_id, change_timestamp DESC, audit_id DESC)`,
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}

	log.Println("schema applied")
}
