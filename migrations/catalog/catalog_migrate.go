package catalog

import (
	"database/sql"
	"fmt"
	"log"
)

const (
	SchemaMigration      = "catalog.schema"
	SubmissionsMigration = "catalog.submissions"
)

// MigrationsRegistry создаёт служебную таблицу migrations.migrations,
// в которой отмечаются применённые миграции.
type MigrationsRegistry struct{}

func (m *MigrationsRegistry) UpMigration(db *sql.DB) error {
	query := `
	CREATE SCHEMA IF NOT EXISTS migrations;
	CREATE TABLE IF NOT EXISTS migrations.migrations (
		name VARCHAR(255) PRIMARY KEY,
		time TIMESTAMP WITH TIME ZONE NOT NULL
	);`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations registry: %w", err)
	}
	return nil
}

type CreateCatalogSchema struct{}

func (m *CreateCatalogSchema) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, SchemaMigration); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `CREATE SCHEMA IF NOT EXISTS catalog;`
	if err := executeAndMarkMigration(db, query, SchemaMigration); err != nil {
		return err
	}
	log.Printf("Migration '%s' completed successfully.", SchemaMigration)
	return nil
}

type CreateSubmissionsTable struct{}

func (m *CreateSubmissionsTable) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, SubmissionsMigration); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS catalog.submissions (
		submission_id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		category VARCHAR(64) NOT NULL,
		brand VARCHAR(64) NOT NULL,
		store VARCHAR(64) NOT NULL,
		file_names TEXT[] NOT NULL DEFAULT '{}',
		status VARCHAR(16) NOT NULL,
		error_message TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP NOT NULL,
		finished_at TIMESTAMP WITH TIME ZONE
	);
	CREATE INDEX IF NOT EXISTS submissions_status_idx ON catalog.submissions(status);`
	if err := executeAndMarkMigration(db, query, SubmissionsMigration); err != nil {
		return err
	}
	log.Printf("Migration '%s' completed successfully.", SubmissionsMigration)
	return nil
}

func checkAndSkipMigration(db *sql.DB, migrationName string) (bool, error) {
	var migrationExists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", migrationName).Scan(&migrationExists)
	if err != nil {
		return migrationExists, fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		log.Printf("Migration '%s' already completed. Skipping.\n", migrationName)
	}
	return migrationExists, nil
}

func executeAndMarkMigration(db *sql.DB, query string, migrationName string) error {
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute migration '%s': %w", migrationName, err)
	}
	_, err := db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", migrationName)
	if err != nil {
		return fmt.Errorf("failed to mark migration '%s' as complete: %w", migrationName, err)
	}
	return nil
}
