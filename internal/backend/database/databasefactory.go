package database

import (
	"fmt"
	"log/slog"
	"strings"
)

const sqliteURLPrefix = "sqlite:///"

func NewDatabase(databaseType, connectionString string) (database DatabaseService, err error) {
	switch databaseType {
	case "sqlite":
		database, err = NewSQLiteDatabase(sqliteDataSource(connectionString))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseType)
	}

	// Ensure database schema exists (idempotent), important for in-memory SQLite
	slog.Info("initializing database schema (ensuring tables exist)", "type", databaseType)
	if _, err = database.CreateDatabase(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return database, nil
}

// sqliteDataSource accepts URL-style connection strings such as
// "sqlite:///users.db" as well as plain file paths and ":memory:".
func sqliteDataSource(connectionString string) string {
	if strings.HasPrefix(connectionString, sqliteURLPrefix) {
		path := strings.TrimPrefix(connectionString, sqliteURLPrefix)
		if path == "" {
			return ":memory:"
		}
		return path
	}
	return connectionString
}
