package database

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrUserNotFound is returned by writes that target a missing user row.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when a username already exists.
	ErrUsernameTaken = errors.New("username already taken")
)

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	CreateUser(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]*User, error)
	// GetUserByID returns nil without an error when no row matches.
	GetUserByID(ctx context.Context, id int64) (*User, error)
	// SetProfileImage replaces the profile image reference in a single transaction
	// and returns the previous filename, or "" if none was set.
	SetProfileImage(ctx context.Context, id int64, filename string) (string, error)
}
