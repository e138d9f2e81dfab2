package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by guarded mutations that run their
	// existence check inside the same transaction as the write.
	ErrNotFound = errors.New("record not found")

	// ErrNotAuthor is returned when a note mutation is attempted by
	// someone other than the note's author.
	ErrNotAuthor = errors.New("not the author")

	// ErrDuplicateEmail maps the unique constraint on users.email.
	ErrDuplicateEmail = errors.New("email already exists")
)

// isDuplicateKey detects unique-constraint violations across the drivers
// in use (mysql in production, sqlite in tests).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
