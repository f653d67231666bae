package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Unique-violation messages per engine (postgres 23505, mysql 1062, sqlite
// 2067); the drivers do not share a typed error, so detection falls back to
// the message text.
var duplicateKeyNeedles = []string{
	"duplicate key value violates unique constraint",
	"Error 1062",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation on
// any of the supported database engines. Repositories rely on it to map
// races on email, membership and name indexes to their conflict sentinels.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	for _, needle := range duplicateKeyNeedles {
		if strings.Contains(err.Error(), needle) {
			return true
		}
	}
	return false
}
