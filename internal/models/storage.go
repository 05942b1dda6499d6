package models

import (
	"time"

	"gorm.io/datatypes"
)

// StorageEntry is one JSON value in a scoped key/value namespace.
// Scopes are "local:{userID}" for per-user caches and "session:{sessionID}"
// for per-login state.
type StorageEntry struct {
	Scope     string         `gorm:"primaryKey;size:100"`
	Key       string         `gorm:"column:entry_key;primaryKey;size:100"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

// Session links a cookie to the remote token and the user snapshot.
type Session struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Token     string         `gorm:"not null"`
	User      datatypes.JSON `gorm:"not null"`
	ExpiresAt time.Time      `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
