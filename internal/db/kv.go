package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore is a JSON key/value namespace bound to one scope.
// Writes are read-modify-write at the caller; the last write wins.
type KVStore struct {
	db    *gorm.DB
	scope string
}

// NewKVStore binds a store to an arbitrary scope.
func NewKVStore(conn *gorm.DB, scope string) *KVStore {
	return &KVStore{db: conn, scope: scope}
}

// LocalStore is the per-user persistent scope.
func LocalStore(conn *gorm.DB, userID models.ID) *KVStore {
	return NewKVStore(conn, "local:"+userID.String())
}

// SessionStore is the per-login scope, dropped on logout.
func SessionStore(conn *gorm.DB, sessionID string) *KVStore {
	return NewKVStore(conn, "session:"+sessionID)
}

// Scope returns the bound scope.
func (s *KVStore) Scope() string { return s.scope }

// Get decodes the value under key into out. It reports false when the key is absent.
func (s *KVStore) Get(ctx context.Context, key string, out any) (bool, error) {
	var e models.StorageEntry
	err := s.db.WithContext(ctx).Where("scope = ? AND entry_key = ?", s.scope, key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv get %s/%s: %w", s.scope, key, err)
	}
	if out != nil {
		if err := json.Unmarshal(e.Value, out); err != nil {
			return true, fmt.Errorf("kv decode %s/%s: %w", s.scope, key, err)
		}
	}
	return true, nil
}

// Has reports whether key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	return s.Get(ctx, key, nil)
}

// Set stores value as JSON under key, replacing any previous value.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %s/%s: %w", s.scope, key, err)
	}
	e := models.StorageEntry{Scope: s.scope, Key: key, Value: b, UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("kv set %s/%s: %w", s.scope, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("scope = ? AND entry_key = ?", s.scope, key).Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("kv delete %s/%s: %w", s.scope, key, err)
	}
	return nil
}

// DeleteShared removes key from every scope of the same kind, so a change
// made through one user's local store drops every user's copy.
func (s *KVStore) DeleteShared(ctx context.Context, key string) error {
	kind, _, _ := strings.Cut(s.scope, ":")
	err := s.db.WithContext(ctx).Where("scope LIKE ? AND entry_key = ?", kind+":%", key).Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("kv delete %s:*/%s: %w", kind, key, err)
	}
	return nil
}

// Clear removes every key in the scope.
func (s *KVStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Where("scope = ?", s.scope).Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("kv clear %s: %w", s.scope, err)
	}
	return nil
}
