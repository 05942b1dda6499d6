package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepo persists login sessions.
type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(conn *gorm.DB) *SessionRepo { return &SessionRepo{db: conn} }

// Create stores a new session and returns it with a fresh id.
func (r *SessionRepo) Create(ctx context.Context, token string, user models.User, ttl time.Duration) (*models.Session, error) {
	ub, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	s := &models.Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      ub,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Get returns a live session.
func (r *SessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Exists is the cheap check used by the cookie verifier.
func (r *SessionRepo) Exists(ctx context.Context, id string) bool {
	var count int64
	r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND expires_at > ?", id, time.Now()).Count(&count)
	return count > 0
}

// UpdateToken swaps the remote token after a refresh.
func (r *SessionRepo) UpdateToken(ctx context.Context, id, token string) error {
	res := r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).
		Updates(map[string]any{"token": token, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("update session token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes the session and its session-scoped storage.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scope = ?", "session:"+id).Delete(&models.StorageEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Session{}).Error
	})
}

// PurgeExpired drops expired sessions. It returns the number removed.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("expires_at <= ?", time.Now()).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return int64(len(ids)), nil
}

// DecodeUser unpacks the user snapshot stored with a session.
func DecodeUser(s *models.Session) (models.User, error) {
	var u models.User
	if err := json.Unmarshal(s.User, &u); err != nil {
		return models.User{}, fmt.Errorf("decode session user: %w", err)
	}
	return u, nil
}
