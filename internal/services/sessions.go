package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/db"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/validation"
)

// ErrInvalidCredentials hides the remote login failure detail.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionService links browser sessions to remote tokens.
type SessionService struct {
	remote        *remote.Client
	repo          *db.SessionRepo
	ttl           time.Duration
	refreshWindow time.Duration
}

func NewSessionService(rc *remote.Client, repo *db.SessionRepo, ttl, refreshWindow time.Duration) *SessionService {
	return &SessionService{remote: rc, repo: repo, ttl: ttl, refreshWindow: refreshWindow}
}

// Login authenticates against the data service and opens a local session.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Session, models.User, validation.Violations, error) {
	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("password", password, v)
	if !v.Empty() {
		return nil, models.User{}, v, nil
	}
	res, err := s.remote.Auth.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if st := remote.StatusOf(err); st == http.StatusBadRequest || st == http.StatusUnauthorized || st == http.StatusForbidden {
			return nil, models.User{}, nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, models.User{}, nil, err
	}
	user := UserFromRemote(res.User)
	sess, err := s.repo.Create(ctx, res.Token, user, s.ttl)
	if err != nil {
		return nil, models.User{}, nil, err
	}
	return sess, user, nil, nil
}

// Resolve returns the user and remote token of a live session, refreshing the
// token when it is about to expire. Refresh failures keep the old token.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (models.User, string, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return models.User{}, "", err
	}
	user, err := db.DecodeUser(sess)
	if err != nil {
		return models.User{}, "", err
	}
	token := sess.Token
	if remote.NeedsRefresh(token, s.refreshWindow, time.Now()) {
		fresh, err := s.remote.Auth.Refresh(remote.WithToken(ctx, token))
		switch {
		case err != nil:
			log.Printf("[session] token refresh failed for %s: %v", sessionID, err)
		case fresh != "":
			if err := s.repo.UpdateToken(ctx, sessionID, fresh); err != nil {
				log.Printf("[session] storing refreshed token failed for %s: %v", sessionID, err)
			}
			token = fresh
		}
	}
	return user, token, nil
}

// Exists is the cookie verifier.
func (s *SessionService) Exists(ctx context.Context, sessionID string) bool {
	return s.repo.Exists(ctx, sessionID)
}

// Logout tells the data service (best effort) and drops the local session.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sess, err := s.repo.Get(ctx, sessionID); err == nil {
		if err := s.remote.Auth.Logout(remote.WithToken(ctx, sess.Token)); err != nil {
			log.Printf("[session] remote logout failed: %v", err)
		}
	}
	return s.repo.Delete(ctx, sessionID)
}

// PurgeLoop removes expired sessions every interval until ctx ends.
func (s *SessionService) PurgeLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := s.repo.PurgeExpired(ctx); err != nil {
				log.Printf("[session] purge failed: %v", err)
			} else if n > 0 {
				log.Printf("[session] purged %d expired sessions", n)
			}
		}
	}
}
