package service

import (
	"log"
	"strings"

	"github.com/codapos/pos-agent/internal/domain/repository"
	"github.com/codapos/pos-agent/internal/infrastructure/api"
	"github.com/codapos/pos-agent/pkg/apperror"
)

// SessionService manages the upstream bearer token. The front-end hands the
// token to the agent after login; the agent persists it so polling survives
// restarts, and drops it the moment the server answers 401.
type SessionService struct {
	client *api.Client
	store  repository.SessionStore

	onActivated func()
	onExpired   func()
}

func NewSessionService(client *api.Client, store repository.SessionStore) *SessionService {
	s := &SessionService{client: client, store: store}
	client.OnUnauthorized(s.invalidate)
	return s
}

// Restore loads a persisted token into the API client. Expired tokens are
// discarded instead of loaded, so the first poll after a restart never
// burns a request on a dead session.
func (s *SessionService) Restore() {
	token, err := s.store.Token()
	if err != nil {
		log.Printf("session: restore failed: %v", err)
		return
	}
	if token == "" {
		return
	}
	s.client.SetToken(token)
	if s.client.TokenExpired() {
		log.Printf("session: stored token expired, clearing")
		s.invalidate()
		return
	}
	s.activate()
}

// SetToken stores the bearer token handed over by the front-end.
func (s *SessionService) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperror.NewBadRequestError("Token tidak boleh kosong")
	}
	s.client.SetToken(token)
	if s.client.TokenExpired() {
		s.client.SetToken("")
		return apperror.ErrSessionExpired
	}
	if err := s.store.SetToken(token); err != nil {
		return err
	}
	s.activate()
	return nil
}

// Active reports whether a usable session is loaded.
func (s *SessionService) Active() bool {
	return s.client.Token() != "" && !s.client.TokenExpired()
}

// Clear drops the session on explicit logout. Pollers pause the same way
// they do on a server-side 401.
func (s *SessionService) Clear() error {
	s.client.SetToken("")
	err := s.store.Clear()
	if s.onExpired != nil {
		go s.onExpired()
	}
	return err
}

// OnActivated registers a callback fired whenever a usable token is
// loaded, either restored from the store or handed over by the front-end.
// Register before Restore.
func (s *SessionService) OnActivated(fn func()) {
	s.onActivated = fn
}

// OnExpired registers a callback fired when the server invalidates the
// session.
func (s *SessionService) OnExpired(fn func()) {
	s.onExpired = fn
}

func (s *SessionService) activate() {
	if s.onActivated != nil {
		s.onActivated()
	}
}

func (s *SessionService) invalidate() {
	s.client.SetToken("")
	if err := s.store.Clear(); err != nil {
		log.Printf("session: clear failed: %v", err)
	}
	if s.onExpired != nil {
		// A 401 surfaces inside the calling request, which can be a poll
		// tick. Stopping pollers from their own goroutine would deadlock,
		// so the hook runs detached.
		go s.onExpired()
	}
}
