package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/repository"
)

type sessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates the gorm-backed bearer-token store.
func NewSessionStore(db *gorm.DB) repository.SessionStore {
	return &sessionStore{db: db}
}

func (s *sessionStore) Token() (string, error) {
	var session entity.AgentSession
	err := s.db.First(&session, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func (s *sessionStore) SetToken(token string) error {
	session := entity.AgentSession{ID: 1, Token: token}
	return s.db.Save(&session).Error
}

func (s *sessionStore) Clear() error {
	return s.db.Delete(&entity.AgentSession{}, 1).Error
}
