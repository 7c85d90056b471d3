// Package session holds the CMS credential for the lifetime of one login.
//
// A Session is created once per process and handed to every service that
// talks to the CMS. Login fills it with Begin, logout clears it with End.
package session

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/common"
)

type Session struct {
	mu        sync.RWMutex
	cred      models.Credential
	active    bool
	startedAt time.Time
}

func New() *Session {
	return &Session{}
}

// Begin stores cred as the current credential. A second call overwrites the
// previous credential.
func (s *Session) Begin(cred models.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.active = true
	s.startedAt = time.Now()
}

// Credential returns the current credential or common.ErrNotAuthenticated.
func (s *Session) Credential() (models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return models.Credential{}, common.ErrNotAuthenticated
	}
	return s.cred, nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// StartedAt reports when the current session began; zero when logged out.
func (s *Session) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

// End forgets the credential.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = models.Credential{}
	s.active = false
	s.startedAt = time.Time{}
}
