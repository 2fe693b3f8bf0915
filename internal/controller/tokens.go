package controller

import (
	"context"
	"sync"

	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
)

// TokenKeeper holds the current session token for the AuthClient's bearer
// decoration. It exists as a separate object so the HTTP client stack can be
// wired up before the controller that feeds it.
type TokenKeeper struct {
	mu    sync.RWMutex
	token string
}

// NewTokenKeeper creates an empty token keeper.
func NewTokenKeeper() *TokenKeeper {
	return &TokenKeeper{}
}

// Token returns the current session token. It implements client.TokenSource
// and fails with ErrNoActiveSession when no session is active, keeping
// authenticated calls off the network entirely.
func (k *TokenKeeper) Token(_ context.Context) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.token == "" {
		return "", models.ErrNoActiveSession
	}
	return k.token, nil
}

// set installs a new session token.
func (k *TokenKeeper) set(token string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.token = token
}

// clear removes the session token.
func (k *TokenKeeper) clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.token = ""
}
