package controller

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
	"github.com/Leninfitfreak/leninkart-frontend/internal/store"
)

// Restore loads the persisted session, if any. It returns true when a
// session was activated. Restore never returns an error for bad persisted
// state: a missing key, an unparseable user record, or an expired token all
// mean "no session", and the leftover entries are cleared.
func (c *Controller) Restore(ctx context.Context) bool {
	token, err := c.store.Get(ctx, tokenKey)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			c.logger.WithError(err).Warn("Failed to read persisted token")
		}
		c.clearPersisted(ctx)
		return false
	}

	rawInfo, err := c.store.Get(ctx, userInfoKey)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			c.logger.WithError(err).Warn("Failed to read persisted user info")
		}
		c.clearPersisted(ctx)
		return false
	}

	var info models.UserInfo
	if unmarshalErr := json.Unmarshal([]byte(rawInfo), &info); unmarshalErr != nil {
		c.logger.WithError(unmarshalErr).Warn("Persisted user info is malformed, discarding session")
		c.clearPersisted(ctx)
		return false
	}

	if tokenExpired(token) {
		c.logger.Info("Persisted session token has expired, discarding session")
		c.clearPersisted(ctx)
		return false
	}

	session := models.NewSession(token, info)
	if session == nil {
		c.clearPersisted(ctx)
		return false
	}

	c.activate(session)
	c.logger.WithField("user_id", session.UserID).Info("Session restored")

	c.initialFetch(ctx)
	return true
}

// Login authenticates with the backend and activates the session. Field
// validation failures are returned as ValidationErrors before any network
// call is made; backend failures map onto the AuthError taxonomy.
func (c *Controller) Login(ctx context.Context, identifier, password string) error {
	req := &models.LoginRequest{Identifier: identifier, Password: password}
	if err := req.Validate(); err != nil {
		c.logger.WithError(err).Warn("Invalid login request")
		return err
	}

	resp, err := c.api.Login(ctx, req)
	if err != nil {
		return err
	}

	info := models.UserInfo{UserID: resp.UserID, Role: resp.Role}
	c.persist(ctx, resp.Token, info)

	session := models.NewSession(resp.Token, info)
	if session == nil {
		return models.NewInvalidResponse("login response is missing a token")
	}
	c.activate(session)

	c.logger.WithFields(logrus.Fields{
		"user_id": session.UserID,
		"role":    session.Role,
	}).Info("User logged in")

	c.initialFetch(ctx)
	return nil
}

// Signup registers a new account. It never activates a session; on success
// the returned notice tells the caller to switch to login. Validation
// failures are returned before any network call is made.
func (c *Controller) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	if err := req.Validate(); err != nil {
		c.logger.WithError(err).Warn("Invalid signup request")
		return "", err
	}

	resp, err := c.api.Signup(ctx, &req)
	if err != nil {
		return "", err
	}

	c.logger.WithField("user_id", resp.UserID).Info("Account created")
	return resp.Notice, nil
}

// Logout ends the session: the poller stops, the persisted entries are
// removed, and the cached collections reset to empty. Logout is idempotent.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return
	}
	userID := c.session.UserID

	c.stopPollerLocked()
	c.session = nil
	c.epoch++
	c.products = []models.Product{}
	c.orders = []models.Order{}
	c.productsVersion++
	c.ordersVersion++
	c.dataErr = nil
	c.busy = false
	c.mu.Unlock()

	c.tokens.clear()
	c.clearPersisted(ctx)

	c.logger.WithField("user_id", userID).Info("User logged out")
}

// activate installs the session, shares the token with the keeper, and
// starts the order poller. Any previous session is torn down first.
func (c *Controller) activate(session *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.stopPollerLocked()
	c.session = session
	c.epoch++
	c.tokens.set(session.Token)
	c.startPollerLocked()
}

// initialFetch populates both collections right after activation, matching
// the page-load behavior of the web client. Failures only set the data-error
// flag.
func (c *Controller) initialFetch(ctx context.Context) {
	if err := c.RefreshProducts(ctx); err != nil {
		c.logger.WithError(err).Warn("Initial product fetch failed")
	}
	if err := c.RefreshOrders(ctx); err != nil {
		c.logger.WithError(err).Warn("Initial order fetch failed")
	}
}

// persist writes the token and user record to durable storage. Persistence
// failures are logged but do not fail the login; the in-memory session stays
// usable and simply will not survive a restart.
func (c *Controller) persist(ctx context.Context, token string, info models.UserInfo) {
	if err := c.store.Set(ctx, tokenKey, token); err != nil {
		c.logger.WithError(err).Warn("Failed to persist session token")
		return
	}

	data, err := json.Marshal(info)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal user info")
		return
	}
	if err := c.store.Set(ctx, userInfoKey, string(data)); err != nil {
		c.logger.WithError(err).Warn("Failed to persist user info")
	}
}

// clearPersisted removes both storage entries. Absent keys are fine.
func (c *Controller) clearPersisted(ctx context.Context) {
	if err := c.store.Delete(ctx, tokenKey); err != nil {
		c.logger.WithError(err).Warn("Failed to delete persisted token")
	}
	if err := c.store.Delete(ctx, userInfoKey); err != nil {
		c.logger.WithError(err).Warn("Failed to delete persisted user info")
	}
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque (non-JWT) tokens and JWTs without an exp claim are never considered
// expired; the signature is deliberately not verified, since only the backend
// holds the key and an expiry check is purely a local optimization.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
