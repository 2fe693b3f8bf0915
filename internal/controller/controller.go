// Package controller implements the session and catalog controller: it owns
// the authentication session lifecycle, the cached product and order
// collections, the order polling loop, and the derived statistics. The
// rendering layer (or the CLI) reads state through the accessors and invokes
// the operations; it never touches the backend directly.
package controller

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Leninfitfreak/leninkart-frontend/internal/config"
	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
	"github.com/Leninfitfreak/leninkart-frontend/internal/stats"
	"github.com/Leninfitfreak/leninkart-frontend/internal/store"
)

// Storage keys for the persisted session. Two entries mirror what the web
// client kept in local storage: the raw token and the structured user record.
const (
	tokenKey    = "session.token"
	userInfoKey = "session.user"
)

// API is the backend surface the controller drives. *storefront.Client
// implements it; tests substitute fakes.
type API interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Signup(ctx context.Context, req *models.SignupRequest) (*models.SignupResponse, error)
	Products(ctx context.Context) ([]models.Product, error)
	Orders(ctx context.Context) ([]models.Order, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	PlaceOrder(ctx context.Context, productID string) error
}

// fetchGuard tracks the monotonic sequence numbers for one resource so that
// a response arriving after a newer fetch has already been applied is
// discarded instead of clobbering fresher data.
type fetchGuard struct {
	issued  uint64
	applied uint64
}

// Controller is the session and catalog controller. All exported methods are
// safe for concurrent use.
type Controller struct {
	api    API
	store  store.Store
	tokens *TokenKeeper
	logger *logrus.Logger
	cfg    config.PollConfig

	mu       sync.Mutex
	session  *models.Session
	epoch    uint64 // bumped on every session activation and teardown
	products []models.Product
	orders   []models.Order
	// collection versions key the stats memo and order the fetch guards
	productsVersion uint64
	ordersVersion   uint64
	productsFetch   fetchGuard
	ordersFetch     fetchGuard
	dataErr         error
	busy            bool
	memo            stats.Memo

	pollCancel context.CancelFunc
	closed     bool

	// lifeCtx ends when the controller is closed; settle timers hang off it
	lifeCtx    context.Context
	lifeCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a controller over the given backend API, session storage, and
// token keeper. The keeper is shared with the AuthClient so that the bearer
// decoration always reflects the controller's current session.
func New(
	api API,
	st store.Store,
	tokens *TokenKeeper,
	cfg *config.Config,
	logger *logrus.Logger,
) *Controller {
	lifeCtx, lifeCancel := context.WithCancel(context.Background())
	return &Controller{
		api:        api,
		store:      st,
		tokens:     tokens,
		logger:     logger,
		cfg:        cfg.Poll,
		products:   []models.Product{},
		orders:     []models.Order{},
		lifeCtx:    lifeCtx,
		lifeCancel: lifeCancel,
	}
}

// Session returns a copy of the active session, or nil when none is active.
func (c *Controller) Session() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Active reports whether a session is currently active.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Products returns a copy of the cached product collection.
func (c *Controller) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Orders returns a copy of the cached order collection.
func (c *Controller) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// DataError returns the failure from the most recent fetch, or nil when the
// cached collections are current. A non-nil value means the collections are
// stale but still usable.
func (c *Controller) DataError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataErr
}

// Busy reports whether an order placement is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Stats returns the derived statistics for the current snapshot, recomputing
// only when the products or orders have changed since the last call.
func (c *Controller) Stats() stats.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memo.Get(c.productsVersion, c.ordersVersion, c.products, c.orders)
}

// Close tears the controller down: the poller stops, pending settle timers
// are cancelled, and no further callbacks fire after Close returns. Persisted
// session state is left intact so a later process can restore it. Close is
// idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopPollerLocked()
	c.mu.Unlock()

	c.lifeCancel()
	c.wg.Wait()

	c.logger.Debug("Controller closed")
}
