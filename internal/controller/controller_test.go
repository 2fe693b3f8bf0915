package controller_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leninfitfreak/leninkart-frontend/internal/config"
	"github.com/Leninfitfreak/leninkart-frontend/internal/controller"
	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
	"github.com/Leninfitfreak/leninkart-frontend/internal/store"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	return log
}

// fakeAPI is an in-memory backend double. Return values and errors are
// swappable mid-test, and every call is counted.
type fakeAPI struct {
	mu sync.Mutex

	loginResp *models.LoginResponse
	loginErr  error

	signupResp *models.SignupResponse
	signupErr  error

	products    []models.Product
	productsErr error

	orders    []models.Order
	ordersErr error
	// ordersGate, when set, blocks Orders until the channel is closed
	ordersGate chan struct{}

	createdProduct *models.Product
	createErr      error

	placeOrderErr error

	ordersCalls     int
	productsCalls   int
	placeOrderCalls int
}

func (f *fakeAPI) Login(_ context.Context, _ *models.LoginRequest) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Signup(_ context.Context, _ *models.SignupRequest) (*models.SignupResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signupResp, f.signupErr
}

func (f *fakeAPI) Products(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productsCalls++
	return f.products, f.productsErr
}

func (f *fakeAPI) Orders(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	gate := f.ordersGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ordersCalls++
	return f.orders, f.ordersErr
}

func (f *fakeAPI) CreateProduct(_ context.Context, _ *models.CreateProductRequest) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createdProduct, f.createErr
}

func (f *fakeAPI) PlaceOrder(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placeOrderCalls++
	return f.placeOrderErr
}

func (f *fakeAPI) orderCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ordersCalls
}

func (f *fakeAPI) setOrders(orders []models.Order, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = orders
	f.ordersErr = err
}

func testConfig() *config.Config {
	return &config.Config{
		Poll: config.PollConfig{
			// Long interval so the poller stays quiet unless a test waits for it
			OrdersInterval:   time.Hour,
			OrderSettleDelay: 20 * time.Millisecond,
		},
	}
}

func newTestController(t *testing.T, api *fakeAPI, cfg *config.Config) (*controller.Controller, store.Store) {
	t.Helper()

	st := store.NewMemoryStore(testLogger())
	c := controller.New(api, st, controller.NewTokenKeeper(), cfg, testLogger())
	t.Cleanup(c.Close)
	return c, st
}

func loggedInAPI() *fakeAPI {
	return &fakeAPI{
		loginResp: &models.LoginResponse{Token: "tok-1", UserID: "u-1", Role: "USER"},
		products: []models.Product{
			{ID: "p-1", Name: "Tea", Price: 12.5, CreatedBy: "alice"},
		},
		orders: []models.Order{
			{ID: "o-1", ProductName: "Tea", Price: 12.5, UserName: "alice"},
		},
	}
}

func TestLogin_ActivatesSessionAndLoadsCollections(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, st := newTestController(t, api, testConfig())

	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	assert.True(t, c.Active())
	session := c.Session()
	require.NotNil(t, session)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "u-1", session.UserID)

	assert.Len(t, c.Products(), 1)
	assert.Len(t, c.Orders(), 1)
	assert.NoError(t, c.DataError())

	// Session survives in storage for a later restore
	token, err := st.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	_, err = st.Get(ctx, "session.user")
	assert.NoError(t, err)
}

func TestLogin_ValidationFailureSkipsBackend(t *testing.T) {
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())

	err := c.Login(context.Background(), "", "")

	var errs models.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
	assert.False(t, c.Active())
}

func TestLogin_Rejected(t *testing.T) {
	api := &fakeAPI{loginErr: models.NewInvalidCredentials("bad password")}
	c, _ := newTestController(t, api, testConfig())

	err := c.Login(context.Background(), "alice", "wrong-pass")

	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.False(t, c.Active())
}

func TestSignup_NeverActivatesSession(t *testing.T) {
	api := &fakeAPI{signupResp: &models.SignupResponse{UserID: "u-9", Notice: "Account created. Switch to login to continue."}}
	c, _ := newTestController(t, api, testConfig())

	notice, err := c.Signup(context.Background(), models.SignupRequest{
		FullName:        "New User",
		Email:           "new@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	require.NoError(t, err)
	assert.Contains(t, notice, "Switch to login")
	assert.False(t, c.Active())
}

func TestRestore_ActivatesPersistedSession(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, st := newTestController(t, api, testConfig())

	require.NoError(t, st.Set(ctx, "session.token", "tok-persisted"))
	require.NoError(t, st.Set(ctx, "session.user", `{"userId":"u-1","role":"USER"}`))

	assert.True(t, c.Restore(ctx))
	assert.True(t, c.Active())
	assert.Equal(t, "tok-persisted", c.Session().Token)
	assert.Len(t, c.Products(), 1)
}

func TestRestore_NothingPersisted(t *testing.T) {
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())

	assert.False(t, c.Restore(context.Background()))
	assert.False(t, c.Active())
}

func TestRestore_MalformedUserInfoClearsStorage(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, st := newTestController(t, api, testConfig())

	require.NoError(t, st.Set(ctx, "session.token", "tok-persisted"))
	require.NoError(t, st.Set(ctx, "session.user", "{not json"))

	assert.False(t, c.Restore(ctx))
	assert.False(t, c.Active())

	_, err := st.Get(ctx, "session.token")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
	_, err = st.Get(ctx, "session.user")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestRestore_ExpiredTokenClearsStorage(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, st := newTestController(t, api, testConfig())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte("test-key"))
	require.NoError(t, err)

	require.NoError(t, st.Set(ctx, "session.token", token))
	require.NoError(t, st.Set(ctx, "session.user", `{"userId":"u-1"}`))

	assert.False(t, c.Restore(ctx))
	assert.False(t, c.Active())

	_, getErr := st.Get(ctx, "session.token")
	assert.ErrorIs(t, getErr, store.ErrKeyNotFound)
}

func TestRestore_OpaqueTokenIsAccepted(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, st := newTestController(t, api, testConfig())

	require.NoError(t, st.Set(ctx, "session.token", "not-a-jwt"))
	require.NoError(t, st.Set(ctx, "session.user", `{"userId":"u-1"}`))

	assert.True(t, c.Restore(ctx))
	assert.True(t, c.Active())
}

func TestRefresh_FailureKeepsStaleData(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))
	require.Len(t, c.Orders(), 1)

	fetchErr := &models.DataUnavailableError{Resource: "orders", StatusCode: 500}
	api.setOrders(nil, fetchErr)

	err := c.RefreshOrders(ctx)
	require.Error(t, err)

	// Stale collection stays readable, with the error flagged alongside
	assert.Len(t, c.Orders(), 1)
	assert.ErrorIs(t, c.DataError(), fetchErr)

	// A later successful fetch clears the flag
	api.setOrders([]models.Order{
		{ID: "o-1", ProductName: "Tea"},
		{ID: "o-2", ProductName: "Mug"},
	}, nil)
	require.NoError(t, c.RefreshOrders(ctx))
	assert.Len(t, c.Orders(), 2)
	assert.NoError(t, c.DataError())
}

func TestRefresh_RequiresSession(t *testing.T) {
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())

	assert.ErrorIs(t, c.RefreshOrders(context.Background()), models.ErrNoActiveSession)
	assert.ErrorIs(t, c.RefreshProducts(context.Background()), models.ErrNoActiveSession)
}

func TestLogout_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, st := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	c.Logout(ctx)

	assert.False(t, c.Active())
	assert.Nil(t, c.Session())
	assert.Empty(t, c.Products())
	assert.Empty(t, c.Orders())
	assert.NoError(t, c.DataError())
	assert.False(t, c.Busy())

	_, err := st.Get(ctx, "session.token")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
	_, err = st.Get(ctx, "session.user")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	// Idempotent
	c.Logout(ctx)
	assert.False(t, c.Active())
}

func TestLogout_DiscardsInFlightFetch(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	// Block the next order fetch mid-flight
	gate := make(chan struct{})
	api.mu.Lock()
	api.ordersGate = gate
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.RefreshOrders(ctx) }()

	// Give the fetch time to pass the session check and hit the gate
	time.Sleep(20 * time.Millisecond)
	c.Logout(ctx)

	close(gate)
	require.NoError(t, <-done)

	// The response from the old session never lands
	assert.Empty(t, c.Orders())
	assert.NoError(t, c.DataError())
	assert.False(t, c.Active())
}

func TestPoller_RefetchesOrdersWhileActive(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	cfg := testConfig()
	cfg.Poll.OrdersInterval = 20 * time.Millisecond
	c, _ := newTestController(t, api, cfg)

	require.NoError(t, c.Login(ctx, "alice", "secret1"))
	after := api.orderCallCount()

	assert.Eventually(t, func() bool {
		return api.orderCallCount() >= after+3
	}, time.Second, 5*time.Millisecond, "poller should keep refetching orders")
}

func TestPoller_StopsOnLogout(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	cfg := testConfig()
	cfg.Poll.OrdersInterval = 10 * time.Millisecond
	c, _ := newTestController(t, api, cfg)

	require.NoError(t, c.Login(ctx, "alice", "secret1"))
	assert.Eventually(t, func() bool {
		return api.orderCallCount() >= 2
	}, time.Second, 5*time.Millisecond)

	c.Logout(ctx)
	// Let any in-flight tick drain, then verify the count holds still
	time.Sleep(30 * time.Millisecond)
	settled := api.orderCallCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.orderCallCount(), "no ticks after logout")
}

func TestPlaceOrder_RequiresSession(t *testing.T) {
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())

	err := c.PlaceOrder(context.Background(), "p-1")

	assert.ErrorIs(t, err, models.ErrNoActiveSession)
	assert.Zero(t, api.placeOrderCalls)
}

func TestPlaceOrder_SchedulesSettleRefetch(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	before := api.orderCallCount()
	require.NoError(t, c.PlaceOrder(ctx, "p-1"))
	assert.False(t, c.Busy())

	// The refetch lands only after the settle delay
	assert.Eventually(t, func() bool {
		return api.orderCallCount() == before+1
	}, time.Second, 5*time.Millisecond)
}

func TestPlaceOrder_FailureStillSchedulesRefetch(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	api.placeOrderErr = errors.New("order rejected")
	c, _ := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	before := api.orderCallCount()
	err := c.PlaceOrder(ctx, "p-1")
	require.Error(t, err)
	assert.False(t, c.Busy())

	assert.Eventually(t, func() bool {
		return api.orderCallCount() == before+1
	}, time.Second, 5*time.Millisecond)
}

func TestCreateProduct_RefreshesCatalog(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	api.createdProduct = &models.Product{ID: "p-2", Name: "Mug", Price: 40}
	c, _ := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	api.mu.Lock()
	api.products = append(api.products, *api.createdProduct)
	api.mu.Unlock()

	require.NoError(t, c.CreateProduct(ctx, models.CreateProductRequest{Name: "Mug", Price: 40}))
	assert.Len(t, c.Products(), 2)
}

func TestCreateProduct_ValidationFailureSkipsBackend(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, _ := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	before := api.productsCalls
	err := c.CreateProduct(ctx, models.CreateProductRequest{Name: "", Price: -1})

	var errs models.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
	assert.Equal(t, before, api.productsCalls)
}

func TestStats_DerivedFromCollections(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	api.orders = []models.Order{
		{ID: "o-1", ProductName: "Tea", Price: 100, UserName: "alice"},
		{ID: "o-2", ProductName: "Tea", Price: 200, UserName: "alice"},
		{ID: "o-3", ProductName: "Tea", Price: 50, UserName: "bob"},
	}
	c, _ := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	s := c.Stats()
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 1, s.TotalProducts)
	assert.ElementsMatch(t, []string{"alice", "bob"}, s.Users)
	require.NotEmpty(t, s.TopUsers)
	assert.Equal(t, "alice", s.TopUsers[0].Name)
	assert.Equal(t, 2, s.TopUsers[0].OrderCount)
	assert.InDelta(t, 300, s.TopUsers[0].TotalSpend, 0.001)
}

func TestClose_StopsAllBackgroundWork(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	cfg := testConfig()
	cfg.Poll.OrdersInterval = 10 * time.Millisecond
	c, _ := newTestController(t, api, cfg)
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	c.Close()

	settled := api.orderCallCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.orderCallCount(), "no fetches after Close")

	// Operations on a closed controller are inert
	assert.ErrorIs(t, c.PlaceOrder(ctx, "p-1"), models.ErrNoActiveSession)
	assert.ErrorIs(t, c.RefreshOrders(ctx), models.ErrNoActiveSession)

	// Idempotent
	c.Close()
}

func TestClose_LeavesPersistedSessionIntact(t *testing.T) {
	ctx := context.Background()
	api := loggedInAPI()
	c, st := newTestController(t, api, testConfig())
	require.NoError(t, c.Login(ctx, "alice", "secret1"))

	c.Close()

	token, err := st.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}
