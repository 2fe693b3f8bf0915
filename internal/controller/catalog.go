package controller

import (
	"context"
	"time"

	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
)

// RefreshProducts fetches the product collection and replaces the cache
// wholesale. On failure the previous collection stays available and the
// data-error flag is set. A response that lost the race against a newer
// fetch, a logout, or Close is discarded.
func (c *Controller) RefreshProducts(ctx context.Context) error {
	return c.refresh(ctx, resourceProducts)
}

// RefreshOrders fetches the order collection; same semantics as
// RefreshProducts.
func (c *Controller) RefreshOrders(ctx context.Context) error {
	return c.refresh(ctx, resourceOrders)
}

const (
	resourceProducts = "products"
	resourceOrders   = "orders"
)

func (c *Controller) refresh(ctx context.Context, resource string) error {
	c.mu.Lock()
	if c.session == nil || c.closed {
		c.mu.Unlock()
		return models.ErrNoActiveSession
	}
	epoch := c.epoch
	guard := c.guardFor(resource)
	guard.issued++
	seq := guard.issued
	c.mu.Unlock()

	var (
		products []models.Product
		orders   []models.Order
		err      error
	)
	if resource == resourceProducts {
		products, err = c.api.Products(ctx)
	} else {
		orders, err = c.api.Orders(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Discard stale results: the session ended, the controller closed, or a
	// later fetch for this resource already applied.
	guard = c.guardFor(resource)
	if c.closed || epoch != c.epoch || seq <= guard.applied {
		c.logger.WithField("resource", resource).Debug("Discarding stale fetch result")
		return nil
	}
	guard.applied = seq

	if err != nil {
		c.dataErr = err
		fetchesTotal.WithLabelValues(resource, outcomeError).Inc()
		c.logger.WithError(err).WithField("resource", resource).Warn("Fetch failed, keeping stale data")
		return err
	}

	if resource == resourceProducts {
		if products == nil {
			products = []models.Product{}
		}
		c.products = products
		c.productsVersion++
	} else {
		if orders == nil {
			orders = []models.Order{}
		}
		c.orders = orders
		c.ordersVersion++
	}
	c.dataErr = nil
	fetchesTotal.WithLabelValues(resource, outcomeSuccess).Inc()

	return nil
}

// guardFor returns the fetch guard for a resource. Caller must hold the mutex.
func (c *Controller) guardFor(resource string) *fetchGuard {
	if resource == resourceProducts {
		return &c.productsFetch
	}
	return &c.ordersFetch
}

// startPollerLocked launches the order polling loop for the current session.
// Caller must hold the mutex and have installed a session.
func (c *Controller) startPollerLocked() {
	ctx, cancel := context.WithCancel(c.lifeCtx)
	c.pollCancel = cancel

	c.wg.Add(1)
	go c.pollOrders(ctx, c.cfg.OrdersInterval)

	c.logger.WithField("interval", c.cfg.OrdersInterval).Debug("Order polling started")
}

// stopPollerLocked cancels the polling loop, if one is running. Caller must
// hold the mutex. The loop exits on its own; any tick already in flight is
// neutralized by the epoch check in refresh.
func (c *Controller) stopPollerLocked() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
		c.logger.Debug("Order polling stopped")
	}
}

// pollOrders refetches the order collection on a fixed interval until its
// context is cancelled. Every tick retries unconditionally; there is no
// backoff, matching the original page behavior.
func (c *Controller) pollOrders(ctx context.Context, interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pollTicksTotal.Inc()
			if err := c.RefreshOrders(ctx); err != nil {
				c.logger.WithError(err).Debug("Order poll tick failed")
			}
		case <-ctx.Done():
			return
		}
	}
}
