package controller

import (
	"context"
	"time"

	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
)

// PlaceOrder submits an order for the given product. It requires an active
// session and is a no-op without one. The busy flag is held for the duration
// of the backend call, and — whatever the outcome — a delayed order refetch
// is scheduled so the backend's asynchronous order pipeline has time to
// settle before the collection is read back.
func (c *Controller) PlaceOrder(ctx context.Context, productID string) error {
	c.mu.Lock()
	if c.session == nil || c.closed {
		c.mu.Unlock()
		return models.ErrNoActiveSession
	}
	c.busy = true
	c.mu.Unlock()

	err := c.api.PlaceOrder(ctx, productID)

	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()

	c.scheduleSettleRefetch()

	if err != nil {
		ordersPlacedTotal.WithLabelValues(outcomeError).Inc()
		c.logger.WithError(err).WithField("product_id", productID).Error("Failed to place order")
		return err
	}

	ordersPlacedTotal.WithLabelValues(outcomeSuccess).Inc()
	return nil
}

// CreateProduct submits a new product. It requires an active session and is
// a no-op without one. On success the product collection is refetched; a
// failure is logged and returned with no state change.
func (c *Controller) CreateProduct(ctx context.Context, req models.CreateProductRequest) error {
	c.mu.Lock()
	if c.session == nil || c.closed {
		c.mu.Unlock()
		return models.ErrNoActiveSession
	}
	c.mu.Unlock()

	if err := req.Validate(); err != nil {
		c.logger.WithError(err).Warn("Invalid create-product request")
		return err
	}

	product, err := c.api.CreateProduct(ctx, &req)
	if err != nil {
		productsCreatedTotal.WithLabelValues(outcomeError).Inc()
		c.logger.WithError(err).WithField("name", req.Name).Error("Failed to create product")
		return err
	}
	productsCreatedTotal.WithLabelValues(outcomeSuccess).Inc()

	if refreshErr := c.RefreshProducts(ctx); refreshErr != nil {
		c.logger.WithError(refreshErr).Warn("Product refetch after create failed")
	}

	c.logger.WithField("product_id", product.ID).Debug("Product created and catalog refreshed")
	return nil
}

// scheduleSettleRefetch arranges an order refetch after the configured settle
// delay. The timer is cancelled by Close; a refetch that fires after logout
// is discarded by the epoch check in refresh.
func (c *Controller) scheduleSettleRefetch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()

		timer := time.NewTimer(c.cfg.OrderSettleDelay)
		defer timer.Stop()

		select {
		case <-timer.C:
			if err := c.RefreshOrders(c.lifeCtx); err != nil {
				c.logger.WithError(err).Debug("Settle refetch failed")
			}
		case <-c.lifeCtx.Done():
		}
	}()
}
