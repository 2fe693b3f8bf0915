// Package storefront implements the typed API surface of the storefront
// backend: authentication, the product and order collections, and the two
// mutation calls. It maps HTTP status codes onto the client's error taxonomy
// so callers never inspect responses themselves.
package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Leninfitfreak/leninkart-frontend/internal/client"
	"github.com/Leninfitfreak/leninkart-frontend/internal/config"
	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
)

// Client provides methods for interacting with the storefront backend.
type Client struct {
	*client.AuthClient // Embedded - inherits all AuthClient methods

	endpoints config.Endpoints
	logger    *logrus.Logger
}

// NewClient creates a new storefront backend client.
// It embeds the provided AuthClient for authenticated requests; the
// authentication endpoints themselves go through the unauthenticated base
// client.
//
// Parameters:
//   - authClient: bearer-authenticated HTTP client
//   - endpoints: backend endpoint paths
//   - logger: structured logger for API operations
func NewClient(
	authClient *client.AuthClient,
	endpoints config.Endpoints,
	logger *logrus.Logger,
) *Client {
	return &Client{
		AuthClient: authClient,
		endpoints:  endpoints,
		logger:     logger,
	}
}

// Login calls the authentication endpoint with the given credentials.
//
// Error mapping: HTTP 401 yields ErrInvalidCredentials, a success payload
// without a token yields ErrInvalidResponse, and every other failure yields
// ErrAuthUnavailable. Field validation is the caller's responsibility.
func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	c.logger.WithField("identifier", req.Identifier).Debug("Calling login endpoint")

	resp, err := c.Do(ctx, http.MethodPost, c.endpoints.Login, req)
	if err != nil {
		return nil, models.NewAuthUnavailable(fmt.Sprintf("login request failed: %v", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, models.NewInvalidCredentials("identifier or password is incorrect")
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		c.logger.WithField("status", resp.StatusCode).Error("Login request failed")
		return nil, models.NewAuthUnavailable(fmt.Sprintf("login failed with status %d", resp.StatusCode))
	}

	var loginResp models.LoginResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&loginResp); decodeErr != nil {
		return nil, models.NewInvalidResponse(fmt.Sprintf("failed to decode login response: %v", decodeErr))
	}
	if loginResp.Token == "" {
		return nil, models.NewInvalidResponse("login response is missing a token")
	}

	c.logger.WithField("user_id", loginResp.UserID).Debug("Login succeeded")
	return &loginResp, nil
}

// Signup calls the registration endpoint. A successful signup does not log
// the user in; the response carries a notice telling the caller to switch to
// login.
//
// Error mapping: HTTP 409 yields ErrUserExists; every other failure yields
// ErrAuthUnavailable.
func (c *Client) Signup(ctx context.Context, req *models.SignupRequest) (*models.SignupResponse, error) {
	c.logger.WithField("email", req.Email).Debug("Calling signup endpoint")

	resp, err := c.Do(ctx, http.MethodPost, c.endpoints.Signup, req)
	if err != nil {
		return nil, models.NewAuthUnavailable(fmt.Sprintf("signup request failed: %v", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return nil, models.NewUserExists("an account with this email already exists")
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		c.logger.WithField("status", resp.StatusCode).Error("Signup request failed")
		return nil, models.NewAuthUnavailable(fmt.Sprintf("signup failed with status %d", resp.StatusCode))
	}

	var signupResp models.SignupResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&signupResp); decodeErr != nil {
		return nil, models.NewInvalidResponse(fmt.Sprintf("failed to decode signup response: %v", decodeErr))
	}
	signupResp.Notice = "Account created. Switch to login to continue."

	return &signupResp, nil
}

// Products fetches the full product collection.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.fetchCollection(ctx, "products", c.endpoints.Products, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Orders fetches the full order collection.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.fetchCollection(ctx, "orders", c.endpoints.Orders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateProduct submits a new product and returns the created entry.
func (c *Client) CreateProduct(
	ctx context.Context,
	req *models.CreateProductRequest,
) (*models.Product, error) {
	c.logger.WithField("name", req.Name).Debug("Creating product")

	resp, err := c.DoWithAuth(ctx, http.MethodPost, c.endpoints.Products, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WithField("status", resp.StatusCode).Error("Create product request failed")
		return nil, fmt.Errorf("create product failed with status %d", resp.StatusCode)
	}

	var product models.Product
	if decodeErr := json.NewDecoder(resp.Body).Decode(&product); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode created product: %w", decodeErr)
	}

	c.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created")

	return &product, nil
}

// PlaceOrder submits an order for the given product. Order creation is
// asynchronous on the backend; the call returns once the order is accepted,
// and the resulting order appears in a later fetch.
func (c *Client) PlaceOrder(ctx context.Context, productID string) error {
	c.logger.WithField("product_id", productID).Debug("Placing order")

	resp, err := c.DoWithAuth(ctx, http.MethodPost, c.endpoints.OrderPath(productID), nil)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WithFields(logrus.Fields{
			"product_id": productID,
			"status":     resp.StatusCode,
		}).Error("Place order request failed")
		return fmt.Errorf("place order failed with status %d", resp.StatusCode)
	}

	c.logger.WithField("product_id", productID).Info("Order accepted")
	return nil
}

// fetchCollection GETs a collection endpoint and decodes it into out. Every
// failure is reported as a DataUnavailableError naming the resource, so the
// controller can flag stale data without inspecting the cause.
func (c *Client) fetchCollection(ctx context.Context, resource, path string, out interface{}) error {
	resp, err := c.DoWithAuth(ctx, http.MethodGet, path, nil)
	if err != nil {
		return &models.DataUnavailableError{Resource: resource, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"resource": resource,
			"status":   resp.StatusCode,
		}).Warn("Collection fetch failed")
		return &models.DataUnavailableError{Resource: resource, StatusCode: resp.StatusCode}
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return &models.DataUnavailableError{Resource: resource, Cause: decodeErr}
	}

	return nil
}
