// Package client provides HTTP client utilities for calling the storefront
// backend.
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Leninfitfreak/leninkart-frontend/internal/constants"
)

// TokenSource supplies the bearer token for authenticated requests. The
// session controller implements this over its current session, so token
// attachment is an explicit decoration rather than ambient state.
type TokenSource interface {
	// Token returns the current session token, or an error when no session
	// is active.
	Token(ctx context.Context) (string, error)
}

// AuthClient extends BaseClient with bearer token authentication. It
// decorates every request with the Authorization header drawn from the
// TokenSource at call time.
type AuthClient struct {
	*BaseClient // Embedded - inherits all BaseClient methods

	tokenSource TokenSource
}

// NewAuthClient creates a new bearer-authenticated HTTP client.
//
// Parameters:
//   - baseClient: Base HTTP client for core operations
//   - tokenSource: Source of the current session token
func NewAuthClient(
	baseClient *BaseClient,
	tokenSource TokenSource,
) *AuthClient {
	return &AuthClient{
		BaseClient:  baseClient,
		tokenSource: tokenSource,
	}
}

// DoWithAuth executes an HTTP request with bearer token authentication.
// It fails without touching the network when no session token is available.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - method: HTTP method (GET, POST, PUT, DELETE, etc.)
//   - path: Path relative to baseURL
//   - body: Request body to be JSON-encoded (nil for GET requests)
//
// Returns the HTTP response. Caller is responsible for closing response body.
func (c *AuthClient) DoWithAuth(
	ctx context.Context,
	method string,
	path string,
	body interface{},
) (*http.Response, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session token: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(constants.HeaderAuthorization, fmt.Sprintf("Bearer %s", token))

	return c.execute(req)
}
