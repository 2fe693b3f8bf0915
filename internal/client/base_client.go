package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Leninfitfreak/leninkart-frontend/internal/constants"
)

// BaseClient provides core HTTP client functionality for calling the
// storefront backend. It handles request/response marshaling, request ID
// tagging, error parsing, and logging.
type BaseClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// NewBaseClient creates a new BaseClient for HTTP operations.
//
// Parameters:
//   - baseURL: Base URL for the backend (e.g., "http://localhost:8080")
//   - timeout: HTTP request timeout duration
//   - logger: Structured logger for HTTP operations
func NewBaseClient(
	baseURL string,
	timeout time.Duration,
	logger *logrus.Logger,
) *BaseClient {
	return &BaseClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Do executes an HTTP request with JSON marshaling and error handling.
// Every request carries a fresh X-Request-ID for log correlation with the
// backend.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - method: HTTP method (GET, POST, PUT, DELETE, etc.)
//   - path: Path relative to baseURL (e.g., "/api/products")
//   - body: Request body to be JSON-encoded (nil for GET requests)
//
// Returns the HTTP response. Caller is responsible for closing response body.
func (c *BaseClient) Do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	return c.execute(req)
}

// BaseURL returns the configured base URL for this client.
func (c *BaseClient) BaseURL() string {
	return c.baseURL
}

// newRequest builds a JSON request with the standard headers attached.
func (c *BaseClient) newRequest(
	ctx context.Context,
	method string,
	path string,
	body interface{},
) (*http.Request, error) {
	url := c.baseURL + path

	// Marshal request body if provided
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if body != nil {
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderXRequestID, uuid.NewString())

	return req, nil
}

// execute runs the request with debug logging on both sides.
func (c *BaseClient) execute(req *http.Request) (*http.Response, error) {
	c.logger.WithFields(logrus.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": req.Header.Get(constants.HeaderXRequestID),
	}).Debug("Sending HTTP request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL.String(),
			"error":  err,
		}).Error("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"status": resp.StatusCode,
	}).Debug("Received HTTP response")

	return resp, nil
}
