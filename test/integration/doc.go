// Package integration contains integration tests for the storefront client.
//
// These tests use testcontainers to spin up real dependencies (Redis) and test
// the complete functionality of the session store in an environment that
// closely matches production.
package integration
