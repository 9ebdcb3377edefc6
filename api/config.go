// Package api provides the HTTP backend for the interactive name matching
// page and the MCP tool endpoint.
package api

import (
	"github.com/papercomputeco/namematch/api/search"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// NewMatcher builds a matcher for a collection. Each request gets its own
	// matcher, closed when the request completes. Requests run concurrently,
	// so matchers should share one store client (see matcher.ShareStore).
	NewMatcher search.MatcherFactory

	// Seed is added to collections created through the API unless the
	// request disables seeding.
	Seed []string
}
