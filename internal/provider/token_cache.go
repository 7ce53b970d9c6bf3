package provider

import (
	"sync"
	"time"
)

// expirySkew is subtracted from a token's lifetime so a token about to
// lapse mid-request is treated as already expired.
const expirySkew = 30 * time.Second

// TokenCache holds one bearer token and its expiry. It is an explicit
// object owned by the provider client rather than a package-level
// variable, so lifetime and invalidation stay visible and testable.
type TokenCache struct {
	mu        sync.Mutex
	value     string
	expiresAt time.Time
}

func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Get returns the cached token if it is still inside its validity window.
func (c *TokenCache) Get(now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value == "" || !now.Before(c.expiresAt.Add(-expirySkew)) {
		return "", false
	}
	return c.value, true
}

func (c *TokenCache) Set(value string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.expiresAt = expiresAt
}

// Invalidate drops the cached token, forcing the next Get to miss.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = ""
	c.expiresAt = time.Time{}
}
