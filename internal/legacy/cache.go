// Package legacy manages handles to the legacy SOAP backends. Wire-level
// client construction is out of scope; a handle carries what business
// handlers need to reach a backend version.
package legacy

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// Client is a handle to one legacy backend endpoint.
type Client struct {
	Version  string
	Endpoint string
}

// Factory builds a client handle for an endpoint. The default factory only
// records the endpoint; deployments that construct real wire clients swap in
// their own.
type Factory func(version, endpoint string) (*Client, error)

func defaultFactory(version, endpoint string) (*Client, error) {
	return &Client{Version: version, Endpoint: endpoint}, nil
}

// Cache holds client handles keyed by backend version. It is owned by
// whoever constructs it and passed into the components that need it; there
// is no package-level instance. Population is lazy and idempotent: the same
// version always yields an equivalent handle, so concurrent invocations may
// race to populate an entry and last-writer-wins is acceptable.
type Cache struct {
	endpoints map[string]string
	factory   Factory

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewCache(endpoints map[string]string, factory Factory) *Cache {
	if factory == nil {
		factory = defaultFactory
	}
	return &Cache{
		endpoints: endpoints,
		factory:   factory,
		clients:   make(map[string]*Client),
	}
}

// Get returns the handle for a backend version, building it on first use.
// Entries are never invalidated; endpoint URLs only change with a deploy.
func (c *Cache) Get(version string) (*Client, error) {
	c.mu.RLock()
	client, ok := c.clients[version]
	c.mu.RUnlock()
	if ok {
		return client, nil
	}

	endpoint, ok := c.endpoints[version]
	if !ok || endpoint == "" {
		return nil, fmt.Errorf("no endpoint for backend version %q: %w", version, core.ErrConfiguration)
	}

	client, err := c.factory(version, endpoint)
	if err != nil {
		return nil, fmt.Errorf("building client for backend version %q: %w", version, err)
	}
	log.Debug().Str("version", version).Str("endpoint", endpoint).Msg("legacy client built")

	c.mu.Lock()
	c.clients[version] = client
	c.mu.Unlock()
	return client, nil
}
