package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// ResourceCache is the single source of truth for droplet state: the last
// successfully fetched page of droplets and an index by stringified id.
type ResourceCache struct {
	client doapi.DropletsClient

	mutex     sync.RWMutex
	droplets  []doapi.Droplet
	index     map[string]int
	issued    uint64
	committed uint64
}

// NewResourceCache creates an empty cache fed by client.
func NewResourceCache(client doapi.DropletsClient) *ResourceCache {
	return &ResourceCache{
		client: client,
		index:  make(map[string]int),
	}
}

// RefreshDroplets fetches the first page of droplets and replaces the cache
// wholesale. On failure the cache is untouched. A response that lands after
// a newer refresh was committed is dropped, and the current count is
// returned instead.
func (c *ResourceCache) RefreshDroplets(ctx context.Context) (int, error) {
	c.mutex.Lock()
	c.issued++
	ticket := c.issued
	c.mutex.Unlock()

	droplets, err := c.client.List(ctx, constants.DropletPageSize)
	if err != nil {
		return 0, fmt.Errorf("refreshing droplets: %w", err)
	}

	if droplets == nil {
		droplets = []doapi.Droplet{}
	}

	index := make(map[string]int, len(droplets))
	for i, droplet := range droplets {
		index[droplet.IDString()] = i
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if ticket <= c.committed {
		return len(c.droplets), nil
	}

	c.droplets = droplets
	c.index = index
	c.committed = ticket

	return len(droplets), nil
}

// LookupDroplet returns the cached droplet whose id, as a string, equals id.
// A miss is reported through the bool, never as an error.
func (c *ResourceCache) LookupDroplet(id string) (doapi.Droplet, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return doapi.Droplet{}, false
	}

	return c.droplets[i], true
}

// List returns a copy of the cached droplets in provider order.
func (c *ResourceCache) List() []doapi.Droplet {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return append([]doapi.Droplet(nil), c.droplets...)
}

// Len returns the number of cached droplets.
func (c *ResourceCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.droplets)
}
