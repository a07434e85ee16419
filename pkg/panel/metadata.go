package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

const metadataKey = "metadata"

// Metadata is the read-only picker data: regions, sizes and distribution
// images. Fallback marks the static list served when the live fetch failed.
type Metadata struct {
	Regions  []doapi.Region `json:"regions"  yaml:"regions"`
	Sizes    []doapi.Size   `json:"sizes"    yaml:"sizes"`
	Images   []doapi.Image  `json:"images"   yaml:"images"`
	Fallback bool           `json:"fallback" yaml:"fallback"`
}

// StaticMetadata returns the hardcoded picker data used when the live fetch
// fails. It carries OS families but no image versions.
func StaticMetadata() *Metadata {
	return &Metadata{
		Regions: []doapi.Region{
			{Slug: "sgp1", Name: "Singapore"},
			{Slug: "nyc3", Name: "New York"},
			{Slug: "ams3", Name: "Amsterdam"},
		},
		Sizes: []doapi.Size{
			{Slug: "s-1vcpu-1gb", Memory: 1024, VCPUs: 1},
			{Slug: "s-1vcpu-2gb", Memory: 2048, VCPUs: 1},
			{Slug: "s-2vcpu-2gb", Memory: 2048, VCPUs: 2},
			{Slug: "s-2vcpu-4gb", Memory: 4096, VCPUs: 2},
		},
		Fallback: true,
	}
}

// staticFamilies are the OS families offered with the static fallback.
var staticFamilies = []string{"Ubuntu", "Debian"}

// Picker builds the OS/version picker for m.
func (m *Metadata) Picker() *ImagePicker {
	if m.Fallback {
		return newFamilyPicker(staticFamilies)
	}

	return NewImagePicker(m.Images)
}

// MetadataCache holds the last committed Metadata.
type MetadataCache struct {
	cache *ttlcache.Cache[string, *Metadata]
}

// NewMetadataCache creates a cache whose entries expire after ttl, or never
// when ttl is zero.
func NewMetadataCache(ttl time.Duration) *MetadataCache {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}

	return &MetadataCache{
		cache: ttlcache.New[string, *Metadata](
			ttlcache.WithTTL[string, *Metadata](ttl),
			ttlcache.WithDisableTouchOnHit[string, *Metadata](),
		),
	}
}

// Get returns the committed metadata, if any.
func (c *MetadataCache) Get() (*Metadata, bool) {
	item := c.cache.Get(metadataKey)
	if item == nil || item.IsExpired() {
		return nil, false
	}

	return item.Value(), true
}

// Set commits metadata. Fallback metadata is refused.
func (c *MetadataCache) Set(metadata *Metadata) {
	if metadata == nil || metadata.Fallback {
		return
	}

	c.cache.Set(metadataKey, metadata, ttlcache.DefaultTTL)
}

// Invalidate drops the committed metadata.
func (c *MetadataCache) Invalidate() {
	c.cache.Delete(metadataKey)
}

// RefreshMetadata fetches regions, sizes and distribution images
// concurrently. All three must succeed before anything is committed; on
// failure the previously committed metadata and picker are left as they were.
func (s *Session) RefreshMetadata(ctx context.Context) (*Metadata, error) {
	var (
		regions []doapi.Region
		sizes   []doapi.Size
		images  []doapi.Image
	)

	err := doapi.Join(ctx,
		doapi.Collect(&regions, s.client.Regions().List),
		doapi.Collect(&sizes, s.client.Sizes().List),
		doapi.Collect(&images, func(ctx context.Context) ([]doapi.Image, error) {
			return s.client.Images().ListDistributions(ctx, constants.ImagePageSize)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("refreshing metadata: %w", err)
	}

	metadata := &Metadata{Regions: regions, Sizes: sizes, Images: images}

	s.metadata.Set(metadata)
	s.setPicker(metadata.Picker())

	return metadata, nil
}

// LoadMetadata is RefreshMetadata with the usability fallback: on any
// failure it returns the static metadata, flagged Fallback, together with
// the error. The fallback is never committed.
func (s *Session) LoadMetadata(ctx context.Context) (*Metadata, error) {
	metadata, err := s.RefreshMetadata(ctx)
	if err == nil {
		return metadata, nil
	}

	s.logger.Warn("metadata unavailable, using static fallback", map[string]interface{}{
		"error": doapi.Message(err),
	})

	fallback := StaticMetadata()
	s.setPicker(fallback.Picker())

	return fallback, err
}

// CachedMetadata returns committed metadata without fetching, refreshing it
// when nothing is committed.
func (s *Session) CachedMetadata(ctx context.Context) (*Metadata, error) {
	if metadata, ok := s.metadata.Get(); ok {
		return metadata, nil
	}

	return s.LoadMetadata(ctx)
}
