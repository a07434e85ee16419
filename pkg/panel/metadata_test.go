package panel_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/panel"
)

var liveImages = []doapi.Image{
	{ID: 11, Name: "24.04 (LTS) x64", Distribution: "Ubuntu", Slug: "ubuntu-24-04-x64"},
	{ID: 12, Name: "12 x64", Distribution: "Debian", Slug: "debian-12-x64"},
	{ID: 13, Distribution: "Debian"},
	{ID: 14, Name: "custom"},
}

func metadataClient(imagesErr error) *MockClient {
	client := NewMockClient()
	client.regions.On("List", mock.Anything).Return([]doapi.Region{{Slug: "fra1", Name: "Frankfurt 1"}}, nil)
	client.sizes.On("List", mock.Anything).Return([]doapi.Size{{Slug: "s-1vcpu-512mb-10gb"}}, nil)

	if imagesErr != nil {
		client.images.On("ListDistributions", mock.Anything, 100).Return(nil, imagesErr)
	} else {
		client.images.On("ListDistributions", mock.Anything, 100).Return(liveImages, nil)
	}

	return client
}

func TestSession_RefreshMetadata(t *testing.T) {
	t.Parallel()

	client := metadataClient(nil)
	session := panel.NewSession(client)

	metadata, err := session.RefreshMetadata(context.Background())
	require.NoError(t, err)
	assert.False(t, metadata.Fallback)
	assert.Equal(t, "fra1", metadata.Regions[0].Slug)
	assert.Len(t, metadata.Images, 4)

	committed, ok := session.Metadata().Get()
	require.True(t, ok)
	assert.Same(t, metadata, committed)

	picker := session.ImagePicker()
	assert.Equal(t, []string{"Debian", "Ubuntu"}, picker.Families())
	assert.Equal(t, "Debian", picker.Family())
	assert.Equal(t, []panel.ImageVersion{
		{Value: "debian-12-x64", Label: "12 x64"},
		{Value: "13", Label: "13"},
	}, picker.Versions())
	assert.Empty(t, picker.Version())

	client.regions.AssertExpectations(t)
	client.sizes.AssertExpectations(t)
	client.images.AssertExpectations(t)
}

func TestSession_LoadMetadata_PartialFailureFallsBack(t *testing.T) {
	t.Parallel()

	client := metadataClient(apiError(http.StatusServiceUnavailable, `{"id":"service_unavailable"}`))
	session := panel.NewSession(client)

	metadata, err := session.LoadMetadata(context.Background())
	require.Error(t, err)
	assert.Equal(t, "service_unavailable", doapi.Message(err))

	assert.True(t, metadata.Fallback)
	assert.Equal(t, panel.StaticMetadata(), metadata)

	regions := make([]string, 0, len(metadata.Regions))
	for _, region := range metadata.Regions {
		regions = append(regions, region.Slug)
	}

	assert.Equal(t, []string{"sgp1", "nyc3", "ams3"}, regions)
	assert.Len(t, metadata.Sizes, 4)
	assert.Empty(t, metadata.Images)

	_, ok := session.Metadata().Get()
	assert.False(t, ok, "partial or fallback metadata must not be committed")

	picker := session.ImagePicker()
	assert.Equal(t, []string{"Ubuntu", "Debian"}, picker.Families())
	assert.Empty(t, picker.Family())
	assert.Empty(t, picker.Versions())

	// The branches that succeeded still ran to completion.
	client.regions.AssertExpectations(t)
	client.sizes.AssertExpectations(t)
}

func TestSession_RefreshMetadata_FailureKeepsPreviousCommit(t *testing.T) {
	t.Parallel()

	client := NewMockClient()
	client.regions.On("List", mock.Anything).Return([]doapi.Region{{Slug: "fra1"}}, nil)
	client.sizes.On("List", mock.Anything).Return([]doapi.Size{{Slug: "s-1vcpu-1gb"}}, nil).Once()
	client.sizes.On("List", mock.Anything).Return(nil, apiError(http.StatusTooManyRequests, "")).Once()
	client.images.On("ListDistributions", mock.Anything, 100).Return(liveImages, nil)

	session := panel.NewSession(client)

	first, err := session.RefreshMetadata(context.Background())
	require.NoError(t, err)

	_, err = session.RefreshMetadata(context.Background())
	require.Error(t, err)
	assert.Equal(t, "429 Too Many Requests", doapi.Message(err))

	committed, ok := session.Metadata().Get()
	require.True(t, ok)
	assert.Same(t, first, committed)
}

func TestSession_CachedMetadata(t *testing.T) {
	t.Parallel()

	client := metadataClient(nil)
	session := panel.NewSession(client)

	first, err := session.CachedMetadata(context.Background())
	require.NoError(t, err)

	second, err := session.CachedMetadata(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	client.regions.AssertNumberOfCalls(t, "List", 1)
}

func TestMetadataCache(t *testing.T) {
	t.Parallel()

	t.Run("refuses fallback", func(t *testing.T) {
		t.Parallel()

		cache := panel.NewMetadataCache(0)
		cache.Set(panel.StaticMetadata())

		_, ok := cache.Get()
		assert.False(t, ok)
	})

	t.Run("invalidate", func(t *testing.T) {
		t.Parallel()

		cache := panel.NewMetadataCache(0)
		cache.Set(&panel.Metadata{})

		_, ok := cache.Get()
		require.True(t, ok)

		cache.Invalidate()

		_, ok = cache.Get()
		assert.False(t, ok)
	})

	t.Run("expires", func(t *testing.T) {
		t.Parallel()

		cache := panel.NewMetadataCache(20 * time.Millisecond)
		cache.Set(&panel.Metadata{})

		assert.Eventually(t, func() bool {
			_, ok := cache.Get()

			return !ok
		}, time.Second, 10*time.Millisecond)
	})
}
