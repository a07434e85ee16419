package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/internal/http"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// ImagesClient implements the doapi.ImagesClient interface.
type ImagesClient struct {
	httpClient *http.Client
}

// NewImagesClient creates a new ImagesClient.
func NewImagesClient(httpClient *http.Client) *ImagesClient {
	return &ImagesClient{
		httpClient: httpClient,
	}
}

// ListDistributions lists distribution images. Only the first page is read.
func (c *ImagesClient) ListDistributions(ctx context.Context, perPage int) ([]doapi.Image, error) {
	if perPage <= 0 {
		perPage = constants.ImagePageSize
	}

	query := url.Values{}
	query.Set("type", constants.ImageTypeDistribution)
	query.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.httpClient.Get(ctx, constants.APIPathImages, query)
	if err != nil {
		return nil, fmt.Errorf("listing distribution images: %w", err)
	}

	var result struct {
		Images []doapi.Image `json:"images"`
	}

	http.DecodeJSON(resp.Body, &result)

	return result.Images, nil
}
