package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/internal/http"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// SizesClient implements the doapi.SizesClient interface.
type SizesClient struct {
	httpClient *http.Client
}

// NewSizesClient creates a new SizesClient.
func NewSizesClient(httpClient *http.Client) *SizesClient {
	return &SizesClient{
		httpClient: httpClient,
	}
}

// List lists all droplet sizes.
func (c *SizesClient) List(ctx context.Context) ([]doapi.Size, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathSizes, nil)
	if err != nil {
		return nil, fmt.Errorf("listing sizes: %w", err)
	}

	var result struct {
		Sizes []doapi.Size `json:"sizes"`
	}

	http.DecodeJSON(resp.Body, &result)

	return result.Sizes, nil
}
