package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/internal/http"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// RegionsClient implements the doapi.RegionsClient interface.
type RegionsClient struct {
	httpClient *http.Client
}

// NewRegionsClient creates a new RegionsClient.
func NewRegionsClient(httpClient *http.Client) *RegionsClient {
	return &RegionsClient{
		httpClient: httpClient,
	}
}

// List lists all regions.
func (c *RegionsClient) List(ctx context.Context) ([]doapi.Region, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathRegions, nil)
	if err != nil {
		return nil, fmt.Errorf("listing regions: %w", err)
	}

	var result struct {
		Regions []doapi.Region `json:"regions"`
	}

	http.DecodeJSON(resp.Body, &result)

	return result.Regions, nil
}
