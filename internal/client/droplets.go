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

// DropletsClient implements the doapi.DropletsClient interface.
type DropletsClient struct {
	httpClient *http.Client
}

// NewDropletsClient creates a new DropletsClient.
func NewDropletsClient(httpClient *http.Client) *DropletsClient {
	return &DropletsClient{
		httpClient: httpClient,
	}
}

// Create creates a new droplet.
func (c *DropletsClient) Create(ctx context.Context, request *doapi.DropletCreateRequest) (*doapi.Droplet, error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathDroplets, request)
	if err != nil {
		return nil, fmt.Errorf("creating droplet: %w", err)
	}

	var result struct {
		Droplet doapi.Droplet `json:"droplet"`
	}

	http.DecodeJSON(resp.Body, &result)

	return &result.Droplet, nil
}

// Get retrieves a specific droplet.
func (c *DropletsClient) Get(ctx context.Context, id string) (*doapi.Droplet, error) {
	resp, err := c.httpClient.Get(ctx, dropletPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting droplet: %w", err)
	}

	var result struct {
		Droplet doapi.Droplet `json:"droplet"`
	}

	http.DecodeJSON(resp.Body, &result)

	return &result.Droplet, nil
}

// List returns the first page of droplets. Later pages are never fetched.
func (c *DropletsClient) List(ctx context.Context, perPage int) ([]doapi.Droplet, error) {
	if perPage <= 0 {
		perPage = constants.DropletPageSize
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.httpClient.Get(ctx, constants.APIPathDroplets, query)
	if err != nil {
		return nil, fmt.Errorf("listing droplets: %w", err)
	}

	var result struct {
		Droplets []doapi.Droplet `json:"droplets"`
	}

	http.DecodeJSON(resp.Body, &result)

	return result.Droplets, nil
}

// Delete destroys a droplet. The provider answers 204 with no body.
func (c *DropletsClient) Delete(ctx context.Context, id string) error {
	_, err := c.httpClient.Delete(ctx, dropletPath(id))
	if err != nil {
		return fmt.Errorf("deleting droplet: %w", err)
	}

	return nil
}

func dropletPath(id string) string {
	return constants.APIPathDroplets + "/" + url.PathEscape(id)
}
