package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dopanel/internal/http"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// DropletActionsClient implements the doapi.DropletActionsClient interface.
type DropletActionsClient struct {
	httpClient *http.Client
}

// NewDropletActionsClient creates a new DropletActionsClient.
func NewDropletActionsClient(httpClient *http.Client) *DropletActionsClient {
	return &DropletActionsClient{
		httpClient: httpClient,
	}
}

// Do posts an action for a droplet.
func (c *DropletActionsClient) Do(ctx context.Context, dropletID string, request *doapi.ActionRequest) (*doapi.Action, error) {
	path := dropletPath(dropletID) + "/actions"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("dispatching %s action: %w", request.Type, err)
	}

	var result struct {
		Action doapi.Action `json:"action"`
	}

	http.DecodeJSON(resp.Body, &result)

	return &result.Action, nil
}
