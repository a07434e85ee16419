package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/internal/http"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// AccountClient implements the doapi.AccountClient interface.
type AccountClient struct {
	httpClient *http.Client
}

// NewAccountClient creates a new AccountClient.
func NewAccountClient(httpClient *http.Client) *AccountClient {
	return &AccountClient{
		httpClient: httpClient,
	}
}

// Get retrieves the authenticated account.
func (c *AccountClient) Get(ctx context.Context) (*doapi.Account, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathAccount, nil)
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	var result struct {
		Account doapi.Account `json:"account"`
	}

	http.DecodeJSON(resp.Body, &result)

	return &result.Account, nil
}
