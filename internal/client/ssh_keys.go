package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/internal/http"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// SSHKeysClient implements the doapi.SSHKeysClient interface.
type SSHKeysClient struct {
	httpClient *http.Client
}

// NewSSHKeysClient creates a new SSHKeysClient.
func NewSSHKeysClient(httpClient *http.Client) *SSHKeysClient {
	return &SSHKeysClient{
		httpClient: httpClient,
	}
}

// List lists the SSH keys registered on the account.
func (c *SSHKeysClient) List(ctx context.Context) ([]doapi.SSHKey, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathSSHKeys, nil)
	if err != nil {
		return nil, fmt.Errorf("listing ssh keys: %w", err)
	}

	var result struct {
		SSHKeys []doapi.SSHKey `json:"ssh_keys"`
	}

	http.DecodeJSON(resp.Body, &result)

	return result.SSHKeys, nil
}
