package doclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/dopanel/internal/auth"
	"github.com/fivetwenty-io/dopanel/internal/client"
	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// New creates a DigitalOcean API client that reads its bearer token from
// tokenManager on every request.
func New(ctx context.Context, config *doapi.Config, tokenManager auth.TokenManager) (doapi.Client, error) {
	if config == nil {
		return nil, doapi.ErrConfigRequired
	}

	normalized := *config
	normalized.APIEndpoint = NormalizeEndpoint(config.APIEndpoint)

	if normalized.UserAgent == "" {
		normalized.UserAgent = constants.DefaultUserAgent
	}

	apiClient, err := client.New(&normalized, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NormalizeEndpoint defaults an empty endpoint to the public API, trims
// trailing slashes and adds https:// when no scheme is given.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return constants.DefaultAPIEndpoint
	}

	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
