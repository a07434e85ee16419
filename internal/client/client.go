package client

import (
	"strings"

	"github.com/fivetwenty-io/dopanel/internal/auth"
	"github.com/fivetwenty-io/dopanel/internal/http"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// Client implements the doapi.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       doapi.Logger

	// Resource clients
	account        doapi.AccountClient
	regions        doapi.RegionsClient
	sizes          doapi.SizesClient
	images         doapi.ImagesClient
	sshKeys        doapi.SSHKeysClient
	droplets       doapi.DropletsClient
	dropletActions doapi.DropletActionsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *doapi.Config) []http.Option {
	var httpOpts []http.Option

	chain := doapi.NewInterceptorChain()

	if config.RateLimit > 0 {
		chain.AddRequestInterceptor(doapi.RateLimitInterceptor(config.RateLimit))
	}

	if headers := extraHeaders(config.Headers); len(headers) > 0 {
		chain.AddRequestInterceptor(doapi.HeaderInterceptor(headers))
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	httpOpts = append(httpOpts, http.WithInterceptors(chain))

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	return httpOpts
}

// extraHeaders drops blank names and Authorization, which always carries the
// credential store's token.
func extraHeaders(headers map[string]string) map[string]string {
	extra := make(map[string]string, len(headers))

	for name, value := range headers {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, "Authorization") {
			continue
		}

		extra[name] = value
	}

	return extra
}

// New creates a DigitalOcean API client. Every request takes its bearer token
// from tokenManager.
func New(config *doapi.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, doapi.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, doapi.ErrAPIEndpointRequired
	}

	httpClient := http.NewClient(config.APIEndpoint, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// BaseURL returns the provider base URL every path is prefixed with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Account implements doapi.Client.Account.
func (c *Client) Account() doapi.AccountClient {
	return c.account
}

// Regions implements doapi.Client.Regions.
func (c *Client) Regions() doapi.RegionsClient {
	return c.regions
}

// Sizes implements doapi.Client.Sizes.
func (c *Client) Sizes() doapi.SizesClient {
	return c.sizes
}

// Images implements doapi.Client.Images.
func (c *Client) Images() doapi.ImagesClient {
	return c.images
}

// SSHKeys implements doapi.Client.SSHKeys.
func (c *Client) SSHKeys() doapi.SSHKeysClient {
	return c.sshKeys
}

// Droplets implements doapi.Client.Droplets.
func (c *Client) Droplets() doapi.DropletsClient {
	return c.droplets
}

// DropletActions implements doapi.Client.DropletActions.
func (c *Client) DropletActions() doapi.DropletActionsClient {
	return c.dropletActions
}

func (c *Client) initializeResourceClients() {
	c.account = NewAccountClient(c.httpClient)
	c.regions = NewRegionsClient(c.httpClient)
	c.sizes = NewSizesClient(c.httpClient)
	c.images = NewImagesClient(c.httpClient)
	c.sshKeys = NewSSHKeysClient(c.httpClient)
	c.droplets = NewDropletsClient(c.httpClient)
	c.dropletActions = NewDropletActionsClient(c.httpClient)
}
