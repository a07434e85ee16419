package doapi

import (
	"context"
	"time"
)

// AccountClient reads the authenticated account.
type AccountClient interface {
	Get(ctx context.Context) (*Account, error)
}

// RegionsClient lists datacenter regions.
type RegionsClient interface {
	List(ctx context.Context) ([]Region, error)
}

// SizesClient lists droplet sizes.
type SizesClient interface {
	List(ctx context.Context) ([]Size, error)
}

// ImagesClient lists images.
type ImagesClient interface {
	// ListDistributions lists distribution images, paginated to perPage.
	ListDistributions(ctx context.Context, perPage int) ([]Image, error)
}

// SSHKeysClient lists SSH keys registered on the account.
type SSHKeysClient interface {
	List(ctx context.Context) ([]SSHKey, error)
}

// DropletsClient manages droplets.
type DropletsClient interface {
	// List returns the first page of droplets, paginated to perPage.
	List(ctx context.Context, perPage int) ([]Droplet, error)
	Get(ctx context.Context, id string) (*Droplet, error)
	Create(ctx context.Context, request *DropletCreateRequest) (*Droplet, error)
	Delete(ctx context.Context, id string) error
}

// DropletActionsClient dispatches droplet actions.
type DropletActionsClient interface {
	Do(ctx context.Context, dropletID string, request *ActionRequest) (*Action, error)
}

// RawClient exposes the API client as an untyped REST console.
type RawClient interface {
	// Request sends body (nil for none) to path and returns the parsed JSON
	// value, an object or an array. An unparseable body yields an empty object.
	Request(ctx context.Context, method, path string, body interface{}) (interface{}, error)
}

// Client provides access to all resource clients.
type Client interface {
	RawClient

	Account() AccountClient
	Regions() RegionsClient
	Sizes() SizesClient
	Images() ImagesClient
	SSHKeys() SSHKeysClient
	Droplets() DropletsClient
	DropletActions() DropletActionsClient
}

// Logger is the structured logger used by the HTTP layer and the panel.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// Authentication is not part of Config: the token comes from the token
// manager handed to doclient.New, so an empty credential fails every request
// with ErrMissingCredential instead of silently going anonymous.
type Config struct {
	// APIEndpoint: provider base URL. Defaults to https://api.digitalocean.com/v2.
	// doclient.New trims a trailing slash and adds "https://" when no scheme is present.
	APIEndpoint string
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// HTTPTimeout: transport timeout. Zero leaves requests bounded only by ctx.
	HTTPTimeout time.Duration
	// RateLimit: client-side requests per second. Zero disables limiting.
	RateLimit float64
	// Headers: extra headers sent with every request. They cannot replace
	// Authorization.
	Headers map[string]string
	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
}
