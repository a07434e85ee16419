package constants

import "errors"

// Configuration errors.
var (
	ErrUnknownConfigKey       = errors.New("unknown configuration key")
	ErrUnknownCredentialStore = errors.New("unknown credential store")
	ErrNATSURLRequired        = errors.New("nats_url is required for the nats credential store")
	ErrInvalidRateLimit       = errors.New("invalid rate limit, expected a non-negative number")
)

// Command errors.
var (
	ErrTokenRequired       = errors.New("token is required")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrDestroyCancelled    = errors.New("destroy cancelled")
	ErrInvalidAuthMethod   = errors.New("invalid auth method, expected ssh or password")
	ErrInvalidHeader       = errors.New("invalid header, expected 'Name: value'")
)
