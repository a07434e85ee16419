package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Provider endpoint.
const (
	// DefaultAPIEndpoint is the DigitalOcean v2 REST API base URL.
	DefaultAPIEndpoint = "https://api.digitalocean.com/v2"

	// DefaultUserAgent is sent when the config does not override it.
	DefaultUserAgent = "dopanel"
)

// HTTP and network timeouts.
const (
	// NATSConnectTimeout bounds the credential store connection to NATS.
	NATSConnectTimeout = 5 * time.Second
)

// API paths.
const (
	APIPathAccount  = "/account"
	APIPathSSHKeys  = "/account/keys"
	APIPathRegions  = "/regions"
	APIPathSizes    = "/sizes"
	APIPathImages   = "/images"
	APIPathDroplets = "/droplets"
)

// Pagination limits.
const (
	// DropletPageSize is the size of the single droplet page the cache holds.
	DropletPageSize = 50

	// ImagePageSize is the page size used for distribution images.
	ImagePageSize = 100

	// ImageTypeDistribution filters images down to OS distributions.
	ImageTypeDistribution = "distribution"
)

// Droplet creation defaults.
const (
	// DefaultDropletNamePrefix prefixes generated droplet names.
	DefaultDropletNamePrefix = "dopanel"

	// DefaultDropletTag is applied when no tags are given.
	DefaultDropletTag = "dopanel"

	// MinRootPasswordLength is the shortest root password accepted.
	MinRootPasswordLength = 8
)

// Credential storage.
const (
	// CredentialKey is the single key under which the token is persisted.
	CredentialKey = "do_token"

	// DefaultNATSBucket is the JetStream KV bucket used for credentials.
	DefaultNATSBucket = "dopanel"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the indent used for pretty JSON and YAML.
	JSONIndentSize = 2
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Display placeholders.
const (
	// Placeholder stands in for missing provider fields.
	Placeholder = "-"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// StringTruncationLimit is the number of token characters left visible.
	StringTruncationLimit = 4
)

// Validation and limits.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2
)
