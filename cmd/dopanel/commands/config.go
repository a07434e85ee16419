package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/dopanel/internal/constants"
)

// Credential store kinds.
const (
	credentialStoreFile = "file"
	credentialStoreNATS = "nats"
)

// Config represents the CLI configuration.
type Config struct {
	API             string  `json:"api,omitempty"         yaml:"api,omitempty"`
	Token           string  `json:"token,omitempty"       yaml:"token,omitempty"`
	Output          string  `json:"output"                yaml:"output"`
	NoColor         bool    `json:"no_color"              yaml:"no_color"`
	RateLimit       float64 `json:"rate_limit"            yaml:"rate_limit"`
	CredentialStore string  `json:"credential_store"      yaml:"credential_store"`
	NATSURL         string  `json:"nats_url,omitempty"    yaml:"nats_url,omitempty"`
	NATSBucket      string  `json:"nats_bucket,omitempty" yaml:"nats_bucket,omitempty"`
}

// configKeys lists the keys accepted by config set and unset.
var configKeys = map[string]func(string) (interface{}, error){
	"api":              parseString,
	"token":            parseString,
	"output":           parseOutputFormat,
	"no_color":         parseBool,
	"rate_limit":       parseRateLimit,
	"credential_store": parseCredentialStore,
	"nats_url":         parseString,
	"nats_bucket":      parseString,
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage dopanel configuration stored in ~/.dopanel/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the token masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = maskToken(config.Token)

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), config)
			case constants.FormatYAML:
				return renderYAML(cmd.OutOrStdout(), config)
			default:
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.Header("Property", "Value")
				_ = table.Append("Config file", configFileForDisplay())
				_ = table.Append("API", orDefault(config.API, constants.DefaultAPIEndpoint))
				_ = table.Append("Token", orDefault(config.Token, "not set"))
				_ = table.Append("Output", config.Output)
				_ = table.Append("No color", strconv.FormatBool(config.NoColor))
				_ = table.Append("Rate limit", strconv.FormatFloat(config.RateLimit, 'f', -1, 64))
				_ = table.Append("Credential store", config.CredentialStore)

				if config.CredentialStore == credentialStoreNATS {
					_ = table.Append("NATS URL", config.NATSURL)
					_ = table.Append("NATS bucket", orDefault(config.NATSBucket, constants.DefaultNATSBucket))
				}

				return renderTable(table)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeyNames(), ", "),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]

			parse, ok := configKeys[key]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			value, err := parse(raw)
			if err != nil {
				return err
			}

			err = updateConfigFile(func(values map[string]interface{}) {
				values[key] = value
			})
			if err != nil {
				return err
			}

			displayed := raw
			if key == tokenKey {
				displayed = maskToken(raw)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", key, displayed)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value so its default applies again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if _, ok := configKeys[key]; !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			err := updateConfigFile(func(values map[string]interface{}) {
				delete(values, key)
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		API:             viper.GetString("api"),
		Token:           viper.GetString(tokenKey),
		Output:          viper.GetString("output"),
		NoColor:         viper.GetBool("no_color"),
		RateLimit:       viper.GetFloat64("rate_limit"),
		CredentialStore: orDefault(viper.GetString("credential_store"), credentialStoreFile),
		NATSURL:         viper.GetString("nats_url"),
		NATSBucket:      viper.GetString("nats_bucket"),
	}
}

// ConfigDir returns ~/.dopanel.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".dopanel"), nil
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.yml"), nil
}

func configFileForDisplay() string {
	path, err := configFilePath()
	if err != nil {
		return constants.Placeholder
	}

	return path
}

// readConfigFile returns the raw key/value map of the config file. A missing
// file reads as empty.
func readConfigFile(path string) (map[string]interface{}, error) {
	values := make(map[string]interface{})

	// path is the CLI's own config file
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if values == nil {
		values = make(map[string]interface{})
	}

	return values, nil
}

// writeConfigFile writes values to path, creating its directory.
func writeConfigFile(path string, values map[string]interface{}) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func updateConfigFile(update func(values map[string]interface{})) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	values, err := readConfigFile(path)
	if err != nil {
		return err
	}

	update(values)

	return writeConfigFile(path, values)
}

func configKeyNames() []string {
	names := make([]string, 0, len(configKeys))
	for name := range configKeys {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func parseString(value string) (interface{}, error) {
	return value, nil
}

func parseBool(value string) (interface{}, error) {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q: %w", value, err)
	}

	return parsed, nil
}

func parseRateLimit(value string) (interface{}, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidRateLimit, value)
	}

	return parsed, nil
}

func parseOutputFormat(value string) (interface{}, error) {
	switch value {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return value, nil
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
	}
}

func parseCredentialStore(value string) (interface{}, error) {
	switch value {
	case credentialStoreFile, credentialStoreNATS:
		return value, nil
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnknownCredentialStore, value)
	}
}

// maskToken keeps the first few characters of token visible.
func maskToken(token string) string {
	if token == "" {
		return ""
	}

	if len(token) <= constants.StringTruncationLimit {
		return constants.MaskedSecret
	}

	return token[:constants.StringTruncationLimit] + constants.MaskedSecret
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
