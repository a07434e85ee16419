package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/dopanel/internal/auth"
	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/internal/logging"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/doclient"
	"github.com/fivetwenty-io/dopanel/pkg/panel"
)

// tokenEnvVar overrides the stored credential for one invocation.
const tokenEnvVar = "DOPANEL_TOKEN"

func noop() {}

// explicitToken returns the token given with --token or DOPANEL_TOKEN.
func explicitToken(cmd *cobra.Command) string {
	if flag := cmd.Flag("token"); flag != nil && flag.Changed {
		return flag.Value.String()
	}

	return os.Getenv(tokenEnvVar)
}

// openPersister opens the durable credential store selected by
// credential_store. The returned func releases it.
func openPersister() (auth.Persister, func(), error) {
	kind := orDefault(viper.GetString("credential_store"), credentialStoreFile)

	switch kind {
	case credentialStoreFile:
		path, err := configFilePath()
		if err != nil {
			return nil, nil, err
		}

		return NewConfigPersister(path), noop, nil
	case credentialStoreNATS:
		persister, err := auth.DialNATSKVPersister(viper.GetString("nats_url"), viper.GetString("nats_bucket"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open NATS credential store: %w", err)
		}

		return persister, persister.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", constants.ErrUnknownCredentialStore, kind)
	}
}

// openCredentialStore returns a store backed by the configured persister,
// with any remembered token already loaded.
func openCredentialStore(ctx context.Context) (*auth.CredentialStore, func(), error) {
	persister, release, err := openPersister()
	if err != nil {
		return nil, nil, err
	}

	store := auth.NewCredentialStore(persister)

	_, err = store.LoadPersisted(ctx)
	if err != nil {
		release()

		return nil, nil, err
	}

	return store, release, nil
}

// resolveCredential picks the token for this invocation: an explicit one
// first, then the remembered one.
func resolveCredential(cmd *cobra.Command) (*auth.CredentialStore, func(), error) {
	ctx := cmd.Context()

	if token := explicitToken(cmd); token != "" {
		store := auth.NewCredentialStore(nil)

		err := store.SetCredential(ctx, token, false)
		if err != nil {
			return nil, nil, err
		}

		return store, noop, nil
	}

	store, release, err := openCredentialStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	_, err = store.Credential()
	if err != nil {
		release()

		return nil, nil, fmt.Errorf("%w: run 'dopanel auth login' or pass --token", err)
	}

	return store, release, nil
}

func newLogger(cmd *cobra.Command) *logging.Logger {
	return logging.New(cmd.ErrOrStderr(), viper.GetBool("verbose"))
}

// clientOption adjusts the API config built from the CLI configuration.
type clientOption func(*doapi.Config)

func withHeaders(headers map[string]string) clientOption {
	return func(config *doapi.Config) {
		config.Headers = headers
	}
}

func newClient(cmd *cobra.Command, tokenManager auth.TokenManager, logger doapi.Logger, opts ...clientOption) (doapi.Client, error) {
	config := &doapi.Config{
		APIEndpoint: viper.GetString("api"),
		RateLimit:   viper.GetFloat64("rate_limit"),
		Debug:       viper.GetBool("verbose"),
		Logger:      logger,
	}

	for _, opt := range opts {
		opt(config)
	}

	return doclient.New(cmd.Context(), config, tokenManager)
}

// newSession builds a panel session from the resolved credential and the
// CLI configuration. The returned func releases the credential store.
func newSession(cmd *cobra.Command, opts ...clientOption) (*panel.Session, func(), error) {
	store, release, err := resolveCredential(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cmd)

	client, err := newClient(cmd, store, logger, opts...)
	if err != nil {
		release()

		return nil, nil, err
	}

	return panel.NewSession(client, panel.WithLogger(logger)), release, nil
}
