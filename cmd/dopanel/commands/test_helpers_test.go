package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// cliHarness runs commands against an isolated config file and, optionally,
// a fake API.
type cliHarness struct {
	t          *testing.T
	configFile string
	requests   atomic.Int32
	stdin      string
}

// newHarness resets viper and points the CLI at a fresh config file. Tests
// using it must not run in parallel: viper and color are process-global.
func newHarness(t *testing.T) *cliHarness {
	t.Helper()

	dir := t.TempDir()

	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", dir)
	t.Setenv(tokenEnvVar, "")

	configFile := filepath.Join(dir, "config.yml")
	viper.SetConfigFile(configFile)
	viper.Set("output", "table")

	color.NoColor = true

	return &cliHarness{t: t, configFile: configFile}
}

// serve starts a fake API under /v2 and points the CLI at it.
func (h *cliHarness) serve(handler http.HandlerFunc) {
	h.t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		handler(w, r)
	}))
	h.t.Cleanup(server.Close)

	viper.Set("api", server.URL+"/v2")
}

// run executes args under a root command carrying the global --token flag.
func (h *cliHarness) run(args ...string) (string, string, error) {
	h.t.Helper()

	root := &cobra.Command{Use: "dopanel", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("token", "t", "", "API token")
	root.AddCommand(
		NewAuthCommand(),
		NewConfigCommand(),
		NewAccountCommand(),
		NewDropletsCommand(),
		NewRegionsCommand(),
		NewSizesCommand(),
		NewImagesCommand(),
		NewSSHKeysCommand(),
		NewRequestCommand(),
		NewVersionCommand("1.2.3", "abc123", "2024-01-01"),
	)

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(h.stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(body))
}
