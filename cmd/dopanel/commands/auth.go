package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/dopanel/internal/auth"
	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/panel"
)

// StatusSummary is the auth status report.
type StatusSummary struct {
	Source        string   `json:"source"                   yaml:"source"`
	Token         string   `json:"token"                    yaml:"token"`
	Email         string   `json:"email,omitempty"          yaml:"email,omitempty"`
	AccountStatus string   `json:"account_status,omitempty" yaml:"account_status,omitempty"`
	DropletLimit  *int     `json:"droplet_limit,omitempty"  yaml:"droplet_limit,omitempty"`
	Droplets      int      `json:"droplets"                 yaml:"droplets"`
	Regions       int      `json:"regions"                  yaml:"regions"`
	Sizes         int      `json:"sizes"                    yaml:"sizes"`
	Images        int      `json:"images"                   yaml:"images"`
	SSHKeys       int      `json:"ssh_keys"                 yaml:"ssh_keys"`
	Metadata      string   `json:"metadata"                 yaml:"metadata"`
	Errors        []string `json:"errors,omitempty"         yaml:"errors,omitempty"`
}

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token",
		Long:  "Store, remove and check the DigitalOcean API token used by every command",
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Set the API token",
		Long: `Set the API token and load the account to check it.

The token is read from --token, DOPANEL_TOKEN or a hidden prompt. With
--remember (the default) it is written to the configured credential store;
--remember=false erases any stored token instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			token := explicitToken(cmd)
			if token == "" {
				var err error

				token, err = promptForSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "API token: ")
				if err != nil {
					return err
				}
			}

			if strings.TrimSpace(token) == "" {
				return constants.ErrTokenRequired
			}

			persister, release, err := openPersister()
			if err != nil {
				return err
			}
			defer release()

			store := auth.NewCredentialStore(persister)

			err = store.SetCredential(ctx, token, remember)
			if err != nil {
				return err
			}

			logger := newLogger(cmd)

			client, err := newClient(cmd, store, logger)
			if err != nil {
				return err
			}

			report := panel.NewSession(client, panel.WithLogger(logger)).Load(ctx)

			out := cmd.OutOrStdout()
			if report.AccountErr != nil {
				printWarning(cmd.ErrOrStderr(), "token set but the account could not be loaded: %s", doapi.Message(report.AccountErr))
			} else {
				_, _ = fmt.Fprintf(out, "Logged in as %s\n", doapi.Display(report.Account.Email))
			}

			if remember {
				_, _ = fmt.Fprintln(out, "Token saved")
			} else {
				_, _ = fmt.Fprintln(out, "Token not saved; stored token removed")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&remember, "remember", true, "save the token in the credential store")

	return cmd
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			persister, release, err := openPersister()
			if err != nil {
				return err
			}
			defer release()

			err = auth.NewCredentialStore(persister).SetCredential(cmd.Context(), "", false)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the token and what it can load",
		Long:  "Load the account, droplets, metadata and SSH keys concurrently and summarize them",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := resolveCredential(cmd)
			if errors.Is(err, doapi.ErrMissingCredential) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")

				return nil
			}

			if err != nil {
				return err
			}
			defer release()

			logger := newLogger(cmd)

			client, err := newClient(cmd, store, logger)
			if err != nil {
				return err
			}

			token, _ := store.Credential()
			report := panel.NewSession(client, panel.WithLogger(logger)).Load(cmd.Context())
			summary := summarize(credentialSource(cmd), maskToken(token), report)

			return renderStatus(cmd.OutOrStdout(), summary)
		},
	}
}

func credentialSource(cmd *cobra.Command) string {
	if explicitToken(cmd) != "" {
		return "flag or " + tokenEnvVar
	}

	return orDefault(viper.GetString("credential_store"), credentialStoreFile)
}

func summarize(source, token string, report *panel.LoadReport) *StatusSummary {
	summary := &StatusSummary{
		Source:   source,
		Token:    token,
		Droplets: report.DropletCount,
		SSHKeys:  len(report.SSHKeys),
		Metadata: "live",
	}

	if report.Account != nil {
		summary.Email = report.Account.Email
		summary.AccountStatus = report.Account.Status
		summary.DropletLimit = report.Account.DropletLimit
	}

	if report.Metadata != nil {
		summary.Regions = len(report.Metadata.Regions)
		summary.Sizes = len(report.Metadata.Sizes)
		summary.Images = len(report.Metadata.Images)

		if report.Metadata.Fallback {
			summary.Metadata = "built-in defaults"
		}
	}

	for _, err := range report.Errors() {
		summary.Errors = append(summary.Errors, doapi.Message(err))
	}

	return summary
}

func renderStatus(w io.Writer, summary *StatusSummary) error {
	structured, err := renderStructured(w, summary)
	if structured {
		return err
	}

	limit := constants.Placeholder
	if summary.DropletLimit != nil {
		limit = strconv.Itoa(*summary.DropletLimit)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	_ = table.Append("Credential", summary.Source)
	_ = table.Append("Token", summary.Token)
	_ = table.Append("Email", doapi.Display(summary.Email))
	_ = table.Append("Account status", doapi.Display(summary.AccountStatus))
	_ = table.Append("Droplet limit", limit)
	_ = table.Append("Droplets", strconv.Itoa(summary.Droplets))
	_ = table.Append("Regions", strconv.Itoa(summary.Regions))
	_ = table.Append("Sizes", strconv.Itoa(summary.Sizes))
	_ = table.Append("Images", strconv.Itoa(summary.Images))
	_ = table.Append("SSH keys", strconv.Itoa(summary.SSHKeys))
	_ = table.Append("Metadata", summary.Metadata)

	if len(summary.Errors) > 0 {
		_ = table.Append("Errors", strings.Join(summary.Errors, "\n"))
	}

	return renderTable(table)
}

// promptForSecret reads a value without echo on a terminal, or a plain line
// otherwise.
func promptForSecret(in io.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		raw, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(out)

		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}
