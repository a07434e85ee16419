package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dopanel/internal/constants"
)

// NewRequestCommand creates the raw REST console command.
func NewRequestCommand() *cobra.Command {
	var (
		data    string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "request [METHOD] [PATH]",
		Short: "Send a raw API request",
		Long: `Send a request to any v2 API path and print the JSON response.

METHOD defaults to GET and PATH to /account. --data must be valid JSON;
pass - to read it from stdin. On failure the provider's message is
printed as-is.`,
		Example: `  dopanel request GET /droplets?per_page=5
  dopanel request POST /droplets/123/actions --data '{"type":"reboot"}'
  dopanel request GET /account -H "X-Request-Source: ops"`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var method, path string

			if len(args) > 0 {
				method = args[0]
			}

			if len(args) > 1 {
				path = args[1]
			}

			extra, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			if data == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read request body: %w", err)
				}

				data = string(raw)
			}

			session, release, err := newSession(cmd, withHeaders(extra))
			if err != nil {
				return err
			}
			defer release()

			result, err := session.Composer().Send(cmd.Context(), method, path, data)
			if err != nil {
				return asProviderError(err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result)

			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body, or - for stdin")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header as 'Name: value' (repeatable)")

	return cmd
}

// parseHeaders turns "Name: value" entries into a header map.
func parseHeaders(entries []string) (map[string]string, error) {
	headers := make(map[string]string, len(entries))

	for _, entry := range entries {
		name, value, found := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)

		if !found || name == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidHeader, entry)
		}

		headers[name] = strings.TrimSpace(value)
	}

	return headers, nil
}
