package commands

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// NewAccountCommand creates the account command.
func NewAccountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Display account information",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, release, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer release()

			account, err := session.Client().Account().Get(cmd.Context())
			if err != nil {
				return asProviderError(err)
			}

			out := cmd.OutOrStdout()

			structured, err := renderStructured(out, account)
			if structured {
				return err
			}

			limit := constants.Placeholder
			if account.DropletLimit != nil {
				limit = strconv.Itoa(*account.DropletLimit)
			}

			table := tablewriter.NewWriter(out)
			table.Header("Property", "Value")
			_ = table.Append("Email", doapi.Display(account.Email))
			_ = table.Append("UUID", doapi.Display(account.UUID))
			_ = table.Append("Status", doapi.Display(account.Status))
			_ = table.Append("Status message", doapi.Display(account.StatusMessage))
			_ = table.Append("Droplet limit", limit)
			_ = table.Append("Email verified", strconv.FormatBool(account.EmailVerified))

			return renderTable(table)
		},
	}
}
