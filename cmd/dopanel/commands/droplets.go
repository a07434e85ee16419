package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/panel"
)

// NewDropletsCommand creates the droplets command group.
func NewDropletsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "droplets",
		Aliases: []string{"droplet"},
		Short:   "Manage droplets",
		Long:    "List, inspect, create and destroy droplets and dispatch droplet actions",
	}

	cmd.AddCommand(newDropletsListCommand())
	cmd.AddCommand(newDropletsGetCommand())
	cmd.AddCommand(newDropletsCreateCommand())
	cmd.AddCommand(newDropletsActionCommand())
	cmd.AddCommand(newDropletsDestroyCommand())

	return cmd
}

func newDropletsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List droplets",
		Long:    "List the first page of droplets",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, release, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer release()

			_, err = session.RefreshDroplets(cmd.Context())
			if err != nil {
				return err
			}

			return renderDroplets(cmd.OutOrStdout(), session.Droplets().List())
		},
	}
}

func newDropletsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show droplet details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, release, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer release()

			droplet, err := session.Client().Droplets().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get droplet %s: %w", args[0], err)
			}

			return renderDroplet(cmd.OutOrStdout(), droplet)
		},
	}
}

func newDropletsCreateCommand() *cobra.Command {
	var (
		opts panel.CreateOptions
		auth string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a droplet",
		Long: `Create a droplet.

--os picks the OS family and --image the version within it (see images
--distribution). With --auth password the root password is applied through
cloud-init; it is prompted for when --password is not given.`,
		Example: `  dopanel droplets create --region nyc3 --size s-1vcpu-1gb --os Ubuntu --image ubuntu-24-04-x64 --ssh-key 1234
  dopanel droplets create --region ams3 --size s-1vcpu-2gb --os Debian --image debian-12-x64 --auth password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts.Auth = panel.AuthMethod(auth)
			if opts.Auth != panel.AuthSSH && opts.Auth != panel.AuthPassword {
				return fmt.Errorf("%w: %s", constants.ErrInvalidAuthMethod, auth)
			}

			if opts.Auth == panel.AuthPassword && opts.Password == "" {
				password, err := promptForSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Root password: ")
				if err != nil {
					return err
				}

				opts.Password = password
			}

			session, release, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer release()

			err = checkImageVersion(ctx, session, opts)
			if err != nil {
				return err
			}

			result, err := session.CreateDroplet(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to create droplet: %w", err)
			}

			if result.RefreshErr != nil {
				printWarning(cmd.ErrOrStderr(), "droplet list refresh failed: %s", doapi.Message(result.RefreshErr))
			}

			return renderDroplet(cmd.OutOrStdout(), result.Droplet)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "droplet name (default dopanel-<timestamp>)")
	cmd.Flags().StringVar(&opts.Region, "region", "", "region slug")
	cmd.Flags().StringVar(&opts.Size, "size", "", "size slug")
	cmd.Flags().StringVar(&opts.Family, "os", "", "OS family, e.g. Ubuntu")
	cmd.Flags().StringVar(&opts.Image, "image", "", "image version: slug or id")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "comma-separated tags (default dopanel)")
	cmd.Flags().StringVar(&auth, "auth", string(panel.AuthSSH), "authentication method: ssh or password")
	cmd.Flags().StringSliceVar(&opts.SSHKeyIDs, "ssh-key", nil, "SSH key id or fingerprint (repeatable)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "root password for --auth password")

	return cmd
}

// checkImageVersion rejects an image that is not a version of the chosen
// family. It is skipped when only the built-in defaults are available.
func checkImageVersion(ctx context.Context, session *panel.Session, opts panel.CreateOptions) error {
	if opts.Family == "" || opts.Image == "" {
		return nil
	}

	metadata, err := session.CachedMetadata(ctx)
	if err != nil || metadata.Fallback {
		return nil //nolint:nilerr // the provider validates the image instead
	}

	picker := session.ImagePicker()
	picker.SelectFamily(opts.Family)

	return picker.SelectVersion(opts.Image)
}

func newDropletsActionCommand() *cobra.Command {
	var (
		params panel.ActionParams
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "action ID KIND",
		Short: "Dispatch a droplet action",
		Long: "Dispatch a droplet action. KIND is one of: " + strings.Join(panel.ActionKeywords, ", ") + `.

snapshot takes an optional --name, rename a required --name and resize a
required --size. destroy asks for confirmation unless --force is given.`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return panel.ActionKeywords, cobra.ShellCompDirectiveNoFileComp
			}

			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, args[0], args[1], params, force)
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "snapshot name or new droplet name")
	cmd.Flags().StringVar(&params.Size, "size", "", "target size slug for resize")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "destroy without confirmation")

	return cmd
}

func newDropletsDestroyCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy ID",
		Short: "Destroy a droplet",
		Long:  "Permanently destroy a droplet. Asks for confirmation unless --force is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, args[0], panel.ActionDestroy, panel.ActionParams{}, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "destroy without confirmation")

	return cmd
}

func dispatch(cmd *cobra.Command, dropletID, keyword string, params panel.ActionParams, force bool) error {
	session, release, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer release()

	dispatcher := session.NewDispatcher(confirmer(cmd, force), statusPrinter(cmd.ErrOrStderr()))

	result, err := dispatcher.Dispatch(cmd.Context(), dropletID, keyword, params)
	if errors.Is(err, doapi.ErrNotConfirmed) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Destroy cancelled")

		return nil
	}

	if err != nil {
		return err
	}

	if result.RefreshErr != nil {
		printWarning(cmd.ErrOrStderr(), "droplet list refresh failed: %s", doapi.Message(result.RefreshErr))
	}

	if result.Action == nil {
		return nil
	}

	structured, err := renderStructured(cmd.OutOrStdout(), result.Action)
	if structured {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Action ID", "Type", "Status", "Started")
	_ = table.Append(
		strconv.Itoa(result.Action.ID),
		doapi.Display(result.Action.Type),
		doapi.Display(result.Action.Status),
		doapi.Display(result.Action.StartedAt),
	)

	return renderTable(table)
}

// confirmer adapts ConfirmAction to panel.Confirmer. force approves without
// asking.
func confirmer(cmd *cobra.Command, force bool) panel.Confirmer {
	return func(ctx context.Context, prompt string) (bool, error) {
		if force {
			return true, nil
		}

		return ConfirmAction(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt)
	}
}

func renderDroplets(w io.Writer, droplets []doapi.Droplet) error {
	structured, err := renderStructured(w, droplets)
	if structured {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Status", "Region", "Size", "Public IPv4", "Private IPv4", "Image")

	for _, droplet := range droplets {
		_ = table.Append(
			droplet.IDString(),
			doapi.Display(droplet.Name),
			doapi.Display(droplet.Status),
			droplet.RegionSlug(),
			doapi.Display(droplet.SizeSlug),
			droplet.PublicIPv4(),
			droplet.PrivateIPv4(),
			droplet.ImageRef(),
		)
	}

	return renderTable(table)
}

func renderDroplet(w io.Writer, droplet *doapi.Droplet) error {
	structured, err := renderStructured(w, droplet)
	if structured {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	_ = table.Append("ID", droplet.IDString())
	_ = table.Append("Name", doapi.Display(droplet.Name))
	_ = table.Append("Status", doapi.Display(droplet.Status))
	_ = table.Append("Region", droplet.RegionSlug())
	_ = table.Append("Size", doapi.Display(droplet.SizeSlug))
	_ = table.Append("Memory (MB)", strconv.Itoa(droplet.Memory))
	_ = table.Append("vCPUs", strconv.Itoa(droplet.VCPUs))
	_ = table.Append("Disk (GB)", strconv.Itoa(droplet.Disk))
	_ = table.Append("Public IPv4", droplet.PublicIPv4())
	_ = table.Append("Private IPv4", droplet.PrivateIPv4())
	_ = table.Append("Image", droplet.ImageRef())
	_ = table.Append("Tags", doapi.Display(strings.Join(droplet.Tags, ", ")))
	_ = table.Append("Locked", strconv.FormatBool(droplet.Locked))
	_ = table.Append("Created", doapi.Display(droplet.CreatedAt))

	return renderTable(table)
}
