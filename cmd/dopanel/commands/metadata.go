package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/panel"
)

// loadMetadata fetches regions, sizes and images together. On failure the
// built-in defaults are returned and the session has already logged why.
func loadMetadata(cmd *cobra.Command) (*panel.Metadata, func(), error) {
	session, release, err := newSession(cmd)
	if err != nil {
		return nil, nil, err
	}

	metadata, _ := session.LoadMetadata(cmd.Context())

	return metadata, release, nil
}

// NewRegionsCommand creates the regions command.
func NewRegionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, release, err := loadMetadata(cmd)
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()

			structured, err := renderStructured(out, metadata.Regions)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(out)
			table.Header("Slug", "Name", "Available")

			for _, region := range metadata.Regions {
				_ = table.Append(region.Slug, doapi.Display(region.Name), strconv.FormatBool(region.Available))
			}

			return renderTable(table)
		},
	}
}

// NewSizesCommand creates the sizes command.
func NewSizesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "List droplet sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, release, err := loadMetadata(cmd)
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()

			structured, err := renderStructured(out, metadata.Sizes)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(out)
			table.Header("Slug", "Memory (MB)", "vCPUs", "Disk (GB)", "Monthly")

			for _, size := range metadata.Sizes {
				_ = table.Append(
					size.Slug,
					strconv.Itoa(size.Memory),
					strconv.Itoa(size.VCPUs),
					strconv.Itoa(size.Disk),
					fmt.Sprintf("$%.2f", size.PriceMonthly),
				)
			}

			return renderTable(table)
		},
	}
}

// NewImagesCommand creates the images command.
func NewImagesCommand() *cobra.Command {
	var distribution string

	cmd := &cobra.Command{
		Use:   "images",
		Short: "List OS families and image versions",
		Long: `List distribution images grouped by OS family.

With --distribution, list the versions of one family; the VALUE column is
what droplets create --image expects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, release, err := loadMetadata(cmd)
			if err != nil {
				return err
			}
			defer release()

			picker := metadata.Picker()
			out := cmd.OutOrStdout()

			if distribution != "" {
				versions := picker.SelectFamily(distribution)

				structured, err := renderStructured(out, versions)
				if structured {
					return err
				}

				table := tablewriter.NewWriter(out)
				table.Header("Value", "Label")

				for _, version := range versions {
					_ = table.Append(version.Value, version.Label)
				}

				return renderTable(table)
			}

			families, groups := panel.GroupByDistribution(metadata.Images)
			if len(families) == 0 {
				families = picker.Families()
			}

			structured, err := renderStructured(out, families)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(out)
			table.Header("Family", "Versions")

			for _, family := range families {
				labels := make([]string, 0, len(groups[family]))
				for _, image := range groups[family] {
					labels = append(labels, panel.VersionOf(image).Label)
				}

				_ = table.Append(family, doapi.Display(strings.Join(labels, "\n")))
			}

			return renderTable(table)
		},
	}

	cmd.Flags().StringVar(&distribution, "distribution", "", "list the versions of one OS family")

	return cmd
}

// NewSSHKeysCommand creates the ssh-keys command.
func NewSSHKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ssh-keys",
		Short: "List SSH keys on the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, release, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer release()

			keys, err := session.LoadSSHKeys(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			structured, err := renderStructured(out, keys)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(out)
			table.Header("ID", "Name", "Fingerprint")

			for _, key := range keys {
				_ = table.Append(strconv.Itoa(key.ID), doapi.Display(key.Name), doapi.Display(key.Fingerprint))
			}

			return renderTable(table)
		},
	}
}
