package panel

import (
	"context"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// LoadReport is the outcome of a session bootstrap. Each section carries its
// own error; one failing section does not affect the others.
type LoadReport struct {
	Account    *doapi.Account
	AccountErr error

	// Metadata is the static fallback when MetadataErr is set.
	Metadata    *Metadata
	MetadataErr error

	DropletCount int
	DropletsErr  error

	SSHKeys    []doapi.SSHKey
	SSHKeysErr error
}

// Errors returns the section errors that occurred.
func (r *LoadReport) Errors() []error {
	var errs []error

	for _, err := range []error{r.AccountErr, r.MetadataErr, r.DropletsErr, r.SSHKeysErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// Load fetches the account, metadata, droplets and SSH keys concurrently.
// It runs after a credential is saved, or at start-up when one was persisted.
func (s *Session) Load(ctx context.Context) *LoadReport {
	report := &LoadReport{}

	_ = doapi.Join(ctx,
		func(ctx context.Context) error {
			report.Account, report.AccountErr = s.client.Account().Get(ctx)

			return nil
		},
		func(ctx context.Context) error {
			report.Metadata, report.MetadataErr = s.LoadMetadata(ctx)

			return nil
		},
		func(ctx context.Context) error {
			report.DropletCount, report.DropletsErr = s.droplets.RefreshDroplets(ctx)

			return nil
		},
		func(ctx context.Context) error {
			report.SSHKeys, report.SSHKeysErr = s.LoadSSHKeys(ctx)

			return nil
		},
	)

	return report
}
