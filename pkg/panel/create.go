package panel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// AuthMethod selects how root access is granted on a new droplet.
type AuthMethod string

const (
	AuthSSH      AuthMethod = "ssh"
	AuthPassword AuthMethod = "password"
)

// CreateOptions is the droplet creation form.
type CreateOptions struct {
	Name   string
	Region string
	Size   string
	// Family is the OS family the image version was picked from.
	Family string
	// Image is the version value: an image slug or numeric id.
	Image string
	// Tags entries are comma-split and trimmed.
	Tags []string
	// Auth defaults to AuthSSH.
	Auth      AuthMethod
	SSHKeyIDs []string
	Password  string
}

// CreateResult describes a created droplet.
type CreateResult struct {
	Droplet    *doapi.Droplet
	RefreshErr error
}

// BuildCreateRequest validates opts in form order (region, OS family, image
// version, size, then auth) and builds the request body. now names unnamed
// droplets.
func BuildCreateRequest(opts CreateOptions, now time.Time) (*doapi.DropletCreateRequest, error) {
	switch {
	case opts.Region == "":
		return nil, doapi.NewValidationError("region", "select a region first")
	case opts.Family == "":
		return nil, doapi.NewValidationError("os", "select an OS first")
	case opts.Image == "":
		return nil, doapi.NewValidationError("image", "select an image version first")
	case opts.Size == "":
		return nil, doapi.NewValidationError("size", "select a size first")
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = fmt.Sprintf("%s-%d", constants.DefaultDropletNamePrefix, now.UnixMilli())
	}

	request := &doapi.DropletCreateRequest{
		Name:   name,
		Region: opts.Region,
		Size:   opts.Size,
		Image:  opts.Image,
		Tags:   splitTags(opts.Tags),
	}

	switch opts.Auth {
	case AuthSSH, "":
		keys := nonEmpty(opts.SSHKeyIDs)
		if len(keys) == 0 {
			return nil, doapi.NewValidationError("ssh_keys", "ssh auth selected but no SSH key chosen")
		}

		request.SSHKeys = keys
	case AuthPassword:
		if len(opts.Password) < constants.MinRootPasswordLength {
			return nil, doapi.NewValidationError("password",
				fmt.Sprintf("root password must be at least %d characters", constants.MinRootPasswordLength))
		}

		request.UserData = PasswordCloudConfig(opts.Password)
	default:
		return nil, doapi.NewValidationError("auth", fmt.Sprintf("%s: %s", constants.ErrInvalidAuthMethod, opts.Auth))
	}

	return request, nil
}

// PasswordCloudConfig returns cloud-init user data that sets the root
// password and enables SSH password login.
func PasswordCloudConfig(password string) string {
	return "#cloud-config\n" +
		"chpasswd:\n" +
		"  list: |\n" +
		"    root:" + password + "\n" +
		"  expire: False\n" +
		"ssh_pwauth: True\n"
}

// CreateDroplet validates opts, creates the droplet and refreshes the droplet
// list. A validation failure makes no request.
func (s *Session) CreateDroplet(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	request, err := BuildCreateRequest(opts, s.now())
	if err != nil {
		return nil, err
	}

	droplet, err := s.client.Droplets().Create(ctx, request)
	if err != nil {
		return nil, err
	}

	result := &CreateResult{Droplet: droplet}

	_, err = s.droplets.RefreshDroplets(ctx)
	if err != nil {
		s.logger.Warn("droplet refresh after create failed", map[string]interface{}{
			"error": doapi.Message(err),
		})

		result.RefreshErr = err
	}

	return result, nil
}

func splitTags(entries []string) []string {
	var tags []string

	for _, entry := range entries {
		for _, tag := range strings.Split(entry, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	if len(tags) == 0 {
		return []string{constants.DefaultDropletTag}
	}

	return tags
}

func nonEmpty(values []string) []string {
	var out []string

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}

	return out
}
