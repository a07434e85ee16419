package doapi

import (
	"strconv"
)

// Placeholder is shown in place of missing provider fields.
const Placeholder = "-"

// Account represents the /account response.
type Account struct {
	Email         string `json:"email"          yaml:"email"`
	UUID          string `json:"uuid"           yaml:"uuid"`
	Status        string `json:"status"         yaml:"status"`
	StatusMessage string `json:"status_message" yaml:"status_message"`
	DropletLimit  *int   `json:"droplet_limit"  yaml:"droplet_limit"`
	EmailVerified bool   `json:"email_verified" yaml:"email_verified"`
}

// Region represents a datacenter region.
type Region struct {
	Slug      string   `json:"slug"      yaml:"slug"`
	Name      string   `json:"name"      yaml:"name"`
	Available bool     `json:"available" yaml:"available"`
	Sizes     []string `json:"sizes"     yaml:"sizes"`
	Features  []string `json:"features"  yaml:"features"`
}

// Size represents a droplet size.
type Size struct {
	Slug         string   `json:"slug"          yaml:"slug"`
	Memory       int      `json:"memory"        yaml:"memory"`
	VCPUs        int      `json:"vcpus"         yaml:"vcpus"`
	Disk         int      `json:"disk"          yaml:"disk"`
	PriceMonthly float64  `json:"price_monthly" yaml:"price_monthly"`
	PriceHourly  float64  `json:"price_hourly"  yaml:"price_hourly"`
	Available    bool     `json:"available"     yaml:"available"`
	Regions      []string `json:"regions"       yaml:"regions"`
	Description  string   `json:"description"   yaml:"description"`
}

// Image represents an OS image.
type Image struct {
	ID           int      `json:"id"           yaml:"id"`
	Name         string   `json:"name"         yaml:"name"`
	Distribution string   `json:"distribution" yaml:"distribution"`
	Slug         string   `json:"slug"         yaml:"slug"`
	Type         string   `json:"type"         yaml:"type"`
	Public       bool     `json:"public"       yaml:"public"`
	Regions      []string `json:"regions"      yaml:"regions"`
	Status       string   `json:"status"       yaml:"status"`
}

// Ref returns the slug, falling back to the numeric id.
func (i Image) Ref() string {
	if i.Slug != "" {
		return i.Slug
	}

	if i.ID == 0 {
		return ""
	}

	return strconv.Itoa(i.ID)
}

// SSHKey represents an SSH key registered on the account.
type SSHKey struct {
	ID          int    `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	PublicKey   string `json:"public_key"  yaml:"public_key"`
}

// NetworkV4 is a single IPv4 attachment.
type NetworkV4 struct {
	IPAddress string `json:"ip_address" yaml:"ip_address"`
	Netmask   string `json:"netmask"    yaml:"netmask"`
	Gateway   string `json:"gateway"    yaml:"gateway"`
	Type      string `json:"type"       yaml:"type"`
}

// NetworkV6 is a single IPv6 attachment.
type NetworkV6 struct {
	IPAddress string `json:"ip_address" yaml:"ip_address"`
	Netmask   int    `json:"netmask"    yaml:"netmask"`
	Gateway   string `json:"gateway"    yaml:"gateway"`
	Type      string `json:"type"       yaml:"type"`
}

// Networks groups a droplet's network attachments.
type Networks struct {
	V4 []NetworkV4 `json:"v4" yaml:"v4"`
	V6 []NetworkV6 `json:"v6" yaml:"v6"`
}

// Droplet represents a virtual machine. Status is one of new, active, off or
// archive, passed through as the provider sends it.
type Droplet struct {
	ID        int      `json:"id"         yaml:"id"`
	Name      string   `json:"name"       yaml:"name"`
	Memory    int      `json:"memory"     yaml:"memory"`
	VCPUs     int      `json:"vcpus"      yaml:"vcpus"`
	Disk      int      `json:"disk"       yaml:"disk"`
	Locked    bool     `json:"locked"     yaml:"locked"`
	Status    string   `json:"status"     yaml:"status"`
	CreatedAt string   `json:"created_at" yaml:"created_at"`
	Region    *Region  `json:"region"     yaml:"region"`
	Image     *Image   `json:"image"      yaml:"image"`
	SizeSlug  string   `json:"size_slug"  yaml:"size_slug"`
	Networks  Networks `json:"networks"   yaml:"networks"`
	Tags      []string `json:"tags"       yaml:"tags"`
}

// IDString returns the id in the form used for lookups.
func (d Droplet) IDString() string {
	return strconv.Itoa(d.ID)
}

// RegionSlug returns the region slug or the placeholder.
func (d Droplet) RegionSlug() string {
	if d.Region == nil {
		return Placeholder
	}

	return Display(d.Region.Slug)
}

// ImageRef returns the image slug or id, or the placeholder.
func (d Droplet) ImageRef() string {
	if d.Image == nil {
		return Placeholder
	}

	return Display(d.Image.Ref())
}

// PublicIPv4 returns the first public IPv4 address or the placeholder.
func (d Droplet) PublicIPv4() string {
	return d.ipv4("public")
}

// PrivateIPv4 returns the first private IPv4 address or the placeholder.
func (d Droplet) PrivateIPv4() string {
	return d.ipv4("private")
}

func (d Droplet) ipv4(kind string) string {
	for _, network := range d.Networks.V4 {
		if network.Type == kind {
			return Display(network.IPAddress)
		}
	}

	return Placeholder
}

// Display returns value, or the placeholder when it is empty.
func Display(value string) string {
	if value == "" {
		return Placeholder
	}

	return value
}

// DropletCreateRequest is the body of POST /droplets.
type DropletCreateRequest struct {
	Name     string   `json:"name"                yaml:"name"`
	Region   string   `json:"region"              yaml:"region"`
	Size     string   `json:"size"                yaml:"size"`
	Image    string   `json:"image"               yaml:"image"`
	Tags     []string `json:"tags,omitempty"      yaml:"tags,omitempty"`
	SSHKeys  []string `json:"ssh_keys,omitempty"  yaml:"ssh_keys,omitempty"`
	UserData string   `json:"user_data,omitempty" yaml:"user_data,omitempty"`
}

// ActionRequest is the body of POST /droplets/{id}/actions.
type ActionRequest struct {
	Type string `json:"type"           yaml:"type"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Size string `json:"size,omitempty" yaml:"size,omitempty"`
	Disk *bool  `json:"disk,omitempty" yaml:"disk,omitempty"`
}

// Action represents an asynchronous droplet action.
type Action struct {
	ID           int    `json:"id"            yaml:"id"`
	Status       string `json:"status"        yaml:"status"`
	Type         string `json:"type"          yaml:"type"`
	StartedAt    string `json:"started_at"    yaml:"started_at"`
	CompletedAt  string `json:"completed_at"  yaml:"completed_at"`
	ResourceID   int    `json:"resource_id"   yaml:"resource_id"`
	ResourceType string `json:"resource_type" yaml:"resource_type"`
	RegionSlug   string `json:"region_slug"   yaml:"region_slug"`
}
