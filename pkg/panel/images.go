package panel

import (
	"sort"
	"sync"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// ImageVersion is one entry of the version list.
type ImageVersion struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// GroupByDistribution groups images by their distribution field. Families
// are sorted; images without a distribution are skipped. Provider order is
// kept within a family.
func GroupByDistribution(images []doapi.Image) ([]string, map[string][]doapi.Image) {
	groups := make(map[string][]doapi.Image)

	for _, image := range images {
		if image.Distribution == "" {
			continue
		}

		groups[image.Distribution] = append(groups[image.Distribution], image)
	}

	families := make([]string, 0, len(groups))
	for family := range groups {
		families = append(families, family)
	}

	sort.Strings(families)

	return families, groups
}

// VersionOf maps an image to its picker entry: the value is the slug,
// falling back to the id, and the label is the name, falling back to the value.
func VersionOf(image doapi.Image) ImageVersion {
	value := image.Ref()

	label := image.Name
	if label == "" {
		label = value
	}

	return ImageVersion{Value: value, Label: label}
}

// ImagePicker is the OS family to image version cascade.
type ImagePicker struct {
	mutex    sync.RWMutex
	families []string
	byFamily map[string][]doapi.Image
	family   string
	version  string
}

// NewImagePicker builds a picker from images and auto-selects the first
// family, which populates its versions. No version is selected.
func NewImagePicker(images []doapi.Image) *ImagePicker {
	families, groups := GroupByDistribution(images)

	picker := &ImagePicker{
		families: families,
		byFamily: groups,
	}

	if len(families) > 0 {
		picker.family = families[0]
	}

	return picker
}

// newFamilyPicker offers families with no versions and nothing selected.
func newFamilyPicker(families []string) *ImagePicker {
	return &ImagePicker{
		families: append([]string(nil), families...),
		byFamily: make(map[string][]doapi.Image),
	}
}

// Families returns the sorted OS families.
func (p *ImagePicker) Families() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return append([]string(nil), p.families...)
}

// Family returns the selected family, or "" when none is selected.
func (p *ImagePicker) Family() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.family
}

// SelectFamily selects family, recomputes the version list and clears the
// selected version. Selecting "" clears the family.
func (p *ImagePicker) SelectFamily(family string) []ImageVersion {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.family = family
	p.version = ""

	return p.versionsLocked()
}

// Versions returns the versions of the selected family.
func (p *ImagePicker) Versions() []ImageVersion {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.versionsLocked()
}

// SelectVersion selects a version of the current family by value.
func (p *ImagePicker) SelectVersion(value string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.family == "" {
		return doapi.NewValidationError("os", "select an OS family first")
	}

	for _, version := range p.versionsLocked() {
		if version.Value == value {
			p.version = value

			return nil
		}
	}

	return doapi.NewValidationError("image", "no version "+value+" for "+p.family)
}

// Version returns the selected version value, or "".
func (p *ImagePicker) Version() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.version
}

func (p *ImagePicker) versionsLocked() []ImageVersion {
	images := p.byFamily[p.family]
	versions := make([]ImageVersion, 0, len(images))

	for _, image := range images {
		versions = append(versions, VersionOf(image))
	}

	return versions
}
