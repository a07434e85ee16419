package panel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/panel"
)

func TestGroupByDistribution(t *testing.T) {
	t.Parallel()

	families, groups := panel.GroupByDistribution([]doapi.Image{
		{ID: 1, Distribution: "Ubuntu", Slug: "ubuntu-22-04-x64"},
		{ID: 2, Distribution: "CentOS"},
		{ID: 3},
		{ID: 4, Distribution: "Ubuntu", Slug: "ubuntu-24-04-x64"},
	})

	assert.Equal(t, []string{"CentOS", "Ubuntu"}, families)
	require.Len(t, groups["Ubuntu"], 2)
	assert.Equal(t, "ubuntu-22-04-x64", groups["Ubuntu"][0].Slug)
	assert.NotContains(t, groups, "")
}

func TestVersionOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image doapi.Image
		want  panel.ImageVersion
	}{
		{"slug and name", doapi.Image{ID: 1, Slug: "fedora-40-x64", Name: "40 x64"}, panel.ImageVersion{Value: "fedora-40-x64", Label: "40 x64"}},
		{"id fallback", doapi.Image{ID: 7, Name: "custom"}, panel.ImageVersion{Value: "7", Label: "custom"}},
		{"label falls back to value", doapi.Image{ID: 9}, panel.ImageVersion{Value: "9", Label: "9"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, panel.VersionOf(testCase.image))
		})
	}
}

func TestImagePicker(t *testing.T) {
	t.Parallel()

	picker := panel.NewImagePicker([]doapi.Image{
		{ID: 1, Distribution: "Ubuntu", Slug: "ubuntu-24-04-x64", Name: "24.04"},
		{ID: 2, Distribution: "Debian", Slug: "debian-12-x64", Name: "12"},
		{ID: 3, Distribution: "Debian", Slug: "debian-11-x64", Name: "11"},
	})

	assert.Equal(t, "Debian", picker.Family(), "first family is auto-selected")
	assert.Len(t, picker.Versions(), 2)

	require.NoError(t, picker.SelectVersion("debian-11-x64"))
	assert.Equal(t, "debian-11-x64", picker.Version())

	versions := picker.SelectFamily("Ubuntu")
	assert.Equal(t, []panel.ImageVersion{{Value: "ubuntu-24-04-x64", Label: "24.04"}}, versions)
	assert.Empty(t, picker.Version(), "changing family clears the version")

	err := picker.SelectVersion("debian-12-x64")
	require.Error(t, err)
	assert.True(t, doapi.IsValidation(err))

	assert.Empty(t, picker.SelectFamily(""))

	err = picker.SelectVersion("ubuntu-24-04-x64")
	require.Error(t, err)
	assert.Equal(t, "select an OS family first", doapi.Message(err))
}

func TestImagePicker_Empty(t *testing.T) {
	t.Parallel()

	picker := panel.NewImagePicker(nil)
	assert.Empty(t, picker.Families())
	assert.Empty(t, picker.Family())
	assert.Empty(t, picker.Versions())
}
