package panel_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// MockClient implements doapi.Client for testing.
type MockClient struct {
	mock.Mock

	account        *MockAccountClient
	regions        *MockRegionsClient
	sizes          *MockSizesClient
	images         *MockImagesClient
	sshKeys        *MockSSHKeysClient
	droplets       *MockDropletsClient
	dropletActions *MockDropletActionsClient
}

func NewMockClient() *MockClient {
	return &MockClient{
		account:        &MockAccountClient{},
		regions:        &MockRegionsClient{},
		sizes:          &MockSizesClient{},
		images:         &MockImagesClient{},
		sshKeys:        &MockSSHKeysClient{},
		droplets:       &MockDropletsClient{},
		dropletActions: &MockDropletActionsClient{},
	}
}

func (m *MockClient) Request(ctx context.Context, method, path string, body interface{}) (interface{}, error) {
	args := m.Called(ctx, method, path, body)

	return args.Get(0), args.Error(1)
}

func (m *MockClient) Account() doapi.AccountClient               { return m.account }
func (m *MockClient) Regions() doapi.RegionsClient               { return m.regions }
func (m *MockClient) Sizes() doapi.SizesClient                   { return m.sizes }
func (m *MockClient) Images() doapi.ImagesClient                 { return m.images }
func (m *MockClient) SSHKeys() doapi.SSHKeysClient               { return m.sshKeys }
func (m *MockClient) Droplets() doapi.DropletsClient             { return m.droplets }
func (m *MockClient) DropletActions() doapi.DropletActionsClient { return m.dropletActions }

// MockAccountClient implements doapi.AccountClient for testing.
type MockAccountClient struct {
	mock.Mock
}

func (m *MockAccountClient) Get(ctx context.Context) (*doapi.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*doapi.Account), args.Error(1)
}

// MockRegionsClient implements doapi.RegionsClient for testing.
type MockRegionsClient struct {
	mock.Mock
}

func (m *MockRegionsClient) List(ctx context.Context) ([]doapi.Region, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]doapi.Region), args.Error(1)
}

// MockSizesClient implements doapi.SizesClient for testing.
type MockSizesClient struct {
	mock.Mock
}

func (m *MockSizesClient) List(ctx context.Context) ([]doapi.Size, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]doapi.Size), args.Error(1)
}

// MockImagesClient implements doapi.ImagesClient for testing.
type MockImagesClient struct {
	mock.Mock
}

func (m *MockImagesClient) ListDistributions(ctx context.Context, perPage int) ([]doapi.Image, error) {
	args := m.Called(ctx, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]doapi.Image), args.Error(1)
}

// MockSSHKeysClient implements doapi.SSHKeysClient for testing.
type MockSSHKeysClient struct {
	mock.Mock
}

func (m *MockSSHKeysClient) List(ctx context.Context) ([]doapi.SSHKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]doapi.SSHKey), args.Error(1)
}

// MockDropletsClient implements doapi.DropletsClient for testing.
type MockDropletsClient struct {
	mock.Mock
}

func (m *MockDropletsClient) List(ctx context.Context, perPage int) ([]doapi.Droplet, error) {
	args := m.Called(ctx, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]doapi.Droplet), args.Error(1)
}

func (m *MockDropletsClient) Get(ctx context.Context, id string) (*doapi.Droplet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*doapi.Droplet), args.Error(1)
}

func (m *MockDropletsClient) Create(ctx context.Context, request *doapi.DropletCreateRequest) (*doapi.Droplet, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*doapi.Droplet), args.Error(1)
}

func (m *MockDropletsClient) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockDropletActionsClient implements doapi.DropletActionsClient for testing.
type MockDropletActionsClient struct {
	mock.Mock
}

func (m *MockDropletActionsClient) Do(ctx context.Context, dropletID string, request *doapi.ActionRequest) (*doapi.Action, error) {
	args := m.Called(ctx, dropletID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*doapi.Action), args.Error(1)
}

// apiError builds the error a non-2xx provider response turns into.
func apiError(status int, body string) error {
	return doapi.ParseAPIError(status, []byte(body))
}

func droplet(id int, name string) doapi.Droplet {
	return doapi.Droplet{ID: id, Name: name, Status: "active"}
}
