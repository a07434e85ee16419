package doclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dopanel/internal/auth"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
	"github.com/fivetwenty-io/dopanel/pkg/doclient"
)

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                                "https://api.digitalocean.com/v2",
		"   ":                             "https://api.digitalocean.com/v2",
		"api.example.com/v2":              "https://api.example.com/v2",
		"https://api.example.com/v2/":     "https://api.example.com/v2",
		"http://localhost:8080//":         "http://localhost:8080",
		"https://api.digitalocean.com/v2": "https://api.digitalocean.com/v2",
	}

	for input, want := range tests {
		assert.Equal(t, want, doclient.NormalizeEndpoint(input), "input %q", input)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := doclient.New(context.Background(), nil, nil)
		require.ErrorIs(t, err, doapi.ErrConfigRequired)
	})

	t.Run("uses the credential store", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer abc123", request.Header.Get("Authorization"))
			assert.Equal(t, "dopanel", request.Header.Get("User-Agent"))
			_, _ = writer.Write([]byte(`{"account":{"email":"ops@example.com"}}`))
		}))
		defer server.Close()

		store := auth.NewCredentialStore(nil)
		require.NoError(t, store.SetCredential(context.Background(), "  abc123 ", false))

		client, err := doclient.New(context.Background(), &doapi.Config{APIEndpoint: server.URL + "/"}, store)
		require.NoError(t, err)

		account, err := client.Account().Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", account.Email)
	})

	t.Run("empty credential never reaches the network", func(t *testing.T) {
		t.Parallel()

		called := false

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			called = true
		}))
		defer server.Close()

		client, err := doclient.New(context.Background(), &doapi.Config{APIEndpoint: server.URL}, auth.NewCredentialStore(nil))
		require.NoError(t, err)

		_, err = client.Droplets().List(context.Background(), 50)
		require.Error(t, err)
		assert.True(t, doapi.IsMissingCredential(err))
		assert.False(t, called)
	})
}
