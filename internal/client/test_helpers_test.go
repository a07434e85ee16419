package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// staticToken is a TokenManager that always returns itself.
type staticToken string

func (s staticToken) GetToken(ctx context.Context) (string, error) {
	return string(s), nil
}

// newTestServer starts a server running handler and returns its URL.
func newTestServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server.URL
}

// newTestClient starts a server running handler and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	client, err := New(&doapi.Config{APIEndpoint: newTestServer(t, handler)}, staticToken("test-token"))
	require.NoError(t, err)

	return client
}

// writeJSON writes payload with the given status.
func writeJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if payload != nil {
		_ = json.NewEncoder(writer).Encode(payload)
	}
}
