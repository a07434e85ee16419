package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/dopanel/internal/constants"
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// Composer exposes the API client as a raw REST console.
type Composer struct {
	client doapi.RawClient
}

// NewComposer creates a composer over client.
func NewComposer(client doapi.RawClient) *Composer {
	return &Composer{client: client}
}

// Composer returns a composer over the session's client.
func (s *Session) Composer() *Composer {
	return NewComposer(s.client)
}

// NormalizePath defaults an empty path to /account and adds a leading slash.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return constants.APIPathAccount
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return path
}

// Send issues method against path with rawBody, which must be valid JSON
// when non-blank, and returns the result as 2-space indented JSON.
func (c *Composer) Send(ctx context.Context, method, path, rawBody string) (string, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	var body interface{}

	if strings.TrimSpace(rawBody) != "" {
		err := json.Unmarshal([]byte(rawBody), &body)
		if err != nil {
			return "", doapi.NewValidationError("body", "body is not valid JSON: "+err.Error())
		}
	}

	result, err := c.client.Request(ctx, method, NormalizePath(path), body)
	if err != nil {
		return "", err
	}

	pretty, err := json.MarshalIndent(result, "", strings.Repeat(" ", constants.JSONIndentSize))
	if err != nil {
		return "", err
	}

	return string(pretty), nil
}
