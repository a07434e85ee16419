package client

import (
	"context"

	"github.com/fivetwenty-io/dopanel/internal/http"
)

// Request implements doapi.RawClient. A nil body sends no payload. Failures
// are returned unwrapped so their text is the provider's message.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (interface{}, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	var result interface{}

	http.DecodeJSON(resp.Body, &result)

	if result == nil {
		result = map[string]interface{}{}
	}

	return result, nil
}
