package commands

import (
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

var unauthorizedBody = map[string]string{
	"id":      "unauthorized",
	"message": "Unable to authenticate you.",
}

var webDroplet = map[string]interface{}{
	"id":        7,
	"name":      "web-1",
	"status":    "active",
	"size_slug": "s-1vcpu-1gb",
	"region":    map[string]interface{}{"slug": "nyc3"},
	"networks": map[string]interface{}{
		"v4": []map[string]interface{}{{"ip_address": "203.0.113.7", "type": "public"}},
	},
}

func TestDropletsList(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/droplets", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		writeJSON(t, w, http.StatusOK, map[string]interface{}{"droplets": []interface{}{webDroplet}})
	})

	stdout, _, err := h.run("droplets", "list", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, stdout, "web-1")
	assert.Contains(t, stdout, "203.0.113.7")
	assert.Contains(t, stdout, "nyc3")
}

func TestDropletsList_JSONOutput(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]interface{}{"droplets": []interface{}{webDroplet}})
	})
	viper.Set("output", "json")

	stdout, _, err := h.run("droplets", "list", "--token", "tok")
	require.NoError(t, err)

	var droplets []doapi.Droplet
	require.NoError(t, json.Unmarshal([]byte(stdout), &droplets))
	require.Len(t, droplets, 1)
	assert.Equal(t, "web-1", droplets[0].Name)
}

func TestDropletsList_MissingCredential(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, _, err := h.run("droplets", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, doapi.ErrMissingCredential)
	assert.Zero(t, h.requests.Load())
}

func TestDropletsList_ProviderError(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{
			"id":      "unauthorized",
			"message": "Unable to authenticate you",
		})
	})

	_, _, err := h.run("droplets", "list", "--token", "bad")
	require.Error(t, err)
	assert.Equal(t, "Unable to authenticate you", doapi.Message(err))
}

func TestDropletsDestroy(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		h := newHarness(t)
		h.stdin = "n\n"
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		})

		stdout, stderr, err := h.run("droplets", "destroy", "7", "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Destroy cancelled")
		assert.Contains(t, stderr, "Destroy droplet 7?")
		assert.Zero(t, h.requests.Load())
	})

	t.Run("forced", func(t *testing.T) {
		h := newHarness(t)

		var deleted atomic.Bool

		h.serve(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodDelete && r.URL.Path == "/v2/droplets/7":
				deleted.Store(true)

				w.WriteHeader(http.StatusNoContent)
			case r.Method == http.MethodGet && r.URL.Path == "/v2/droplets":
				writeJSON(t, w, http.StatusOK, map[string]interface{}{"droplets": []interface{}{}})
			default:
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
		})

		_, stderr, err := h.run("droplets", "destroy", "7", "--force", "--token", "tok")
		require.NoError(t, err)
		assert.True(t, deleted.Load())
		assert.Contains(t, stderr, "[in-flight] droplet 7 destroy")
		assert.Contains(t, stderr, "[success] droplet 7 destroy: droplet destroyed")
	})
}

func TestDropletsAction(t *testing.T) {
	t.Run("reboot", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/droplets/7/actions", r.URL.Path)

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "reboot", body["type"])

			writeJSON(t, w, http.StatusCreated, map[string]interface{}{
				"action": map[string]interface{}{"id": 99, "type": "reboot", "status": "in-progress"},
			})
		})

		stdout, stderr, err := h.run("droplets", "action", "7", "reboot", "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, stdout, "99")
		assert.Contains(t, stderr, "[success] droplet 7 reboot: action reboot sent")
	})

	t.Run("rename without a name", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, stderr, err := h.run("droplets", "action", "7", "rename", "--token", "tok")
		require.Error(t, err)
		assert.Contains(t, stderr, "[failure] droplet 7 rename")
		assert.Zero(t, h.requests.Load())
	})
}

func TestDropletsCreate_ValidationMakesNoRequest(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, _, err := h.run("droplets", "create", "--size", "s-1vcpu-1gb", "--token", "tok")
	require.Error(t, err)
	assert.Equal(t, "select a region first", doapi.Message(err))
	assert.Zero(t, h.requests.Load())
}

func TestDropletsCreate_InvalidAuthMethod(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("droplets", "create", "--auth", "kerberos", "--token", "tok")
	assert.ErrorContains(t, err, "invalid auth method")
}

func TestRequest(t *testing.T) {
	t.Run("sends the body", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v2/droplets/7/actions", r.URL.Path)

			raw, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"type":"reboot"}`, string(raw))

			writeJSON(t, w, http.StatusCreated, map[string]interface{}{"action": map[string]interface{}{"id": 1}})
		})

		stdout, _, err := h.run("request", "post", "droplets/7/actions", "--data", `{"type":"reboot"}`, "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, stdout, `"action": {`)
	})

	t.Run("defaults to GET /account", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v2/account", r.URL.Path)

			writeJSON(t, w, http.StatusOK, map[string]interface{}{"account": map[string]interface{}{"email": "a@example.com"}})
		})

		stdout, _, err := h.run("request", "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, stdout, "a@example.com")
	})

	t.Run("rejects invalid JSON locally", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, _, err := h.run("request", "POST", "/droplets", "--data", "{nope", "--token", "tok")
		assert.ErrorContains(t, err, "body is not valid JSON")
		assert.Zero(t, h.requests.Load())
	})

	t.Run("prints the provider message as-is", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, unauthorizedBody)
		})

		stdout, _, err := h.run("request", "GET", "/account", "--token", "bad")
		require.Error(t, err)
		assert.EqualError(t, err, "Unable to authenticate you.")
		assert.True(t, doapi.IsUnauthorized(err))
		assert.Empty(t, stdout)
	})

	t.Run("prints array results", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, []int{1, 2})
		})

		stdout, _, err := h.run("request", "GET", "/sizes", "--token", "tok")
		require.NoError(t, err)
		assert.Equal(t, "[\n  1,\n  2\n]\n", stdout)
	})

	t.Run("sends extra headers", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ops", r.Header.Get("X-Request-Source"))
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

			writeJSON(t, w, http.StatusOK, map[string]interface{}{})
		})

		_, _, err := h.run("request", "GET", "/account", "-H", "X-Request-Source: ops", "-H", "Authorization: Bearer other", "--token", "tok")
		require.NoError(t, err)
		assert.Equal(t, int32(1), h.requests.Load())
	})

	t.Run("rejects a malformed header locally", func(t *testing.T) {
		h := newHarness(t)
		h.serve(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, _, err := h.run("request", "GET", "/account", "-H", "no-colon", "--token", "tok")
		assert.ErrorContains(t, err, "invalid header")
		assert.Zero(t, h.requests.Load())
	})
}

func TestAccount_ProviderMessageIsExact(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/account", r.URL.Path)
		writeJSON(t, w, http.StatusUnauthorized, unauthorizedBody)
	})

	_, _, err := h.run("account", "--token", "bad")
	require.Error(t, err)
	assert.EqualError(t, err, "Unable to authenticate you.")
	assert.True(t, doapi.IsUnauthorized(err))
}

func TestMetadataFallback(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "down"})
	})

	stdout, stderr, err := h.run("regions", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sgp1")
	assert.Contains(t, stdout, "Amsterdam")
	assert.Contains(t, stderr, "metadata unavailable")

	stdout, _, err = h.run("images", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ubuntu")
	assert.Contains(t, stdout, "Debian")
}

func TestImages_Distribution(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/images":
			writeJSON(t, w, http.StatusOK, map[string]interface{}{"images": []map[string]interface{}{
				{"id": 1, "name": "24.04 (LTS) x64", "distribution": "Ubuntu", "slug": "ubuntu-24-04-x64"},
				{"id": 2, "name": "12 x64", "distribution": "Debian", "slug": "debian-12-x64"},
			}})
		default:
			writeJSON(t, w, http.StatusOK, map[string]interface{}{})
		}
	})

	stdout, _, err := h.run("images", "--distribution", "Ubuntu", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ubuntu-24-04-x64")
	assert.NotContains(t, stdout, "debian-12-x64")
}

func TestAuthLoginLogout(t *testing.T) {
	h := newHarness(t)
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/v2/account":
			writeJSON(t, w, http.StatusOK, map[string]interface{}{"account": map[string]interface{}{"email": "ops@example.com"}})
		default:
			writeJSON(t, w, http.StatusOK, map[string]interface{}{})
		}
	})

	stdout, _, err := h.run("auth", "login", "--token", "  tok-123  ")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as ops@example.com")
	assert.Equal(t, "tok-123", readConfigKey(t, h.configFile, tokenKey))

	stdout, _, err = h.run("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ops@example.com")
	assert.Contains(t, stdout, "tok-***")

	stdout, _, err = h.run("auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out")
	assert.Empty(t, readConfigKey(t, h.configFile, tokenKey))

	stdout, _, err = h.run("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not logged in")
}

func TestAuthLogin_PromptsForToken(t *testing.T) {
	h := newHarness(t)
	h.stdin = "tok-from-stdin\n"
	h.serve(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]interface{}{})
	})

	_, stderr, err := h.run("auth", "login")
	require.NoError(t, err)
	assert.Contains(t, stderr, "API token:")
	assert.Equal(t, "tok-from-stdin", readConfigKey(t, h.configFile, tokenKey))
}

func TestAuthLogin_EmptyToken(t *testing.T) {
	h := newHarness(t)
	h.stdin = "\n"

	_, _, err := h.run("auth", "login")
	assert.ErrorContains(t, err, "token is required")
}

func TestConfigSetUnset(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("config", "set", "credential_store", "nats")
	require.NoError(t, err)
	assert.Equal(t, "nats", readConfigKey(t, h.configFile, "credential_store"))

	_, _, err = h.run("config", "set", "rate_limit", "4")
	require.NoError(t, err)

	_, _, err = h.run("config", "set", "colour", "blue")
	assert.ErrorContains(t, err, "unknown configuration key")

	_, _, err = h.run("config", "unset", "credential_store")
	require.NoError(t, err)
	assert.Empty(t, readConfigKey(t, h.configFile, "credential_store"))
	assert.NotEmpty(t, readConfigKey(t, h.configFile, "rate_limit"))
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	viper.Set("output", "yaml")

	stdout, _, err := h.run("version")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)
}

func readConfigKey(t *testing.T, path, key string) string {
	t.Helper()

	values, err := readConfigFile(path)
	require.NoError(t, err)

	value, ok := values[key]
	if !ok {
		return ""
	}

	return toString(value)
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	default:
		raw, _ := yaml.Marshal(v)

		return string(raw)
	}
}
