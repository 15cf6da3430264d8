package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// BaseURL points at a running api, e.g. http://localhost:8080/api
var BaseURL = os.Getenv("BIDNEST_BASE_URL")

// client keeps the session cookie between calls.
type client struct {
	t    *testing.T
	http *http.Client
}

func newClient(t *testing.T) *client {
	t.Helper()
	if BaseURL == "" {
		t.Skip("BIDNEST_BASE_URL not set")
	}
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

// call sends body as JSON and decodes the response into out when it is not nil.
func (c *client) call(method, path string, body, out interface{}) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, BaseURL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// runID keeps repeated runs against the same database from colliding.
func runID() int64 {
	return time.Now().UnixNano() % 1_000_000_000
}
