package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/resilience/retry"
)

func testClient() *Client {
	cfg := DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.DenyPrivateIPs = false // httptest servers bind to 127.0.0.1
	retryCfg := retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1, JitterFraction: 0}
	return NewClient(cfg, "test-fetch", retryCfg)
}

func TestClient_Get_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	resp, err := testClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "hello")
}

func TestClient_Get_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 10)))
	}))
	defer srv.Close()

	c := testClient()
	c.cfg.MaxBodyBytes = 5

	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestClient_Get_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient().Get(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestClient_Get_InvalidURL(t *testing.T) {
	_, err := testClient().Get(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestClient_Get_PrivateIPRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DenyPrivateIPs = true
	c := NewClient(cfg, "test-fetch-private", retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1})

	_, err := c.Get(context.Background(), "http://127.0.0.1:9/feed")
	require.Error(t, err)
}
