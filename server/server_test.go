package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibaidar1/BullBear-NewsBot/pkg/news"
	"github.com/kibaidar1/BullBear-NewsBot/pkg/store"
)

type testConfig struct {
	listen  string
	timeout time.Duration
}

func (c *testConfig) GetServerConfig() (string, time.Duration) { return c.listen, c.timeout }

type testDirectory struct {
	subs []store.Subscription
	err  error
}

func (d *testDirectory) ListSubscriptions(context.Context) ([]store.Subscription, error) {
	return d.subs, d.err
}

type testSource struct {
	items []news.Item
	err   error
}

func (s *testSource) Fetch(context.Context, string, int) ([]news.Item, error) {
	return s.items, s.err
}

func newTestServer(directory Directory, source news.Source) *Server {
	return New(&testConfig{listen: ":0", timeout: 5 * time.Second},
		directory, source, news.NewFilter(), "test", false)
}

func TestServer_StatusHandler(t *testing.T) {
	t.Run("counts users and topics", func(t *testing.T) {
		directory := &testDirectory{subs: []store.Subscription{
			{UserID: 1, Topic: "bitcoin"},
			{UserID: 1, Topic: "tesla"},
			{UserID: 2, Topic: "bitcoin"},
		}}
		srv := newTestServer(directory, &testSource{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var status map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "test", status["version"])
		assert.InDelta(t, 3, status["subscriptions"], 0.0001)
		assert.InDelta(t, 2, status["users"], 0.0001)
		assert.InDelta(t, 2, status["topics"], 0.0001)
	})

	t.Run("directory failure still returns ok", func(t *testing.T) {
		directory := &testDirectory{err: fmt.Errorf("db gone")}
		srv := newTestServer(directory, &testSource{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var status map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "ok", status["status"])
		assert.NotContains(t, status, "subscriptions")
	})
}

func TestServer_NewsHandler(t *testing.T) {
	source := &testSource{items: []news.Item{
		{URL: "https://ex.com/1", Title: "Bitcoin hits new high", Description: "bitcoin rally continues", Source: "Example"},
		{URL: "https://ex.com/2", Title: "Weather report", Description: "sunny tomorrow", Source: "Example"},
	}}

	t.Run("returns scored items above threshold", func(t *testing.T) {
		srv := newTestServer(&testDirectory{}, source)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/news?topic=bitcoin&max=5", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Topic string            `json:"topic"`
			Count int               `json:"count"`
			Items []news.ScoredItem `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "bitcoin", resp.Topic)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "https://ex.com/1", resp.Items[0].URL)
		assert.Greater(t, resp.Items[0].Score, 0.0)
	})

	t.Run("missing topic rejected", func(t *testing.T) {
		srv := newTestServer(&testDirectory{}, source)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/news", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "topic parameter is required")
	})

	t.Run("invalid max rejected", func(t *testing.T) {
		srv := newTestServer(&testDirectory{}, source)

		for _, v := range []string{"0", "-1", "51", "abc"} {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/news?topic=bitcoin&max="+v, http.NoBody)
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "max=%s", v)
		}
	})

	t.Run("invalid min_score rejected", func(t *testing.T) {
		srv := newTestServer(&testDirectory{}, source)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/news?topic=bitcoin&min_score=1.5", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("source failure maps to bad gateway", func(t *testing.T) {
		srv := newTestServer(&testDirectory{}, &testSource{err: fmt.Errorf("provider down")})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/news?topic=bitcoin", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestServer_PingMiddleware(t *testing.T) {
	srv := newTestServer(&testDirectory{}, &testSource{})

	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Run(t *testing.T) {
	srv := newTestServer(&testDirectory{}, &testSource{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for the listener to come up
	require.Eventually(t, func() bool {
		srv.lock.Lock()
		defer srv.lock.Unlock()
		return srv.httpServer != nil
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
