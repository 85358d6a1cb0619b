package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow() Window {
	w, _ := ParseWindow("2024-01-01", "2024-01-08", time.Now(), 7, time.UTC)
	return w
}

func TestNEOClient_FetchFeed_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2024-01-01", q.Get("start_date"))
		assert.Equal(t, "2024-01-08", q.Get("end_date"))
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"element_count":0,"near_earth_objects":{}}`))
	}))
	defer srv.Close()

	c := NewNEOClient(NEOConfig{APIKey: "secret", FeedURL: srv.URL})
	body, err := c.FetchFeed(context.Background(), testWindow())
	require.NoError(t, err)
	assert.JSONEq(t, `{"element_count":0,"near_earth_objects":{}}`, string(body))
}

func TestNEOClient_FetchFeed_DemoKeyFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DemoAPIKey, r.URL.Query().Get("api_key"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewNEOClient(NEOConfig{FeedURL: srv.URL})
	_, err := c.FetchFeed(context.Background(), testWindow())
	require.NoError(t, err)
}

func TestNEOClient_FetchFeed_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"API_KEY_INVALID"}}`))
	}))
	defer srv.Close()

	c := NewNEOClient(NEOConfig{FeedURL: srv.URL, RetryAttempts: 3})
	body, err := c.FetchFeed(context.Background(), testWindow())
	require.Error(t, err)
	assert.Nil(t, body)

	var feedErr *FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, FailureStatus, feedErr.Kind)
	assert.Equal(t, http.StatusForbidden, feedErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNEOClient_FetchFeed_ServerErrorRetrySuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"near_earth_objects":{}}`))
	}))
	defer srv.Close()

	c := NewNEOClient(NEOConfig{FeedURL: srv.URL, RetryAttempts: 2, RetryDelay: time.Millisecond})
	_, err := c.FetchFeed(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNEOClient_FetchFeed_ServerErrorExhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewNEOClient(NEOConfig{FeedURL: srv.URL, RetryAttempts: 2, RetryDelay: time.Millisecond})
	_, err := c.FetchFeed(context.Background(), testWindow())

	var feedErr *FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, http.StatusServiceUnavailable, feedErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNEOClient_FetchFeed_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewNEOClient(NEOConfig{FeedURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.FetchFeed(context.Background(), testWindow())

	var feedErr *FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, FailureTimeout, feedErr.Kind)
}

func TestNEOClient_FetchFeed_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewNEOClient(NEOConfig{FeedURL: addr})
	_, err := c.FetchFeed(context.Background(), testWindow())

	var feedErr *FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, FailureTransport, feedErr.Kind)
}

func TestNEOClient_FetchFeed_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	c := NewNEOClient(NEOConfig{FeedURL: srv.URL})
	_, err := c.FetchFeed(context.Background(), testWindow())

	var feedErr *FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, FailureDecode, feedErr.Kind)
}
