package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "medrem-test", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"got": in["name"]})
	}))
	defer srv.Close()

	c, err := New(Options{
		BaseURL:   srv.URL + "/",
		Timeout:   time.Second,
		Headers:   map[string]string{"X-Api-Key": "secret"},
		UserAgent: "medrem-test",
	})
	require.NoError(t, err)

	var out struct {
		Got string `json:"got"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "v1/echo", map[string]string{"name": "Ana"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.Got)
}

func TestDoJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(Options{Timeout: time.Second})
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "nope", httpErr.Body)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestDoJSON_RetriesOn5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Retries: 2, RetryWait: time.Millisecond})
	require.NoError(t, err)

	require.NoError(t, c.DoJSON(context.Background(), http.MethodDelete, "/once/x", nil, nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoJSON_NoRetryOn4xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Retries: 2, RetryWait: time.Millisecond})
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodDelete, "/once/x", nil, nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoJSON_RelativeWithoutBase(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	err = c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil)
	assert.EqualError(t, err, "httpclient: relative path requires BaseURL")
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "::not a url"})
	assert.Error(t, err)
}

func TestStatusOf_Plain(t *testing.T) {
	assert.Equal(t, 0, StatusOf(errors.New("boom")))
	assert.Equal(t, 0, StatusOf(nil))
}
