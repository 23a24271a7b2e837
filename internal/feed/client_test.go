package feed

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
	lilterrors "github.com/tessro/lilt/internal/errors"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		_, _ = w.Write([]byte(`{"name":"lilt"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, New().GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "lilt", out.Name)
}

func TestGetJSONParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := New().GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(WithRetries(3, 0))
	body, err := c.GetText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(WithRetries(3, 0)).GetText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestExhaustedRetriesWrapSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(WithRetries(1, 0)).GetText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lilterrors.ErrFeedUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().GetText(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func slowServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientTimeoutWrapsErrTimeout(t *testing.T) {
	srv := slowServer(t)

	_, err := New(WithTimeout(20*time.Millisecond), WithRetries(0, 0)).GetText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, lilterrors.ErrTimeout)
	assert.NotErrorIs(t, err, lilterrors.ErrNetworkError)
}

func TestDeadlineWrapsErrTimeout(t *testing.T) {
	srv := slowServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New().GetText(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, lilterrors.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
