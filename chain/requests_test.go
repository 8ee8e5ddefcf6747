package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequesterGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "explorer-test", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"value":"42"}`))
		case "/bad-json":
			_, _ = w.Write([]byte(`{"value":`))
		case "/missing":
			http.Error(w, `{"code":5,"message":"not found"}`, http.StatusNotFound)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	r := NewRequester(srv.Client(), time.Second, "explorer-test")
	ctx := context.Background()

	var out struct {
		Value string `json:"value"`
	}
	require.NoError(t, r.GetJSON(ctx, "/ok", srv.URL+"/ok", &out))
	assert.Equal(t, "42", out.Value)

	err := r.GetJSON(ctx, "/bad-json", srv.URL+"/bad-json", &out)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	err = r.GetJSON(ctx, "/missing", srv.URL+"/missing", &out)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusCodeOf(err))
	assert.Equal(t, "/missing", EndpointOf(err))

	err = r.GetJSON(ctx, "/error", srv.URL+"/error", &out)
	assert.ErrorIs(t, err, ErrEndpointUnavailable)
	assert.False(t, IsTimeout(err))
}

func TestRequesterTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := NewRequester(srv.Client(), 50*time.Millisecond, "")
	var out map[string]interface{}
	err := r.GetJSON(context.Background(), "/slow", srv.URL+"/slow", &out)

	assert.True(t, IsTimeout(err))
	assert.NotErrorIs(t, err, ErrEndpointUnavailable)
}

func TestRequesterConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewRequester(nil, time.Second, "")
	var out map[string]interface{}
	err := r.GetJSON(context.Background(), "/status", url+"/status", &out)
	assert.ErrorIs(t, err, ErrEndpointUnavailable)
}

func TestNewRequesterDefaults(t *testing.T) {
	r := NewRequester(nil, 0, "")
	assert.Equal(t, DefaultTimeout, r.Timeout)
	assert.NotNil(t, r.Client)
}
