package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeReportsPage(t *testing.T) {
	page := "<html><head><title> Land for Sale </title></head><body>" + strings.Repeat("x", 1500) + "</body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	result := NewHTTPProber(5*time.Second).Probe(context.Background(), srv.URL)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "OK", result.StatusText)
	assert.Equal(t, "Land for Sale", result.Title)
	assert.Equal(t, len(page), result.ContentLength)
	assert.True(t, result.HasContent)
	assert.False(t, result.IsBlocked)
	assert.Len(t, result.SampleContent, 200)
	assert.Equal(t, "text/html; charset=utf-8", result.ContentType)
}

func TestProbeFlagsBlockedResponses(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("denied"))
		}))

		result := NewHTTPProber(5*time.Second).Probe(context.Background(), srv.URL)
		srv.Close()

		assert.True(t, result.Success)
		assert.True(t, result.IsBlocked, "status %d", status)
		assert.False(t, result.HasContent)
		assert.Equal(t, noTitle, result.Title)
	}
}

func TestProbeTreatsServerErrorsAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	result := NewHTTPProber(5*time.Second).Probe(context.Background(), srv.URL)

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusBadGateway, result.Status)
	assert.Contains(t, result.Error, "502")
}

func TestProbeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	result := NewHTTPProber(50*time.Millisecond).Probe(context.Background(), srv.URL)

	assert.False(t, result.Success)
	assert.True(t, result.IsTimeout)
	assert.NotEmpty(t, result.Error)
}

func TestProbeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	result := NewHTTPProber(time.Second).Probe(context.Background(), url)

	assert.False(t, result.Success)
	assert.True(t, result.IsNetworkError)
	assert.False(t, result.IsTimeout)
}

func TestProbeInvalidURL(t *testing.T) {
	result := NewHTTPProber(time.Second).Probe(context.Background(), "://nope")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid url")
}
