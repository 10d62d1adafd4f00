package helpers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/slotwatcher/pkg/errors"
)

func TestFetchSendsFixedHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "fr-FR,fr;q=0.9", r.Header.Get("Accept-Language"))
		assert.Equal(t, http.MethodGet, r.Method)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Bonjour</body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherOptions{})
	reader, err := fetcher.Fetch(context.Background(), "MA17", server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Bonjour")
}

func TestFetchConvertsLatin1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		// "créneau" in ISO-8859-1
		w.Write([]byte("<html><body>cr\xe9neau</body></html>"))
	}))
	defer server.Close()

	reader, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), "MA17", server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "créneau")
}

func TestFetchStatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), "MA17", server.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.True(t, errors.Is(err, errors.ErrorTypeStatus))

	// Test with rate limiting
	serverRateLimited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer serverRateLimited.Close()

	_, err = NewFetcher(FetcherOptions{}).Fetch(context.Background(), "MA17", serverRateLimited.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.True(t, errors.Is(err, errors.ErrorTypeRateLimit))
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	fetcher := NewFetcher(FetcherOptions{Timeout: 50 * time.Millisecond})
	_, err := fetcher.Fetch(context.Background(), "MA17", server.URL)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNetwork))
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), "MA17", "http://invalid.url.that.does.not.exist")
	assert.Error(t, err)
}
