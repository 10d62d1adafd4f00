package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"sjsage522/slotwatcher/pkg/errors"
)

// Default header values sent with every booking page request
const (
	DefaultUserAgent      = "Mozilla/5.0"
	DefaultAcceptLanguage = "fr-FR,fr;q=0.9"
	DefaultTimeout        = 20 * time.Second
)

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	// Spacing is the minimum gap between two requests. Zero disables it.
	Spacing time.Duration
}

// Fetcher issues GET requests with fixed browser-like headers
type Fetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
	limiter        *rate.Limiter
}

// NewFetcher creates a Fetcher, filling unset options with defaults
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = DefaultAcceptLanguage
	}

	f := &Fetcher{
		client:         &http.Client{Timeout: opts.Timeout},
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
	}
	if opts.Spacing > 0 {
		f.limiter = rate.NewLimiter(rate.Every(opts.Spacing), 1)
	}
	return f
}

// Fetch sends a GET request for the endpoint and returns the body converted
// to UTF-8. Transport failures, rate limiting and non-2xx statuses come back
// as *errors.PollError.
func (f *Fetcher) Fetch(ctx context.Context, label, url string) (io.Reader, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, errors.NewNetwork(label, "request spacing interrupted", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewNetwork(label, "failed to create request", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", f.acceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewNetwork(label, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, errors.NewRateLimit(label, resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStatus(label, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetwork(label, "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if strings.EqualFold(name, "utf-8") {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, errors.NewParsing(label, fmt.Sprintf("failed to convert %s body to UTF-8", name), err)
	}

	return &buf, nil
}
