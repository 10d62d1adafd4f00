package crawler

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"sjsage522/slotwatcher/logger"
	"sjsage522/slotwatcher/pkg/errors"
	"sjsage522/slotwatcher/services/cache"
)

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	Label     string
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Fetcher   PageFetcher
}

// fetchWithCache fetches the page unless the endpoint is blocked after a
// rate limit. A fresh rate limit response starts a new block.
func (c *BaseCrawler) fetchWithCache(ctx context.Context) (io.Reader, error) {
	if c.blocked() {
		return nil, errors.New(errors.ErrorTypeRateLimit, c.Label,
			fmt.Sprintf("skipping request, blocked for up to %s after rate limiting", c.BlockTime), nil)
	}

	body, err := c.Fetcher.Fetch(ctx, c.Label, c.URL)
	if err != nil {
		if errors.Is(err, errors.ErrorTypeRateLimit) {
			c.block()
		}
		return nil, err
	}

	return body, nil
}

func (c *BaseCrawler) blocked() bool {
	if c.CacheSvc == nil || c.CacheKey == "" {
		return false
	}
	_, err := c.CacheSvc.Get(c.CacheKey)
	return err == nil
}

func (c *BaseCrawler) block() {
	if c.CacheSvc == nil || c.CacheKey == "" || c.BlockTime <= 0 {
		return
	}
	value := []byte(strconv.Itoa(int(c.BlockTime / time.Second)))
	if err := c.CacheSvc.Set(c.CacheKey, value, c.BlockTime); err != nil {
		logger.ForCrawler(c.Label).Warn().Err(err).Msg("Failed to store rate limit block")
		return
	}
	logger.ForCrawler(c.Label).Warn().Dur("block", c.BlockTime).Msg("Rate limited, pausing requests")
}

// readBody drains the fetched page into a string
func (c *BaseCrawler) readBody(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewParsing(c.Label, "failed to read page", err)
	}
	return string(data), nil
}

// GetName returns the crawler's name for logging
func (c *BaseCrawler) GetName() string {
	return c.Label + "Crawler"
}

// GetLabel returns the endpoint label
func (c *BaseCrawler) GetLabel() string {
	return c.Label
}

// GetURL returns the booking page URL
func (c *BaseCrawler) GetURL() string {
	return c.URL
}
