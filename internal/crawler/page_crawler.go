package crawler

import (
	"context"
	"io"

	"sjsage522/slotwatcher/logger"
	"sjsage522/slotwatcher/services/cache"
)

// PageCrawler fetches one booking page and runs its Extractor over it
type PageCrawler struct {
	BaseCrawler
	Extractor Extractor
	fetchFunc func(ctx context.Context) (io.Reader, error)
}

// NewPageCrawler creates a crawler for one endpoint
func NewPageCrawler(config CrawlerConfig, fetcher PageFetcher, cacheSvc cache.CacheService) *PageCrawler {
	extractor := config.Extractor
	if extractor == nil {
		extractor = NewEventsExtractor()
	}

	c := &PageCrawler{
		BaseCrawler: BaseCrawler{
			Label:     config.Label,
			URL:       config.URL,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: config.BlockTime,
			Fetcher:   fetcher,
		},
		Extractor: extractor,
	}
	c.fetchFunc = c.fetchWithCache

	return c
}

// FetchSlots fetches the page and extracts its slots
func (c *PageCrawler) FetchSlots(ctx context.Context) ([]Slot, error) {
	reader, err := c.fetchFunc(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.readBody(reader)
	if err != nil {
		return nil, err
	}

	slots := c.Extractor.Extract(body)
	logger.ForCrawler(c.Label).Debug().
		Int("bytes", len(body)).
		Int("slots", len(slots)).
		Msg("Page extracted")

	return slots, nil
}
