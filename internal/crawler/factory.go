package crawler

import (
	"strings"

	"sjsage522/slotwatcher/config"
	"sjsage522/slotwatcher/logger"
	"sjsage522/slotwatcher/services/cache"
)

// CreateCrawlers creates one crawler per configured endpoint, in order
func CreateCrawlers(cfg *config.Config, fetcher PageFetcher, cacheSvc cache.CacheService) []Crawler {
	extractor := NewEventsExtractor()

	crawlers := make([]Crawler, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		c := NewPageCrawler(CrawlerConfig{
			Label:     ep.Label,
			URL:       ep.URL,
			CacheKey:  strings.ToLower(ep.Label) + "_rate_limited",
			BlockTime: cfg.RateLimitBlock,
			Extractor: extractor,
		}, fetcher, cacheSvc)
		crawlers = append(crawlers, c)

		logger.ForCrawler(ep.Label).Debug().Str("url", ep.URL).Msg("Crawler created")
	}

	return crawlers
}
