package crawler

import (
	"context"
	"io"
	"time"
)

// Slot is an appointment opportunity found on a booking page
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	ID        string `json:"id,omitempty"`
	URLSuffix string `json:"url_suffix,omitempty"`
}

// SlotKey identifies a slot across polls. ID and URLSuffix are not part of it.
type SlotKey struct {
	Label string
	Start string
	End   string
}

// Key returns the dedup key of the slot on the given endpoint
func (s Slot) Key(label string) SlotKey {
	return SlotKey{Label: label, Start: s.Start, End: s.End}
}

// Crawler interface defines the contract for a monitored booking page
type Crawler interface {
	// FetchSlots fetches the page and returns the slots it currently offers
	FetchSlots(ctx context.Context) ([]Slot, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetLabel returns the endpoint label
	GetLabel() string

	// GetURL returns the booking page URL
	GetURL() string
}

// Extractor turns raw page text into slots. Implementations never fail: a
// page they cannot read simply yields no slots.
type Extractor interface {
	Extract(body string) []Slot
}

// PageFetcher issues the HTTP GET for a page and returns a UTF-8 body
type PageFetcher interface {
	Fetch(ctx context.Context, label, url string) (io.Reader, error)
}

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	Label     string
	URL       string
	CacheKey  string
	BlockTime time.Duration
	Extractor Extractor
}
