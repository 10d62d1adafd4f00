package publisher

import (
	"time"

	"sjsage522/slotwatcher/internal/crawler"
)

// Publisher represents a service for publishing new slot events
type Publisher interface {
	// Publish publishes a message to a stream under the given key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

// SlotEvent is the message published for every newly detected slot
type SlotEvent struct {
	Endpoint   string    `json:"endpoint"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	ID         string    `json:"id,omitempty"`
	Link       string    `json:"link"`
	DetectedAt time.Time `json:"detected_at"`
}

// NewSlotEvent builds the event for a slot found on an endpoint
func NewSlotEvent(label, link string, slot crawler.Slot, detectedAt time.Time) SlotEvent {
	return SlotEvent{
		Endpoint:   label,
		Start:      slot.Start,
		End:        slot.End,
		ID:         slot.ID,
		Link:       link,
		DetectedAt: detectedAt,
	}
}
