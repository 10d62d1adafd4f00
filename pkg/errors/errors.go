package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport errors (timeouts, refused connections)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeStatus represents a non-success HTTP status
	ErrorTypeStatus ErrorType = "status"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeParsing represents page decoding errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeNotify represents notification dispatch errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PollError represents an error raised while polling one endpoint
type PollError struct {
	Type       ErrorType
	Endpoint   string
	Message    string
	StatusCode int
	Err        error
	Time       time.Time
}

// Error implements the error interface
func (e *PollError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Endpoint, e.Message)
}

// Unwrap returns the underlying error
func (e *PollError) Unwrap() error {
	return e.Err
}

// New creates a new PollError
func New(errType ErrorType, endpoint, message string, err error) *PollError {
	return &PollError{
		Type:     errType,
		Endpoint: endpoint,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(endpoint, message string, err error) *PollError {
	return New(ErrorTypeNetwork, endpoint, message, err)
}

// NewStatus creates a new unexpected-status error
func NewStatus(endpoint string, statusCode int) *PollError {
	e := New(ErrorTypeStatus, endpoint, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
	e.StatusCode = statusCode
	return e
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(endpoint string, retryAfter string) *PollError {
	message := "rate limited"
	if retryAfter != "" {
		message = fmt.Sprintf("rate limited; retry after %s", retryAfter)
	}
	return New(ErrorTypeRateLimit, endpoint, message, nil)
}

// NewParsing creates a new parsing error
func NewParsing(endpoint, message string, err error) *PollError {
	return New(ErrorTypeParsing, endpoint, message, err)
}

// NewNotify creates a new notification error
func NewNotify(channel, message string, err error) *PollError {
	return New(ErrorTypeNotify, channel, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(endpoint, message string, err error) *PollError {
	return New(ErrorTypePublisher, endpoint, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PollError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// Is reports whether err is a PollError of the given type
func Is(err error, errType ErrorType) bool {
	for err != nil {
		if pe, ok := err.(*PollError); ok && pe.Type == errType {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
