package crawler

import (
	"context"
	"io"
	"strings"
	"time"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// MockFetcher serves a canned body or error and counts requests
type MockFetcher struct {
	body  string
	err   error
	calls int
}

var _ PageFetcher = (*MockFetcher)(nil)

func (m *MockFetcher) Fetch(ctx context.Context, label, url string) (io.Reader, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return strings.NewReader(m.body), nil
}
