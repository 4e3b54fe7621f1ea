package token

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bazar/internal/platform/metrics"
	"bazar/pkg/platform/sentinel"
)

// InMemoryStore keeps values for the life of the process, which is the life of
// the storefront session.
type InMemoryStore struct {
	mu      sync.RWMutex
	values  map[Kind]string
	metrics *metrics.Metrics
}

// Option configures a store.
type Option func(*options)

type options struct {
	metrics *metrics.Metrics
}

// WithMetrics records store latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	o := applyOptions(opts)
	return &InMemoryStore{
		values:  make(map[Kind]string),
		metrics: o.metrics,
	}
}

// Set stores value under kind. An empty value removes the key.
func (s *InMemoryStore) Set(_ context.Context, kind Kind, value string) error {
	defer s.observe("set", time.Now())
	if !kind.Valid() {
		return fmt.Errorf("unknown token kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.values, kind)
		return nil
	}
	s.values[kind] = value
	return nil
}

// SetMany stores all values under a single lock so readers never observe a
// partial write.
func (s *InMemoryStore) SetMany(_ context.Context, values map[Kind]string) error {
	defer s.observe("set_many", time.Now())
	for kind := range values {
		if !kind.Valid() {
			return fmt.Errorf("unknown token kind %q", kind)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for kind, value := range values {
		if value == "" {
			delete(s.values, kind)
			continue
		}
		s.values[kind] = value
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, kind Kind) (string, error) {
	defer s.observe("get", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[kind]
	if !ok {
		return "", fmt.Errorf("%s: %w", kind, sentinel.ErrNotFound)
	}
	return value, nil
}

func (s *InMemoryStore) Clear(_ context.Context, kinds ...Kind) error {
	defer s.observe("clear", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range kinds {
		delete(s.values, kind)
	}
	return nil
}

func (s *InMemoryStore) ClearAll(_ context.Context) error {
	defer s.observe("clear_all", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[Kind]string)
	return nil
}

func (s *InMemoryStore) observe(op string, start time.Time) {
	s.metrics.ObserveTokenStore(op, time.Since(start).Seconds())
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
