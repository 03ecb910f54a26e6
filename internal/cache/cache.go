// Package cache stores serialized catalog lists between requests
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Noop is used when no cache is configured; every Get misses
type Noop struct{}

// NewNoop returns a cache that stores nothing
func NewNoop() Noop {
	return Noop{}
}

// Get always misses
func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

// Set discards the value
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing
func (Noop) Delete(context.Context, ...string) error { return nil }

// Ping always succeeds
func (Noop) Ping(context.Context) error { return nil }

// Close does nothing
func (Noop) Close() error { return nil }
