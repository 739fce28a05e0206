// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the small caching layer the console uses to avoid
// hammering the backend: profile snapshots between renders and the admin
// overview's client statistics. Values are []byte so the memory and Redis
// implementations are interchangeable.
package cache

import (
	"context"
	"time"
)

// Cache is a thread-safe key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key, or ErrMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the implementation default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error
}

// Error is a sentinel error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrMiss indicates the key was not found or has expired.
	ErrMiss Error = "cache miss"

	// ErrClosed indicates the cache has been closed.
	ErrClosed Error = "cache closed"
)

// Sweeper is implemented by caches that support explicit removal of
// expired entries; the cron job in main calls it periodically.
type Sweeper interface {
	Sweep()
}
