// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"
)

// Config selects and sizes the cache backend.
type Config struct {
	RedisURL   string // empty = in-process memory cache
	Prefix     string
	DefaultTTL time.Duration
	MaxEntries int
}

// New creates a Redis cache when a URL is configured, otherwise a memory
// cache.
func New(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.RedisURL != "" {
		return NewRedis(ctx, RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
	}
	return NewMemory(MemoryOptions{
		DefaultTTL: cfg.DefaultTTL,
		MaxEntries: cfg.MaxEntries,
	}), nil
}
