// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache keeps completed public form views in Redis. Noop is used when no
// REDIS_URL is configured.
package cache
