package cache

import (
	"context"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/common"
)

// Options selects and sizes the cache backend.
type Options struct {
	Backend    string // "memory" or "redis"
	RedisURL   string
	MaxEntries int
	Namespace  string
}

// New returns a RedisStore when the redis backend is configured and reachable,
// otherwise a MemoryStore.
func New(ctx context.Context, opts Options, logger *common.Logger) Store {
	if strings.EqualFold(opts.Backend, "redis") {
		namespace := opts.Namespace
		if namespace == "" {
			namespace = "stockrec:"
		}
		store, err := NewRedisStore(ctx, opts.RedisURL, namespace)
		if err == nil {
			logger.Info().Str("backend", "redis").Msg("Cache initialized")
			return store
		}
		logger.Warn().Err(err).Msg("Redis cache unavailable, falling back to memory")
	}

	logger.Info().Str("backend", "memory").Int("max_entries", opts.MaxEntries).Msg("Cache initialized")
	return NewMemoryStore(opts.MaxEntries)
}
