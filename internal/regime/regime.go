// Package regime serves per-symbol market regimes from a TTL cache, coalescing
// concurrent fetches of the same symbol and bounding fan-out to the backend.
package regime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/stockrec-portal/internal/cache"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/models"
)

const keyPrefix = "regime:"

// Fetcher loads a regime from the backend.
type Fetcher interface {
	Regime(ctx context.Context, symbol string) (*models.MarketRegime, error)
}

// Service is the regime cache front.
type Service struct {
	fetcher     Fetcher
	store       cache.Store
	ttl         time.Duration
	concurrency int
	sem         *semaphore.Weighted
	group       singleflight.Group
	logger      *common.Logger
}

// NewService creates a Service. concurrency caps in-flight backend requests.
func NewService(fetcher Fetcher, store cache.Store, ttl time.Duration, concurrency int, logger *common.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Service{
		fetcher:     fetcher,
		store:       store,
		ttl:         ttl,
		concurrency: concurrency,
		sem:         semaphore.NewWeighted(int64(concurrency)),
		logger:      logger,
	}
}

// Key returns the cache key for symbol.
func Key(symbol string) string {
	return keyPrefix + normalize(symbol)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Get returns the regime for symbol, from cache when fresh.
func (s *Service) Get(ctx context.Context, symbol string) (*models.MarketRegime, error) {
	symbol = normalize(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	if regime, ok := s.cached(ctx, symbol); ok {
		return regime, nil
	}

	// The shared fetch must not die with whichever caller started it.
	ch := s.group.DoChan(symbol, func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx), symbol)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		regime := *res.Val.(*models.MarketRegime)
		return &regime, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetMany fetches regimes for symbols with bounded concurrency. Duplicates are
// collapsed; a failing symbol lands in the error map and never fails the batch.
func (s *Service) GetMany(ctx context.Context, symbols []string) (map[string]*models.MarketRegime, map[string]error) {
	results := make(map[string]*models.MarketRegime)
	errs := make(map[string]error)

	var mu sync.Mutex
	seen := make(map[string]bool)

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, sym := range symbols {
		sym = normalize(sym)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true

		g.Go(func() error {
			regime, err := s.Get(ctx, sym)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[sym] = err
				return nil
			}
			results[sym] = regime
			return nil
		})
	}
	g.Wait()

	if len(errs) > 0 {
		s.logger.Warn().Int("failed", len(errs)).Int("ok", len(results)).Msg("Some regime fetches failed")
	}
	return results, errs
}

// Invalidate drops the cached regime for symbol.
func (s *Service) Invalidate(ctx context.Context, symbol string) error {
	return s.store.Delete(ctx, Key(symbol))
}

// InvalidateAll drops every cached regime.
func (s *Service) InvalidateAll(ctx context.Context) error {
	return s.store.InvalidatePrefix(ctx, keyPrefix)
}

func (s *Service) cached(ctx context.Context, symbol string) (*models.MarketRegime, bool) {
	b, ok, err := s.store.Get(ctx, Key(symbol))
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Regime cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var regime models.MarketRegime
	if err := json.Unmarshal(b, &regime); err != nil {
		s.store.Delete(ctx, Key(symbol))
		return nil, false
	}
	return &regime, true
}

func (s *Service) fetch(ctx context.Context, symbol string) (*models.MarketRegime, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	start := time.Now()
	regime, err := s.fetcher.Regime(ctx, symbol)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Regime fetch failed")
		return nil, fmt.Errorf("regime %s: %w", symbol, err)
	}

	b, err := json.Marshal(regime)
	if err == nil {
		if err := s.store.Set(ctx, Key(symbol), b, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Regime cache write failed")
		}
	}
	s.logger.Debug().Str("symbol", symbol).Dur("elapsed", time.Since(start)).Msg("Regime fetched")
	return regime, nil
}
