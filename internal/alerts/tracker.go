// Package alerts notifies subscribers when the number of big-cap stocks down
// 10% or more rises.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/bobmcallan/stockrec-portal/internal/interfaces"
)

// StateKey holds the last observed over-10 count.
const StateKey = "alerts:over10:last_count"

// Tracker decides when a new over-10 crossing happened. The last count is
// persisted so a restart does not re-fire for a count already seen.
type Tracker struct {
	kv interfaces.KeyValueStorage

	mu     sync.Mutex
	last   int
	loaded bool
}

// NewTracker creates a tracker backed by kv.
func NewTracker(kv interfaces.KeyValueStorage) *Tracker {
	return &Tracker{kv: kv}
}

// Observe records count and reports whether it rose above the previous
// observation. A repeated or lower count never fires; a lower count re-arms
// the tracker for the next rise.
func (t *Tracker) Observe(ctx context.Context, count int) (fired bool, previous int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		if err := t.load(ctx); err != nil {
			return false, 0, err
		}
	}

	previous = t.last
	if count == previous {
		return false, previous, nil
	}

	if err := t.kv.Set(ctx, StateKey, strconv.Itoa(count)); err != nil {
		return false, previous, fmt.Errorf("failed to persist alert state: %w", err)
	}
	t.last = count
	return count > previous, previous, nil
}

// Last returns the last observed count.
func (t *Tracker) Last(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		if err := t.load(ctx); err != nil {
			return 0, err
		}
	}
	return t.last, nil
}

func (t *Tracker) load(ctx context.Context) error {
	raw, err := t.kv.Get(ctx, StateKey)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		t.last = 0
	case err != nil:
		return fmt.Errorf("failed to load alert state: %w", err)
	default:
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			n = 0
		}
		t.last = n
	}
	t.loaded = true
	return nil
}
