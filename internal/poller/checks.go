package poller

import (
	"context"
	"time"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// SummaryChanged reports done once the losers summary's generated_at differs
// from baseline.
func SummaryChanged(fetch func(context.Context) (*models.LosersSummary, error), baseline time.Time) CheckFunc {
	return func(ctx context.Context) (bool, error) {
		s, err := fetch(ctx)
		if err != nil {
			return false, err
		}
		return !s.GeneratedAt.IsZero() && !s.GeneratedAt.Equal(baseline), nil
	}
}

// CheckedSince reports done once every enabled connector has a last_check at
// or after since. An empty list is never done; a list with nothing enabled is.
func CheckedSince(fetch func(context.Context) ([]models.ConnectorStatus, error), since time.Time) CheckFunc {
	// Backend clocks are only second-precise.
	since = since.Truncate(time.Second)
	return func(ctx context.Context) (bool, error) {
		items, err := fetch(ctx)
		if err != nil {
			return false, err
		}
		if len(items) == 0 {
			return false, nil
		}
		for _, c := range items {
			if !c.Enabled || c.Status == models.ConnectorDisabled {
				continue
			}
			if c.LastCheck.IsZero() || c.LastCheck.Before(since) {
				return false, nil
			}
		}
		return true, nil
	}
}
