package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

// Source lists the backend's over-10 losers.
type Source interface {
	Over10Losers(ctx context.Context) ([]models.BigCapLoser, error)
}

// Monitor polls the over-10 list, feeds the tracker and publishes alerts.
type Monitor struct {
	source   Source
	tracker  *Tracker
	broker   *Broker
	interval time.Duration
	logger   *common.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a stopped monitor.
func NewMonitor(source Source, tracker *Tracker, broker *Broker, interval time.Duration, logger *common.Logger) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Monitor{
		source:   source,
		tracker:  tracker,
		broker:   broker,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the monitor in the background until Stop or ctx ends.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		m.run(ctx)
	}(m.done)

	m.logger.Info().Dur("interval", m.interval).Msg("Alert monitor started")
}

// Stop halts the monitor and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.logger.Info().Msg("Alert monitor stopped")
}

func (m *Monitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if _, err := m.Check(ctx); err != nil && ctx.Err() == nil {
			m.logger.Warn().Err(err).Msg("Alert check failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Check performs one poll and returns the alert it published, if any.
func (m *Monitor) Check(ctx context.Context) (*Alert, error) {
	losers, err := m.source.Over10Losers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch over-10 losers: %w", err)
	}

	var symbols []string
	for _, l := range losers {
		if views.IsOver10(l.PercentChange.Decimal) {
			symbols = append(symbols, l.Symbol)
		}
	}

	fired, previous, err := m.tracker.Observe(ctx, len(symbols))
	if err != nil {
		return nil, err
	}
	if !fired {
		return nil, nil
	}

	a := Alert{
		ID:       uuid.New().String(),
		Count:    len(symbols),
		Previous: previous,
		Symbols:  symbols,
		Message:  fmt.Sprintf("%d big-cap stocks are down 10%% or more (was %d)", len(symbols), previous),
		At:       time.Now().UTC(),
	}
	m.broker.Publish(a)
	m.logger.Info().Int("count", a.Count).Int("previous", previous).Strs("symbols", symbols).Msg("Over-10 alert published")
	return &a, nil
}
