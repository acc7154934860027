// Package poller runs "check every N seconds until done or deadline" loops as
// cancellable tasks.
package poller

import (
	"context"
	"time"
)

// Outcome is how a poll loop ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeTimedOut  Outcome = "timed_out"
	OutcomeCancelled Outcome = "cancelled"
)

// Options configures a poll loop.
type Options struct {
	// Interval between checks. Defaults to 5s.
	Interval time.Duration
	// MaxWait bounds the whole loop. Zero means no deadline.
	MaxWait time.Duration
}

// CheckFunc reports whether the awaited condition holds. Errors are recorded
// and the loop continues on the next tick.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Result summarises a finished loop.
type Result struct {
	Outcome  Outcome
	Attempts int
	LastErr  error
	Elapsed  time.Duration
}

// Run calls check immediately and then every opts.Interval until it reports
// done, opts.MaxWait elapses, or ctx is cancelled.
func Run(ctx context.Context, opts Options, check CheckFunc) Result {
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	start := time.Now()
	loopCtx := ctx
	if opts.MaxWait > 0 {
		var cancel context.CancelFunc
		loopCtx, cancel = context.WithTimeout(ctx, opts.MaxWait)
		defer cancel()
	}

	var res Result
	finish := func(o Outcome) Result {
		res.Outcome = o
		res.Elapsed = time.Since(start)
		return res
	}
	stopped := func() Outcome {
		if ctx.Err() != nil {
			return OutcomeCancelled
		}
		return OutcomeTimedOut
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if loopCtx.Err() != nil {
			return finish(stopped())
		}

		res.Attempts++
		done, err := check(loopCtx)
		if err != nil {
			res.LastErr = err
		}
		if done && err == nil {
			return finish(OutcomeCompleted)
		}

		select {
		case <-loopCtx.Done():
			return finish(stopped())
		case <-ticker.C:
		}
	}
}
