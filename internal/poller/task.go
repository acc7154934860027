package poller

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/stockrec-portal/internal/common"
)

// Status is a snapshot of a Task.
type Status struct {
	Name       string    `json:"name"`
	Running    bool      `json:"running"`
	Generation uint64    `json:"generation"`
	Outcome    Outcome   `json:"outcome,omitempty"`
	Attempts   int       `json:"attempts"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

// Task is a named, restartable background poll. Starting it again cancels the
// previous run; results of a superseded run are dropped.
type Task struct {
	name   string
	logger *common.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	status Status
}

// NewTask creates an idle task.
func NewTask(name string, logger *common.Logger) *Task {
	return &Task{
		name:   name,
		logger: logger,
		status: Status{Name: name},
	}
}

// Start launches a new run and returns its generation. parent should outlive
// the request that triggered it.
func (t *Task) Start(parent context.Context, opts Options, check CheckFunc) uint64 {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.status = Status{
		Name:       t.name,
		Running:    true,
		Generation: gen,
		StartedAt:  time.Now(),
	}
	t.mu.Unlock()

	t.logger.Info().Str("task", t.name).Int64("generation", int64(gen)).Msg("Poll task started")

	go func() {
		defer close(done)
		defer cancel()

		res := Run(ctx, opts, func(ctx context.Context) (bool, error) {
			ok, err := check(ctx)
			t.mu.Lock()
			if t.gen == gen {
				t.status.Attempts++
				if err != nil {
					t.status.LastError = err.Error()
				}
			}
			t.mu.Unlock()
			return ok, err
		})

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen != gen {
			return
		}
		t.status.Running = false
		t.status.Outcome = res.Outcome
		t.status.FinishedAt = time.Now()
		t.cancel = nil

		t.logger.Info().
			Str("task", t.name).
			Int64("generation", int64(gen)).
			Str("outcome", string(res.Outcome)).
			Int("attempts", res.Attempts).
			Dur("elapsed", res.Elapsed).
			Msg("Poll task finished")
	}()

	return gen
}

// Stop cancels the current run, if any.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}

// Wait blocks until the current run finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the task.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
