// Package poller refreshes the console's lists in the background.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/cdcadmin/internal/metrics"
	"github.com/edvin/cdcadmin/internal/store"
)

const (
	MinInterval     = 10 * time.Second
	MaxInterval     = 30 * time.Second
	DefaultInterval = 15 * time.Second
)

// Task is one named refresh.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher receives refresh failures.
type Dispatcher interface {
	Dispatch(cmd store.Command) error
}

// Poller runs every task once on Start and then once per interval until
// Stop. A round waits for all of its tasks; ticks that arrive while a round
// is running are dropped. Failed tasks are not retried before the next tick.
type Poller struct {
	tasks    []Task
	interval time.Duration
	store    Dispatcher
	logger   zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// ClampInterval bounds d to [MinInterval, MaxInterval]; zero selects the
// default.
func ClampInterval(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultInterval
	case d < MinInterval:
		return MinInterval
	case d > MaxInterval:
		return MaxInterval
	}
	return d
}

// New creates a stopped poller. interval is used as given; callers bound it
// with ClampInterval.
func New(logger zerolog.Logger, st Dispatcher, interval time.Duration, tasks ...Task) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		tasks:    tasks,
		interval: interval,
		store:    st,
		logger:   logger.With().Str("component", "poller").Logger(),
	}
}

// Start begins polling. Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.started = true
	go p.loop(ctx, p.done)
}

// Stop cancels in-flight refreshes and waits for the loop to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	done := p.done
	p.started = false
	p.mu.Unlock()
	<-done
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.logger.Info().Dur("interval", p.interval).Int("tasks", len(p.tasks)).Msg("polling started")
	p.round(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("polling stopped")
			return
		case <-ticker.C:
			p.round(ctx)
		}
	}
}

// round runs every task concurrently. Task failures are recorded and do not
// cancel the others.
func (p *Poller) round(ctx context.Context) {
	var g errgroup.Group
	for _, t := range p.tasks {
		g.Go(func() error {
			p.runTask(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
}

// RunOnce runs a single round synchronously.
func (p *Poller) RunOnce(ctx context.Context) {
	p.round(ctx)
}

func (p *Poller) runTask(ctx context.Context, t Task) {
	start := time.Now()
	err := t.Run(ctx)
	if err == nil {
		metrics.RefreshSucceeded(t.Name, time.Now())
		p.logger.Debug().Str("task", t.Name).Dur("duration", time.Since(start)).Msg("refresh complete")
		return
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return
	}

	metrics.RefreshFailed(t.Name)
	p.logger.Warn().Err(err).Str("task", t.Name).Msg("refresh failed")
	if derr := p.store.Dispatch(store.RefreshFailed{Task: t.Name, Err: err.Error()}); derr != nil {
		p.logger.Debug().Err(derr).Str("task", t.Name).Msg("record refresh failure")
	}
}
