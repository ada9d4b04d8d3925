// Package store holds the console's loaded data behind a single goroutine.
// Writers send commands, readers receive copies.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/cdcadmin/internal/metrics"
)

var (
	// ErrInProgress is returned by Begin while the same action is running.
	ErrInProgress = errors.New("action already in progress")
	ErrClosed     = errors.New("store closed")
)

type Store struct {
	ops    chan func(*owner)
	done   chan struct{}
	logger zerolog.Logger
	now    func() time.Time
}

// owner is only touched from the run goroutine.
type owner struct {
	state    State
	inflight map[string]struct{}
	subs     map[int]chan State
	nextSub  int
}

type Option func(*Store)

// WithClock overrides the clock used to stamp updates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New starts a store. It runs until ctx is done.
func New(ctx context.Context, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		ops:    make(chan func(*owner)),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "store").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run(ctx)
	return s
}

func (s *Store) run(ctx context.Context) {
	o := &owner{
		state:    newState(),
		inflight: map[string]struct{}{},
		subs:     map[int]chan State{},
	}
	defer func() {
		for _, ch := range o.subs {
			close(ch)
		}
		close(s.done)
	}()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Msg("store stopped")
			return
		case op := <-s.ops:
			op(o)
		}
	}
}

// exec runs fn on the owner goroutine and waits for it.
func (s *Store) exec(fn func(*owner)) error {
	finished := make(chan struct{})
	select {
	case s.ops <- func(o *owner) { fn(o); close(finished) }:
	case <-s.done:
		return ErrClosed
	}
	<-finished
	return nil
}

// Dispatch applies cmd and notifies subscribers. It returns once the
// command is visible to Snapshot.
func (s *Store) Dispatch(cmd Command) error {
	return s.exec(func(o *owner) {
		o.state.UpdatedAt = s.now()
		cmd.apply(&o.state)
		o.state.Version++
		metrics.SetStoreVersion(o.state.Version)
		for _, ch := range o.subs {
			publish(ch, o.state.clone())
		}
	})
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	var out State
	if err := s.exec(func(o *owner) { out = o.state.clone() }); err != nil {
		return newState()
	}
	return out
}

// Subscribe returns a channel that receives the current state and then a
// copy after every change. Slow readers only see the latest state. The
// channel is closed by cancel or when the store stops.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	var id int
	if err := s.exec(func(o *owner) {
		id = o.nextSub
		o.nextSub++
		o.subs[id] = ch
		ch <- o.state.clone()
	}); err != nil {
		close(ch)
		return ch, func() {}
	}
	cancel := func() {
		_ = s.exec(func(o *owner) {
			if c, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Begin claims key for a single in-flight action. Callers must End the key
// once the action finishes.
func (s *Store) Begin(key string) error {
	var busy bool
	if err := s.exec(func(o *owner) {
		if _, busy = o.inflight[key]; !busy {
			o.inflight[key] = struct{}{}
		}
	}); err != nil {
		return err
	}
	if busy {
		return ErrInProgress
	}
	return nil
}

func (s *Store) End(key string) {
	_ = s.exec(func(o *owner) { delete(o.inflight, key) })
}

// Done is closed once the store has stopped.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

func publish(ch chan State, st State) {
	select {
	case ch <- st:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
