// Package poller keeps a view approximately current by re-fetching it on a
// fixed interval.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the refresh period used when none is given.
const DefaultInterval = 10 * time.Second

// Ticker abstracts time.Ticker so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

// Option configures a Synchronizer.
type Option func(*settings)

type settings struct {
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	onError   func(error)
}

// WithInterval sets the refresh period.
func WithInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTicker replaces the ticker factory.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(s *settings) { s.newTicker = newTicker }
}

// WithErrorHandler observes fetch failures. They are otherwise only logged.
func WithErrorHandler(fn func(error)) Option {
	return func(s *settings) { s.onError = fn }
}

// Synchronizer fetches a value immediately on Start and then on every tick,
// handing results to apply. Ticks do not wait for earlier fetches, so fetches
// may overlap; each carries a generation and only a result newer than the
// last applied one is delivered. Nothing is delivered after Stop returns.
//
// apply runs on the fetch goroutine, one call at a time, and must not call
// Stop.
type Synchronizer[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	apply    func(T)
	settings settings

	deliverMu sync.Mutex

	mu      sync.Mutex
	active  bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	issued  uint64
	applied uint64
}

// New returns a stopped Synchronizer.
func New[T any](fetch func(ctx context.Context) (T, error), apply func(T), opts ...Option) *Synchronizer[T] {
	s := settings{interval: DefaultInterval, newTicker: newRealTicker}
	for _, opt := range opts {
		opt(&s)
	}
	return &Synchronizer[T]{fetch: fetch, apply: apply, settings: s}
}

// Start activates the synchronizer. It is a no-op if already active.
// Cancelling ctx deactivates it the same way Stop does.
func (s *Synchronizer[T]) Start(ctx context.Context) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	// Results of fetches issued before this activation are stale.
	s.applied = s.issued
	ticker := s.settings.newTicker(s.settings.interval)
	runCtx, done := s.ctx, s.done
	s.mu.Unlock()

	s.Refresh()
	go s.loop(runCtx, ticker, done)
}

func (s *Synchronizer[T]) loop(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Parent cancellation deactivates just like Stop. A newer
			// activation owns a different done channel and is left alone.
			s.mu.Lock()
			if s.active && s.done == done {
				s.active = false
				s.cancel()
			}
			s.mu.Unlock()
			return
		case <-ticker.C():
			s.Refresh()
		}
	}
}

// Refresh issues a fetch now, outside the regular schedule. It does nothing
// while the synchronizer is stopped.
func (s *Synchronizer[T]) Refresh() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.issued++
	gen, ctx := s.issued, s.ctx
	s.mu.Unlock()

	go func() {
		v, err := s.fetch(ctx)
		s.deliver(ctx, gen, v, err)
	}()
}

func (s *Synchronizer[T]) deliver(ctx context.Context, gen uint64, v T, err error) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if !s.active || ctx.Err() != nil || gen <= s.applied {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.mu.Unlock()
		logrus.WithError(err).WithField("generation", gen).Debug("poll failed")
		if s.settings.onError != nil {
			s.settings.onError(err)
		}
		return
	}
	s.applied = gen
	s.mu.Unlock()

	s.apply(v)
}

// Stop deactivates the synchronizer and waits for the ticker loop and any
// delivery in progress to finish. In-flight fetches are cancelled and their
// results discarded.
func (s *Synchronizer[T]) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	// Wait out a delivery that passed the active check before we flipped it.
	s.deliverMu.Lock()
	s.deliverMu.Unlock()
}

// Active reports whether the synchronizer is running.
func (s *Synchronizer[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
