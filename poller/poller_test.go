package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.once.Do(func() { close(t.stopped) }) }
func (t *manualTicker) tick()               { t.ch <- time.Now() }

type result struct {
	v   int
	err error
}

// gatedFetch hands out one reply channel per call so tests decide when and
// in which order fetches complete.
type gatedFetch struct {
	mu    sync.Mutex
	calls []chan result
	began chan int
}

func newGatedFetch() *gatedFetch { return &gatedFetch{began: make(chan int, 16)} }

func (g *gatedFetch) fetch(ctx context.Context) (int, error) {
	g.mu.Lock()
	ch := make(chan result, 1)
	g.calls = append(g.calls, ch)
	n := len(g.calls)
	g.mu.Unlock()
	g.began <- n
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (g *gatedFetch) reply(call int, r result) {
	g.mu.Lock()
	ch := g.calls[call-1]
	g.mu.Unlock()
	ch <- r
}

func (g *gatedFetch) waitCall(t *testing.T) int {
	t.Helper()
	select {
	case n := <-g.began:
		return n
	case <-time.After(time.Second):
		t.Fatal("fetch was not issued")
	}
	return 0
}

type sink struct {
	mu  sync.Mutex
	got []int
	ch  chan int
}

func newSink() *sink { return &sink{ch: make(chan int, 16)} }

func (s *sink) apply(v int) {
	s.mu.Lock()
	s.got = append(s.got, v)
	s.mu.Unlock()
	s.ch <- v
}

func (s *sink) wait(t *testing.T) int {
	t.Helper()
	select {
	case v := <-s.ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("nothing applied")
	}
	return 0
}

func (s *sink) values() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.got...)
}

func setup(opts ...Option) (*Synchronizer[int], *gatedFetch, *sink, *manualTicker) {
	g, out, tk := newGatedFetch(), newSink(), newManualTicker()
	opts = append(opts, WithTicker(func(time.Duration) Ticker { return tk }))
	return New(g.fetch, out.apply, opts...), g, out, tk
}

func TestFetchesImmediatelyThenOnTick(t *testing.T) {
	s, g, out, tk := setup()
	s.Start(context.Background())
	defer s.Stop()

	require.Equal(t, 1, g.waitCall(t))
	g.reply(1, result{v: 10})
	assert.Equal(t, 10, out.wait(t))

	tk.tick()
	require.Equal(t, 2, g.waitCall(t))
	g.reply(2, result{v: 20})
	assert.Equal(t, 20, out.wait(t))
}

func TestStaleResultIsDiscarded(t *testing.T) {
	s, g, out, tk := setup()
	s.Start(context.Background())
	defer s.Stop()

	g.waitCall(t)
	tk.tick()
	g.waitCall(t)

	// The newer fetch lands first; the older one must not overwrite it.
	g.reply(2, result{v: 2})
	assert.Equal(t, 2, out.wait(t))
	g.reply(1, result{v: 1})

	tk.tick()
	g.waitCall(t)
	g.reply(3, result{v: 3})
	assert.Equal(t, 3, out.wait(t))

	assert.Equal(t, []int{2, 3}, out.values())
}

func TestErrorsAreSilentAndSuperseded(t *testing.T) {
	var (
		mu     sync.Mutex
		failed []error
	)
	s, g, out, tk := setup(WithErrorHandler(func(err error) {
		mu.Lock()
		failed = append(failed, err)
		mu.Unlock()
	}))
	s.Start(context.Background())
	defer s.Stop()

	g.waitCall(t)
	g.reply(1, result{err: errors.New("offline")})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, out.values())

	tk.tick()
	g.waitCall(t)
	g.reply(2, result{v: 7})
	assert.Equal(t, 7, out.wait(t))

	mu.Lock()
	defer mu.Unlock()
	assert.EqualError(t, failed[0], "offline")
	assert.Equal(t, []int{7}, out.values())
}

func TestStopDiscardsInFlight(t *testing.T) {
	s, g, out, tk := setup()
	s.Start(context.Background())

	g.waitCall(t)
	s.Stop()
	assert.False(t, s.Active())

	select {
	case <-tk.stopped:
	default:
		t.Fatal("ticker still running after Stop")
	}

	// Reply channel is buffered; the fetch already saw ctx.Done.
	g.reply(1, result{v: 1})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, out.values())

	s.Refresh()
	select {
	case <-g.began:
		t.Fatal("refresh issued a fetch while stopped")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestRestartIgnoresPreviousActivation(t *testing.T) {
	g, out := newGatedFetch(), newSink()
	var tickers []*manualTicker
	s := New(g.fetch, out.apply, WithTicker(func(time.Duration) Ticker {
		tk := newManualTicker()
		tickers = append(tickers, tk)
		return tk
	}))

	s.Start(context.Background())
	g.waitCall(t)
	s.Stop()

	s.Start(context.Background())
	defer s.Stop()
	require.Equal(t, 2, g.waitCall(t))
	g.reply(2, result{v: 42})
	assert.Equal(t, 42, out.wait(t))
	assert.Len(t, tickers, 2)
}

func TestContextCancellationEndsLoop(t *testing.T) {
	s, g, _, tk := setup()
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	g.waitCall(t)
	cancel()

	select {
	case <-tk.stopped:
	case <-time.After(time.Second):
		t.Fatal("ticker not stopped after cancel")
	}
	assert.False(t, s.Active())
	s.Stop()
}

func TestParentCancelDeactivates(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	out := newSink()
	var tickers []*manualTicker
	// The first fetch ignores its context and finishes only after cancellation.
	s := New(func(context.Context) (int, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			<-release
		}
		return int(n), nil
	}, out.apply, WithTicker(func(time.Duration) Ticker {
		tk := newManualTicker()
		tickers = append(tickers, tk)
		return tk
	}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-tickers[0].stopped:
	case <-time.After(time.Second):
		t.Fatal("ticker not stopped after cancel")
	}
	assert.False(t, s.Active())

	close(release)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, out.values())

	s.Start(context.Background())
	defer s.Stop()
	assert.True(t, s.Active())
	assert.Equal(t, 2, out.wait(t))
	assert.Len(t, tickers, 2)
}
