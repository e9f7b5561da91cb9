package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTicker lets tests fire ticks by hand.
type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time {
	return f.ch
}

func (f *fakeTicker) Stop() {
	f.stopped.Store(true)
}

func (f *fakeTicker) tick() {
	f.ch <- time.Now()
}

func newFakeTickers() (*fakeTicker, TickerFactory) {
	ticker := &fakeTicker{ch: make(chan time.Time, 1)}
	return ticker, func(time.Duration) Ticker { return ticker }
}

func TestPollerRunsOnTick(t *testing.T) {
	ticker, tickers := newFakeTickers()
	ran := make(chan struct{}, 4)
	p := NewPoller(time.Second, func(ctx context.Context) {
		ran <- struct{}{}
	}, tickers)

	p.Start()
	defer p.Stop()

	for i := 0; i < 3; i++ {
		ticker.tick()
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatal("tick did not run")
		}
	}
}

func TestPollerStopIsDeterministic(t *testing.T) {
	ticker, tickers := newFakeTickers()
	var runs atomic.Int32
	p := NewPoller(time.Second, func(ctx context.Context) {
		runs.Add(1)
	}, tickers)

	p.Start()
	p.Stop()

	assert.True(t, ticker.stopped.Load())

	// A tick queued after Stop must never run: the loop has exited.
	select {
	case ticker.ch <- time.Now():
	default:
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestPollerStopTwice(t *testing.T) {
	_, tickers := newFakeTickers()
	p := NewPoller(time.Second, func(ctx context.Context) {}, tickers)
	p.Start()
	p.Stop()
	assert.NotPanics(t, func() { p.Stop() })
}

func TestPollerSurvivesPanic(t *testing.T) {
	ticker, tickers := newFakeTickers()
	calls := make(chan int, 2)
	n := 0
	p := NewPoller(time.Second, func(ctx context.Context) {
		n++
		calls <- n
		if n == 1 {
			panic("boom")
		}
	}, tickers)

	p.Start()
	defer p.Stop()

	ticker.tick()
	require.Equal(t, 1, <-calls)
	ticker.tick()
	require.Equal(t, 2, <-calls)
}
