package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// Ticker abstracts time.Ticker so polling loops can be driven by a
// fake clock in tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a Ticker for a given interval.
type TickerFactory func(interval time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}

// NewTicker is the production TickerFactory backed by time.Ticker.
func NewTicker(interval time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(interval)}
}

// Poller runs a function on a fixed interval until stopped. Stop is
// deterministic: once it returns, no further tick runs, even one that
// was already queued on the ticker channel.
type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context)
	tickers  TickerFactory

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewPoller(interval time.Duration, fn func(ctx context.Context), tickers TickerFactory) *Poller {
	if tickers == nil {
		tickers = NewTicker
	}
	return &Poller{
		interval: interval,
		fn:       fn,
		tickers:  tickers,
	}
}

// Start launches the polling loop. Calling Start on a running poller
// is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	go p.loop(ctx, p.done)
}

// Stop halts the loop and waits for it to exit. Safe to call more
// than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := p.tickers(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			// A tick can race with cancellation; re-check so a
			// stopped poller never fires again.
			if ctx.Err() != nil {
				return
			}
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("poller: tick panicked: %v", r)
		}
	}()
	p.fn(ctx)
}
