package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/linwei/smartliving/pkg/metrics"
)

// Fetcher retrieves one reading from the remote device endpoint.
type Fetcher interface {
	Fetch(ctx context.Context) (Reading, error)
}

// Poller fetches device telemetry on a fixed interval. The first fetch fires
// immediately on Start, not after the first interval. Ticks are guarded: a
// tick that lands while a previous fetch is still in flight is skipped, so
// responses are never raced against each other. After Stop no state
// transitions occur; a late-resolving fetch is discarded.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Registry

	mu       sync.Mutex
	snapshot Snapshot
	inFlight bool
	stopped  bool
	cancel   context.CancelFunc
	done     chan struct{}

	subMu sync.Mutex
	subs  map[chan Snapshot]struct{}
}

// NewPoller constructs a stopped poller.
func NewPoller(fetcher Fetcher, interval time.Duration, reg *metrics.Registry, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger.With("component", "telemetry.poller"),
		metrics:  reg,
		snapshot: Snapshot{Loading: true},
		subs:     make(map[chan Snapshot]struct{}),
	}
}

// Start launches the poll loop. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stopped = false
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go p.loop(loopCtx, done)
}

// Stop cancels the timer and any in-flight request, then waits for the loop
// to exit. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.stopped = true
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Snapshot returns the current poller state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Subscribe registers a channel that receives every snapshot change. Slow
// subscribers drop updates instead of blocking the poll loop.
func (p *Poller) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 8)
	p.subMu.Lock()
	p.subs[ch] = struct{}{}
	p.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (p *Poller) Unsubscribe(ch chan Snapshot) {
	p.subMu.Lock()
	if _, ok := p.subs[ch]; ok {
		delete(p.subs, ch)
		close(ch)
	}
	p.subMu.Unlock()
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if p.inFlight {
		p.mu.Unlock()
		if p.metrics != nil {
			p.metrics.PollerTicks.WithLabelValues("skipped").Inc()
		}
		return
	}
	p.inFlight = true
	p.snapshot.Loading = true
	snapshot := p.snapshot
	p.mu.Unlock()
	p.broadcast(snapshot)

	reading, err := p.fetcher.Fetch(ctx)

	p.mu.Lock()
	p.inFlight = false
	if p.stopped || ctx.Err() != nil {
		// result arrived after Stop; discard it
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.snapshot.Loading = false
		p.snapshot.Error = err.Error()
		p.logger.Warn("telemetry poll failed", "error", err)
	} else {
		p.snapshot = Snapshot{Data: &reading, Loading: false}
	}
	snapshot = p.snapshot
	p.mu.Unlock()

	if p.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
		}
		p.metrics.PollerTicks.WithLabelValues(outcome).Inc()
	}
	p.broadcast(snapshot)
}

func (p *Poller) broadcast(snapshot Snapshot) {
	p.subMu.Lock()
	for ch := range p.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
	p.subMu.Unlock()
}
