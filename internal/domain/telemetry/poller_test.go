package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu      sync.Mutex
	reading Reading
	err     error
	calls   int
	block   chan struct{}
}

func (s *stubFetcher) Fetch(ctx context.Context) (Reading, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	reading, err := s.reading, s.err
	s.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return Reading{}, ctx.Err()
		}
	}
	return reading, err
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPollerFirstFetchIsImmediate(t *testing.T) {
	fetcher := &stubFetcher{reading: Reading{Temperature: 24.5, Humidity: 61, Status: "ok"}}
	p := NewPoller(fetcher, time.Hour, nil, testLogger())

	p.Start(context.Background())
	defer p.Stop()

	// interval is an hour, so only the immediate fetch can have run
	waitFor(t, func() bool { return p.Snapshot().Data != nil })
	snap := p.Snapshot()
	require.Equal(t, 1, fetcher.callCount())
	require.False(t, snap.Loading)
	require.Empty(t, snap.Error)
	require.Equal(t, 24.5, snap.Data.Temperature)
}

func TestPollerFailureKeepsLastGoodReading(t *testing.T) {
	fetcher := &stubFetcher{reading: Reading{Temperature: 20, Humidity: 50}}
	p := NewPoller(fetcher, time.Hour, nil, testLogger())

	p.Start(context.Background())
	waitFor(t, func() bool { return p.Snapshot().Data != nil })
	p.Stop()

	// flip the fetcher to failing and poll again directly
	fetcher.mu.Lock()
	fetcher.err = errors.New("device offline")
	fetcher.mu.Unlock()

	p.mu.Lock()
	p.stopped = false
	p.mu.Unlock()
	p.poll(context.Background())

	snap := p.Snapshot()
	require.NotNil(t, snap.Data, "stale data survives a failed poll")
	require.Equal(t, 20.0, snap.Data.Temperature)
	require.Equal(t, "device offline", snap.Error)
	require.False(t, snap.Loading)
}

func TestPollerStopDiscardsLateResult(t *testing.T) {
	block := make(chan struct{})
	fetcher := &stubFetcher{reading: Reading{Temperature: 30}, block: block}
	p := NewPoller(fetcher, time.Hour, nil, testLogger())

	p.Start(context.Background())
	waitFor(t, func() bool { return fetcher.callCount() == 1 })
	p.Stop()
	close(block)

	// give the late result a chance to (incorrectly) land
	time.Sleep(20 * time.Millisecond)
	snap := p.Snapshot()
	require.Nil(t, snap.Data, "result resolved after Stop must be discarded")
}

func TestPollerInFlightGuardSkipsOverlappingTick(t *testing.T) {
	block := make(chan struct{})
	fetcher := &stubFetcher{reading: Reading{Temperature: 18}, block: block}
	p := NewPoller(fetcher, time.Hour, nil, testLogger())

	p.Start(context.Background())
	waitFor(t, func() bool { return fetcher.callCount() == 1 })

	// a tick while the first fetch is still blocked must not fetch again
	p.poll(context.Background())
	require.Equal(t, 1, fetcher.callCount())

	close(block)
	waitFor(t, func() bool { return p.Snapshot().Data != nil })
	p.Stop()
}

func TestPollerStartTwiceIsNoop(t *testing.T) {
	fetcher := &stubFetcher{reading: Reading{}}
	p := NewPoller(fetcher, time.Hour, nil, testLogger())

	p.Start(context.Background())
	p.Start(context.Background())
	waitFor(t, func() bool { return p.Snapshot().Data != nil })
	require.Equal(t, 1, fetcher.callCount())
	p.Stop()
}

func TestPollerSubscribeReceivesUpdates(t *testing.T) {
	fetcher := &stubFetcher{reading: Reading{Temperature: 26}}
	p := NewPoller(fetcher, time.Hour, nil, testLogger())

	ch := p.Subscribe()
	defer p.Unsubscribe(ch)

	p.Start(context.Background())
	defer p.Stop()

	var got Snapshot
	waitFor(t, func() bool {
		select {
		case snap := <-ch:
			got = snap
			return snap.Data != nil
		default:
			return false
		}
	})
	require.Equal(t, 26.0, got.Data.Temperature)
}
