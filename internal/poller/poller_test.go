package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/rileyhilliard/sysinsight/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher returns a fresh payload and counts calls.
type countingFetcher struct {
	calls atomic.Int64
	err   error
}

func (f *countingFetcher) Fetch(ctx context.Context) (*api.Payload, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &api.Payload{Timestamp: time.Now()}, nil
}

// recorder collects callback invocations.
type recorder struct {
	mu        sync.Mutex
	successes []Cycle
	failures  []error
}

func (r *recorder) wire(p *Poller) {
	p.OnSuccess(func(c Cycle, _ *api.Payload) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.successes = append(r.successes, c)
	})
	p.OnFailure(func(_ Cycle, err error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.failures = append(r.failures, err)
	})
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes), len(r.failures)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "polling", StatePolling.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestNew_Defaults(t *testing.T) {
	p := New(&countingFetcher{}, Options{})
	assert.Equal(t, DefaultInterval, p.Interval())
	assert.Equal(t, DefaultTimeout, p.timeout)
	assert.Equal(t, StateIdle, p.State())
}

func TestStart_FetchesImmediately(t *testing.T) {
	f := &countingFetcher{}
	p := New(f, Options{Interval: time.Hour})
	rec := &recorder{}
	rec.wire(p)

	p.Start()
	defer p.Stop()

	assert.Equal(t, StatePolling, p.State())
	assert.Eventually(t, func() bool {
		s, _ := rec.counts()
		return s == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStart_IsIdempotent(t *testing.T) {
	f := &countingFetcher{}
	p := New(f, Options{Interval: time.Hour})

	p.Start()
	p.Start()
	p.Wait()

	// A second Start must not issue a second immediate fetch or a second ticker.
	assert.Equal(t, int64(1), f.calls.Load())
	p.Stop()
}

func TestStart_SingleTicker(t *testing.T) {
	f := &countingFetcher{}
	p := New(f, Options{Interval: 40 * time.Millisecond})

	p.Start()
	p.Start()
	time.Sleep(130 * time.Millisecond)
	p.Stop()
	p.Wait()

	// One immediate fetch plus about three ticks. Two tickers would roughly double this.
	calls := f.calls.Load()
	assert.GreaterOrEqual(t, calls, int64(2))
	assert.LessOrEqual(t, calls, int64(5))
}

func TestStop_IdleIsNoop(t *testing.T) {
	p := New(&countingFetcher{}, Options{})
	gen := p.generation

	p.Stop()
	p.Stop()

	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, gen, p.generation)
}

func TestStop_HaltsTicks(t *testing.T) {
	f := &countingFetcher{}
	p := New(f, Options{Interval: 10 * time.Millisecond})

	p.Start()
	assert.Eventually(t, func() bool { return f.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	p.Stop()
	p.Wait()

	after := f.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, f.calls.Load())
	assert.Equal(t, StateIdle, p.State())
}

func TestFailuresKeepPolling(t *testing.T) {
	f := &countingFetcher{err: errors.New(errors.ErrHTTP, "HTTP 500", "")}
	p := New(f, Options{Interval: 10 * time.Millisecond})
	rec := &recorder{}
	rec.wire(p)

	p.Start()
	assert.Eventually(t, func() bool {
		_, failures := rec.counts()
		return failures >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatePolling, p.State())
	p.Stop()
	p.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.True(t, errors.IsCode(rec.failures[0], errors.ErrHTTP))
	assert.Empty(t, rec.successes)
}

func TestNilPayloadIsFailure(t *testing.T) {
	p := New(FetcherFunc(func(ctx context.Context) (*api.Payload, error) {
		return nil, nil
	}), Options{Interval: time.Hour})

	var got error
	done := make(chan struct{})
	p.OnFailure(func(_ Cycle, err error) {
		got = err
		close(done)
	})

	p.Start()
	defer p.Stop()
	<-done

	assert.True(t, errors.IsCode(got, errors.ErrDecode))
}

func TestTimeoutReachesFetcher(t *testing.T) {
	p := New(FetcherFunc(func(ctx context.Context) (*api.Payload, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), Options{Interval: time.Hour, Timeout: 20 * time.Millisecond})

	errCh := make(chan error, 1)
	p.OnFailure(func(_ Cycle, err error) { errCh <- err })

	p.Start()
	defer p.Stop()

	select {
	case err := <-errCh:
		assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
	case <-time.After(time.Second):
		t.Fatal("fetch was not cancelled by the request timeout")
	}
}

func TestAccepts_Generations(t *testing.T) {
	release := make(chan struct{})
	p := New(FetcherFunc(func(ctx context.Context) (*api.Payload, error) {
		<-release
		return &api.Payload{}, nil
	}), Options{Interval: time.Hour})

	cycles := make(chan Cycle, 4)
	p.OnSuccess(func(c Cycle, _ *api.Payload) { cycles <- c })

	p.Start()
	p.Stop() // in-flight fetch from the first generation is now stale
	p.Start()
	close(release)
	p.Wait()
	defer p.Stop()

	first := <-cycles
	second := <-cycles
	if first.Seq > second.Seq {
		first, second = second, first
	}

	assert.False(t, p.Accepts(first), "result from a stopped generation must be rejected")
	assert.True(t, p.Accepts(second))
	assert.Less(t, first.Generation, second.Generation)
}

func TestAccepts_RejectsWhenIdle(t *testing.T) {
	p := New(&countingFetcher{}, Options{Interval: time.Hour})
	p.Start()
	p.Wait()
	c := Cycle{Generation: p.generation, Seq: 1}
	assert.True(t, p.Accepts(c))

	p.Stop()
	assert.False(t, p.Accepts(c))
}

func TestTrigger(t *testing.T) {
	f := &countingFetcher{}
	p := New(f, Options{Interval: time.Hour})

	p.Trigger() // idle: no-op
	p.Wait()
	assert.Equal(t, int64(0), f.calls.Load())

	p.Start()
	p.Trigger()
	p.Wait()
	assert.Equal(t, int64(2), f.calls.Load())
	p.Stop()
}

func TestOverlappingCyclesAllDeliver(t *testing.T) {
	var n atomic.Int64
	p := New(FetcherFunc(func(ctx context.Context) (*api.Payload, error) {
		i := n.Add(1)
		if i == 1 {
			// The first fetch outlives several ticks.
			time.Sleep(60 * time.Millisecond)
		}
		return &api.Payload{}, nil
	}), Options{Interval: 10 * time.Millisecond})

	var mu sync.Mutex
	var order []uint64
	p.OnSuccess(func(c Cycle, _ *api.Payload) {
		mu.Lock()
		order = append(order, c.Seq)
		mu.Unlock()
	})

	p.Start()
	time.Sleep(45 * time.Millisecond)
	p.Stop()
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(order), 2)
	// Completion order, not issuance order: the slow first cycle lands last.
	assert.Equal(t, uint64(1), order[len(order)-1])
}

func TestFailureIsLogged(t *testing.T) {
	t.Setenv(logger.DebugEnv, "1")
	log := logger.NewBufferLogger()
	p := New(&countingFetcher{err: fmt.Errorf("boom")}, Options{Interval: time.Hour, Logger: log})

	done := make(chan struct{})
	p.OnFailure(func(Cycle, error) { close(done) })
	p.Start()
	<-done
	p.Stop()

	assert.True(t, log.HasLevel("debug"))
}
