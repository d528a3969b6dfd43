// Package poller runs the periodic fetch loop that feeds the dashboard.
//
// A Poller is either Idle or Polling. Start issues one fetch immediately and
// then one per interval on a single ticker; Stop cancels the ticker. Each
// fetch runs on its own goroutine with a request timeout, so a slow fetch can
// overlap the next one. Results are delivered to the success or failure
// callback tagged with a Cycle token; Start and Stop advance the generation so
// that callers can discard results from a poller that has since been stopped
// or restarted (see Accepts).
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/rileyhilliard/sysinsight/internal/logger"
)

// Defaults for the poll loop.
const (
	DefaultInterval = 5 * time.Second
	DefaultTimeout  = 5 * time.Second
)

// State is the poller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePolling
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	default:
		return "unknown"
	}
}

// Cycle identifies one fetch. Generation changes on every Start and Stop;
// Seq increases with every fetch issued by the poller.
type Cycle struct {
	Generation uint64
	Seq        uint64
}

// Fetcher retrieves one metrics payload.
type Fetcher interface {
	Fetch(ctx context.Context) (*api.Payload, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) (*api.Payload, error)

// Fetch calls f(ctx).
func (f FetcherFunc) Fetch(ctx context.Context) (*api.Payload, error) {
	return f(ctx)
}

// SuccessFunc receives a decoded payload.
type SuccessFunc func(Cycle, *api.Payload)

// FailureFunc receives the error of a failed cycle.
type FailureFunc func(Cycle, error)

// Options configures a Poller. Zero values take the defaults.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Logger   logger.Logger
}

// Poller periodically fetches metrics.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	timeout  time.Duration
	log      logger.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	seq        uint64
	stop       chan struct{} // closed to end the ticker loop; nil when idle
	onSuccess  SuccessFunc
	onFailure  FailureFunc

	inflight sync.WaitGroup
}

// New creates an idle poller.
func New(fetcher Fetcher, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	return &Poller{
		fetcher:  fetcher,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		log:      opts.Logger,
		state:    StateIdle,
	}
}

// OnSuccess registers the success callback, replacing any previous one.
func (p *Poller) OnSuccess(fn SuccessFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSuccess = fn
}

// OnFailure registers the failure callback, replacing any previous one.
func (p *Poller) OnFailure(fn FailureFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFailure = fn
}

// Start begins polling. It is a no-op when already polling.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePolling {
		return
	}

	p.state = StatePolling
	p.generation++
	gen := p.generation
	stop := make(chan struct{})
	p.stop = stop

	p.log.Debug("polling every %s (generation %d)", p.interval, gen)

	p.issueLocked(gen)
	go p.loop(gen, stop)
}

// Stop cancels future cycles. In-flight fetches are not cancelled; their
// results arrive with a stale generation. Stop is a no-op when idle.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateIdle {
		return
	}

	close(p.stop)
	p.stop = nil
	p.state = StateIdle
	p.generation++

	p.log.Debug("polling stopped")
}

// Trigger issues one off-schedule fetch. It is a no-op when idle and does
// not reset the ticker.
func (p *Poller) Trigger() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePolling {
		return
	}
	p.issueLocked(p.generation)
}

// State returns the current lifecycle state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Interval returns the configured poll interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Accepts reports whether a result from cycle c should still be applied:
// the poller is polling and c was issued by the current generation.
func (p *Poller) Accepts(c Cycle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StatePolling && c.Generation == p.generation
}

// Generation returns the current generation.
func (p *Poller) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// Wait blocks until every issued fetch has delivered its result.
func (p *Poller) Wait() {
	p.inflight.Wait()
}

// loop issues a fetch on every tick until stop is closed.
func (p *Poller) loop(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.state == StatePolling && p.generation == gen {
				p.issueLocked(gen)
			}
			p.mu.Unlock()
		}
	}
}

// issueLocked starts one fetch. Must be called with p.mu held.
func (p *Poller) issueLocked(gen uint64) {
	p.seq++
	c := Cycle{Generation: gen, Seq: p.seq}
	p.inflight.Add(1)
	go p.run(c)
}

// run performs one fetch and hands the outcome to the callbacks.
func (p *Poller) run(c Cycle) {
	defer p.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	payload, err := p.fetcher.Fetch(ctx)
	cancel()

	if err == nil && payload == nil {
		err = errors.New(errors.ErrDecode, "Metrics API returned an empty payload", "")
	}

	p.mu.Lock()
	onSuccess, onFailure := p.onSuccess, p.onFailure
	p.mu.Unlock()

	if err != nil {
		p.log.Debug("cycle %d/%d failed (%s): %s", c.Generation, c.Seq, errors.KindOf(err), errors.Summary(err))
		if onFailure != nil {
			onFailure(c, err)
		}
		return
	}

	if onSuccess != nil {
		onSuccess(c, payload)
	}
}
