// Package suggest asks a naming service what the user is drawing. Requests
// are rate limited, run off the frame loop and tagged with a generation so
// late answers never overwrite newer ones.
package suggest

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for Config.
const (
	DefaultWindow  = 1200 * time.Millisecond
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrNoStrokes is returned when there is nothing to send.
	ErrNoStrokes = errors.New("no strokes to name")
	// ErrThrottled is returned when a request falls inside the window of
	// the previous one. The trigger is dropped, not queued.
	ErrThrottled = errors.New("suggestion request throttled")
)

// Config controls request pacing.
type Config struct {
	Window  time.Duration `yaml:"window"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default pacing.
func DefaultConfig() Config {
	return Config{Window: DefaultWindow, Timeout: DefaultTimeout}
}

// Throttle issues naming requests and holds the latest suggestion list.
type Throttle struct {
	namer   Namer
	limiter *rate.Limiter
	timeout time.Duration
	now     func() time.Time

	mu      sync.Mutex
	items   []string
	issued  uint64
	applied uint64

	wg sync.WaitGroup
}

// NewThrottle creates a throttle in front of namer.
func NewThrottle(namer Namer, cfg Config) *Throttle {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Throttle{
		namer:   namer,
		limiter: rate.NewLimiter(rate.Every(cfg.Window), 1),
		timeout: cfg.Timeout,
		now:     time.Now,
		items:   []string{},
	}
}

// Trigger starts a background request unless one was started within the
// window. It never blocks on the namer.
func (t *Throttle) Trigger(req Request) error {
	if len(req.Strokes) == 0 {
		return ErrNoStrokes
	}
	if !t.limiter.AllowN(t.now(), 1) {
		return ErrThrottled
	}

	t.mu.Lock()
	t.issued++
	gen := t.issued
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run(gen, req)
	return nil
}

func (t *Throttle) run(gen uint64, req Request) {
	defer t.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	names, err := t.namer.Name(ctx, req)
	if err != nil {
		log.Printf("suggest: request %d failed: %v", gen, err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen <= t.applied {
		return
	}
	t.applied = gen
	t.items = Clean(names)
}

// Items returns a copy of the current suggestion list.
func (t *Throttle) Items() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.items)
}

// Reset empties the list. Requests already in flight are discarded when
// they complete.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = []string{}
	t.applied = t.issued
}

// Wait blocks until all in-flight requests have finished.
func (t *Throttle) Wait() {
	t.wg.Wait()
}
