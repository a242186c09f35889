package vault

import (
	"log/slog"
	"sync"
	"time"
)

// Guard suppresses feedback loops between the system's own writes and the
// modify-notifications they trigger. A path is marked in flight while a
// programmatic edit is running; notifications for in-flight paths are
// ignored by the dispatch layer. This replaces a bare module-level
// "is processing" boolean with explicit per-document scope.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]bool
}

func NewGuard() *Guard {
	return &Guard{inflight: map[string]bool{}}
}

// Begin marks a path in flight. It returns false when the path is already
// being processed, in which case the caller must not re-enter.
func (g *Guard) Begin(p string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[p] {
		slog.Debug("suppressed re-entrant edit", "path", p)
		return false
	}
	g.inflight[p] = true
	return true
}

func (g *Guard) End(p string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, p)
}

// DebounceWindow collapses bursts of rapid writes to one satellite document
// into a single sync, preventing bidirectional sync ping-pong.
const DebounceWindow = 500 * time.Millisecond

// Debouncer coalesces per-path triggers: fn runs once after the quiet
// window, no matter how many triggers arrived while waiting.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*pendingSync
}

type pendingSync struct {
	timer *time.Timer
	fn    func()
}

func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DebounceWindow
	}
	return &Debouncer{window: window, pending: map[string]*pendingSync{}}
}

func (d *Debouncer) Trigger(p string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ps, ok := d.pending[p]; ok {
		ps.timer.Stop()
	}
	ps := &pendingSync{fn: fn}
	ps.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.pending, p)
		d.mu.Unlock()
		fn()
	})
	d.pending[p] = ps
}

// Flush cancels pending timers and runs their work immediately. Used on
// shutdown so a queued sync is not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.pending
	d.pending = map[string]*pendingSync{}
	d.mu.Unlock()
	for p, ps := range pending {
		if ps.timer.Stop() {
			slog.Debug("flushing pending sync", "path", p)
			ps.fn()
		}
	}
}
