package sync

import (
	gosync "sync"
	"time"
)

// windowSpan is the trailing span a RateWindow looks back over
const windowSpan = time.Minute

// RateWindow is a sliding 60-second request counter for one external
// service. It is in-process only and rebuilt on restart; it throttles but
// never guarantees a hard quota.
type RateWindow struct {
	mu     gosync.Mutex
	max    int
	stamps []time.Time
	now    func() time.Time
}

// NewRateWindow creates a window allowing max requests per trailing minute
func NewRateWindow(max int) *RateWindow {
	return &RateWindow{
		max: max,
		now: time.Now,
	}
}

// Allow reports whether another request fits in the trailing window
func (w *RateWindow) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune()
	return len(w.stamps) < w.max
}

// Record stamps one issued request
func (w *RateWindow) Record() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune()
	w.stamps = append(w.stamps, w.now())
}

func (w *RateWindow) prune() {
	cutoff := w.now().Add(-windowSpan)
	kept := w.stamps[:0]
	for _, stamp := range w.stamps {
		if stamp.After(cutoff) {
			kept = append(kept, stamp)
		}
	}
	w.stamps = kept
}
