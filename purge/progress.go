package purge

import (
	"fmt"
	"sync"
)

// Progress describes how far an operation has come. A Total of 0 means the
// total is unknown and no percentage can be computed.
type Progress struct {
	Details string
	Current int
	Total   int
}

// Indeterminate reports whether a percentage can be computed.
func (p Progress) Indeterminate() bool {
	return p.Total == 0
}

// Percent returns the completion percentage floored to an integer, or 0
// when the total is unknown.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(float64(p.Current) / float64(p.Total) * 100)
}

func (p Progress) PercentText() string {
	return fmt.Sprintf("%d%%", p.Percent())
}

// Reporter is the sink a run delegate pushes progress into. Report never
// blocks; delivery of every intermediate report is not guaranteed.
type Reporter interface {
	Report(Progress)
}

// Tracker is a single-slot, last-value-wins progress relay. The most
// recently reported record is visible through Latest; rapid reports before
// the listener wakes are coalesced to the latest only. There is no queue
// and no back-pressure.
type Tracker struct {
	mu     sync.Mutex
	latest Progress
	has    bool
	wake   chan struct{}
}

func NewTracker() *Tracker {
	return &Tracker{wake: make(chan struct{}, 1)}
}

// Report stores the record as the current one and wakes the listener if it
// is not already pending a wake-up.
func (t *Tracker) Report(p Progress) {
	t.mu.Lock()
	t.latest = p
	t.has = true
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Updates signals that a new record may be available. One signal may cover
// any number of reports.
func (t *Tracker) Updates() <-chan struct{} {
	return t.wake
}

// Latest returns the most recently reported record, if any.
func (t *Tracker) Latest() (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest, t.has
}
