package purge

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Phase is the coarse position of a workflow.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseFinished
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	case PhaseFailed:
		return "failed"
	default:
		return "not started"
	}
}

// State is the current position of a workflow. Progress is meaningful while
// running, Result when finished (nil means no record was produced), and
// Message when failed.
type State[R any] struct {
	Phase    Phase
	Progress Progress
	Result   *R
	Message  string
}

// RunFunc performs the actual long-running work. It may push any number of
// progress reports into the reporter, but must stop reporting before it
// returns.
type RunFunc[R any] func(ctx context.Context, rep Reporter) (*R, error)

// FailureMode controls how a delegate error surfaces in the terminal state.
type FailureMode int

const (
	// MergeFailures folds a delegate error into PhaseFinished with a nil
	// result, indistinguishable from success without a record. The purge
	// flavor; the underlying error is for the caller to log.
	MergeFailures FailureMode = iota

	// DistinctFailures surfaces a delegate error as PhaseFailed with the
	// error text. The scan flavor, which supports StartOver.
	DistinctFailures
)

// Workflow drives a long-running operation through not started, running and
// a terminal phase. Progress reports from the delegate arrive through a
// coalescing tracker; the machine applies at most one terminal transition
// and ignores anything delivered after it.
type Workflow[R any] struct {
	mu        sync.Mutex
	state     State[R]
	run       RunFunc[R]
	mode      FailureMode
	onFinish  func()
	finish    sync.Once
	tracker   *Tracker
	started   bool
	terminal  bool
	stop      chan struct{}
	observers []func(State[R])
}

// NewWorkflow builds a workflow around a run delegate. The completion
// callback is invoked exactly once, by Finish.
func NewWorkflow[R any](run RunFunc[R], mode FailureMode, onFinish func()) *Workflow[R] {
	return &Workflow[R]{
		state:    State[R]{Phase: PhaseNotStarted},
		run:      run,
		mode:     mode,
		onFinish: onFinish,
		tracker:  NewTracker(),
		stop:     make(chan struct{}),
	}
}

// Subscribe registers an observer notified synchronously on every
// transition, in subscription order.
func (w *Workflow[R]) Subscribe(fn func(State[R])) {
	w.mu.Lock()
	w.observers = append(w.observers, fn)
	w.mu.Unlock()
}

// State returns the current state.
func (w *Workflow[R]) State() State[R] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start invokes the run delegate exactly once, passing the tracker as its
// progress sink. Calling Start again is a no-op. There is no cancellation
// of an in-flight run beyond what the context carries; the machine only
// reacts to what the delegate reports.
func (w *Workflow[R]) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	stop := w.stop
	tracker := w.tracker
	w.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			select {
			case <-stop:
				// Apply the last report before the terminal transition.
				if p, ok := tracker.Latest(); ok {
					w.setRunning(p)
				}
				return
			case <-tracker.Updates():
				if p, ok := tracker.Latest(); ok {
					w.setRunning(p)
				}
			}
		}
	}()

	go func() {
		result, err := w.run(ctx, tracker)
		close(stop)
		<-drained
		w.applyTerminal(result, err)
	}()
}

// Finish invokes the completion callback. Callable from any state, at most
// once per workflow instance.
func (w *Workflow[R]) Finish() {
	if w.onFinish != nil {
		w.finish.Do(w.onFinish)
	}
}

// StartOver returns a failed workflow to its initial state so Start can run
// the delegate again. No-op unless the current phase is PhaseFailed.
func (w *Workflow[R]) StartOver() {
	w.mu.Lock()
	if w.state.Phase != PhaseFailed {
		w.mu.Unlock()
		return
	}
	w.state = State[R]{Phase: PhaseNotStarted}
	w.started = false
	w.terminal = false
	w.tracker = NewTracker()
	w.stop = make(chan struct{})
	state := w.state
	observers := slices.Clone(w.observers)
	w.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

func (w *Workflow[R]) setRunning(p Progress) {
	w.mu.Lock()
	if w.terminal || !w.started {
		w.mu.Unlock()
		return
	}
	w.state = State[R]{Phase: PhaseRunning, Progress: p}
	state := w.state
	observers := slices.Clone(w.observers)
	w.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

func (w *Workflow[R]) applyTerminal(result *R, err error) {
	w.mu.Lock()
	if w.terminal {
		w.mu.Unlock()
		return
	}
	w.terminal = true

	switch {
	case err != nil && w.mode == DistinctFailures:
		w.state = State[R]{Phase: PhaseFailed, Message: err.Error()}
	case err != nil:
		w.state = State[R]{Phase: PhaseFinished}
	default:
		w.state = State[R]{Phase: PhaseFinished, Result: result}
	}
	state := w.state
	observers := slices.Clone(w.observers)
	w.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

// PurgeFlow is the purge flavor of the workflow: its initial state carries
// a confirmation payload and its failures merge into a record-less finish.
type PurgeFlow struct {
	*Workflow[Record]
	confirm ConfirmInfo
}

func NewPurgeFlow(confirm ConfirmInfo, run RunFunc[Record], onFinish func()) *PurgeFlow {
	return &PurgeFlow{
		Workflow: NewWorkflow(run, MergeFailures, onFinish),
		confirm:  confirm,
	}
}

// Confirm returns the payload snapshot taken when the flow was built.
func (f *PurgeFlow) Confirm() ConfirmInfo {
	return f.confirm
}

// ScanSummary is the terminal payload of a completed scan.
type ScanSummary struct {
	Visited  int
	Found    int
	Warnings []string
	Elapsed  time.Duration
}

// ScanDetails is the running state of a scan: the category currently being
// walked plus the raw progress record.
type ScanDetails struct {
	Category string
	Progress Progress
}

// ScanFlow is the scan flavor: failures stay distinct and StartOver is
// available from the failed phase.
type ScanFlow struct {
	*Workflow[ScanSummary]
}

func NewScanFlow(run RunFunc[ScanSummary], onFinish func()) *ScanFlow {
	return &ScanFlow{Workflow: NewWorkflow(run, DistinctFailures, onFinish)}
}

// Details reads the scan details out of a running state. The reporter's
// Details field names the active category.
func (f *ScanFlow) Details(st State[ScanSummary]) ScanDetails {
	return ScanDetails{Category: st.Progress.Details, Progress: st.Progress}
}
