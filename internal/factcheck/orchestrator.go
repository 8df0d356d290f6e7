// Package factcheck owns the asynchronous claim-verification workflow:
// issuing the request, ticking a cosmetic progress sequence, enforcing a
// hard timeout, and committing exactly one terminal result per attempt.
package factcheck

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/verify"
)

// State is the orchestrator's display state.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateSuccess
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// progressSteps is the fixed cosmetic sequence emitted while a check is in
// flight. The remote call provides no progress signal.
var progressSteps = []model.ProgressStep{
	{Label: "Extracting verifiable claims…", Percent: 20},
	{Label: "Searching for evidence…", Percent: 40},
	{Label: "Analyzing claims against sources…", Percent: 70},
	{Label: "Generating final assessment…", Percent: 90},
	{Label: "Completing fact-check…", Percent: 100},
}

// Orchestrator runs at most one fact-check at a time. Starting a new check
// first neutralizes any prior in-flight attempt. The three independently
// scheduled outcomes (service success, service failure, timeout) race;
// whichever commits first under the mutex retires the attempt generation,
// so the losers observe a stale generation and return without touching
// state. Close makes all late callbacks structurally inert.
type Orchestrator struct {
	verifier  verify.Verifier
	tick      time.Duration
	timeout   time.Duration
	maxClaims int
	onUpdate  func()
	now       func() time.Time // injectable for tests

	mu           sync.Mutex
	gen          uint64
	closed       bool
	state        State
	inProgress   bool
	progress     *model.ProgressStep
	result       *model.FactCheckResult
	tickTimer    *time.Timer
	timeoutTimer *time.Timer
	cancel       context.CancelFunc
}

// NewOrchestrator creates an orchestrator. onUpdate, if non-nil, is invoked
// outside the lock after every observable state change; the menu view uses
// it to re-render.
func NewOrchestrator(verifier verify.Verifier, cfg model.FactCheckConfig, maxClaims int, onUpdate func()) *Orchestrator {
	tick := cfg.Tick
	if tick <= 0 {
		tick = 2 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxClaims <= 0 {
		maxClaims = 10
	}
	return &Orchestrator{
		verifier:  verifier,
		tick:      tick,
		timeout:   timeout,
		maxClaims: maxClaims,
		onUpdate:  onUpdate,
		now:       time.Now,
		state:     StateIdle,
	}
}

// StartCheck begins verifying text. Blank text is a no-op. Any prior
// in-flight attempt is neutralized before new state is set; its timers are
// stopped and its late callbacks find a retired generation.
func (o *Orchestrator) StartCheck(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.retireLocked()
	gen := o.gen

	o.state = StateChecking
	o.inProgress = true
	o.progress = nil
	o.result = nil

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.tickTimer = time.AfterFunc(o.tick, func() { o.advance(gen, 0) })
	o.timeoutTimer = time.AfterFunc(o.timeout, func() { o.expire(gen) })
	o.mu.Unlock()

	o.notify()

	go o.run(ctx, gen, text)
}

// run issues the verification request and commits its outcome, unless the
// timeout guard or a newer attempt got there first.
func (o *Orchestrator) run(ctx context.Context, gen uint64, text string) {
	result, err := o.verifier.Check(ctx, verify.Request{
		Text:           verify.NormalizeText(text),
		IncludeSources: true,
		MaxClaims:      o.maxClaims,
	})

	o.mu.Lock()
	if !o.commitLocked(gen) {
		o.mu.Unlock()
		return
	}

	if err != nil {
		r := model.FailureResult(o.now(), err)
		o.result = &r
		o.state = StateFailed
	} else {
		o.result = result
		if result.Success {
			o.state = StateSuccess
		} else {
			o.state = StateFailed
		}
	}
	o.mu.Unlock()

	o.notify()
}

// advance emits the next cosmetic progress step and schedules the one after
// it, until the sequence is exhausted or the attempt is retired.
func (o *Orchestrator) advance(gen uint64, idx int) {
	o.mu.Lock()
	if o.closed || gen != o.gen {
		o.mu.Unlock()
		return
	}

	step := progressSteps[idx]
	o.progress = &step
	if idx+1 < len(progressSteps) {
		next := idx + 1
		o.tickTimer = time.AfterFunc(o.tick, func() { o.advance(gen, next) })
	}
	o.mu.Unlock()

	o.notify()
}

// expire fires once at the hard deadline and, if it wins the race, commits
// the timeout result. A verification call resolving after this point finds
// a retired generation; the timeout result stands.
func (o *Orchestrator) expire(gen uint64) {
	o.mu.Lock()
	if !o.commitLocked(gen) {
		o.mu.Unlock()
		return
	}

	r := model.TimeoutResult(o.now(), o.timeout)
	o.result = &r
	o.state = StateTimedOut
	o.mu.Unlock()

	o.notify()
}

// commitLocked is the single terminal-transition gate. It returns false if
// the attempt has already been superseded, committed by a racing path, or
// torn down. On success it retires the generation and cleans up the
// attempt's timers, so exactly one caller per attempt proceeds.
func (o *Orchestrator) commitLocked(gen uint64) bool {
	if o.closed || gen != o.gen {
		return false
	}
	o.retireLocked()
	o.inProgress = false
	o.progress = nil
	return true
}

// retireLocked stops the current attempt's timers, cancels its request
// context and bumps the generation. Stopping an already-fired or
// already-stopped timer is a no-op.
func (o *Orchestrator) retireLocked() {
	o.gen++
	if o.tickTimer != nil {
		o.tickTimer.Stop()
		o.tickTimer = nil
	}
	if o.timeoutTimer != nil {
		o.timeoutTimer.Stop()
		o.timeoutTimer = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Dismiss clears the displayed result without affecting in-flight work.
// Dismissing when nothing is displayed is a no-op.
func (o *Orchestrator) Dismiss() {
	o.mu.Lock()
	if o.closed || o.result == nil {
		o.mu.Unlock()
		return
	}
	o.result = nil
	if !o.inProgress {
		o.state = StateIdle
	}
	o.mu.Unlock()

	o.notify()
}

// Close tears the orchestrator down: all timers are cancelled and no state
// mutation is possible afterward.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.retireLocked()
	o.inProgress = false
	o.progress = nil
}

// State returns the current display state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// InProgress reports whether a check is in flight.
func (o *Orchestrator) InProgress() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inProgress
}

// Progress returns the current cosmetic progress step, or nil.
func (o *Orchestrator) Progress() *model.ProgressStep {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Result returns the terminal result of the last attempt, or nil.
func (o *Orchestrator) Result() *model.FactCheckResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

func (o *Orchestrator) notify() {
	if o.onUpdate != nil {
		o.onUpdate()
	}
}
