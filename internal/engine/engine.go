// SPDX-License-Identifier: MIT
/*
Package engine implements the real-time-safe transfer pipeline between
an audio graph and a raw sample file:

	audio graph <-> block handlers <-> ring buffer <-> disk goroutine <-> file

Two execution contexts run for the lifetime of a run. The graph's
real-time scheduler invokes CaptureBlock or PlaybackBlock once per
block with a hard deadline of one block period; those handlers never
block, never allocate, and never perform I/O. The disk goroutine is a
best-effort worker that may block indefinitely on the file or on its
wakeup. The ring buffer is the single shared resource between them;
the Waker carries only the wake signal, never buffer state.
*/
package engine

import (
	"time"

	"jackcat/internal/config"
	"jackcat/internal/ring"
)

// wakeBackstop bounds how long the disk goroutine sleeps without
// re-checking for work or for stop. Signals can be dropped on the
// real-time side, so the wait must not be unbounded.
const wakeBackstop = 100 * time.Millisecond

// Engine owns the shared state of one capture or playback run: the
// ring buffer, the counters and flags, and the wakeup channel. It is
// handed by pointer to the graph binding (as block handlers) and to
// the disk goroutine at construction time; there are no ambient
// globals.
type Engine struct {
	cfg   *config.Config
	ring  *ring.Buffer
	state *State
	waker *Waker

	scratch [4]byte // per-sample staging, callback thread only

	diskDone chan struct{}
}

// New creates an Engine for the given configuration. The ring buffer
// is allocated once, sized from the configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:      cfg,
		ring:     ring.New(cfg.RingSize),
		state:    NewState(),
		waker:    NewWaker(),
		diskDone: make(chan struct{}),
	}
}

// State exposes the run state for the reporting loop and the shutdown
// coordinator.
func (e *Engine) State() *State {
	return e.state
}

// StartDisk launches the disk transfer goroutine for the configured
// mode. Call exactly once per run.
func (e *Engine) StartDisk() {
	switch e.cfg.Mode {
	case config.ModeCapture:
		go e.runDiskWriter()
	default:
		go e.runDiskReader()
	}
}

// Stop requests run shutdown and wakes the disk goroutine so it can
// observe the stop flag. Idempotent, safe from any goroutine and from
// signal delivery paths.
func (e *Engine) Stop() {
	e.state.RequestStop()
	e.waker.Signal()
}

// WaitDisk waits for the disk goroutine to exit, up to grace. Returns
// false on timeout, in which case the goroutine is abandoned and any
// partially-written tail is accepted as-is.
func (e *Engine) WaitDisk(grace time.Duration) bool {
	select {
	case <-e.diskDone:
		return true
	case <-time.After(grace):
		return false
	}
}
