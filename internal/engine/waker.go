package engine

import "time"

// Waker is a best-effort, edge-triggered wakeup from the real-time
// callback to the disk goroutine. Signal never blocks: if a wake is
// already pending the new one is dropped. That is safe because the
// waiter re-checks its work predicate after every wake, and Wait
// carries a bounded backstop timeout as the safety net against a
// dropped signal. This is the Go rendering of the classic
// "trylock, signal, unlock" real-time wake pattern.
type Waker struct {
	ch chan struct{}
}

// NewWaker returns a Waker with a single pending-wake slot.
func NewWaker() *Waker {
	return &Waker{ch: make(chan struct{}, 1)}
}

// Signal requests a wake. Never blocks, never allocates; safe to call
// from the audio callback.
func (w *Waker) Signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until a signal arrives or the backstop elapses. A
// pending signal from before the call wakes it immediately.
func (w *Waker) Wait(backstop time.Duration) {
	t := time.NewTimer(backstop)
	defer t.Stop()
	select {
	case <-w.ch:
	case <-t.C:
	}
}
