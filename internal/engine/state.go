package engine

import "sync/atomic"

// Counters are the process-wide transfer counters, monotonically
// increasing during a run. The callback only ever increments them; the
// reporting loop reads them.
type Counters struct {
	Calls     atomic.Uint64 // Graph callback invocations
	DiskOps   atomic.Uint64 // Disk read/write syscalls
	DiskBytes atomic.Uint64 // Bytes actually moved to/from disk
	Overflows atomic.Uint64 // Capture blocks dropped for lack of ring space
	Underruns atomic.Uint64 // Playback blocks zero-filled for lack of ring data
}

// Snapshot is a point-in-time copy of the counters for reporting.
type Snapshot struct {
	Calls     uint64
	DiskOps   uint64
	DiskBytes uint64
	Overflows uint64
	Underruns uint64
}

// Snapshot reads all counters. The values are individually atomic, not
// a consistent cut; good enough for a 1 Hz status line.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Calls:     c.Calls.Load(),
		DiskOps:   c.DiskOps.Load(),
		DiskBytes: c.DiskBytes.Load(),
		Overflows: c.Overflows.Load(),
		Underruns: c.Underruns.Load(),
	}
}

// State is the run state shared by the audio callback, the disk
// goroutine and the shutdown coordinator. Readers tolerate racy but
// eventually-consistent observation: one block of propagation latency
// is accepted over paying synchronization cost on the real-time path.
type State struct {
	Counters

	stop atomic.Bool // One-way: once true it never reverts
	eof  atomic.Bool // Playback only: disk goroutine saw end of file
}

// NewState returns a zeroed run state.
func NewState() *State {
	return &State{}
}

// RequestStop marks the run as stopping. Safe from any goroutine and
// from the audio callback; idempotent.
func (s *State) RequestStop() {
	s.stop.Store(true)
}

// Stopping reports whether stop has been requested.
func (s *State) Stopping() bool {
	return s.stop.Load()
}

// MarkEOF records that the disk goroutine reached end of file.
func (s *State) MarkEOF() {
	s.eof.Store(true)
}

// AtEOF reports whether end of file has been reached.
func (s *State) AtEOF() bool {
	return s.eof.Load()
}
