// SPDX-License-Identifier: MIT
package engine

import (
	"encoding/binary"
	"math"

	"jackcat/internal/stream"
)

// CaptureBlock moves one block of per-channel input samples into the
// ring buffer, interleaving channels frame-major in port-index order.
//
// Performance Critical (Hot Path):
//   - Invoked by the graph's real-time scheduler, deadline one block period
//   - No allocations, no blocking, no I/O
//   - The wake signal is best-effort and never waits
//
// If the ring lacks space for the whole block, the block is dropped
// and the overflow counter incremented. No partial write: dropping
// whole blocks keeps the channel interleaving intact, data loss is the
// agreed degradation under overload.
func (e *Engine) CaptureBlock(in [][]float32) {
	e.state.Calls.Add(1)

	if len(in) == 0 || e.state.Stopping() {
		return
	}
	frames := len(in[0])
	need := frames * len(in) * stream.SampleSize

	if e.ring.WriteSpace() < need {
		e.state.Overflows.Add(1)
		return
	}

	for f := 0; f < frames; f++ {
		for ch := range in {
			binary.NativeEndian.PutUint32(e.scratch[:], math.Float32bits(in[ch][f]))
			e.ring.Write(e.scratch[:])
		}
	}

	e.waker.Signal()
}

// PlaybackBlock fills one block of per-channel output buffers from the
// ring buffer, de-interleaving in port-index order. Same hot-path
// constraints as CaptureBlock.
//
// If the ring lacks data for the whole block, every output buffer is
// zero-filled (never stale samples), the underrun counter incremented,
// and the ring left untouched. An underrun after the disk goroutine
// has marked end of file is the terminal condition: stop is requested
// and the supervisor tears the graph connection down; until then,
// subsequent invocations keep emitting silence.
func (e *Engine) PlaybackBlock(out [][]float32) {
	e.state.Calls.Add(1)

	if len(out) == 0 {
		return
	}
	frames := len(out[0])
	need := frames * len(out) * stream.SampleSize

	if e.state.Stopping() || e.ring.ReadSpace() < need {
		for ch := range out {
			clear(out[ch])
		}
		if e.state.Stopping() {
			return
		}
		e.state.Underruns.Add(1)
		if e.state.AtEOF() {
			e.state.RequestStop()
		}
		e.waker.Signal()
		return
	}

	for f := 0; f < frames; f++ {
		for ch := range out {
			e.ring.Read(e.scratch[:])
			out[ch][f] = math.Float32frombits(binary.NativeEndian.Uint32(e.scratch[:]))
		}
	}

	e.waker.Signal()
}
