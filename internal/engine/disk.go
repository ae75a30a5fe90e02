// SPDX-License-Identifier: MIT
package engine

import (
	"errors"
	"io"

	"jackcat/internal/log"
	"jackcat/internal/stream"
)

// runDiskWriter drains the ring buffer into the capture file until
// stop is observed. Waiting on the Waker is the only blocking point
// besides the write syscall itself. At most one transfer, clamped to
// the configured block size, happens per wake so a single slow write
// cannot monopolize the loop.
func (e *Engine) runDiskWriter() {
	defer close(e.diskDone)

	f, err := stream.Create(e.cfg.FilePath, e.cfg.Ports)
	if err != nil {
		log.Errorf("capture setup: %v", err)
		e.state.RequestStop()
		return
	}
	defer f.Close()

	log.Debugf("disk writer started: %s", e.cfg.FilePath)

	for !e.state.Stopping() {
		if e.ring.ReadSpace() == 0 {
			e.waker.Wait(wakeBackstop)
			continue
		}

		span, _ := e.ring.ReadVector()
		l := len(span)
		if l == 0 {
			continue
		}
		if l > e.cfg.BlockSize {
			l = e.cfg.BlockSize
		}

		n, err := f.Write(span[:l])
		e.state.DiskOps.Add(1)
		e.state.DiskBytes.Add(uint64(n))
		if err != nil || n != l {
			// Short writes are logged, not retried; the tail is lost
			// rather than stalling the drain.
			log.Warnf("short write: %d of %d bytes: %v", n, l, err)
		}
		e.ring.AdvanceRead(n)
	}
}

// runDiskReader fills the ring buffer from the playback file until
// stop is observed or the file runs out. A short or zero read is end
// of file: the eof flag is set exactly once and the loop exits; the
// callback observes eof on its next underrun and ends the run.
func (e *Engine) runDiskReader() {
	defer close(e.diskDone)

	f, channels, err := stream.Open(e.cfg.FilePath)
	if err != nil {
		log.Errorf("playback setup: %v", err)
		e.state.RequestStop()
		return
	}
	defer f.Close()

	if channels != e.cfg.Ports {
		log.Warnf("%s advertises %d channels, playing into %d ports",
			e.cfg.FilePath, channels, e.cfg.Ports)
	}
	log.Debugf("disk reader started: %s (%d channels)", e.cfg.FilePath, channels)

	for !e.state.Stopping() {
		if e.ring.WriteSpace() == 0 {
			e.waker.Wait(wakeBackstop)
			continue
		}

		span, _ := e.ring.WriteVector()
		l := len(span)
		if l == 0 {
			continue
		}
		if l > e.cfg.BlockSize {
			l = e.cfg.BlockSize
		}

		n, err := f.Read(span[:l])
		if n > 0 {
			e.ring.AdvanceWrite(n)
			e.state.DiskOps.Add(1)
			e.state.DiskBytes.Add(uint64(n))
		}
		if n < l || err != nil {
			if err != nil && !errors.Is(err, io.EOF) {
				log.Warnf("short read: %d of %d bytes: %v", n, l, err)
			} else {
				log.Debugf("end of file after %d bytes", e.state.DiskBytes.Load())
			}
			e.state.MarkEOF()
			return
		}
	}
}
