// SPDX-License-Identifier: MIT
/*
Package ring implements a fixed-capacity byte ring buffer with
single-producer/single-consumer semantics, used to decouple the
real-time audio callback from the disk transfer goroutine.

Thread Safety:
  - Exactly one goroutine may write (Write, WriteVector, AdvanceWrite)
    and exactly one may read (Read, ReadVector, AdvanceRead).
  - The cursors are monotonic atomic counters. Space and data queries
    may be called from either side without a lock: a stale cursor can
    only under-estimate what is available, never over-estimate it.
  - No locking, no allocation after construction. Safe to call from
    the audio callback.
*/
package ring

import (
	"sync/atomic"

	"jackcat/pkg/bitint"
)

// Buffer is a byte-oriented SPSC circular buffer. Capacity is rounded
// up to a power of two so wraparound reduces to a mask.
type Buffer struct {
	buf  []byte
	mask uint64

	w atomic.Uint64 // total bytes ever written (producer-owned)
	r atomic.Uint64 // total bytes ever read (consumer-owned)
}

// New creates a Buffer with capacity of at least size bytes, rounded
// up to the next power of two. Every page is touched at construction
// so the first real-time write does not fault.
func New(size int) *Buffer {
	capacity := bitint.NextPowerOfTwo(size)
	b := &Buffer{
		buf:  make([]byte, capacity),
		mask: uint64(capacity - 1),
	}
	for i := range b.buf {
		b.buf[i] = 0
	}
	return b
}

// Capacity returns the buffer capacity in bytes.
func (b *Buffer) Capacity() int {
	return len(b.buf)
}

// ReadSpace returns the number of bytes available to read. Called from
// the consumer it is exact; from the producer it is a lower bound.
func (b *Buffer) ReadSpace() int {
	return int(b.w.Load() - b.r.Load())
}

// WriteSpace returns the number of bytes free for writing. Called from
// the producer it is exact; from the consumer it is a lower bound.
func (b *Buffer) WriteSpace() int {
	return len(b.buf) - b.ReadSpace()
}

// Write copies up to len(p) bytes into the buffer and returns the
// number of bytes written. Producer side only.
func (b *Buffer) Write(p []byte) int {
	n := len(p)
	if space := b.WriteSpace(); n > space {
		n = space
	}
	if n == 0 {
		return 0
	}

	w := b.w.Load()
	i := int(w & b.mask)
	first := len(b.buf) - i
	if first > n {
		first = n
	}
	copy(b.buf[i:i+first], p[:first])
	copy(b.buf, p[first:n])

	b.w.Store(w + uint64(n))
	return n
}

// Read copies up to len(p) bytes out of the buffer and returns the
// number of bytes read. Consumer side only.
func (b *Buffer) Read(p []byte) int {
	n := len(p)
	if avail := b.ReadSpace(); n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}

	r := b.r.Load()
	i := int(r & b.mask)
	first := len(b.buf) - i
	if first > n {
		first = n
	}
	copy(p[:first], b.buf[i:i+first])
	copy(p[first:n], b.buf)

	b.r.Store(r + uint64(n))
	return n
}

// WriteVector returns up to two contiguous spans of free space, in
// write order. The second span is non-empty only when the free region
// wraps. The caller fills the spans directly and commits with
// AdvanceWrite. Producer side only.
func (b *Buffer) WriteVector() (first, second []byte) {
	w := b.w.Load()
	space := len(b.buf) - int(w-b.r.Load())
	i := int(w & b.mask)

	n := len(b.buf) - i
	if n > space {
		n = space
	}
	return b.buf[i : i+n], b.buf[:space-n]
}

// ReadVector returns up to two contiguous spans of readable data, in
// read order. The caller drains the spans directly and commits with
// AdvanceRead. Consumer side only.
func (b *Buffer) ReadVector() (first, second []byte) {
	r := b.r.Load()
	avail := int(b.w.Load() - r)
	i := int(r & b.mask)

	n := len(b.buf) - i
	if n > avail {
		n = avail
	}
	return b.buf[i : i+n], b.buf[:avail-n]
}

// AdvanceWrite commits n bytes previously filled through WriteVector.
// Producer side only.
func (b *Buffer) AdvanceWrite(n int) {
	b.w.Add(uint64(n))
}

// AdvanceRead commits n bytes previously drained through ReadVector.
// Consumer side only.
func (b *Buffer) AdvanceRead(n int) {
	b.r.Add(uint64(n))
}
