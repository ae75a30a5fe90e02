package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jackcat/internal/config"
	"jackcat/internal/stream"
)

// waitUntil polls cond for up to timeout. The disk goroutine has no
// deadline of its own, so tests bound it here.
func waitUntil(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newFileEngine(t *testing.T, mode config.Mode, ports, ringSize int) *Engine {
	t.Helper()
	cfg := testConfig(mode, ports, ringSize)
	cfg.FilePath = filepath.Join(t.TempDir(), "take.jack")
	return New(cfg)
}

func TestDiskWriterHeaderAndData(t *testing.T) {
	e := newFileEngine(t, config.ModeCapture, 2, 1<<16)
	block := makeBlock(2, 16, 1)

	e.StartDisk()
	e.CaptureBlock(block)

	waitUntil(t, 2*time.Second, "ring drain", func() bool {
		return e.ring.ReadSpace() == 0
	})
	e.Stop()
	if !e.WaitDisk(2 * time.Second) {
		t.Fatal("disk writer did not exit")
	}

	data, err := os.ReadFile(e.cfg.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := []byte{'J', 'A', 'C', 'K', '2', 0}
	if !bytes.Equal(data[:6], wantHeader) {
		t.Errorf("header = %v, want %v", data[:6], wantHeader)
	}
	want := interleave(block)
	if !bytes.Equal(data[6:], want) {
		t.Errorf("payload mismatch: %d bytes, want %d", len(data)-6, len(want))
	}

	// Header bytes are not accounted in the transfer counters.
	if got := e.state.DiskBytes.Load(); got != uint64(len(want)) {
		t.Errorf("DiskBytes = %d, want %d", got, len(want))
	}
	if e.state.DiskOps.Load() == 0 {
		t.Error("DiskOps not incremented")
	}
}

func TestDiskWriterShutdownLatency(t *testing.T) {
	e := newFileEngine(t, config.ModeCapture, 1, 1024)
	e.StartDisk()

	// Let it reach the wait-for-data state, then stop.
	time.Sleep(10 * time.Millisecond)
	e.Stop()
	if !e.WaitDisk(500 * time.Millisecond) {
		t.Fatal("disk writer did not exit within the grace period")
	}
}

func TestDiskWriterBadPathStopsRun(t *testing.T) {
	cfg := testConfig(config.ModeCapture, 1, 1024)
	cfg.FilePath = filepath.Join(t.TempDir(), "missing", "take.jack")
	e := New(cfg)

	e.StartDisk()
	if !e.WaitDisk(2 * time.Second) {
		t.Fatal("disk writer did not exit")
	}
	if !e.state.Stopping() {
		t.Error("file open failure must set the stop flag")
	}
}

func TestDiskReaderFillsRingThenEOF(t *testing.T) {
	e := newFileEngine(t, config.ModePlayback, 2, 1<<16)
	block := makeBlock(2, 16, 3)
	payload := interleave(block)
	writeTake(t, e.cfg.FilePath, 2, payload)

	e.StartDisk()
	if !e.WaitDisk(2 * time.Second) {
		t.Fatal("disk reader did not exit")
	}

	if !e.state.AtEOF() {
		t.Error("eof flag not set")
	}
	if e.state.Stopping() {
		t.Error("reader must not stop the run itself; the callback does on eof")
	}
	if got := e.ring.ReadSpace(); got != len(payload) {
		t.Fatalf("ReadSpace = %d, want %d", got, len(payload))
	}
	got := make([]byte, len(payload))
	e.ring.Read(got)
	if !bytes.Equal(got, payload) {
		t.Error("ring content differs from file payload")
	}
	if e.state.DiskBytes.Load() != uint64(len(payload)) {
		t.Errorf("DiskBytes = %d, want %d", e.state.DiskBytes.Load(), len(payload))
	}
}

func TestDiskReaderOddLengthTerminates(t *testing.T) {
	// 10 payload bytes: not a multiple of channels*4 for any frame
	// shape. The reader must still terminate through a short/zero read.
	e := newFileEngine(t, config.ModePlayback, 2, 1024)
	writeTake(t, e.cfg.FilePath, 2, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	e.StartDisk()
	if !e.WaitDisk(2 * time.Second) {
		t.Fatal("disk reader hung on odd-length file")
	}
	if !e.state.AtEOF() {
		t.Error("eof flag not set")
	}
	if e.ring.ReadSpace() != 10 {
		t.Errorf("ReadSpace = %d, want 10", e.ring.ReadSpace())
	}
}

func TestDiskReaderClampsToBlockSize(t *testing.T) {
	e := newFileEngine(t, config.ModePlayback, 1, 1024)
	e.cfg.BlockSize = 8
	writeTake(t, e.cfg.FilePath, 1, make([]byte, 64))

	e.StartDisk()
	if !e.WaitDisk(2 * time.Second) {
		t.Fatal("disk reader did not exit")
	}
	// One transfer per iteration, each at most BlockSize bytes: 64
	// bytes arrive in exactly 8 counted reads; the terminal zero read
	// is not counted.
	if got := e.state.DiskOps.Load(); got != 8 {
		t.Errorf("DiskOps = %d, want 8", got)
	}
	if got := e.state.DiskBytes.Load(); got != 64 {
		t.Errorf("DiskBytes = %d, want 64", got)
	}
}

func TestDiskReaderChannelMismatchStillPlays(t *testing.T) {
	e := newFileEngine(t, config.ModePlayback, 2, 1024)
	writeTake(t, e.cfg.FilePath, 3, make([]byte, 24))

	e.StartDisk()
	if !e.WaitDisk(2 * time.Second) {
		t.Fatal("disk reader did not exit")
	}
	// Mismatch is a reader-side usability concern, not enforced.
	if e.ring.ReadSpace() != 24 {
		t.Errorf("ReadSpace = %d, want 24", e.ring.ReadSpace())
	}
}

func TestDiskReaderMissingFileStopsRun(t *testing.T) {
	e := newFileEngine(t, config.ModePlayback, 2, 1024)

	e.StartDisk()
	if !e.WaitDisk(2 * time.Second) {
		t.Fatal("disk reader did not exit")
	}
	if !e.state.Stopping() {
		t.Error("file open failure must set the stop flag")
	}
}

// TestRoundTrip captures blocks to a file, replays the file, and
// verifies the interleaved sample sequence is reproduced byte-exact.
// The ring is larger than the total data so zero overflows/underruns
// are expected.
func TestRoundTrip(t *testing.T) {
	const ports, frames, blocks = 2, 128, 3

	rec := newFileEngine(t, config.ModeCapture, ports, 1<<20)
	var sent [][][]float32
	rec.StartDisk()
	for i := 0; i < blocks; i++ {
		block := makeBlock(ports, frames, float32(i+1))
		sent = append(sent, block)
		rec.CaptureBlock(block)
	}
	waitUntil(t, 2*time.Second, "capture drain", func() bool {
		return rec.ring.ReadSpace() == 0
	})
	rec.Stop()
	if !rec.WaitDisk(2 * time.Second) {
		t.Fatal("capture disk writer did not exit")
	}
	if rec.state.Overflows.Load() != 0 {
		t.Fatalf("Overflows = %d, want 0", rec.state.Overflows.Load())
	}

	play := New(testConfig(config.ModePlayback, ports, 1<<20))
	play.cfg.FilePath = rec.cfg.FilePath
	play.StartDisk()
	waitUntil(t, 2*time.Second, "playback prefill", func() bool {
		return play.state.AtEOF()
	})

	for i := 0; i < blocks; i++ {
		out := makeBlock(ports, frames, -1)
		play.PlaybackBlock(out)
		for ch := 0; ch < ports; ch++ {
			for f := 0; f < frames; f++ {
				if out[ch][f] != sent[i][ch][f] {
					t.Fatalf("block %d out[%d][%d] = %v, want %v",
						i, ch, f, out[ch][f], sent[i][ch][f])
				}
			}
		}
	}
	if play.state.Underruns.Load() != 0 {
		t.Errorf("Underruns = %d, want 0", play.state.Underruns.Load())
	}

	// The next block finds the ring empty and, with eof set, ends the
	// run.
	play.PlaybackBlock(makeBlock(ports, frames, 0))
	if !play.state.Stopping() {
		t.Error("exhausted playback must stop the run")
	}
	if !play.WaitDisk(2 * time.Second) {
		t.Fatal("playback disk reader did not exit")
	}
}

// writeTake writes a playback file with the given header channel count
// and raw payload.
func writeTake(t *testing.T, path string, channels int, payload []byte) {
	t.Helper()
	f, err := stream.Create(path, channels)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
