// Package stream defines the on-disk raw sample format: a short ASCII
// header followed by interleaved 4-byte IEEE-754 float samples in
// native endianness, channel-major within each frame. No framing, no
// trailer, no checksums.
package stream

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

const (
	// Magic is the leading file identifier.
	Magic = "JACK"

	// SampleSize is the width of one sample in bytes (float32).
	SampleSize = 4

	// MaxChannels is an artificial upper bound on the channel count.
	MaxChannels = 32
)

// WriteHeader writes the stream header: "JACK", the channel count in
// ASCII decimal, and a terminating NUL. For 1-9 channels the header is
// exactly 6 bytes.
func WriteHeader(w io.Writer, channels int) error {
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("invalid channel count %d", channels)
	}
	h := append([]byte(Magic), strconv.Itoa(channels)...)
	h = append(h, 0)
	if _, err := w.Write(h); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// ReadHeader consumes the stream header and returns the advertised
// channel count.
func ReadHeader(r io.Reader) (int, error) {
	var magic [len(Magic)]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}
	if string(magic[:]) != Magic {
		return 0, fmt.Errorf("bad magic %q", magic)
	}

	// Channel count: ASCII digits up to a NUL. Two digits at most for
	// the supported range, read three to reject junk with a clear error.
	var digits []byte
	var b [1]byte
	for i := 0; i < 3; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, fmt.Errorf("reading header: %w", err)
		}
		if b[0] == 0 {
			channels, err := strconv.Atoi(string(digits))
			if err != nil || channels < 1 || channels > MaxChannels {
				return 0, fmt.Errorf("bad channel count %q in header", digits)
			}
			return channels, nil
		}
		digits = append(digits, b[0])
	}
	return 0, fmt.Errorf("unterminated channel count in header")
}

// Create opens path for capture, truncating any previous run, and
// writes the stream header. The header bytes are not accounted in the
// transfer counters.
func Create(path string, channels int) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := WriteHeader(f, channels); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Open opens path for playback and returns the file positioned at the
// first sample along with the advertised channel count.
func Open(path string) (*os.File, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open %s: %w", path, err)
	}
	channels, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return f, channels, nil
}
