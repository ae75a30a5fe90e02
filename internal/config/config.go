package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the transfer direction for a run.
type Mode int

const (
	ModeNone     Mode = iota
	ModeCapture       // audio graph -> file
	ModePlayback      // file -> audio graph
)

// Core configuration constants that define the boundaries and defaults
// for the transfer pipeline.
const (
	DefaultBlockSize  = 1 << 20 // Max bytes per disk syscall
	DefaultRingSize   = 1 << 20 // Ring buffer capacity in bytes
	DefaultClientName = "jackcat"
	DefaultSampleRate = 44100 // CD-quality audio
	DefaultFrames     = 512   // Frames per graph block (0 lets the host choose)
	DefaultDeviceID   = MinDeviceID
	DefaultDuration   = 0 // Run until signaled

	// Hardware and processing limits
	MinDeviceID   = -1     // -1 selects the system default device
	MinPorts      = 1      // At least one port per run
	MaxPorts      = 32     // Artificial limit, matches the file format
	MinSampleRate = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate = 192000 // Maximum supported sample rate (Hz)
)

// Config holds all runtime configuration for a capture or playback
// run. It is constructed from command line flags, optionally seeded
// from a YAML file.
type Config struct {
	// Run Definition
	Mode     Mode     // Capture or playback
	FilePath string   // File to capture into or play from
	Ports    int      // Number of audio ports (channels)
	Connect  []string // External port names to auto-connect, in port order

	// Transfer Tuning
	BlockSize int // Max bytes per single disk read/write
	RingSize  int // Ring buffer capacity in bytes
	Duration  int // Run duration in seconds (0 = until signaled)

	// Graph Binding
	ClientName      string  // Client name presented to the audio graph
	DeviceID        int     // Graph device ID (-1 for default)
	SampleRate      float64 // Sample rate in Hz
	FramesPerBuffer int     // Frames per graph block

	// Debug Options
	Verbose bool   // Enable debug logging
	Command string // One-off command to execute (e.g. "list")
}

// NewConfig creates a Config with default values, the base onto which
// file and flag settings are applied.
func NewConfig() *Config {
	return &Config{
		BlockSize:       DefaultBlockSize,
		RingSize:        DefaultRingSize,
		ClientName:      DefaultClientName,
		DeviceID:        DefaultDeviceID,
		SampleRate:      DefaultSampleRate,
		FramesPerBuffer: DefaultFrames,
		Duration:        DefaultDuration,
	}
}

// Validate checks the assembled configuration before any file or
// audio-graph setup happens.
func (c *Config) Validate() error {
	if c.Mode != ModeCapture && c.Mode != ModePlayback {
		return fmt.Errorf("either capture or play is required")
	}
	if c.FilePath == "" {
		return fmt.Errorf("a file name is required")
	}
	if c.Ports < MinPorts || c.Ports > MaxPorts {
		return fmt.Errorf("port count %d out of range %d..%d (set --ports or name ports to connect)",
			c.Ports, MinPorts, MaxPorts)
	}
	if len(c.Connect) > 0 && len(c.Connect) != c.Ports {
		return fmt.Errorf("%d ports but %d connect names", c.Ports, len(c.Connect))
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	if c.RingSize <= 0 {
		return fmt.Errorf("ring size must be positive, got %d", c.RingSize)
	}
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample rate %.0f out of range %d..%d", c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.FramesPerBuffer < 0 {
		return fmt.Errorf("frames per buffer must not be negative, got %d", c.FramesPerBuffer)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %d", c.Duration)
	}
	return nil
}

// ParseSize parses a byte count with an optional k/m/g suffix
// (powers of 1024), e.g. "512", "64k", "1m".
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := 1
	switch last := s[len(s)-1]; last {
	case 'k', 'K':
		multiplier = 1 << 10
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1 << 20
		s = s[:len(s)-1]
	case 'g', 'G':
		multiplier = 1 << 30
		s = s[:len(s)-1]
	default:
		if last < '0' || last > '9' {
			return 0, fmt.Errorf("invalid size suffix %q", string(last))
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("size must be positive, got %d", n)
	}
	return n * multiplier, nil
}
