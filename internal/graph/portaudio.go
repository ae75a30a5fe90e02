// SPDX-License-Identifier: MIT
package graph

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"jackcat/internal/config"
	"jackcat/internal/log"
)

// PortAudioClient is a Client backed by one PortAudio stream with
// cfg.Ports channels on the configured side.
type PortAudioClient struct {
	stream *portaudio.Stream
	name   string
}

// Open registers cfg.Ports ports on the graph and prepares a stream
// that hands per-channel block buffers to process. The stream is not
// started until Activate.
func Open(cfg *config.Config, dir Direction, process ProcessFunc) (*PortAudioClient, error) {
	dev, err := Device(cfg.DeviceID, cfg.Connect, dir)
	if err != nil {
		return nil, fmt.Errorf("resolving device: %w", err)
	}

	params := portaudio.StreamParameters{
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.FramesPerBuffer,
	}

	var stream *portaudio.Stream
	switch dir {
	case Capture:
		if cfg.Ports > dev.MaxInputChannels {
			return nil, fmt.Errorf("cannot register %d input ports on %q (max %d)",
				cfg.Ports, dev.Name, dev.MaxInputChannels)
		}
		params.Input = portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: cfg.Ports,
			Latency:  dev.DefaultHighInputLatency,
		}
		stream, err = portaudio.OpenStream(params, func(in [][]float32) {
			process(in)
		})
	case Playback:
		if cfg.Ports > dev.MaxOutputChannels {
			return nil, fmt.Errorf("cannot register %d output ports on %q (max %d)",
				cfg.Ports, dev.Name, dev.MaxOutputChannels)
		}
		params.Output = portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: cfg.Ports,
			Latency:  dev.DefaultHighOutputLatency,
		}
		stream, err = portaudio.OpenStream(params, func(out [][]float32) {
			process(out)
		})
	default:
		return nil, fmt.Errorf("unknown direction %d", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("opening stream on %q: %w", dev.Name, err)
	}

	log.Infof("%s: %d ports on %q at %.0f Hz", cfg.ClientName, cfg.Ports, dev.Name, cfg.SampleRate)
	return &PortAudioClient{stream: stream, name: cfg.ClientName}, nil
}

// Activate starts the real-time scheduler invoking the process
// function.
func (c *PortAudioClient) Activate() error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("activating %s: %w", c.name, err)
	}
	return nil
}

// Deactivate stops callback delivery without draining buffered output,
// keeping shutdown latency bounded. Safe to call more than once.
func (c *PortAudioClient) Deactivate() error {
	if err := c.stream.Abort(); err != nil {
		return fmt.Errorf("deactivating %s: %w", c.name, err)
	}
	return nil
}

// Close releases the graph connection.
func (c *PortAudioClient) Close() error {
	if err := c.stream.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", c.name, err)
	}
	return nil
}
