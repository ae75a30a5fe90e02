// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is probed when no --config flag is given.
const DefaultConfigFile = "jackcat.yaml"

// fileConfig mirrors the YAML layout of the optional configuration
// file. Only fields present in the file override the built-in
// defaults; flags still win over both.
type fileConfig struct {
	LogLevel   string `yaml:"log_level"`   // Logging level (e.g. "debug", "info").
	ClientName string `yaml:"client_name"` // Client name presented to the audio graph.

	Audio struct {
		Device          int     `yaml:"device"`            // Graph device ID (-1 for default).
		SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz.
		FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per graph block.
	} `yaml:"audio"`

	Transfer struct {
		BlockSize string `yaml:"block_size"` // Max bytes per disk syscall, k/m/g suffixes allowed.
		RingSize  string `yaml:"ring_size"`  // Ring buffer capacity, k/m/g suffixes allowed.
	} `yaml:"transfer"`
}

// LoadFile overlays settings from a YAML file onto c. An empty path
// probes DefaultConfigFile and is not an error when absent.
func (c *Config) LoadFile(path string) error {
	probed := false
	if path == "" {
		path = DefaultConfigFile
		probed = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if probed && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	fc.Audio.Device = MinDeviceID - 1 // sentinel: distinguish "unset" from default device
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.LogLevel != "" {
		c.Verbose = fc.LogLevel == "debug"
	}
	if fc.ClientName != "" {
		c.ClientName = fc.ClientName
	}
	if fc.Audio.Device >= MinDeviceID {
		c.DeviceID = fc.Audio.Device
	}
	if fc.Audio.SampleRate != 0 {
		c.SampleRate = fc.Audio.SampleRate
	}
	if fc.Audio.FramesPerBuffer != 0 {
		c.FramesPerBuffer = fc.Audio.FramesPerBuffer
	}
	if fc.Transfer.BlockSize != "" {
		n, err := ParseSize(fc.Transfer.BlockSize)
		if err != nil {
			return fmt.Errorf("config file block_size: %w", err)
		}
		c.BlockSize = n
	}
	if fc.Transfer.RingSize != "" {
		n, err := ParseSize(fc.Transfer.RingSize)
		if err != nil {
			return fmt.Errorf("config file ring_size: %w", err)
		}
		c.RingSize = n
	}
	return nil
}
