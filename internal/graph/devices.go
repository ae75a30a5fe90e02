package graph

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"

	"jackcat/internal/config"
)

// Indirection over the PortAudio library calls so device selection is
// testable without audio hardware.
var (
	paLibInitialize          = portaudio.Initialize
	paLibTerminate           = portaudio.Terminate
	paLibDevicesFunc         = portaudio.Devices
	paLibDefaultInputDevice  = portaudio.DefaultInputDevice
	paLibDefaultOutputDevice = portaudio.DefaultOutputDevice
)

// Initialize sets up the PortAudio subsystem. This must be called
// before any graph operations and paired with a Terminate() call.
func Initialize() error {
	if err := paLibInitialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate cleanly shuts down the PortAudio subsystem.
func Terminate() error {
	if err := paLibTerminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// Device resolves the graph device for a run. Precedence: an explicit
// device ID, then a match on the first connect name, then the system
// default for the direction.
func Device(deviceID int, connect []string, dir Direction) (*portaudio.DeviceInfo, error) {
	if deviceID != config.MinDeviceID {
		devices, err := paDevices()
		if err != nil {
			return nil, err
		}
		if deviceID < 0 || deviceID >= len(devices) {
			return nil, fmt.Errorf("invalid device ID: %d", deviceID)
		}
		return devices[deviceID], nil
	}

	if len(connect) > 0 {
		if dev, err := deviceByName(connect[0], dir); err == nil {
			return dev, nil
		}
		// Fall through to the default device: connect names that match
		// nothing are a usability concern, not fatal.
	}

	if dir == Capture {
		return paLibDefaultInputDevice()
	}
	return paLibDefaultOutputDevice()
}

// deviceByName finds a device whose name contains name
// (case-insensitive) and that has channels in the given direction.
func deviceByName(name string, dir Direction) (*portaudio.DeviceInfo, error) {
	devices, err := paDevices()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	for _, d := range devices {
		if !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		if dir == Capture && d.MaxInputChannels == 0 {
			continue
		}
		if dir == Playback && d.MaxOutputChannels == 0 {
			continue
		}
		return d, nil
	}
	return nil, fmt.Errorf("no device matching %q", name)
}

// ListDevices prints information about all available graph devices.
func ListDevices() error {
	devices, err := paDevices()
	if err != nil {
		return err
	}

	fmt.Printf("\nAvailable Audio Devices\n\n")

	for i, device := range devices {
		deviceType := ""
		switch {
		case device.MaxInputChannels > 0 && device.MaxOutputChannels > 0:
			deviceType = "Input/Output"
		case device.MaxInputChannels > 0:
			deviceType = "Input"
		case device.MaxOutputChannels > 0:
			deviceType = "Output"
		}

		fmt.Printf("[%d] %s (%s)\n", i, device.Name, deviceType)
		fmt.Printf("    Input channels: %d, Output channels: %d\n",
			device.MaxInputChannels, device.MaxOutputChannels)
		fmt.Printf("    Default sample rate: %.0f Hz\n", device.DefaultSampleRate)
		fmt.Printf("    Latency: Low=%.2fms, High=%.2fms\n",
			device.DefaultLowInputLatency.Seconds()*1000,
			device.DefaultHighInputLatency.Seconds()*1000)
		fmt.Println()
	}

	return nil
}

func paDevices() ([]*portaudio.DeviceInfo, error) {
	devices, err := paLibDevicesFunc()
	if err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []*portaudio.DeviceInfo{}
	}
	return devices, nil
}
