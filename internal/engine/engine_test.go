package engine

import (
	"testing"
	"time"

	"jackcat/internal/config"
)

func TestNewSizesRingFromConfig(t *testing.T) {
	e := New(testConfig(config.ModeCapture, 2, 1000))
	// Capacity rounds up to a power of two.
	if got := e.ring.Capacity(); got != 1024 {
		t.Errorf("ring capacity = %d, want 1024", got)
	}
}

func TestStopWakesAndSetsFlag(t *testing.T) {
	e := New(testConfig(config.ModeCapture, 1, 1024))
	e.Stop()
	if !e.State().Stopping() {
		t.Error("Stop must set the stop flag")
	}

	// The wake must be pending for the disk goroutine.
	start := time.Now()
	e.waker.Wait(time.Second)
	if time.Since(start) > 200*time.Millisecond {
		t.Error("Stop did not leave a pending wake")
	}
}

func TestWaitDiskTimesOutWithoutThread(t *testing.T) {
	e := New(testConfig(config.ModeCapture, 1, 1024))
	if e.WaitDisk(20 * time.Millisecond) {
		t.Error("WaitDisk should time out when no disk goroutine runs")
	}
}
