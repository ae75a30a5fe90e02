package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"jackcat/cmd"
	"jackcat/internal/config"
	"jackcat/internal/engine"
	"jackcat/internal/graph"
	"jackcat/internal/log"
	"jackcat/pkg/build"
)

// diskJoinGrace bounds how long shutdown waits for the disk goroutine
// after stop is signaled.
const diskJoinGrace = 2 * time.Second

// main is the entry point for the audio tap/injector.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Configure runtime settings
//   - Parse command line arguments and config file
//   - Initialize the audio graph, execute one-off commands
//
// 2. Concurrent Phase (Hot Path):
//   - Start the disk transfer goroutine
//   - Activate the graph connection; the real-time scheduler begins
//     invoking the block handler
//   - Report transfer counters once per second
//
// 3. Shutdown Phase (Cold Path):
//   - React to termination signals, the run-duration timer, or
//     end-of-file
//   - Tear down the graph connection
//   - Join the disk goroutine within a bounded grace period
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	build.Initialize()

	// One OS thread for the real-time callback, one for disk I/O and
	// reporting.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs()
	if err != nil {
		// Configuration errors end the process before any file or
		// audio setup.
		log.Fatalf("%v", err)
	}
	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
	}

	if err := graph.Initialize(); err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}
	defer graph.Terminate()

	// One-off commands that don't need a run.
	if cfg.Command == "list" {
		if err := graph.ListDevices(); err != nil {
			log.Errorf("%v", err)
			os.Exit(2)
		}
		return
	}
	if cfg.Mode == config.ModeNone {
		// Help was shown.
		return
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	eng := engine.New(cfg)
	eng.StartDisk()

	process, dir := eng.CaptureBlock, graph.Capture
	if cfg.Mode == config.ModePlayback {
		process, dir = eng.PlaybackBlock, graph.Playback
	}

	client, err := graph.Open(cfg, dir, process)
	if err != nil {
		log.Errorf("%v", err)
		eng.Stop()
		eng.WaitDisk(diskJoinGrace)
		os.Exit(2)
	}

	// CRITICAL: the first block is delivered as soon as the stream
	// starts; everything the handler touches is allocated by now.
	if err := client.Activate(); err != nil {
		log.Errorf("%v", err)
		client.Close()
		eng.Stop()
		eng.WaitDisk(diskJoinGrace)
		os.Exit(2)
	}

	// Termination signals and the optional run-duration timer funnel
	// into the same stop path as end-of-file.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	var expired <-chan time.Time
	if cfg.Duration > 0 {
		expired = time.After(time.Duration(cfg.Duration) * time.Second)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	state := eng.State()
	for !state.Stopping() {
		select {
		case <-done:
			log.Infof("signal received, stopping")
			eng.Stop()
		case <-expired:
			log.Infof("run duration reached, stopping")
			eng.Stop()
		case <-ticker.C:
			logStatus(state.Snapshot())
		}
	}

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	eng.Stop()
	logStatus(state.Snapshot())

	if err := client.Deactivate(); err != nil {
		log.Warnf("deactivating graph connection: %v", err)
	}
	if err := client.Close(); err != nil {
		log.Warnf("closing graph connection: %v", err)
	}

	if !eng.WaitDisk(diskJoinGrace) {
		log.Warnf("disk thread did not exit within %v; last block may be incomplete", diskJoinGrace)
	}
}

// logStatus prints the running counter summary, once per second during
// the run and once more on shutdown.
func logStatus(s engine.Snapshot) {
	log.Infof("calls %d  disk %d ops / %d bytes  overflows %d  underruns %d",
		s.Calls, s.DiskOps, s.DiskBytes, s.Overflows, s.Underruns)
}
