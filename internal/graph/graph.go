// Package graph binds the transfer engine to the host audio graph
// through PortAudio. The engine sees the graph only as a set of
// registered ports whose per-block sample buffers are handed to a
// process function; everything PortAudio-specific stays here.
package graph

// Direction selects which side of the graph the ports attach to.
type Direction int

const (
	Capture  Direction = iota + 1 // graph delivers input buffers
	Playback                      // graph consumes output buffers
)

// ProcessFunc is invoked by the graph's real-time scheduler once per
// block with one sample buffer per registered port, in port-index
// order. The buffers are valid only for the duration of the call. The
// implementation must not block, allocate, or perform I/O.
type ProcessFunc func(buffers [][]float32)

// Client is an active audio-graph connection. Deactivate stops the
// scheduler from invoking the process function; Close releases the
// connection. Both are called from the shutdown path, never from the
// process function itself.
type Client interface {
	Activate() error
	Deactivate() error
	Close() error
}
