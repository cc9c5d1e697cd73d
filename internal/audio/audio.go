// Package audio plays synthesized sample buffers on an output device.
package audio

import "errors"

// ErrUnknownHandle is returned when stopping a handle the sink never issued.
var ErrUnknownHandle = errors.New("unknown tone handle")

// ErrClosed is returned by a sink after Close.
var ErrClosed = errors.New("audio sink closed")

// Handle identifies a buffer handed to a Sink. The zero Handle is never issued.
type Handle uint64

// Sink plays interleaved stereo int16 buffers asynchronously.
type Sink interface {
	// Play starts playing samples and returns immediately.
	Play(samples []int16, sampleRate int) (Handle, error)
	// Stop silences the buffer at once. Stopping a buffer that already
	// finished is not an error.
	Stop(h Handle) error
}
