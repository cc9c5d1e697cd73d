package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ayusman/theremin/internal/log"
)

// Channels is the number of interleaved output channels.
const Channels = 2

// FramesPerBuffer is the callback block size.
const FramesPerBuffer = 512

// PortAudioSink plays buffers on a PortAudio output stream. All buffers
// share one stream and are mixed in the stream callback.
type PortAudioSink struct {
	mu         sync.Mutex
	stream     *portaudio.Stream
	mixer      *Mixer
	sampleRate int
	closed     bool
}

// OutputDevice describes an available output device.
type OutputDevice struct {
	ID       int
	Name     string
	Channels int
}

// ListOutputDevices returns the devices with at least one output channel.
// The ID is the index accepted by NewPortAudioSink.
func ListOutputDevices() ([]OutputDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	var out []OutputDevice
	for i, d := range devices {
		if d.MaxOutputChannels > 0 {
			out = append(out, OutputDevice{ID: i, Name: d.Name, Channels: d.MaxOutputChannels})
		}
	}
	return out, nil
}

// NewPortAudioSink initializes PortAudio and starts an output stream on the
// device at deviceID, or the default output device when deviceID is out of
// range (-1 selects the default).
func NewPortAudioSink(sampleRate, deviceID int) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	s := &PortAudioSink{
		mixer:      NewMixer(),
		sampleRate: sampleRate,
	}

	devices, err := portaudio.Devices()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("list devices: %w", err)
	}
	dev, err := resolveDevice(devices, deviceID, portaudio.DefaultOutputDevice)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("resolve output device: %w", err)
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: Channels,
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: FramesPerBuffer,
	}
	stream, err := portaudio.OpenStream(params, s.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start output stream: %w", err)
	}
	s.stream = stream

	log.Component("audio").Info("output stream started",
		"device", dev.Name, "sample_rate", sampleRate)
	return s, nil
}

// resolveDevice returns the device at idx if valid, otherwise calls fallback.
func resolveDevice(devices []*portaudio.DeviceInfo, idx int, fallback func() (*portaudio.DeviceInfo, error)) (*portaudio.DeviceInfo, error) {
	if idx >= 0 && idx < len(devices) && devices[idx].MaxOutputChannels > 0 {
		return devices[idx], nil
	}
	return fallback()
}

// process is the stream callback.
func (s *PortAudioSink) process(out []int16) {
	s.mixer.Mix(out)
}

// Play implements Sink.
func (s *PortAudioSink) Play(samples []int16, sampleRate int) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if sampleRate != s.sampleRate {
		return 0, fmt.Errorf("play: sample rate %d does not match stream rate %d", sampleRate, s.sampleRate)
	}
	return s.mixer.Add(samples), nil
}

// Stop implements Sink.
func (s *PortAudioSink) Stop(h Handle) error {
	return s.mixer.Remove(h)
}

// Close stops the stream and terminates PortAudio.
func (s *PortAudioSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.mixer.Reset()

	if err := s.stream.Stop(); err != nil {
		return fmt.Errorf("stop output stream: %w", err)
	}
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("close output stream: %w", err)
	}
	return portaudio.Terminate()
}
