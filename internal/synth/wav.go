package synth

import (
	"fmt"
	"io"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// WriteWAV encodes interleaved stereo int16 samples as a 16-bit PCM WAV file.
func WriteWAV(w io.WriteSeeker, samples []int16, sampleRate int) error {
	if len(samples)%Channels != 0 {
		return fmt.Errorf("write wav: %d samples is not a whole number of stereo frames", len(samples))
	}

	data := make([]float32, len(samples))
	for i, s := range samples {
		data[i] = float32(s) / 32768
	}

	// 16-bit PCM (audioFormat = 1)
	enc := wav.NewEncoder(w, sampleRate, 16, Channels, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: Channels,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}
