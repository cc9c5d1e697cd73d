package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/theremin/internal/config"
	"github.com/ayusman/theremin/internal/mapping"
	"github.com/ayusman/theremin/internal/synth"
	"github.com/ayusman/theremin/internal/tuner"
)

type renderOptions struct {
	frequency float64
	note      float64
	duration  float64
	volume    float64
	output    string
}

func newRenderCmd(cfg *config.Config) *cobra.Command {
	opts := renderOptions{
		duration: synth.DefaultDuration,
		volume:   50,
		output:   "tone.wav",
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one tone to a WAV file",
		Long:  "Render one tone exactly as the instrument would play it, faded edges included, to a 16-bit stereo WAV file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			freq := opts.frequency
			if cmd.Flags().Changed("note") {
				freq = mapping.NoteToFrequency(opts.note)
			}
			return render(cmd, *cfg, freq, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.frequency, "frequency", 440, "tone frequency in Hz")
	f.Float64Var(&opts.note, "note", 69, "MIDI note number; overrides --frequency")
	f.Float64Var(&opts.duration, "duration", opts.duration, "tone length in seconds")
	f.Float64Var(&opts.volume, "volume", opts.volume, "volume in [0, 100]")
	f.StringVarP(&opts.output, "output", "o", opts.output, "output WAV path")
	f.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "sample rate in Hz")
	f.Float64Var(&cfg.FadeDuration, "fade", cfg.FadeDuration, "fade in/out length in seconds")

	return cmd
}

func render(cmd *cobra.Command, cfg config.Config, freq float64, opts renderOptions) error {
	if freq <= 0 {
		return fmt.Errorf("frequency must be positive, got %g", freq)
	}
	if opts.duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", opts.duration)
	}

	s := synth.New(synth.Config{
		SampleRate:   cfg.SampleRate,
		Amplitude:    cfg.Amplitude,
		FadeDuration: cfg.FadeDuration,
	})
	samples := s.Synthesize(freq, opts.duration, opts.volume)

	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := synth.WriteWAV(f, samples, s.SampleRate()); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %.2f Hz (%s) for %.2fs at %d Hz to %s\n",
		freq, tuner.Read(freq), opts.duration, s.SampleRate(), opts.output)
	return f.Close()
}
