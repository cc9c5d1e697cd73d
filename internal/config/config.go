// Package config manages persistent preferences for the theremin.
// Settings are stored as JSON at os.UserConfigDir()/theremin/config.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Volume mapping modes.
const (
	VolumeMappingObserved = "observed"
	VolumeMappingLinear   = "linear"
)

// Config holds all user preferences. Command-line flags override the
// values loaded from disk.
type Config struct {
	CameraID     int     `json:"camera_id"`
	FrameWidth   int     `json:"frame_width"`
	FrameHeight  int     `json:"frame_height"`
	FPS          int     `json:"fps"`
	MotionThresh float64 `json:"motion_threshold"` // percent of changed pixels; 0 disables the gate

	SmoothingFactor float64 `json:"smoothing_factor"`
	ChangeLimit     float64 `json:"change_limit"`

	MinNote       int     `json:"min_note"`
	MaxNote       int     `json:"max_note"`
	VolumeMin     float64 `json:"volume_min"`
	VolumeMax     float64 `json:"volume_max"`
	VolumeMapping string  `json:"volume_mapping"`

	ToneDuration float64 `json:"tone_duration"` // seconds
	FadeDuration float64 `json:"fade_duration"` // seconds
	SampleRate   int     `json:"sample_rate"`
	Amplitude    float64 `json:"amplitude"`
	OutputDevice int     `json:"output_device"` // -1 selects the default device

	Addr     string `json:"addr"`
	Record   bool   `json:"record"`
	DBPath   string `json:"db_path"`
	LogLevel string `json:"log_level"`
}

// Default returns a Config populated with the instrument's defaults.
func Default() Config {
	return Config{
		CameraID:     0,
		FrameWidth:   640,
		FrameHeight:  480,
		FPS:          30,
		MotionThresh: 1.0,

		SmoothingFactor: 0.5,
		ChangeLimit:     50,

		MinNote:       24,
		MaxNote:       84,
		VolumeMin:     0,
		VolumeMax:     100,
		VolumeMapping: VolumeMappingObserved,

		ToneDuration: 1.0,
		FadeDuration: 0.1,
		SampleRate:   44100,
		Amplitude:    4096,
		OutputDevice: -1,

		Addr:     ":8080",
		Record:   false,
		LogLevel: "info",
	}
}

// Dir returns the directory holding the config file and the default database.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theremin"), nil
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file. If the file is missing or unreadable, the
// default config is returned. It never returns an error.
func Load() Config {
	path, err := Path()
	if err != nil {
		return Default()
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, falling back to defaults.
func LoadFrom(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// Save writes cfg to the default location, creating the directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate reports the first value that the instrument cannot run with.
func (c Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	case c.FrameWidth <= 0 || c.FrameHeight <= 0:
		return fmt.Errorf("frame size must be positive, got %dx%d", c.FrameWidth, c.FrameHeight)
	case c.SmoothingFactor <= 0 || c.SmoothingFactor > 1:
		return fmt.Errorf("smoothing factor must be in (0, 1], got %g", c.SmoothingFactor)
	case c.ChangeLimit < 0:
		return fmt.Errorf("change limit must not be negative, got %g", c.ChangeLimit)
	case c.MinNote >= c.MaxNote:
		return fmt.Errorf("min note %d must be below max note %d", c.MinNote, c.MaxNote)
	case c.VolumeMapping != VolumeMappingObserved && c.VolumeMapping != VolumeMappingLinear:
		return fmt.Errorf("unknown volume mapping %q", c.VolumeMapping)
	case c.ToneDuration <= 0:
		return fmt.Errorf("tone duration must be positive, got %g", c.ToneDuration)
	case c.FadeDuration < 0:
		return fmt.Errorf("fade duration must not be negative, got %g", c.FadeDuration)
	case c.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	case c.Amplitude <= 0 || c.Amplitude > 32767:
		return fmt.Errorf("amplitude must be in (0, 32767], got %g", c.Amplitude)
	}
	return nil
}
