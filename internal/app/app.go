// Package app runs the instrument's control loop: frames in, tones and
// feedback out.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/theremin/internal/audio"
	"github.com/ayusman/theremin/internal/capture"
	"github.com/ayusman/theremin/internal/detector"
	"github.com/ayusman/theremin/internal/log"
	"github.com/ayusman/theremin/internal/mapping"
	"github.com/ayusman/theremin/internal/playback"
	"github.com/ayusman/theremin/internal/smooth"
	"github.com/ayusman/theremin/internal/store"
	"github.com/ayusman/theremin/internal/synth"
	"github.com/ayusman/theremin/internal/ui"
)

// ErrNotReady wraps failures to bring up the camera, audio or journal.
// Per-tick misses are never reported with it.
var ErrNotReady = errors.New("instrument not ready")

// Default loop settings.
const (
	DefaultFPS             = 30
	DefaultSmoothingFactor = 0.5
	DefaultChangeLimit     = 50.0
	DefaultToneDuration    = 1.0 // seconds
)

// Config wires a Session to its collaborators. Camera, Detector and Sink are
// required.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Sink     audio.Sink

	// UI receives feedback; nil discards it.
	UI ui.Sink
	// Commands delivers user requests; nil means none.
	Commands <-chan ui.Command
	// Journal records triggered tones when set.
	Journal *store.Journal

	Mapper       *mapping.Mapper
	Synth        *synth.Synthesizer
	ToneDuration float64

	FPS             int
	SmoothingFactor float64
	// ChangeLimit of zero holds both outputs at their first value; a
	// negative limit selects DefaultChangeLimit.
	ChangeLimit float64
	// MotionThresh is the motion gate threshold in percent; 0 disables it.
	MotionThresh float64

	// Now is the clock used for the frame rate; defaults to time.Now.
	Now func() time.Time
}

// ControlState is the memory carried from one tick to the next.
type ControlState struct {
	Frequency    float64
	Volume       float64
	HasFrequency bool
	Previous     playback.Tone
	PrevFrame    time.Time
	FPS          float64
}

// Status is a snapshot of the session for observers on other goroutines.
type Status struct {
	Frequency       float64 `json:"frequency"`
	Volume          float64 `json:"volume"`
	FPS             float64 `json:"fps"`
	Note            string  `json:"note"`
	Cents           int     `json:"cents"`
	Muted           bool    `json:"muted"`
	SmoothingFactor float64 `json:"smoothing_factor"`
	ChangeLimit     float64 `json:"change_limit"`
	SessionID       string  `json:"session_id,omitempty"`
	Ticks           uint64  `json:"ticks"`
}

// Session owns all state of one performance. Tick and Run must be called
// from a single goroutine; Status is safe from any goroutine.
type Session struct {
	cfg        Config
	ui         ui.Sink
	freq       *smooth.Smoother
	vol        *smooth.Smoother
	controller *playback.Controller
	gate       *capture.MotionGate
	state      ControlState
	quit       bool
	logger     *slog.Logger

	mu     sync.RWMutex
	status Status
}

// NewSession validates cfg and fills in defaults.
func NewSession(cfg Config) (*Session, error) {
	switch {
	case cfg.Camera == nil:
		return nil, fmt.Errorf("%w: no camera", ErrNotReady)
	case cfg.Detector == nil:
		return nil, fmt.Errorf("%w: no hand detector", ErrNotReady)
	case cfg.Sink == nil:
		return nil, fmt.Errorf("%w: no audio sink", ErrNotReady)
	}

	if cfg.UI == nil {
		cfg.UI = ui.Discard
	}
	if cfg.Mapper == nil {
		cfg.Mapper = mapping.NewMapper()
	}
	if cfg.Synth == nil {
		cfg.Synth = synth.New(synth.DefaultConfig())
	}
	if cfg.ToneDuration <= 0 {
		cfg.ToneDuration = DefaultToneDuration
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.SmoothingFactor <= 0 {
		cfg.SmoothingFactor = DefaultSmoothingFactor
	}
	if cfg.ChangeLimit < 0 {
		cfg.ChangeLimit = DefaultChangeLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Session{
		cfg:        cfg,
		ui:         cfg.UI,
		freq:       smooth.New(cfg.SmoothingFactor, cfg.ChangeLimit),
		vol:        smooth.New(cfg.SmoothingFactor, cfg.ChangeLimit),
		controller: playback.New(cfg.Sink, cfg.Synth, cfg.ToneDuration),
		gate:       capture.NewMotionGate(cfg.MotionThresh),
		logger:     log.Component("app"),
	}
	s.status = Status{
		Note:            "-",
		SmoothingFactor: cfg.SmoothingFactor,
		ChangeLimit:     cfg.ChangeLimit,
	}
	return s, nil
}

// Start opens the camera and, when recording, begins a journal session.
func (s *Session) Start() error {
	if err := s.cfg.Camera.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	s.cfg.Camera.SetFPS(s.cfg.FPS)

	if s.cfg.Journal != nil {
		id, err := s.cfg.Journal.Begin(store.SessionParams{
			SmoothingFactor: s.freq.SmoothingFactor,
			ChangeLimit:     s.freq.ChangeLimit,
			MinNote:         s.cfg.Mapper.MinNote,
			MaxNote:         s.cfg.Mapper.MaxNote,
		})
		if err != nil {
			s.cfg.Camera.Close()
			return fmt.Errorf("%w: %v", ErrNotReady, err)
		}
		s.mu.Lock()
		s.status.SessionID = id
		s.mu.Unlock()
		s.logger.Info("recording session", "session_id", id)
	}

	s.logger.Info("session started", "fps", s.cfg.FPS)
	return nil
}

// Close silences the instrument and releases the camera and detector.
func (s *Session) Close() error {
	s.controller.Stop()
	s.gate.Close()

	var errs []error
	if s.cfg.Journal != nil {
		if err := s.cfg.Journal.End(); err != nil {
			errs = append(errs, err)
		}
		s.mu.Lock()
		s.status.SessionID = s.cfg.Journal.SessionID()
		s.mu.Unlock()
	}
	if err := s.cfg.Camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if err := s.cfg.Detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}

	s.logger.Info("session stopped")
	return errors.Join(errs...)
}

// State returns the control state. It must be called from the loop goroutine.
func (s *Session) State() ControlState {
	return s.state
}

// Done reports whether a quit command has been applied.
func (s *Session) Done() bool {
	return s.quit
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// DefaultDetector returns a MediaPipe detector, or a detector that never
// finds a hand when MediaPipe is not installed.
func DefaultDetector(cfg detector.Config) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg)
	if err != nil {
		log.Component("app").Warn("mediapipe not available, hands will not be detected", "error", err)
		return detector.NewMockDetector()
	}
	log.Component("app").Info("using mediapipe hand detection")
	return mp
}
