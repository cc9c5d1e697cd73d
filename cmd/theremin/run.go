package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ayusman/theremin/internal/app"
	"github.com/ayusman/theremin/internal/audio"
	"github.com/ayusman/theremin/internal/capture"
	"github.com/ayusman/theremin/internal/config"
	"github.com/ayusman/theremin/internal/detector"
	"github.com/ayusman/theremin/internal/log"
	"github.com/ayusman/theremin/internal/mapping"
	"github.com/ayusman/theremin/internal/server"
	"github.com/ayusman/theremin/internal/store"
	"github.com/ayusman/theremin/internal/synth"
	"github.com/ayusman/theremin/internal/tray"
	"github.com/ayusman/theremin/internal/tui"
	"github.com/ayusman/theremin/internal/ui"
)

// runOptions are the run flags that are not persisted in the config file.
type runOptions struct {
	tui    bool
	tray   bool
	save   bool
	script string
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the instrument",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *cfg, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "camera device id")
	f.IntVar(&cfg.FrameWidth, "width", cfg.FrameWidth, "capture width in pixels")
	f.IntVar(&cfg.FrameHeight, "height", cfg.FrameHeight, "capture height in pixels")
	f.IntVar(&cfg.FPS, "fps", cfg.FPS, "control loop frame rate")
	f.Float64Var(&cfg.MotionThresh, "motion-threshold", cfg.MotionThresh, "percent of changed pixels that wakes hand detection (0 disables)")
	f.Float64Var(&cfg.SmoothingFactor, "smoothing", cfg.SmoothingFactor, "smoothing factor in (0, 1]")
	f.Float64Var(&cfg.ChangeLimit, "change-limit", cfg.ChangeLimit, "maximum change per frame")
	f.IntVar(&cfg.MinNote, "min-note", cfg.MinNote, "lowest MIDI note")
	f.IntVar(&cfg.MaxNote, "max-note", cfg.MaxNote, "highest MIDI note")
	f.StringVar(&cfg.VolumeMapping, "volume-mapping", cfg.VolumeMapping, "volume mapping (observed, linear)")
	f.Float64Var(&cfg.ToneDuration, "tone-duration", cfg.ToneDuration, "tone length in seconds")
	f.Float64Var(&cfg.FadeDuration, "fade", cfg.FadeDuration, "fade in/out length in seconds")
	f.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "audio sample rate in Hz")
	f.IntVar(&cfg.OutputDevice, "device", cfg.OutputDevice, "audio output device index (-1 for default)")
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "control panel address (empty disables)")
	f.BoolVar(&cfg.Record, "record", cfg.Record, "record triggered tones to the journal")
	f.StringVar(&cfg.DBPath, "db", cfg.DBPath, "journal database path")
	f.BoolVar(&opts.tui, "tui", false, "show the terminal dashboard")
	f.BoolVar(&opts.tray, "tray", false, "show the system tray menu")
	f.BoolVar(&opts.save, "save", false, "save the effective settings as the new defaults")
	f.StringVar(&opts.script, "mediapipe-script", "", "path to mediapipe_service.py")

	return cmd
}

func run(ctx context.Context, cfg config.Config, opts runOptions) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := initLogging(cfg, opts); err != nil {
		return err
	}
	logger := log.Component("main")

	if opts.save {
		if err := config.Save(cfg); err != nil {
			logger.Warn("could not save config", "error", err)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		st      *store.Store
		journal *store.Journal
		err     error
	)
	if cfg.Record || cfg.Addr != "" {
		st, err = openStore(cfg)
		if err != nil {
			return fmt.Errorf("%w: %v", app.ErrNotReady, err)
		}
		defer st.Close()
	}
	if cfg.Record {
		journal = store.NewJournal(st)
	}

	sink, err := audio.NewPortAudioSink(cfg.SampleRate, cfg.OutputDevice)
	if err != nil {
		return fmt.Errorf("%w: %v", app.ErrNotReady, err)
	}
	defer sink.Close()

	detCfg := detector.DefaultConfig()
	detCfg.ScriptPath = opts.script

	commands := make(chan ui.Command, 16)
	hub := server.NewHub(commands)
	sinks := ui.Multi{hub}

	var program *tea.Program
	if opts.tui {
		program = tea.NewProgram(tui.NewModel(commands, cfg.SmoothingFactor, cfg.ChangeLimit), tea.WithAltScreen(), tea.WithContext(ctx))
		sinks = append(sinks, tui.NewSink(program))
	}

	var tr *tray.Tray
	if opts.tray {
		tr = tray.New()
		tr.OnMute(func(muted bool) { ui.Send(commands, ui.Mute(muted)) })
		tr.OnPanel(func() { openBrowser(panelURL(cfg.Addr)) })
		tr.OnQuit(cancel)
		sinks = append(sinks, tr)
	}

	session, err := app.NewSession(app.Config{
		Camera: capture.NewCamera(capture.Options{
			DeviceID: cfg.CameraID,
			Width:    cfg.FrameWidth,
			Height:   cfg.FrameHeight,
			FPS:      cfg.FPS,
		}),
		Detector:        app.DefaultDetector(detCfg),
		Sink:            sink,
		UI:              sinks,
		Commands:        commands,
		Journal:         journal,
		Mapper:          newMapper(cfg),
		Synth:           synth.New(synth.Config{SampleRate: cfg.SampleRate, Amplitude: cfg.Amplitude, FadeDuration: cfg.FadeDuration}),
		ToneDuration:    cfg.ToneDuration,
		FPS:             cfg.FPS,
		SmoothingFactor: cfg.SmoothingFactor,
		ChangeLimit:     cfg.ChangeLimit,
		MotionThresh:    cfg.MotionThresh,
	})
	if err != nil {
		return err
	}
	if err := session.Start(); err != nil {
		return err
	}
	defer session.Close()

	var wg sync.WaitGroup
	if cfg.Addr != "" {
		srv := server.New(server.Config{
			StaticDir: findWebDir(),
			Store:     st,
			Hub:       hub,
			Status:    session,
			Commands:  commands,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("control panel listening", "addr", cfg.Addr)
			if err := srv.Run(ctx, cfg.Addr); err != nil {
				logger.Error("control panel stopped", "error", err)
			}
		}()
	}

	if program != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				logger.Error("dashboard stopped", "error", err)
			}
			cancel()
		}()
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- session.Run(ctx)
		cancel()
		if program != nil {
			program.Quit()
		}
		if tr != nil {
			tr.Quit()
		}
	}()

	// The tray needs the main goroutine on some platforms.
	if tr != nil {
		tr.Run()
		cancel()
	}

	err = <-runErr
	wg.Wait()
	return err
}

func initLogging(cfg config.Config, opts runOptions) error {
	if !opts.tui {
		log.Init(cfg.LogLevel)
		return nil
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "theremin.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	log.InitTo(f, cfg.LogLevel)
	return nil
}

func newMapper(cfg config.Config) *mapping.Mapper {
	m := mapping.NewMapper()
	m.MinNote = cfg.MinNote
	m.MaxNote = cfg.MaxNote
	m.VolumeMin = cfg.VolumeMin
	m.VolumeMax = cfg.VolumeMax
	if cfg.VolumeMapping == config.VolumeMappingLinear {
		m.Volume = mapping.YToVolumeLinear
	}
	return m
}

func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.DBPath
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "theremin.db")
	}
	return store.New(path)
}

func panelURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Component("main").Warn("could not open browser", "url", url, "error", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and the config directory.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	webDir := filepath.Join(dir, "web")
	if info, err := os.Stat(webDir); err == nil && info.IsDir() {
		return webDir
	}

	return ""
}
