package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/getlantern/systray"
	"github.com/spf13/cobra"

	"pttdictate/pkg/app"
	"pttdictate/pkg/config"
	"pttdictate/pkg/dictation"
	"pttdictate/pkg/hotkey"
)

// embeddedAPIKey can be set via -ldflags "-X main.embeddedAPIKey=..."
var embeddedAPIKey string

type flags struct {
	configPath string
	backend    string
	hotkey     string
	language   string
	desktop    string
	logLevel   string
	logFile    string
	minRMS     float64
	tray       bool
	notify     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "pttdictate",
		Short: "Hold a key to dictate into the focused window",
		Long: "Press-to-talk dictation: hold the hotkey to record, release it to transcribe.\n" +
			"The text is copied to the clipboard and typed into the window that had focus\n" +
			"when recording started.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	fl.StringVarP(&f.backend, "backend", "b", "", "transcription backend: whisper-cli, google, gemini, openai")
	fl.StringVarP(&f.hotkey, "hotkey", "k", "", "key to hold while speaking (default rctrl)")
	fl.StringVarP(&f.language, "language", "l", "", "spoken language code, empty to auto-detect")
	fl.StringVar(&f.desktop, "desktop", "", "window integration: auto, xdotool, robotgo, none")
	fl.Float64Var(&f.minRMS, "min-rms", 0, "skip transcription of recordings quieter than this RMS level")
	fl.BoolVar(&f.tray, "tray", false, "show a system tray status icon")
	fl.BoolVar(&f.notify, "notify", false, "show desktop notifications for finished dictations")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fl.StringVar(&f.logFile, "log-file", "", "write logs to this file instead of stderr")
	return cmd
}

// applyFlags overrides file and environment settings with flags the user set.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("hotkey") {
		cfg.Hotkey = f.hotkey
	}
	if changed("language") {
		cfg.Language = f.language
	}
	if changed("desktop") {
		cfg.Desktop = f.desktop
	}
	if changed("min-rms") {
		cfg.MinRMS = f.minRMS
	}
	if changed("tray") {
		cfg.Tray = f.tray
	}
	if changed("notify") {
		cfg.Notifications = f.notify
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
}

func run(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, &cfg)
	if cfg.Gemini.APIKey == "" && embeddedAPIKey != "" {
		cfg.Gemini.APIKey = embeddedAPIKey
	}

	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	listener, err := hotkey.New(cfg.Hotkey)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tray *trayReporter
	var reporters []dictation.Reporter
	if cfg.Tray {
		tray = newTrayReporter(hotkey.DisplayName(cfg.Hotkey))
		reporters = append(reporters, tray)
	}

	svc, err := app.Build(ctx, cfg, app.Options{Logger: logger, Reporters: reporters})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	if err := svc.Load(ctx); err != nil {
		return err
	}
	logger.Info("listening", "hotkey", listener.Name(), "backend", svc.Backend.Name(), "desktop", svc.Desktop)

	serve := func() error {
		err := listener.Run(ctx, svc.Controller.OnPress, svc.Controller.OnRelease)
		fmt.Println("\nExiting.")
		return err
	}
	if tray == nil {
		return serve()
	}

	// systray owns the main thread until Quit.
	done := make(chan error, 1)
	var launched atomic.Bool
	systray.Run(func() {
		launched.Store(true)
		tray.setup(stop)
		go func() {
			done <- serve()
			systray.Quit()
		}()
	}, nil)
	stop()
	if !launched.Load() {
		return nil
	}
	return <-done
}
