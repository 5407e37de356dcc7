// Command cli drives a dictation session from the terminal: each Enter
// alternates between pressing and releasing the hotkey. It needs no global
// keyboard hook, which makes it usable over SSH and in containers.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"pttdictate/pkg/app"
	"pttdictate/pkg/config"
	"pttdictate/pkg/dictation"
)

func main() {
	var configPath, backend string
	cmd := &cobra.Command{
		Use:          "cli",
		Short:        "Press Enter to start recording, Enter again to transcribe",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}
			return run(cmd.Context(), cfg, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "transcription backend")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(parent context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, TimeFormat: time.TimeOnly}))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.Build(ctx, cfg, app.Options{Stdout: out, Logger: logger})
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Load(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Press Enter to start recording, Enter again to stop.")

	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- struct{}{}
		}
	}()

	c := svc.Controller
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting.")
			return nil
		case _, ok := <-lines:
			if !ok {
				if c.State() == dictation.StateRecording {
					c.OnRelease()
				}
				c.Wait()
				return nil
			}
			// Enter while transcribing is a press the controller ignores.
			if c.State() == dictation.StateRecording {
				c.OnRelease()
			} else {
				c.OnPress()
			}
		}
	}
}
