// Command nanobots runs the nanobot toy: groups of bots drift apart from their
// neighbours, a left-button drag selects them and the right button pans.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/plus3/ecstoys/config"
	debugui_ebiten "github.com/plus3/ecstoys/ecs/debugui/ebiten"
	"github.com/plus3/ecstoys/render"
	"github.com/plus3/ecstoys/runner"
)

func main() {
	runID := runner.NewRunID()
	log := runner.NewLogger(os.Stderr, slog.LevelInfo, runID)

	opts, err := runner.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		log.Error("failed to load settings", "path", opts.ConfigPath, "error", err)
		os.Exit(1)
	}
	log = runner.NewLogger(os.Stderr, settings.Log.Level, runID)
	slog.SetDefault(log)

	if settings.Camera.PanButton == selectButton {
		log.Warn("camera.pan_button is also the selection button", "button", settings.Camera.PanButton)
	}

	if opts.Headless {
		if opts.Debug {
			log.Warn("debug overlay is not available in headless mode")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if opts.Duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Duration)
			defer cancel()
		}

		w := newWorld(settings, log, worldOptions{})
		log.Info("running headless", "duration", opts.Duration, "tps", settings.Window.TPS, "groups", len(w.groups))
		report := runner.Headless(ctx, "nanobots", w.update, settings.Window.TPS)
		log.Info("headless run finished", "frames", report.Frames)
		if err := report.Generate(os.Stdout); err != nil {
			log.Error("failed to write report", "error", err)
			os.Exit(1)
		}
		return
	}

	w := newWorld(settings, log, worldOptions{input: true, debug: opts.Debug})
	if opts.Debug {
		w.storage.AddSingleton(debugui_ebiten.NewImguiBackend(settings.Window.Title, settings.Window.Width, settings.Window.Height))
	}

	game := render.NewGame(w.storage, w.update, w.render, &settings.Window, opts.Debug)
	log.Info("starting nanobot toy", "groups", settings.Swarm.Groups, "bots_per_group", settings.Swarm.BotsPerGroup)
	if err := render.Run(game, &settings.Window); err != nil {
		log.Error("game exited", "error", err)
		os.Exit(1)
	}
}
