// Package runner holds the startup and headless-loop glue shared by the toy
// commands: flag parsing, logger construction and the headless run report.
package runner

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/ecstoys/ecs"
)

// Options are the command-line flags every toy accepts.
type Options struct {
	ConfigPath string
	Headless   bool
	Duration   time.Duration
	Debug      bool
}

// ParseFlags registers the shared flags on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (Options, error) {
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "settings.yaml", "path to the settings file")
	fs.BoolVar(&opts.Headless, "headless", false, "run the simulation without a window")
	fs.DurationVar(&opts.Duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	fs.BoolVar(&opts.Debug, "debug", false, "show the ImGui debug overlay")
	err := fs.Parse(args)
	return opts, err
}

// NewRunID returns a fresh identifier for tagging one process's log records.
func NewRunID() string {
	return uuid.NewString()
}

// NewLogger returns a text logger writing to w at level, tagging every record
// with the run id.
func NewLogger(w io.Writer, level slog.Level, runID string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run", runID)
}

// Headless drives scheduler at tps frames per second until ctx is done and
// reports what happened.
func Headless(ctx context.Context, name string, scheduler *ecs.Scheduler, tps int) *Report {
	report := &Report{Name: name, TPS: tps}
	runtime.ReadMemStats(&report.MemStatsStart)

	start := time.Now()
	scheduler.Run(ctx, time.Second/time.Duration(tps))
	report.TotalTime = time.Since(start)

	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Scheduler = scheduler.GetStats()
	report.Storage = scheduler.Storage().CollectStats()
	if len(report.Scheduler.Systems) > 0 {
		report.Frames = report.Scheduler.Systems[0].ExecutionCount
	}
	return report
}
