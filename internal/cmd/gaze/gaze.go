// Package gaze parses gaze command flags and composes transport entrypoints.
package gaze

import (
	"context"
	"flag"
	"fmt"
	"time"

	pipeline "github.com/louisbranch/wit/internal/gaze"
	entrypoint "github.com/louisbranch/wit/internal/platform/cmd"
	server "github.com/louisbranch/wit/internal/services/gaze/app"
)

// Config holds gaze command configuration.
type Config struct {
	HTTPAddr            string        `env:"GAZE_HTTP_ADDR"              envDefault:":8742"`
	LedgerPath          string        `env:"GAZE_LEDGER_PATH"`
	FixationThreshold   float64       `env:"GAZE_FIXATION_THRESHOLD"     envDefault:"30"`
	FixationMinDuration float64       `env:"GAZE_FIXATION_MIN_DURATION"  envDefault:"100"`
	SmoothingWindow     int           `env:"GAZE_SMOOTHING_WINDOW"       envDefault:"5"`
	CrowdingIntensity   string        `env:"GAZE_CROWDING_INTENSITY"     envDefault:"medium"`
	IdleTimeout         time.Duration `env:"GAZE_IDLE_TIMEOUT"           envDefault:"60s"`
	MaxFramesPerSecond  int           `env:"GAZE_MAX_FRAMES_PER_SECOND"  envDefault:"2000"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "gaze HTTP listen address")
	fs.StringVar(&cfg.LedgerPath, "ledger-path", cfg.LedgerPath, "SQLite session ledger path (empty disables)")
	fs.Float64Var(&cfg.FixationThreshold, "fixation-threshold", cfg.FixationThreshold, "default fixation threshold in px")
	fs.Float64Var(&cfg.FixationMinDuration, "fixation-min-duration", cfg.FixationMinDuration, "default minimum fixation duration in ms")
	fs.IntVar(&cfg.SmoothingWindow, "smoothing-window", cfg.SmoothingWindow, "default smoothing window in samples")
	fs.StringVar(&cfg.CrowdingIntensity, "crowding-intensity", cfg.CrowdingIntensity, "default crowding intensity (low, medium, high)")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "close connections idle for this long")
	fs.IntVar(&cfg.MaxFramesPerSecond, "max-frames-per-second", cfg.MaxFramesPerSecond, "per-connection inbound frame limit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SessionDefaults converts the command configuration into session defaults.
func (c Config) SessionDefaults() pipeline.Config {
	return pipeline.Config{
		FixationThresholdPx:   c.FixationThreshold,
		FixationMinDurationMs: c.FixationMinDuration,
		SmoothingWindow:       c.SmoothingWindow,
		CrowdingIntensity:     pipeline.ParseIntensity(c.CrowdingIntensity),
	}.Clamp(pipeline.DefaultBufferCapacity)
}

// Run builds the gaze app and serves the WebSocket channel.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGaze, func(ctx context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr:           cfg.HTTPAddr,
			LedgerPath:         cfg.LedgerPath,
			Session:            cfg.SessionDefaults(),
			IdleTimeout:        cfg.IdleTimeout,
			MaxFramesPerSecond: cfg.MaxFramesPerSecond,
		}); err != nil {
			return fmt.Errorf("serve gaze: %w", err)
		}
		return nil
	})
}
