package gaze

import (
	"flag"
	"testing"
	"time"

	pipeline "github.com/louisbranch/wit/internal/gaze"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("gaze", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8742" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.LedgerPath != "" {
		t.Fatalf("expected ledger disabled by default, got %q", cfg.LedgerPath)
	}
	if cfg.IdleTimeout != time.Minute {
		t.Fatalf("expected default idle timeout, got %v", cfg.IdleTimeout)
	}
	if cfg.MaxFramesPerSecond != 2000 {
		t.Fatalf("expected frame limit above 1000 Hz trackers, got %d", cfg.MaxFramesPerSecond)
	}
	if got := cfg.SessionDefaults(); got != pipeline.DefaultConfig() {
		t.Fatalf("session defaults = %+v, want %+v", got, pipeline.DefaultConfig())
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("WIT_GAZE_HTTP_ADDR", "env-gaze")
	t.Setenv("WIT_GAZE_LEDGER_PATH", "/var/lib/wit/env.db")
	t.Setenv("WIT_GAZE_SMOOTHING_WINDOW", "7")
	t.Setenv("WIT_GAZE_CROWDING_INTENSITY", "low")

	fs := flag.NewFlagSet("gaze", flag.ContinueOnError)
	args := []string{
		"-http-addr", "flag-gaze",
		"-fixation-threshold", "42",
		"-crowding-intensity", "high",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-gaze" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.LedgerPath != "/var/lib/wit/env.db" {
		t.Fatalf("expected env ledger path, got %q", cfg.LedgerPath)
	}
	defaults := cfg.SessionDefaults()
	if defaults.SmoothingWindow != 7 {
		t.Fatalf("expected env smoothing window, got %d", defaults.SmoothingWindow)
	}
	if defaults.FixationThresholdPx != 42 {
		t.Fatalf("expected flag threshold, got %v", defaults.FixationThresholdPx)
	}
	if defaults.CrowdingIntensity != pipeline.IntensityHigh {
		t.Fatalf("expected flag intensity, got %q", defaults.CrowdingIntensity)
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("WIT_GAZE_SMOOTHING_WINDOW", "wide")

	fs := flag.NewFlagSet("gaze", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for non-numeric smoothing window")
	}
}

func TestSessionDefaultsClamp(t *testing.T) {
	cfg := Config{FixationThreshold: -5, FixationMinDuration: 0, SmoothingWindow: 1000, CrowdingIntensity: "extreme"}
	got := cfg.SessionDefaults()
	if got.FixationThresholdPx != pipeline.MinFixationThresholdPx {
		t.Fatalf("threshold = %v, want %v", got.FixationThresholdPx, pipeline.MinFixationThresholdPx)
	}
	if got.FixationMinDurationMs != pipeline.MinFixationMinDurationMs {
		t.Fatalf("min duration = %v, want %v", got.FixationMinDurationMs, pipeline.MinFixationMinDurationMs)
	}
	if got.SmoothingWindow != pipeline.DefaultBufferCapacity {
		t.Fatalf("window = %d, want %d", got.SmoothingWindow, pipeline.DefaultBufferCapacity)
	}
	if got.CrowdingIntensity != pipeline.IntensityMedium {
		t.Fatalf("intensity = %q, want %q", got.CrowdingIntensity, pipeline.IntensityMedium)
	}
}
