// Package replay feeds recorded gaze protocol traces through the same
// dispatcher the WebSocket transport uses, for offline tuning.
package replay

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/louisbranch/wit/internal/gaze"
)

// Profile is a TOML replay profile. Every field is optional; absent fields
// keep the value they are applied to.
type Profile struct {
	Session SessionProfile `toml:"session"`
	Tuning  TuningProfile  `toml:"tuning"`
}

// SessionProfile maps the client-tunable session settings.
type SessionProfile struct {
	FixationThreshold   *float64 `toml:"fixation-threshold"`
	FixationMinDuration *float64 `toml:"fixation-min-duration"`
	SmoothingWindow     *int     `toml:"smoothing-window"`
	CrowdingIntensity   *string  `toml:"crowding-intensity"`
}

// TuningProfile maps the pipeline constants.
type TuningProfile struct {
	BufferCapacity         *int     `toml:"buffer-capacity"`
	VelocityScale          *float64 `toml:"velocity-scale"`
	DispersionWindow       *int     `toml:"dispersion-window"`
	RegionDurationNormMs   *float64 `toml:"region-duration-norm-ms"`
	CrowdingDurationNormMs *float64 `toml:"crowding-duration-norm-ms"`
}

// LoadProfile reads a TOML profile. An empty path yields an empty profile.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return Profile{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return Profile{}, fmt.Errorf("failed to stat profile: %w", err)
	}
	var p Profile
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Profile{}, fmt.Errorf("unknown profile key %q", undecoded[0].String())
	}
	return p, nil
}

// ApplySession overlays the session settings onto base.
func (p Profile) ApplySession(base gaze.Config) gaze.Config {
	s := p.Session
	if s.FixationThreshold != nil {
		base.FixationThresholdPx = *s.FixationThreshold
	}
	if s.FixationMinDuration != nil {
		base.FixationMinDurationMs = *s.FixationMinDuration
	}
	if s.SmoothingWindow != nil {
		base.SmoothingWindow = *s.SmoothingWindow
	}
	if s.CrowdingIntensity != nil {
		base.CrowdingIntensity = gaze.ParseIntensity(*s.CrowdingIntensity)
	}
	return base
}

// ApplyTuning overlays the pipeline constants onto base.
func (p Profile) ApplyTuning(base gaze.Tuning) gaze.Tuning {
	t := p.Tuning
	if t.BufferCapacity != nil {
		base.BufferCapacity = *t.BufferCapacity
	}
	if t.VelocityScale != nil {
		base.VelocityScale = *t.VelocityScale
	}
	if t.DispersionWindow != nil {
		base.DispersionWindow = *t.DispersionWindow
	}
	if t.RegionDurationNormMs != nil {
		base.RegionDurationNormMs = *t.RegionDurationNormMs
	}
	if t.CrowdingDurationNormMs != nil {
		base.CrowdingDurationNormMs = *t.CrowdingDurationNormMs
	}
	return base
}
