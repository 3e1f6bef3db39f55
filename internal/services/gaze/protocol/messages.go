// Package protocol defines the JSON message contract of the gaze channel and
// the dispatcher that applies inbound messages to a session.
package protocol

import (
	"math"

	"github.com/louisbranch/wit/internal/gaze"
)

// Inbound message types.
const (
	TypeGaze   = "gaze"
	TypeConfig = "config"
	TypeReset  = "reset"
)

// Outbound message types.
const (
	TypeGazeUpdate = "gaze_update"
	TypeConfigAck  = "config_ack"
	TypeResetAck   = "reset_ack"
	TypeError      = "error"
)

// StatusOK is the status carried by acknowledgements.
const StatusOK = "ok"

// maxWindowValue bounds smoothingWindow before the integer conversion; the
// session clamps it further to its buffer capacity.
const maxWindowValue = 1 << 20

// Inbound is the union of every client message. Fields that do not apply to
// the message type are ignored.
type Inbound struct {
	Type      string         `json:"type"`
	X         *float64       `json:"x,omitempty"`
	Y         *float64       `json:"y,omitempty"`
	Timestamp *float64       `json:"timestamp,omitempty"`
	Config    *ConfigPayload `json:"config,omitempty"`
}

// ConfigPayload carries the optional fields of a config message. A missing
// field falls back to the server default.
type ConfigPayload struct {
	FixationThreshold   *float64 `json:"fixationThreshold,omitempty"`
	FixationMinDuration *float64 `json:"fixationMinDuration,omitempty"`
	SmoothingWindow     *float64 `json:"smoothingWindow,omitempty"`
	CrowdingIntensity   *string  `json:"crowdingIntensity,omitempty"`
}

// Apply overlays the present fields onto base.
func (p *ConfigPayload) Apply(base gaze.Config) gaze.Config {
	if p == nil {
		return base
	}
	if p.FixationThreshold != nil {
		base.FixationThresholdPx = *p.FixationThreshold
	}
	if p.FixationMinDuration != nil {
		base.FixationMinDurationMs = *p.FixationMinDuration
	}
	if p.SmoothingWindow != nil {
		base.SmoothingWindow = windowValue(*p.SmoothingWindow)
	}
	if p.CrowdingIntensity != nil {
		base.CrowdingIntensity = gaze.ParseIntensity(*p.CrowdingIntensity)
	}
	return base
}

func windowValue(v float64) int {
	switch {
	case math.IsNaN(v):
		return gaze.DefaultSmoothingWindow
	case v < 1:
		return 1
	case v > maxWindowValue:
		return maxWindowValue
	}
	return int(math.Round(v))
}

// Outbound is the union of every server message.
type Outbound struct {
	Type     string            `json:"type"`
	Fixation *bool             `json:"fixation,omitempty"`
	Region   *Region           `json:"region,omitempty"`
	Crowding *Crowding         `json:"crowding,omitempty"`
	Status   string            `json:"status,omitempty"`
	Code     string            `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// Region is the wire form of gaze.Region.
type Region struct {
	CenterX          float64 `json:"centerX"`
	CenterY          float64 `json:"centerY"`
	FocusRadius      float64 `json:"focusRadius"`
	TransitionRadius float64 `json:"transitionRadius"`
	BlurRadius       float64 `json:"blurRadius"`
	FixationDuration float64 `json:"fixationDuration"`
}

// Crowding is the wire form of gaze.Crowding.
type Crowding struct {
	LetterSpacingBoost float64 `json:"letterSpacingBoost"`
	WordSpacingBoost   float64 `json:"wordSpacingBoost"`
	LineHeightBoost    float64 `json:"lineHeightBoost"`
	PeripheryOpacity   float64 `json:"peripheryOpacity"`
	FocusFontScale     float64 `json:"focusFontScale"`
	HighlightColor     string  `json:"highlightColor"`
	HighlightOpacity   float64 `json:"highlightOpacity"`
}

// GazeUpdate builds the reply to a gaze message.
func GazeUpdate(u gaze.Update) Outbound {
	fixation := u.Fixation
	out := Outbound{Type: TypeGazeUpdate, Fixation: &fixation}
	if !u.Fixation {
		return out
	}
	out.Region = &Region{
		CenterX:          u.Region.CenterX,
		CenterY:          u.Region.CenterY,
		FocusRadius:      u.Region.FocusRadius,
		TransitionRadius: u.Region.TransitionRadius,
		BlurRadius:       u.Region.BlurRadius,
		FixationDuration: u.Region.FixationDuration,
	}
	out.Crowding = &Crowding{
		LetterSpacingBoost: u.Crowding.LetterSpacingBoost,
		WordSpacingBoost:   u.Crowding.WordSpacingBoost,
		LineHeightBoost:    u.Crowding.LineHeightBoost,
		PeripheryOpacity:   u.Crowding.PeripheryOpacity,
		FocusFontScale:     u.Crowding.FocusFontScale,
		HighlightColor:     u.Crowding.HighlightColor,
		HighlightOpacity:   u.Crowding.HighlightOpacity,
	}
	return out
}

// Ack builds a config_ack or reset_ack.
func Ack(messageType string) Outbound {
	return Outbound{Type: messageType, Status: StatusOK}
}
