package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/louisbranch/wit/internal/gaze"
	apperrors "github.com/louisbranch/wit/internal/platform/errors"
	"github.com/louisbranch/wit/internal/services/gaze/protocol"
)

// Options configures one replay run.
type Options struct {
	Session gaze.Config
	Tuning  gaze.Tuning
	// Emit writes every reply as one JSON line to the output.
	Emit bool
	// Clock stamps samples recorded without a timestamp.
	Clock func() time.Time
}

// Summary counts the outcome of a replay. It is the dispatcher observer for
// the run.
type Summary struct {
	Frames     int
	Samples    int
	Fixations  int
	Rejected   int
	Configs    int
	ErrorCodes map[string]int
}

// SampleAccepted implements protocol.Observer.
func (s *Summary) SampleAccepted(fixation bool) {
	s.Samples++
	if fixation {
		s.Fixations++
	}
}

// FrameRejected implements protocol.Observer.
func (s *Summary) FrameRejected(code apperrors.Code) {
	s.Rejected++
	if s.ErrorCodes == nil {
		s.ErrorCodes = make(map[string]int)
	}
	s.ErrorCodes[string(code)]++
}

// Reconfigured implements protocol.Observer.
func (s *Summary) Reconfigured(gaze.Config) {
	s.Configs++
}

// FixationRatio is the share of accepted samples that produced a fixation.
func (s Summary) FixationRatio() float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Fixations) / float64(s.Samples)
}

// Run replays trace through a fresh session, writing replies to out when
// opts.Emit is set. Rejected frames are counted, not fatal.
func Run(ctx context.Context, trace io.Reader, out io.Writer, opts Options) (Summary, error) {
	if trace == nil {
		return Summary{}, errors.New("trace reader is required")
	}
	if opts.Emit && out == nil {
		return Summary{}, errors.New("output writer is required to emit replies")
	}
	if opts.Session == (gaze.Config{}) {
		opts.Session = gaze.DefaultConfig()
	}
	if opts.Tuning == (gaze.Tuning{}) {
		opts.Tuning = gaze.DefaultTuning()
	}

	summary := Summary{ErrorCodes: make(map[string]int)}
	sessionOpts := []gaze.Option{gaze.WithConfig(opts.Session), gaze.WithTuning(opts.Tuning)}
	if opts.Clock != nil {
		sessionOpts = append(sessionOpts, gaze.WithClock(opts.Clock))
	}
	dispatcher := protocol.NewDispatcher(gaze.NewSession(sessionOpts...), opts.Session, &summary)

	reader := NewTraceReader(trace)
	var encoder *json.Encoder
	if opts.Emit {
		encoder = json.NewEncoder(out)
	}
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}
		summary.Frames++
		reply, _ := dispatcher.HandleFrame(frame)
		if encoder == nil {
			continue
		}
		if err := encoder.Encode(reply); err != nil {
			return summary, fmt.Errorf("write reply for line %d: %w", reader.Line(), err)
		}
	}
}

var _ protocol.Observer = (*Summary)(nil)
