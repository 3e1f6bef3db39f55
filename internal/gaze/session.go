package gaze

import "time"

// Update is the outcome of one ingested sample.
type Update struct {
	Fixation bool
	Region   Region
	Crowding Crowding
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	tuning Tuning
	config Config
	now    func() time.Time
}

// WithTuning overrides the pipeline constants.
func WithTuning(t Tuning) Option {
	return func(o *sessionOptions) { o.tuning = t }
}

// WithConfig sets the initial session configuration.
func WithConfig(cfg Config) Option {
	return func(o *sessionOptions) { o.config = cfg }
}

// WithClock sets the clock used to stamp samples that arrive without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *sessionOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Session is the per-connection pipeline state: a bounded sample history,
// the active configuration and the last reported fixation.
type Session struct {
	tuning   Tuning
	config   Config
	detector *Detector
	buffer   *SampleBuffer
	last     *Fixation
	now      func() time.Time
}

// NewSession creates an empty session.
func NewSession(opts ...Option) *Session {
	o := sessionOptions{
		tuning: DefaultTuning(),
		config: DefaultConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	tuning := o.tuning.normalized()
	s := &Session{
		tuning: tuning,
		buffer: NewSampleBuffer(tuning.BufferCapacity),
		now:    o.now,
	}
	s.apply(o.config)
	return s
}

// Ingest runs one sample through the pipeline. A nil timestamp is replaced
// with the session clock in milliseconds. Invalid samples leave the session
// untouched.
func (s *Session) Ingest(x, y float64, timestamp *float64) (Update, error) {
	var ts float64
	if timestamp != nil {
		ts = *timestamp
	} else {
		ts = s.nowMillis()
	}
	sample, err := NewSample(x, y, ts)
	if err != nil {
		return Update{}, err
	}
	s.buffer.Append(sample)

	smoothed := Smooth(s.buffer.Samples(), s.config.SmoothingWindow)
	fixation, ok := s.detector.Detect(smoothed)
	if !ok {
		return Update{}, nil
	}
	s.last = &fixation

	region := ComputeRegion(fixation, s.tuning.RegionDurationNormMs)
	return Update{
		Fixation: true,
		Region:   region,
		Crowding: ReduceCrowding(region, s.config.CrowdingIntensity, s.tuning.CrowdingDurationNormMs),
	}, nil
}

// Reconfigure replaces the configuration and discards buffered samples so
// history gathered under the old thresholds is never mixed with new samples.
// It returns the configuration actually applied after clamping.
func (s *Session) Reconfigure(cfg Config) Config {
	s.Reset()
	s.apply(cfg)
	return s.config
}

// Reset clears the sample history and last fixation, keeping configuration.
func (s *Session) Reset() {
	s.buffer.Clear()
	s.last = nil
}

// Config returns the active configuration.
func (s *Session) Config() Config { return s.config }

// Tuning returns the pipeline constants in effect.
func (s *Session) Tuning() Tuning { return s.tuning }

// Len reports how many samples are buffered.
func (s *Session) Len() int { return s.buffer.Len() }

// Samples returns a copy of the buffered samples, oldest first.
func (s *Session) Samples() []Sample { return s.buffer.Samples() }

// LastFixation returns the most recently reported fixation.
func (s *Session) LastFixation() (Fixation, bool) {
	if s.last == nil {
		return Fixation{}, false
	}
	return *s.last, true
}

func (s *Session) apply(cfg Config) {
	s.config = cfg.Clamp(s.tuning.BufferCapacity)
	s.detector = NewDetector(s.config, s.tuning)
}

func (s *Session) nowMillis() float64 {
	return float64(s.now().UnixNano()) / float64(time.Millisecond)
}
