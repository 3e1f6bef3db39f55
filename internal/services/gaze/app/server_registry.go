package server

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/wit/internal/gaze"
	apperrors "github.com/louisbranch/wit/internal/platform/errors"
	"github.com/louisbranch/wit/internal/platform/id"
	"github.com/louisbranch/wit/internal/services/gaze/storage"
)

// sessionEntry tracks one live connection for administrative lookup. The
// pipeline state itself stays with the connection goroutine.
type sessionEntry struct {
	id        string
	startedAt time.Time
	conn      io.Closer

	accepted  atomic.Int64
	rejected  atomic.Int64
	fixations atomic.Int64
	intensity atomic.Value // gaze.Intensity
}

func (e *sessionEntry) SampleAccepted(fixation bool) {
	e.accepted.Add(1)
	if fixation {
		e.fixations.Add(1)
	}
}

func (e *sessionEntry) FrameRejected(apperrors.Code) {
	e.rejected.Add(1)
}

func (e *sessionEntry) Reconfigured(cfg gaze.Config) {
	e.intensity.Store(cfg.CrowdingIntensity)
}

func (e *sessionEntry) currentIntensity() gaze.Intensity {
	if v, ok := e.intensity.Load().(gaze.Intensity); ok {
		return v
	}
	return gaze.DefaultCrowdingIntensity
}

// SessionSnapshot is the admin view of one live session.
type SessionSnapshot struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	SamplesAccepted int64     `json:"samples_accepted"`
	SamplesRejected int64     `json:"samples_rejected"`
	Fixations       int64     `json:"fixations"`
	Intensity       string    `json:"intensity"`
}

func (e *sessionEntry) snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:              e.id,
		StartedAt:       e.startedAt,
		SamplesAccepted: e.accepted.Load(),
		SamplesRejected: e.rejected.Load(),
		Fixations:       e.fixations.Load(),
		Intensity:       string(e.currentIntensity()),
	}
}

func (e *sessionEntry) record(endedAt time.Time) storage.SessionRecord {
	snap := e.snapshot()
	return storage.SessionRecord{
		ID:              snap.ID,
		StartedAt:       snap.StartedAt,
		EndedAt:         endedAt,
		SamplesAccepted: snap.SamplesAccepted,
		SamplesRejected: snap.SamplesRejected,
		Fixations:       snap.Fixations,
		Intensity:       snap.Intensity,
	}
}

// registry maps opaque session ids to live sessions. It is touched on
// connect, disconnect and admin reads only.
type registry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	newID   id.Generator
	now     func() time.Time
}

func newRegistry(newID id.Generator, now func() time.Time) *registry {
	if newID == nil {
		newID = id.NewID
	}
	if now == nil {
		now = time.Now
	}
	return &registry{
		entries: make(map[string]*sessionEntry),
		newID:   newID,
		now:     now,
	}
}

func (r *registry) open(intensity gaze.Intensity, conn io.Closer) (*sessionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID, err := r.newID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	if sessionID == "" {
		return nil, errors.New("generate session id: empty id")
	}
	if _, exists := r.entries[sessionID]; exists {
		return nil, fmt.Errorf("generate session id: duplicate id %q", sessionID)
	}
	entry := &sessionEntry{id: sessionID, startedAt: r.now().UTC(), conn: conn}
	entry.intensity.Store(intensity)
	r.entries[sessionID] = entry
	return entry, nil
}

// close removes the entry and returns its summary.
func (r *registry) close(sessionID string) (storage.SessionRecord, bool) {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	r.mu.Unlock()
	if !ok {
		return storage.SessionRecord{}, false
	}
	return entry.record(r.now().UTC()), true
}

// closeAll closes every live connection; their goroutines then unregister.
func (r *registry) closeAll() {
	r.mu.Lock()
	conns := make([]io.Closer, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.conn != nil {
			conns = append(conns, entry.conn)
		}
	}
	r.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// snapshot lists live sessions, oldest first.
func (r *registry) snapshot() []SessionSnapshot {
	r.mu.Lock()
	out := make([]SessionSnapshot, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.snapshot())
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
