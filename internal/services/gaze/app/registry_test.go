package server

import (
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/wit/internal/gaze"
	apperrors "github.com/louisbranch/wit/internal/platform/errors"
	"github.com/louisbranch/wit/internal/platform/id"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRegistryOpenCloseRecordsCounters(t *testing.T) {
	start := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	reg := newRegistry(id.Sequence("sess"), fixedClock(start))

	entry, err := reg.open(gaze.IntensityLow, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if entry.id != "sess-1" {
		t.Fatalf("id = %q, want %q", entry.id, "sess-1")
	}
	entry.SampleAccepted(false)
	entry.SampleAccepted(true)
	entry.FrameRejected(apperrors.CodeInvalidSample)
	entry.Reconfigured(gaze.Config{CrowdingIntensity: gaze.IntensityHigh})

	record, ok := reg.close("sess-1")
	if !ok {
		t.Fatal("expected closed entry")
	}
	if record.SamplesAccepted != 2 || record.Fixations != 1 || record.SamplesRejected != 1 {
		t.Fatalf("record counters = %+v", record)
	}
	if record.Intensity != "high" {
		t.Fatalf("intensity = %q, want %q", record.Intensity, "high")
	}
	if !record.StartedAt.Equal(start) || !record.EndedAt.Equal(start) {
		t.Fatalf("times = %v..%v, want %v", record.StartedAt, record.EndedAt, start)
	}
	if reg.len() != 0 {
		t.Fatalf("len = %d, want 0", reg.len())
	}
	if _, ok := reg.close("sess-1"); ok {
		t.Fatal("second close should report missing entry")
	}
}

func TestRegistrySnapshotOrdersByStart(t *testing.T) {
	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	reg := newRegistry(id.Sequence("sess"), clock)
	for i := 0; i < 3; i++ {
		if _, err := reg.open(gaze.IntensityMedium, nil); err != nil {
			t.Fatalf("open: %v", err)
		}
	}
	snap := reg.snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i, want := range []string{"sess-1", "sess-2", "sess-3"} {
		if snap[i].ID != want {
			t.Fatalf("snapshot[%d] = %q, want %q", i, snap[i].ID, want)
		}
		if snap[i].Intensity != "medium" {
			t.Fatalf("snapshot[%d] intensity = %q", i, snap[i].Intensity)
		}
	}
}

func TestRegistryOpenErrors(t *testing.T) {
	failing := func() (string, error) { return "", errors.New("entropy exhausted") }
	if _, err := newRegistry(failing, nil).open(gaze.IntensityMedium, nil); err == nil {
		t.Fatal("expected generator error")
	}

	empty := func() (string, error) { return "", nil }
	if _, err := newRegistry(empty, nil).open(gaze.IntensityMedium, nil); err == nil {
		t.Fatal("expected empty id error")
	}

	same := func() (string, error) { return "dup", nil }
	reg := newRegistry(same, nil)
	if _, err := reg.open(gaze.IntensityMedium, nil); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := reg.open(gaze.IntensityMedium, nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestRegistryDefaultGenerator(t *testing.T) {
	reg := newRegistry(nil, nil)
	a, err := reg.open(gaze.IntensityMedium, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, err := reg.open(gaze.IntensityMedium, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if a.id == b.id || len(a.id) != 26 {
		t.Fatalf("ids = %q, %q; want distinct 26-char ids", a.id, b.id)
	}
}

type closeCounter struct{ closed int }

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestRegistryCloseAll(t *testing.T) {
	reg := newRegistry(id.Sequence("sess"), nil)
	first, second := &closeCounter{}, &closeCounter{}
	if _, err := reg.open(gaze.IntensityMedium, first); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := reg.open(gaze.IntensityMedium, second); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := reg.open(gaze.IntensityMedium, nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	reg.closeAll()
	if first.closed != 1 || second.closed != 1 {
		t.Fatalf("closed = %d/%d, want 1/1", first.closed, second.closed)
	}
}
