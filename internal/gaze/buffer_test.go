package gaze

import "testing"

func TestSampleBufferEvictsOldestFirst(t *testing.T) {
	b := NewSampleBuffer(3)
	for i := 0; i < 5; i++ {
		b.Append(Sample{X: float64(i), Timestamp: float64(i)})
	}

	got := b.Samples()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []float64{2, 3, 4} {
		if got[i].X != want {
			t.Fatalf("samples[%d].X = %v, want %v", i, got[i].X, want)
		}
	}
}

func TestSampleBufferNeverExceedsCapacity(t *testing.T) {
	b := NewSampleBuffer(DefaultBufferCapacity)
	for i := 0; i < 10000; i++ {
		b.Append(Sample{X: float64(i), Y: float64(i), Timestamp: float64(i)})
		if b.Len() > DefaultBufferCapacity {
			t.Fatalf("len = %d after %d appends, want <= %d", b.Len(), i+1, DefaultBufferCapacity)
		}
	}
	if b.Len() != DefaultBufferCapacity {
		t.Fatalf("len = %d, want %d", b.Len(), DefaultBufferCapacity)
	}
	samples := b.Samples()
	if samples[0].X != 10000-DefaultBufferCapacity {
		t.Fatalf("oldest = %v, want %v", samples[0].X, 10000-DefaultBufferCapacity)
	}
	if samples[len(samples)-1].X != 9999 {
		t.Fatalf("newest = %v, want 9999", samples[len(samples)-1].X)
	}
}

func TestSampleBufferClear(t *testing.T) {
	b := NewSampleBuffer(4)
	b.Append(Sample{X: 1})
	b.Append(Sample{X: 2})
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("len = %d, want 0", b.Len())
	}
	b.Append(Sample{X: 3})
	got := b.Samples()
	if len(got) != 1 || got[0].X != 3 {
		t.Fatalf("samples = %+v, want single sample X=3", got)
	}
}

func TestSampleBufferSamplesIsCopy(t *testing.T) {
	b := NewSampleBuffer(2)
	b.Append(Sample{X: 1})
	got := b.Samples()
	got[0].X = 99
	if b.Samples()[0].X != 1 {
		t.Fatal("mutating returned slice changed buffer contents")
	}
}

func TestNewSampleBufferDefaultsInvalidCapacity(t *testing.T) {
	if got := NewSampleBuffer(0).Cap(); got != DefaultBufferCapacity {
		t.Fatalf("cap = %d, want %d", got, DefaultBufferCapacity)
	}
}
