package gaze

// SampleBuffer is a fixed-capacity FIFO of recent samples. Appending beyond
// capacity overwrites the oldest sample.
type SampleBuffer struct {
	samples []Sample
	head    int // index of the oldest sample
	size    int
}

// NewSampleBuffer allocates a buffer holding at most capacity samples.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity < 1 {
		capacity = DefaultBufferCapacity
	}
	return &SampleBuffer{samples: make([]Sample, capacity)}
}

// Append adds s at the tail, evicting the head when full.
func (b *SampleBuffer) Append(s Sample) {
	capacity := len(b.samples)
	if b.size < capacity {
		b.samples[(b.head+b.size)%capacity] = s
		b.size++
		return
	}
	b.samples[b.head] = s
	b.head = (b.head + 1) % capacity
}

// Samples returns the buffered samples oldest first. The slice is a copy.
func (b *SampleBuffer) Samples() []Sample {
	out := make([]Sample, b.size)
	capacity := len(b.samples)
	for i := 0; i < b.size; i++ {
		out[i] = b.samples[(b.head+i)%capacity]
	}
	return out
}

// Len reports how many samples are buffered.
func (b *SampleBuffer) Len() int { return b.size }

// Cap reports the buffer capacity.
func (b *SampleBuffer) Cap() int { return len(b.samples) }

// Clear drops all samples without releasing the backing array.
func (b *SampleBuffer) Clear() {
	b.head = 0
	b.size = 0
}
