package replay

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

const maxTraceLineBytes = 1 << 20

// TraceReader yields raw protocol frames from a JSONL trace: one inbound
// message per line. Blank lines and lines starting with # are skipped.
type TraceReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewTraceReader wraps r.
func NewTraceReader(r io.Reader) *TraceReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTraceLineBytes)
	return &TraceReader{scanner: scanner}
}

// Next returns the next frame, or io.EOF at the end of the trace.
func (t *TraceReader) Next() ([]byte, error) {
	for t.scanner.Scan() {
		t.line++
		line := bytes.TrimSpace(t.scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		return append([]byte(nil), line...), nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace line %d: %w", t.line+1, err)
	}
	return nil, io.EOF
}

// Line reports the 1-based line number of the last frame returned.
func (t *TraceReader) Line() int { return t.line }
