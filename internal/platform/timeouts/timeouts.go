// Package timeouts defines shared timeout constants used by the gaze service.
// Centralizing these values keeps the HTTP and WebSocket boundaries consistent.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// IdleRead closes a gaze connection that has sent nothing for this long.
// Trackers stream at 30-120Hz, so a minute of silence means the client is gone.
const IdleRead = 60 * time.Second

// Write caps how long a single outbound frame may block.
const Write = 5 * time.Second

// LedgerWrite caps the time spent persisting a session summary on disconnect.
const LedgerWrite = 2 * time.Second
