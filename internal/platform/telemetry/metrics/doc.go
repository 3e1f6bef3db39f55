// Package metrics provides operational metrics for gaze sessions.
//
// # Instruments
//
//   - wit.gaze.samples: accepted samples, attribute fixation=true|false
//   - wit.gaze.samples.rejected: rejected frames by error code
//   - wit.gaze.sessions.active: open WebSocket sessions
//   - wit.gaze.sample.duration: per-sample pipeline latency in ms
package metrics
