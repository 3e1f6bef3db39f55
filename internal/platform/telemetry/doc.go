// Package telemetry groups operational observability for the gaze service.
//
// Gaze data itself is never exported: telemetry carries counts, latencies and
// session lifecycle only. Instruments live in telemetry/metrics and report
// through the global OpenTelemetry meter provider, which is a no-op unless an
// SDK provider is installed by the process.
package telemetry
