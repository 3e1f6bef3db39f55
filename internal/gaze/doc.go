// Package gaze turns raw eye-tracker samples into display-adaptation hints.
//
// The pipeline runs per sample: the session buffer is smoothed, the smoothed
// window is segmented with a velocity threshold (falling back to a dispersion
// test), and a qualifying fixation is mapped to a focus region and a set of
// de-crowding style parameters. Every call re-evaluates the recent window from
// scratch; there is no fixation-end event.
//
// A Session is not safe for concurrent use. The transport layer owns one
// Session per connection and drives it from a single goroutine.
package gaze
