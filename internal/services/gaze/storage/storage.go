// Package storage defines persistence contracts for the gaze session ledger.
//
// The ledger keeps one summary row per closed session. It never stores gaze
// coordinates or fixation positions.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested session summary is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a session summary with the same id exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// SessionRecord summarizes one closed gaze session.
type SessionRecord struct {
	ID              string
	StartedAt       time.Time
	EndedAt         time.Time
	SamplesAccepted int64
	SamplesRejected int64
	Fixations       int64
	Intensity       string
}

// SessionStore persists closed session summaries.
type SessionStore interface {
	RecordSession(ctx context.Context, record SessionRecord) error
	GetSession(ctx context.Context, id string) (SessionRecord, error)
	ListRecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)
}
