// Package id generates opaque identifiers for gaze sessions.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random 26-character lowercase base32 identifier backed by a
// version 4 UUID.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// Generator produces opaque identifiers. Tests inject deterministic ones.
type Generator func() (string, error)

// Sequence returns a Generator yielding prefix-1, prefix-2, ...
func Sequence(prefix string) Generator {
	next := 0
	return func() (string, error) {
		next++
		return fmt.Sprintf("%s-%d", prefix, next), nil
	}
}
