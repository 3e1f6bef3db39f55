// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Prefix namespaces every environment variable the services read.
const Prefix = "WIT_"

// ParseEnv loads configuration from environment variables. Field tags name
// variables without the shared prefix; ParseEnv adds it.
func ParseEnv(target any) error {
	return ParseEnvWithPrefix(target, Prefix)
}

// ParseEnvWithPrefix loads configuration using an explicit variable prefix.
func ParseEnvWithPrefix(target any, prefix string) error {
	opts := env.Options{Prefix: strings.TrimSpace(prefix)}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
