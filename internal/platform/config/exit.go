package config

import (
	"fmt"
	"io"
	"os"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(1)
}

// ExitOnError exits with code 1 when err is non-nil, prefixing the message
// with what was being attempted. It is a no-op for nil errors.
func ExitOnError(err error, doing string) {
	if err == nil {
		return
	}
	Exitf("%s: %v", doing, err)
}
