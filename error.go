package adb

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error values used by this package
var (
	// A response or command output could not be parsed.
	ErrParsing = errors.New("parse error")
	// An argument violated a precondition, e.g. a blank command.
	ErrAssertionViolation = errors.New("assertion violation")
	// The server answered a connect request with a failure message.
	ErrConnectFailed = errors.New("connect failed")
	// No adb executable in the bundled directory or on PATH.
	ErrExecutableNotFound = errors.New("adb executable not found")
)

// ShellExitError is returned when the adb process exits with a non-zero code.
type ShellExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (s ShellExitError) Error() string {
	if s.Stderr == "" {
		return fmt.Sprintf("shell %q exit code %d", s.Command, s.ExitCode)
	}
	return fmt.Sprintf("shell %q exit code %d: %s", s.Command, s.ExitCode, s.Stderr)
}
