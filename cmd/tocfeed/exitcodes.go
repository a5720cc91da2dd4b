package main

import "fmt"

// Exit codes.
const (
	ExitSuccess     = 0 // Success, also when metrics failed but a previous file was kept
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing or malformed catalog or config)
	ExitDataError   = 3 // Data error (output could not be written)
)

// exitError carries an exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// withCode wraps a formatted error with an exit code.
func withCode(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}
