package main

import "github.com/pdiddy/scholarly-search/internal/secrets"

// Process exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, every source failed)
	ExitConfigError = 2 // Missing credential or invalid configuration
)

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case secrets.IsConfigError(err):
		return ExitConfigError
	default:
		return ExitError
	}
}
