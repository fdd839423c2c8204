package main

import "errors"

// Sentinel errors for the taxonomy described in spec.md §7. Call sites wrap
// these with fmt.Errorf("...: %w", ErrX) so callers can still errors.Is
// against the kind while getting a human-readable message.
var (
	// ErrInvalidInput covers out-of-range temperatures, malformed ZIP codes
	// and malformed "lat,lon" strings.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingEnv covers an unset $HOME or an unconfigured location.
	ErrMissingEnv = errors.New("missing environment")

	// ErrFilesystem covers config-directory creation and small-file I/O
	// failures.
	ErrFilesystem = errors.New("filesystem error")

	// ErrBackendInit covers display backend failures: a backend that cannot
	// be opened or has no usable CRTC, a probe that gave up after its retry
	// budget, and a set call that no CRTC accepted.
	ErrBackendInit = errors.New("no usable display backend")

	// ErrNotFound is returned by the ZIP table lookup when the code isn't
	// present.
	ErrNotFound = errors.New("not found")

	// ErrDaemonNotRunning names the daemon-not-running condition. The
	// liveness check, IsDaemonAlive, reports a bool and does not return it.
	ErrDaemonNotRunning = errors.New("daemon not running")
)
