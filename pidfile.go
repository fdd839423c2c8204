package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// WritePIDFile writes the daemon's numeric PID as decimal ASCII
// (spec.md §4.5, §6).
func WritePIDFile(path string) error {
	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("%w: writing pid file %s: %v", ErrFilesystem, path, err)
	}
	return nil
}

// RemovePIDFile removes daemon.pid on clean shutdown (spec.md §4.5).
// Absence is not an error.
func RemovePIDFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing pid file %s: %v", ErrFilesystem, path, err)
	}
	return nil
}

// IsDaemonAlive implements the liveness check from spec.md §4.5/§4.8: read
// the PID, then kill(pid, 0). ESRCH or an absent file both mean "not
// alive", and the PID file is purely advisory — no locking.
func IsDaemonAlive(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false
	}
	err = unix.Kill(pid, 0)
	return err == nil
}
