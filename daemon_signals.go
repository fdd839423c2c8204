package main

import (
	"os"
	"os/signal"
	"syscall"
)

// installSignalHandler returns a channel delivering SIGTERM/SIGINT, for the
// daemon's select loop to watch alongside its ticker and file-watcher
// channels (spec.md §4.7), the same os/signal.Notify pattern the teacher
// uses for its own graceful shutdown.
func installSignalHandler() chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
