package main

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// configWatcher watches the config directory and coalesces bursts of
// writes (editors often rename-then-write, firing several fsnotify events
// per logical save) into a single debounced signal, approximating the
// IN_CLOSE_WRITE semantics spec.md §4.7 describes for its single-kernel-wait
// design.
type configWatcher struct {
	watcher *fsnotify.Watcher
	Changed chan string
}

// newConfigWatcher watches dir and emits each changed path on Changed once
// that path has seen no further events for WatchDebounce.
func newConfigWatcher(dir string) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	cw := &configWatcher{watcher: w, Changed: make(chan string, 1)}
	go cw.run()
	return cw, nil
}

func (cw *configWatcher) run() {
	timers := make(map[string]*time.Timer)

	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name := ev.Name
			if t := timers[name]; t != nil {
				t.Stop()
			}
			timers[name] = time.AfterFunc(WatchDebounce, func() {
				cw.Changed <- name
			})
		case _, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (cw *configWatcher) Close() error {
	return cw.watcher.Close()
}
