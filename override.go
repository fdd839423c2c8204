package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// OverrideState is the small on-disk struct the CLI writes and the daemon
// observes (spec.md §3). IssuedAt is stored as Unix seconds, matching the
// weather cache's FetchedAt convention (spec.md §4.5).
type OverrideState struct {
	Active          bool  `json:"active"`
	TargetTemp      int   `json:"target_temp"`
	DurationMinutes int   `json:"duration_minutes"`
	IssuedAt        int64 `json:"issued_at"`
	StartTemp       int   `json:"start_temp"`
}

// LoadOverride reads override.json. Per spec.md §7, a malformed file or one
// over the size bound is treated as "no override" (Active=false), never an
// error the caller must handle — an absent override file is the normal
// steady state.
func LoadOverride(path string) OverrideState {
	data, err := os.ReadFile(path)
	if err != nil {
		return OverrideState{}
	}
	if len(data) > OverrideMaxBytes {
		return OverrideState{}
	}
	var o OverrideState
	if err := json.Unmarshal(data, &o); err != nil {
		return OverrideState{}
	}
	return o
}

// SaveOverride writes override.json in canonical fixed field order.
func SaveOverride(path string, o OverrideState) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling override: %v", ErrFilesystem, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrFilesystem, path, err)
	}
	return nil
}

// ClearOverride removes override.json. Absence is equivalent to
// Active=false (spec.md §3 invariant (a)); removing an already-absent file
// is not an error.
func ClearOverride(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing %s: %v", ErrFilesystem, path, err)
	}
	return nil
}

// NewOverrideIssuedNow builds the override the CLI's --set command writes:
// start_temp always zero, letting the daemon fill it in on first
// observation (spec.md §3, §4.8).
func NewOverrideIssuedNow(targetTemp, durationMinutes int) OverrideState {
	return OverrideState{
		Active:          true,
		TargetTemp:      targetTemp,
		DurationMinutes: durationMinutes,
		IssuedAt:        time.Now().Unix(),
		StartTemp:       0,
	}
}
