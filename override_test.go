package main

import (
	"path/filepath"
	"testing"
)

func TestOverrideRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.json")
	want := OverrideState{Active: true, TargetTemp: 3500, DurationMinutes: 5, IssuedAt: 1700000000, StartTemp: 6200}

	if err := SaveOverride(path, want); err != nil {
		t.Fatalf("SaveOverride: %v", err)
	}
	got := LoadOverride(path)
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadOverrideMissingFileIsInactive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	got := LoadOverride(path)
	if got.Active {
		t.Errorf("expected inactive override for missing file, got %+v", got)
	}
}

func TestClearOverrideIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.json")
	if err := ClearOverride(path); err != nil {
		t.Errorf("ClearOverride on missing file should succeed, got %v", err)
	}
	if err := SaveOverride(path, NewOverrideIssuedNow(4000, 3)); err != nil {
		t.Fatalf("SaveOverride: %v", err)
	}
	if err := ClearOverride(path); err != nil {
		t.Errorf("ClearOverride on existing file: %v", err)
	}
	if err := ClearOverride(path); err != nil {
		t.Errorf("second ClearOverride should also succeed: %v", err)
	}
}

func TestNewOverrideIssuedNow(t *testing.T) {
	o := NewOverrideIssuedNow(5000, 10)
	if !o.Active || o.TargetTemp != 5000 || o.DurationMinutes != 10 || o.StartTemp != 0 {
		t.Errorf("unexpected override fields: %+v", o)
	}
	if o.IssuedAt == 0 {
		t.Error("expected non-zero IssuedAt")
	}
}
