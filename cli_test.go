package main

import "testing"

func TestParseSetArg(t *testing.T) {
	cases := []struct {
		in          string
		wantTemp    int
		wantMinutes int
		wantErr     bool
	}{
		{"3500", 3500, DefaultOverrideDurationMinutes, false},
		{"3500,10", 3500, 10, false},
		{"3500,0", 3500, 0, false},
		{"not-a-number", 0, 0, true},
		{"3500,not-a-number", 0, 0, true},
	}
	for _, c := range cases {
		temp, minutes, err := parseSetArg(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseSetArg(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSetArg(%q): unexpected error %v", c.in, err)
			continue
		}
		if temp != c.wantTemp || minutes != c.wantMinutes {
			t.Errorf("parseSetArg(%q) = (%d, %d), want (%d, %d)", c.in, temp, minutes, c.wantTemp, c.wantMinutes)
		}
	}
}

func TestCmdSetRejectsOutOfRangeTemp(t *testing.T) {
	paths := Paths{Override: t.TempDir() + "/override.json"}
	if err := cmdSet(paths, 500, 3); err == nil {
		t.Error("expected error for temperature below TempMinKelvin")
	}
	if err := cmdSet(paths, 30000, 3); err == nil {
		t.Error("expected error for temperature above TempMaxKelvin")
	}
}
