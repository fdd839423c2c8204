package main

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type zipFixture struct {
	zip string
	lat float32
	lon float32
}

func writeZipTable(t *testing.T, entries []zipFixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "us_zipcodes.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, uint32(len(entries)))
	if _, err := f.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, e := range entries {
		rec := make([]byte, zipRecordSize)
		copy(rec[0:5], []byte(e.zip))
		binary.LittleEndian.PutUint32(rec[5:9], math.Float32bits(e.lat))
		binary.LittleEndian.PutUint32(rec[9:13], math.Float32bits(e.lon))
		if _, err := f.Write(rec); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}
	return path
}

func TestZipTableLookupExact(t *testing.T) {
	entries := []zipFixture{
		{"00501", 40.8154, -73.0451},
		{"10001", 40.7506, -73.9972},
		{"60601", 41.8855, -87.6221},
		{"90210", 34.1030, -118.4105},
		{"99950", 55.5349, -130.0181},
	}
	path := writeZipTable(t, entries)

	tbl, err := OpenZipTable(path)
	if err != nil {
		t.Fatalf("OpenZipTable: %v", err)
	}
	defer tbl.Close()

	for _, e := range entries {
		lat, lon, err := tbl.Lookup(e.zip)
		if err != nil {
			t.Errorf("Lookup(%q): unexpected error %v", e.zip, err)
			continue
		}
		if float32(lat) != e.lat || float32(lon) != e.lon {
			t.Errorf("Lookup(%q) = (%v, %v), want (%v, %v)", e.zip, lat, lon, e.lat, e.lon)
		}
	}
}

func TestZipTableLookupNotFound(t *testing.T) {
	path := writeZipTable(t, []zipFixture{{"10001", 40.75, -73.99}})
	tbl, err := OpenZipTable(path)
	if err != nil {
		t.Fatalf("OpenZipTable: %v", err)
	}
	defer tbl.Close()

	if _, _, err := tbl.Lookup("00000"); err == nil {
		t.Error("expected error for zip not in table")
	}
}

func TestZipTableLookupInvalidLength(t *testing.T) {
	path := writeZipTable(t, []zipFixture{{"10001", 40.75, -73.99}})
	tbl, err := OpenZipTable(path)
	if err != nil {
		t.Fatalf("OpenZipTable: %v", err)
	}
	defer tbl.Close()

	if _, _, err := tbl.Lookup("123"); err == nil {
		t.Error("expected error for malformed zip length")
	}
}
