package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// zipRecordSize is the fixed 13-byte record: 5 ASCII digits + float32 lat +
// float32 lon (spec.md §6).
const zipRecordSize = 13

// ZipTable is a memory-mapped view of us_zipcodes.bin, consumed by
// --set-location (spec.md §6). This is the core's one external
// collaborator called out in spec.md §1 — the core only ever sees the
// (lat, lon) this returns.
type ZipTable struct {
	data  []byte
	count uint32
}

// OpenZipTable mmaps the table and validates its header.
func OpenZipTable(path string) (*ZipTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening zip table %s: %v", ErrFilesystem, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat zip table: %v", ErrFilesystem, err)
	}
	if info.Size() < 4 {
		return nil, fmt.Errorf("%w: zip table too small", ErrInvalidInput)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap zip table: %v", ErrFilesystem, err)
	}

	count := binary.LittleEndian.Uint32(data[0:4])
	wantSize := int64(4) + int64(count)*zipRecordSize
	if info.Size() < wantSize {
		unix.Munmap(data)
		return nil, fmt.Errorf("%w: zip table truncated", ErrInvalidInput)
	}

	return &ZipTable{data: data, count: count}, nil
}

// Close unmaps the table.
func (z *ZipTable) Close() error {
	if z.data == nil {
		return nil
	}
	err := unix.Munmap(z.data)
	z.data = nil
	return err
}

func (z *ZipTable) record(i uint32) (zip [5]byte, lat, lon float32) {
	off := 4 + int(i)*zipRecordSize
	rec := z.data[off : off+zipRecordSize]
	copy(zip[:], rec[0:5])
	lat = math.Float32frombits(binary.LittleEndian.Uint32(rec[5:9]))
	lon = math.Float32frombits(binary.LittleEndian.Uint32(rec[9:13]))
	return
}

// Lookup performs a binary search (memcmp ordering) on the zip code and
// returns the exact bit-equal float32 coordinates stored in the table
// (spec.md §6, §8).
func (z *ZipTable) Lookup(zip string) (lat, lon float64, err error) {
	if len(zip) != 5 {
		return 0, 0, fmt.Errorf("%w: zip code must be 5 digits, got %q", ErrInvalidInput, zip)
	}
	target := []byte(zip)

	lo, hi := uint32(0), z.count
	for lo < hi {
		mid := lo + (hi-lo)/2
		rec, recLat, recLon := z.record(mid)
		switch bytes.Compare(rec[:], target) {
		case 0:
			return float64(recLat), float64(recLon), nil
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, 0, fmt.Errorf("%w: zip %q", ErrNotFound, zip)
}
