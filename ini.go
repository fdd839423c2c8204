package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readINISection is the minimal, tolerant INI reader spec.md §1/§4.5
// scopes out of the core as "the one-line INI reader for location": one
// section, a handful of keys, blank lines and #/; comments ignored,
// whitespace trimmed. It returns only the keys under the requested
// section, last-value-wins on duplicates.
func readINISection(path, section string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := make(map[string]string)
	inSection := false
	wantHeader := "[" + section + "]"

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inSection = strings.EqualFold(line, wantHeader)
			continue
		}
		if !inSection {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// writeINISection emits the fixed canonical form spec.md §4.5 requires:
// one section header followed by key=value lines in the given order.
func writeINISection(path, section string, keysInOrder []string, values map[string]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", section)
	for _, k := range keysInOrder {
		fmt.Fprintf(&b, "%s = %s\n", k, values[k])
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
