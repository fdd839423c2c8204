//go:build !x11

package main

import "fmt"

// OpenX11Backend stub for builds without the x11 tag (spec.md §4.4: an
// absent optional backend is simply skipped in probe order).
func OpenX11Backend(cardNum int) (GammaBackend, error) {
	return nil, fmt.Errorf("%w: built without x11 support", ErrBackendInit)
}
