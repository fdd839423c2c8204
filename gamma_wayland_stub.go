//go:build !wayland

package main

import "fmt"

// OpenWaylandBackend stub for builds without the wayland tag.
func OpenWaylandBackend(cardNum int) (GammaBackend, error) {
	return nil, fmt.Errorf("%w: built without wayland support", ErrBackendInit)
}
