//go:build !gnome

package main

import "fmt"

// OpenGNOMEBackend stub for builds without the gnome tag.
func OpenGNOMEBackend(cardNum int) (GammaBackend, error) {
	return nil, fmt.Errorf("%w: built without gnome support", ErrBackendInit)
}
