package main

import "fmt"

// GammaBackend is the small contract spec.md §4.4 requires of all four
// concrete backends.
type GammaBackend interface {
	// Name is the user-visible short string ("drm" | "x11" | "wayland" |
	// "gnome").
	Name() string

	// CRTCCount returns the number of CRTCs the backend knows about.
	CRTCCount() int

	// GammaSize returns CRTC i's ramp size; zero means "skip this CRTC".
	GammaSize(i int) int

	// SetTemperature applies (kelvin, beta) to every usable CRTC. Succeeds
	// if at least one CRTC accepted it.
	SetTemperature(kelvin, beta float64) error

	// SetTemperatureCRTC applies (kelvin, beta) to a single CRTC.
	SetTemperatureCRTC(i int, kelvin, beta float64) error

	// Restore returns every CRTC to its pre-daemon gamma. DRM and X11 write
	// back the ramps saved at open time; GNOME writes a linear ramp and
	// Wayland destroys its gamma controls, since neither can read a ramp back.
	Restore() error

	// Free calls Restore and then releases all backend resources.
	Free() error
}

// backendProbe is one entry in the dispatcher's fixed probe order
// (spec.md §4.4).
type backendProbe struct {
	name string
	try  func(cardNum int) (GammaBackend, error)
}

// ErrNoCRTCAvailable is returned by the dispatcher when every backend in
// the probe order failed or produced zero usable CRTCs (spec.md §4.4, §7).
var ErrNoCRTCAvailable = fmt.Errorf("%w: no CRTC available", ErrBackendInit)

// usableGammaSize reports whether a CRTC's ramp size makes it usable
// (spec.md §3: "ramp_size <= 1 means the CRTC is unusable").
func usableGammaSize(size int) bool {
	return size > 1
}
