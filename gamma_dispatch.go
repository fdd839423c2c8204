package main

import (
	"fmt"
	"log"
	"os"
)

// gammaProbeOrder is the dispatcher's fixed backend probe order (spec.md
// §4.4): Wayland and GNOME are tried first and only when a Wayland session
// is actually running, then DRM, then X11 as the final fallback.
func gammaProbeOrder() []backendProbe {
	probes := []backendProbe{}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		probes = append(probes,
			backendProbe{name: "wayland", try: OpenWaylandBackend},
			backendProbe{name: "gnome", try: OpenGNOMEBackend},
		)
	}
	probes = append(probes,
		backendProbe{name: "drm", try: OpenDRMBackend},
		backendProbe{name: "x11", try: OpenX11Backend},
	)
	return probes
}

// OpenGammaBackend walks gammaProbeOrder and returns the first backend that
// opens successfully and reports at least one usable CRTC. All other
// dispatcher-facing code only ever talks to the returned GammaBackend, never
// to a concrete backend type (spec.md §4.4, §7).
func OpenGammaBackend(cardNum int) (GammaBackend, error) {
	var errs []error
	for _, p := range gammaProbeOrder() {
		b, err := p.try(cardNum)
		if err != nil {
			log.Printf("gamma backend %s unavailable: %v", p.name, err)
			errs = append(errs, err)
			continue
		}
		log.Printf("gamma backend selected: %s (%d CRTCs)", b.Name(), b.CRTCCount())
		return b, nil
	}
	return nil, fmt.Errorf("%w: tried %d backends: %v", ErrNoCRTCAvailable, len(errs), errs)
}
