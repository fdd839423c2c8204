package main

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DRM mode ioctl numbers, computed the same way libdrm does:
// _IOWR(DRM_IOCTL_BASE, nr, size) with DRM_IOCTL_BASE = 'd'. Fixed by the
// kernel ABI (spec.md §4.4); the struct-size static assertions below back
// the "64, 104, 32 bytes" requirement.
const (
	drmIoctlModeGetResources = 0xC04064A0
	drmIoctlModeGetCRTC      = 0xC06864A1
	drmIoctlModeSetCRTC      = 0xC06864A2
	drmIoctlModeGetGamma     = 0xC02064A4
	drmIoctlModeSetGamma     = 0xC02064A5
)

// drmModeCardRes mirrors struct drm_mode_card_res (64 bytes).
type drmModeCardRes struct {
	fbIDPtr         uint64
	crtcIDPtr       uint64
	connectorIDPtr  uint64
	encoderIDPtr    uint64
	countFBs        uint32
	countCRTCs      uint32
	countConnectors uint32
	countEncoders   uint32
	minWidth        uint32
	maxWidth        uint32
	minHeight       uint32
	maxHeight       uint32
}

// drmModeModeInfo mirrors struct drm_mode_modeinfo (68 bytes) — only its
// size matters here, its fields are never inspected.
type drmModeModeInfo struct {
	clock                                  uint32
	hdisplay, hsyncStart, hsyncEnd, htotal uint16
	hskew                                  uint16
	vdisplay, vsyncStart, vsyncEnd, vtotal uint16
	vscan                                  uint16
	vrefresh                               uint32
	flags, modeType                        uint32
	name                                   [32]byte
}

// drmModeCRTC mirrors struct drm_mode_crtc (104 bytes).
type drmModeCRTC struct {
	setConnectorsPtr uint64
	countConnectors  uint32
	crtcID           uint32
	fbID             uint32
	x, y             uint32
	gammaSize        uint32
	modeValid        uint32
	mode             drmModeModeInfo
}

// drmModeCRTCLUT mirrors struct drm_mode_crtc_lut (32 bytes).
type drmModeCRTCLUT struct {
	crtcID    uint32
	gammaSize uint32
	red       uint64
	green     uint64
	blue      uint64
}

var (
	_ [64]byte = [unsafe.Sizeof(drmModeCardRes{})]byte{}
	_ [104]byte = [unsafe.Sizeof(drmModeCRTC{})]byte{}
	_ [32]byte = [unsafe.Sizeof(drmModeCRTCLUT{})]byte{}
)

func drmIoctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

type drmCRTCState struct {
	id        uint32
	gammaSize int
	savedR    []uint16
	savedG    []uint16
	savedB    []uint16
}

// drmBackend implements GammaBackend against /dev/dri/cardN
// (spec.md §4.4 DRM subsection).
type drmBackend struct {
	fd    int
	crtcs []drmCRTCState
}

// OpenDRMBackend opens /dev/dri/card{cardNum} and performs the two-call
// MODE_GETRESOURCES handshake the kernel ABI requires, then saves every
// usable CRTC's current gamma ramp.
func OpenDRMBackend(cardNum int) (GammaBackend, error) {
	path := fmt.Sprintf("/dev/dri/card%d", cardNum)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		if err == unix.EACCES {
			return nil, fmt.Errorf("%w: permission denied opening %s (join the video group)", ErrBackendInit, path)
		}
		return nil, fmt.Errorf("%w: open failed: %s: %v", ErrBackendInit, path, err)
	}

	b := &drmBackend{fd: fd}
	if err := b.loadCRTCs(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if len(b.crtcs) == 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: no CRTC", ErrBackendInit)
	}
	return b, nil
}

func (b *drmBackend) loadCRTCs() error {
	var res drmModeCardRes
	if err := drmIoctl(b.fd, drmIoctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return fmt.Errorf("%w: GETRESOURCES (count): %v", ErrBackendInit, err)
	}
	if res.countCRTCs == 0 {
		return fmt.Errorf("%w: no CRTC", ErrBackendInit)
	}

	crtcIDs := make([]uint32, res.countCRTCs)
	res.crtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcIDs[0])))
	if err := drmIoctl(b.fd, drmIoctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return fmt.Errorf("%w: GETRESOURCES (fill): %v", ErrBackendInit, err)
	}

	for _, id := range crtcIDs {
		var crtc drmModeCRTC
		crtc.crtcID = id
		if err := drmIoctl(b.fd, drmIoctlModeGetCRTC, unsafe.Pointer(&crtc)); err != nil {
			continue
		}
		size := int(crtc.gammaSize)
		if !usableGammaSize(size) {
			continue
		}

		savedR := make([]uint16, size)
		savedG := make([]uint16, size)
		savedB := make([]uint16, size)
		lut := drmModeCRTCLUT{
			crtcID:    id,
			gammaSize: crtc.gammaSize,
			red:       uint64(uintptr(unsafe.Pointer(&savedR[0]))),
			green:     uint64(uintptr(unsafe.Pointer(&savedG[0]))),
			blue:      uint64(uintptr(unsafe.Pointer(&savedB[0]))),
		}
		if err := drmIoctl(b.fd, drmIoctlModeGetGamma, unsafe.Pointer(&lut)); err != nil {
			continue
		}

		b.crtcs = append(b.crtcs, drmCRTCState{id: id, gammaSize: size, savedR: savedR, savedG: savedG, savedB: savedB})
	}
	return nil
}

func (b *drmBackend) Name() string     { return "drm" }
func (b *drmBackend) CRTCCount() int   { return len(b.crtcs) }
func (b *drmBackend) GammaSize(i int) int {
	if i < 0 || i >= len(b.crtcs) {
		return 0
	}
	return b.crtcs[i].gammaSize
}

func (b *drmBackend) setCRTCGamma(c *drmCRTCState, r, g, bch []uint16) error {
	lut := drmModeCRTCLUT{
		crtcID:    c.id,
		gammaSize: uint32(c.gammaSize),
		red:       uint64(uintptr(unsafe.Pointer(&r[0]))),
		green:     uint64(uintptr(unsafe.Pointer(&g[0]))),
		blue:      uint64(uintptr(unsafe.Pointer(&bch[0]))),
	}
	return drmIoctl(b.fd, drmIoctlModeSetGamma, unsafe.Pointer(&lut))
}

func (b *drmBackend) SetTemperature(kelvin, beta float64) error {
	var lastErr error
	successes := 0
	for i := range b.crtcs {
		c := &b.crtcs[i]
		ramp := BuildGammaRamp(kelvin, beta, c.gammaSize)
		if err := b.setCRTCGamma(c, ramp.R, ramp.G, ramp.B); err != nil {
			lastErr = err
			continue
		}
		successes++
	}
	if successes == 0 {
		return fmt.Errorf("%w: all CRTCs failed: %v", ErrBackendInit, lastErr)
	}
	return nil
}

func (b *drmBackend) SetTemperatureCRTC(i int, kelvin, beta float64) error {
	if i < 0 || i >= len(b.crtcs) {
		return fmt.Errorf("%w: crtc index %d out of range", ErrInvalidInput, i)
	}
	c := &b.crtcs[i]
	ramp := BuildGammaRamp(kelvin, beta, c.gammaSize)
	return b.setCRTCGamma(c, ramp.R, ramp.G, ramp.B)
}

func (b *drmBackend) Restore() error {
	var lastErr error
	for i := range b.crtcs {
		c := &b.crtcs[i]
		if err := b.setCRTCGamma(c, c.savedR, c.savedG, c.savedB); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (b *drmBackend) Free() error {
	err := b.Restore()
	if b.fd >= 0 {
		unix.Close(b.fd)
		b.fd = -1
	}
	return err
}
