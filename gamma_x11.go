//go:build x11

package main

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

// Mirrors the fixed ABI layout of XRRScreenResources / XRRCrtcGamma from
// <X11/extensions/Xrandr.h>. Only the function pointers below are resolved
// by dlopen/dlsym at runtime (spec.md §4.4); these struct layouts are part
// of the stable X11 wire ABI and safe to declare directly.
typedef unsigned long XID;
typedef struct {
	unsigned long timestamp;
	unsigned long configTimestamp;
	int ncrtc;
	XID *crtcs;
	int noutput;
	XID *outputs;
	int nmode;
	XID *modes;
} XRRScreenResources;

typedef struct {
	unsigned short *red, *green, *blue;
	int size;
} XRRCrtcGamma;

typedef void* Display;

typedef Display* (*fn_XOpenDisplay)(const char*);
typedef int       (*fn_XDefaultScreen)(Display*);
typedef XID       (*fn_XRootWindow)(Display*, int);
typedef int       (*fn_XCloseDisplay)(Display*);
typedef XRRScreenResources* (*fn_XRRGetScreenResourcesCurrent)(Display*, XID);
typedef int       (*fn_XRRGetCrtcGammaSize)(Display*, XID);
typedef XRRCrtcGamma* (*fn_XRRGetCrtcGamma)(Display*, XID);
typedef void      (*fn_XRRSetCrtcGamma)(Display*, XID, XRRCrtcGamma*);
typedef XRRCrtcGamma* (*fn_XRRAllocGamma)(int);
typedef void      (*fn_XRRFreeGamma)(XRRCrtcGamma*);
typedef void      (*fn_XRRFreeScreenResources)(XRRScreenResources*);

static void* dl_sym(void* h, const char* name) { return dlsym(h, name); }

static Display* call_open_display(fn_XOpenDisplay f, const char* name) { return f(name); }
static int call_default_screen(fn_XDefaultScreen f, Display* d) { return f(d); }
static XID call_root(fn_XRootWindow f, Display* d, int s) { return f(d, s); }
static XRRScreenResources* call_get_res(fn_XRRGetScreenResourcesCurrent f, Display* d, XID w) { return f(d, w); }
static int call_gamma_size(fn_XRRGetCrtcGammaSize f, Display* d, XID c) { return f(d, c); }
static XRRCrtcGamma* call_get_gamma(fn_XRRGetCrtcGamma f, Display* d, XID c) { return f(d, c); }
static void call_set_gamma(fn_XRRSetCrtcGamma f, Display* d, XID c, XRRCrtcGamma* g) { f(d, c, g); }
static XRRCrtcGamma* call_alloc_gamma(fn_XRRAllocGamma f, int size) { return f(size); }
static void call_free_gamma(fn_XRRFreeGamma f, XRRCrtcGamma* g) { f(g); }
static void call_free_res(fn_XRRFreeScreenResources f, XRRScreenResources* r) { f(r); }
static int call_close_display(fn_XCloseDisplay f, Display* d) { return f(d); }

static XID crtc_at(XRRScreenResources* r, int i) { return r->crtcs[i]; }
static unsigned short gamma_red_at(XRRCrtcGamma* g, int i) { return g->red[i]; }
static unsigned short gamma_green_at(XRRCrtcGamma* g, int i) { return g->green[i]; }
static unsigned short gamma_blue_at(XRRCrtcGamma* g, int i) { return g->blue[i]; }
static void gamma_set_red(XRRCrtcGamma* g, int i, unsigned short v) { g->red[i] = v; }
static void gamma_set_green(XRRCrtcGamma* g, int i, unsigned short v) { g->green[i] = v; }
static void gamma_set_blue(XRRCrtcGamma* g, int i, unsigned short v) { g->blue[i] = v; }
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// x11Lib is the small set of libX11/libXrandr symbols resolved lazily by
// name (spec.md §4.4 X11 subsection: "load shared objects by name on
// demand"), the same runtime-optional-dependency pattern the teacher uses
// for its decode backends.
type x11Lib struct {
	xHandle, xrandrHandle unsafe.Pointer

	openDisplay   C.fn_XOpenDisplay
	defaultScreen C.fn_XDefaultScreen
	rootWindow    C.fn_XRootWindow
	closeDisplay  C.fn_XCloseDisplay
	getScreenRes  C.fn_XRRGetScreenResourcesCurrent
	gammaSize     C.fn_XRRGetCrtcGammaSize
	getGamma      C.fn_XRRGetCrtcGamma
	setGamma      C.fn_XRRSetCrtcGamma
	allocGamma    C.fn_XRRAllocGamma
	freeGamma     C.fn_XRRFreeGamma
	freeRes       C.fn_XRRFreeScreenResources
}

func dlopenOrNil(name string) unsafe.Pointer {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.dlopen(cname, C.RTLD_NOW)
}

func dlsymOrNil(h unsafe.Pointer, name string) unsafe.Pointer {
	if h == nil {
		return nil
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.dl_sym(h, cname)
}

func loadX11Lib() (*x11Lib, error) {
	lib := &x11Lib{}
	lib.xHandle = dlopenOrNil("libX11.so.6")
	if lib.xHandle == nil {
		return nil, fmt.Errorf("%w: libX11.so.6 not found", ErrBackendInit)
	}
	lib.xrandrHandle = dlopenOrNil("libXrandr.so.2")
	if lib.xrandrHandle == nil {
		return nil, fmt.Errorf("%w: libXrandr.so.2 not found", ErrBackendInit)
	}

	lib.openDisplay = C.fn_XOpenDisplay(dlsymOrNil(lib.xHandle, "XOpenDisplay"))
	lib.defaultScreen = C.fn_XDefaultScreen(dlsymOrNil(lib.xHandle, "XDefaultScreen"))
	lib.rootWindow = C.fn_XRootWindow(dlsymOrNil(lib.xHandle, "XRootWindow"))
	lib.closeDisplay = C.fn_XCloseDisplay(dlsymOrNil(lib.xHandle, "XCloseDisplay"))
	lib.getScreenRes = C.fn_XRRGetScreenResourcesCurrent(dlsymOrNil(lib.xrandrHandle, "XRRGetScreenResourcesCurrent"))
	lib.gammaSize = C.fn_XRRGetCrtcGammaSize(dlsymOrNil(lib.xrandrHandle, "XRRGetCrtcGammaSize"))
	lib.getGamma = C.fn_XRRGetCrtcGamma(dlsymOrNil(lib.xrandrHandle, "XRRGetCrtcGamma"))
	lib.setGamma = C.fn_XRRSetCrtcGamma(dlsymOrNil(lib.xrandrHandle, "XRRSetCrtcGamma"))
	lib.allocGamma = C.fn_XRRAllocGamma(dlsymOrNil(lib.xrandrHandle, "XRRAllocGamma"))
	lib.freeGamma = C.fn_XRRFreeGamma(dlsymOrNil(lib.xrandrHandle, "XRRFreeGamma"))
	lib.freeRes = C.fn_XRRFreeScreenResources(dlsymOrNil(lib.xrandrHandle, "XRRFreeScreenResources"))

	if lib.openDisplay == nil || lib.getGamma == nil || lib.setGamma == nil || lib.getScreenRes == nil {
		return nil, fmt.Errorf("%w: required RandR gamma symbols missing", ErrBackendInit)
	}
	return lib, nil
}

func (l *x11Lib) close() {
	if l.xrandrHandle != nil {
		C.dlclose(l.xrandrHandle)
	}
	if l.xHandle != nil {
		C.dlclose(l.xHandle)
	}
}

type x11CRTCState struct {
	id        C.XID
	gammaSize int
	savedR    []uint16
	savedG    []uint16
	savedB    []uint16
}

// x11Backend implements GammaBackend over libX11/libXrandr, every symbol
// resolved via dlopen/dlsym (spec.md §4.4).
type x11Backend struct {
	lib     *x11Lib
	display *C.Display
	res     *C.XRRScreenResources
	root    C.XID
	crtcs   []x11CRTCState
}

// OpenX11Backend connects to the default X display (honoring $DISPLAY, as
// XOpenDisplay(NULL) does) and enumerates every usable CRTC's current gamma
// ramp before returning.
func OpenX11Backend(cardNum int) (GammaBackend, error) {
	lib, err := loadX11Lib()
	if err != nil {
		return nil, err
	}

	dpy := C.call_open_display(lib.openDisplay, nil)
	if dpy == nil {
		lib.close()
		return nil, fmt.Errorf("%w: XOpenDisplay failed (no X server)", ErrBackendInit)
	}

	screen := C.call_default_screen(lib.defaultScreen, dpy)
	root := C.call_root(lib.rootWindow, dpy, C.int(screen))

	res := C.call_get_res(lib.getScreenRes, dpy, root)
	if res == nil {
		C.call_close_display(lib.closeDisplay, dpy)
		lib.close()
		return nil, fmt.Errorf("%w: XRRGetScreenResourcesCurrent failed", ErrBackendInit)
	}

	b := &x11Backend{lib: lib, display: dpy, res: res, root: root}
	b.loadCRTCs()
	if len(b.crtcs) == 0 {
		b.Free()
		return nil, fmt.Errorf("%w: no CRTC", ErrBackendInit)
	}
	return b, nil
}

func (b *x11Backend) loadCRTCs() {
	n := int(b.res.ncrtc)
	for i := 0; i < n; i++ {
		id := C.crtc_at(b.res, C.int(i))
		size := int(C.call_gamma_size(b.lib.gammaSize, b.display, id))
		if !usableGammaSize(size) {
			continue
		}
		cur := C.call_get_gamma(b.lib.getGamma, b.display, id)
		if cur == nil {
			continue
		}
		savedR := make([]uint16, size)
		savedG := make([]uint16, size)
		savedB := make([]uint16, size)
		for j := 0; j < size; j++ {
			savedR[j] = uint16(C.gamma_red_at(cur, C.int(j)))
			savedG[j] = uint16(C.gamma_green_at(cur, C.int(j)))
			savedB[j] = uint16(C.gamma_blue_at(cur, C.int(j)))
		}
		C.call_free_gamma(b.lib.freeGamma, cur)
		b.crtcs = append(b.crtcs, x11CRTCState{id: id, gammaSize: size, savedR: savedR, savedG: savedG, savedB: savedB})
	}
}

func (b *x11Backend) Name() string   { return "x11" }
func (b *x11Backend) CRTCCount() int { return len(b.crtcs) }
func (b *x11Backend) GammaSize(i int) int {
	if i < 0 || i >= len(b.crtcs) {
		return 0
	}
	return b.crtcs[i].gammaSize
}

func (b *x11Backend) applyRamp(c *x11CRTCState, r, g, bch []uint16) error {
	gamma := C.call_alloc_gamma(b.lib.allocGamma, C.int(c.gammaSize))
	if gamma == nil {
		return fmt.Errorf("%w: XRRAllocGamma failed", ErrBackendInit)
	}
	defer C.call_free_gamma(b.lib.freeGamma, gamma)
	for i := 0; i < c.gammaSize; i++ {
		C.gamma_set_red(gamma, C.int(i), C.ushort(r[i]))
		C.gamma_set_green(gamma, C.int(i), C.ushort(g[i]))
		C.gamma_set_blue(gamma, C.int(i), C.ushort(bch[i]))
	}
	C.call_set_gamma(b.lib.setGamma, b.display, c.id, gamma)
	return nil
}

func (b *x11Backend) SetTemperature(kelvin, beta float64) error {
	successes := 0
	var lastErr error
	for i := range b.crtcs {
		c := &b.crtcs[i]
		ramp := BuildGammaRamp(kelvin, beta, c.gammaSize)
		if err := b.applyRamp(c, ramp.R, ramp.G, ramp.B); err != nil {
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

func (b *x11Backend) SetTemperatureCRTC(i int, kelvin, beta float64) error {
	if i < 0 || i >= len(b.crtcs) {
		return fmt.Errorf("%w: crtc index %d out of range", ErrInvalidInput, i)
	}
	c := &b.crtcs[i]
	ramp := BuildGammaRamp(kelvin, beta, c.gammaSize)
	return b.applyRamp(c, ramp.R, ramp.G, ramp.B)
}

func (b *x11Backend) Restore() error {
	var lastErr error
	for i := range b.crtcs {
		c := &b.crtcs[i]
		if err := b.applyRamp(c, c.savedR, c.savedG, c.savedB); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (b *x11Backend) Free() error {
	err := b.Restore()
	if b.res != nil {
		C.call_free_res(b.lib.freeRes, b.res)
		b.res = nil
	}
	if b.display != nil {
		C.call_close_display(b.lib.closeDisplay, b.display)
		b.display = nil
	}
	if b.lib != nil {
		b.lib.close()
	}
	return err
}
