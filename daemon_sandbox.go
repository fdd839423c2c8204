package main

import (
	"log"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// hardenProcess applies the post-init sandboxing spec.md §7 asks for as the
// Go-idiomatic substitute for seccomp-bpf: no pure-Go BPF assembler exists
// in the ecosystem this daemon draws from, so PR_SET_NO_NEW_PRIVS,
// PR_SET_DUMPABLE(0), a tightened timer slack, and a best-effort Landlock
// ruleset take its place. Every step is non-fatal — a kernel too old for
// Landlock, or a container profile that denies prctl, degrades the daemon's
// attack surface reduction without crashing it (spec.md §7's "kernel
// feature missing" taxonomy).
func hardenProcess(configDir string) {
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		log.Printf("sandbox: PR_SET_NO_NEW_PRIVS failed: %v", err)
	}
	if err := unix.Prctl(unix.PR_SET_DUMPABLE, 0, 0, 0, 0); err != nil {
		log.Printf("sandbox: PR_SET_DUMPABLE failed: %v", err)
	}
	const timerSlackNanoseconds = 1
	if err := unix.Prctl(unix.PR_SET_TIMERSLACK, timerSlackNanoseconds, 0, 0, 0); err != nil {
		log.Printf("sandbox: PR_SET_TIMERSLACK failed: %v", err)
	}
	if err := applyLandlock(configDir); err != nil {
		log.Printf("sandbox: landlock unavailable, continuing without it: %v", err)
	}
}

// Landlock ABI constants (linux/landlock.h), not yet exposed by
// golang.org/x/sys/unix as typed constants, so the raw syscall numbers and
// struct layouts are declared here.
const (
	sysLandlockCreateRuleset = 444
	sysLandlockAddRule       = 445
	sysLandlockRestrictSelf  = 446

	landlockRulePathBeneath = 1

	landlockAccessFSExecute    = 1 << 0
	landlockAccessFSWriteFile  = 1 << 1
	landlockAccessFSReadFile   = 1 << 2
	landlockAccessFSReadDir    = 1 << 3
	landlockAccessFSRemoveDir  = 1 << 4
	landlockAccessFSRemoveFile = 1 << 5
	landlockAccessFSMakeDir    = 1 << 7
	landlockAccessFSMakeReg    = 1 << 8
)

type landlockRulesetAttr struct {
	handledAccessFS uint64
}

type landlockPathBeneathAttr struct {
	allowedAccess uint64
	parentFd      int32
}

// landlockGrant is one directory's worth of allowed access rights in the
// allow-list built below.
type landlockGrant struct {
	path   string
	access uint64
}

// applyLandlock creates a ruleset covering every access right granted
// anywhere below, opens each directory via O_PATH, grants its rights with
// landlock_add_rule, and restricts the calling thread to the result
// (spec.md §4.7 step 7's filesystem allow-list). Handling an access right
// with zero grants denies it everywhere, so every right in handledAccessFS
// must be granted on at least one directory. Directories that don't exist
// are skipped rather than treated as fatal, since /lib64 and similar vary
// across distros.
func applyLandlock(configDir string) error {
	readOnly := uint64(landlockAccessFSReadFile | landlockAccessFSReadDir)
	grants := []landlockGrant{
		{path: configDir, access: landlockAccessFSReadFile | landlockAccessFSWriteFile | landlockAccessFSReadDir | landlockAccessFSMakeReg | landlockAccessFSMakeDir | landlockAccessFSRemoveFile},
		{path: "/tmp", access: landlockAccessFSReadFile | landlockAccessFSWriteFile | landlockAccessFSReadDir | landlockAccessFSMakeReg},
		{path: "/dev", access: readOnly},
		{path: "/proc", access: readOnly},
		{path: "/usr", access: readOnly | landlockAccessFSExecute},
		{path: "/etc", access: readOnly},
		{path: "/lib", access: readOnly},
		{path: "/lib64", access: readOnly},
	}

	var handled uint64
	for _, g := range grants {
		handled |= g.access
	}

	attr := landlockRulesetAttr{handledAccessFS: handled}
	fd, _, errno := unix.Syscall(sysLandlockCreateRuleset, uintptr(unsafe.Pointer(&attr)), unsafe.Sizeof(attr), 0)
	if errno != 0 {
		return errno
	}
	rulesetFd := int(fd)
	defer unix.Close(rulesetFd)

	for _, g := range grants {
		parentFd, err := unix.Open(g.path, unix.O_PATH|unix.O_CLOEXEC, 0)
		if err != nil {
			log.Printf("sandbox: landlock: skipping %s: %v", g.path, err)
			continue
		}
		pbAttr := landlockPathBeneathAttr{allowedAccess: g.access, parentFd: int32(parentFd)}
		_, _, errno := unix.Syscall6(sysLandlockAddRule, uintptr(rulesetFd), landlockRulePathBeneath, uintptr(unsafe.Pointer(&pbAttr)), 0, 0, 0)
		unix.Close(parentFd)
		if errno != 0 {
			return errno
		}
	}

	// Landlock's restriction binds to the calling OS thread; without this
	// the rest of this goroutine's work could run on an unrestricted thread.
	runtime.LockOSThread()

	if _, _, errno := unix.Syscall(sysLandlockRestrictSelf, uintptr(rulesetFd), 0, 0); errno != 0 {
		return errno
	}
	return nil
}
