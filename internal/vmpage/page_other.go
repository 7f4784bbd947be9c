//go:build !linux && !darwin

package vmpage

import "errors"

// The fault router (internal/fault) depends on runtime/debug.SetPanicOnFault
// semantics around POSIX-style synchronous faults; platforms outside the
// unix.Mmap-supporting set are left as a deliberate stub rather than a
// half-working implementation.
var errUnsupportedPlatform = errors.New("vmpage: unsupported platform")

const (
	protNone      = 0
	protRead      = 0
	protReadWrite = 0
)

func mmapAnon() (uintptr, error)        { return 0, errUnsupportedPlatform }
func munmapAnon(base uintptr) error     { return errUnsupportedPlatform }
func mprotect(base uintptr, prot int) error { return errUnsupportedPlatform }
