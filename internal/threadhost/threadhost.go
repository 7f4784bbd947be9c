// Package threadhost adapts goroutines into the threading primitives
// this library needs: thread identity, a terminate-this-thread
// primitive, and per-thread opt-in to fault recovery. A pthread-backed
// host would hand the library all of this for free; on top of
// goroutines the library has to build it itself, once, here.
package threadhost

import (
	"runtime"
	"runtime/debug"

	"lsa/internal/fault"
	"lsa/internal/gid"
)

// ID is a stable thread identity for the lifetime of one Spawned
// goroutine.
type ID uint64

// Current returns the calling goroutine's identity. Only meaningful
// inside a function run via Spawn; calling it from a goroutine the
// library did not spawn still returns a value (gid.Current always
// succeeds), but that goroutine will not have panic-on-fault enabled,
// so an out-of-window access from it crashes the whole process rather
// than being routed — which is correct: such a goroutine was never
// registered as one of this library's threads.
func Current() ID { return ID(gid.Current()) }

// Spawn starts fn on a new goroutine configured the way every goroutine
// that touches an LSA must be: debug.SetPanicOnFault enabled so an
// out-of-window access becomes a recoverable error instead of a process
// crash, and fault.Recover deferred to classify and handle it. It
// returns immediately; use a channel or sync.WaitGroup to observe fn's
// completion, the same as with a bare `go` statement.
func Spawn(fn func()) {
	go func() {
		debug.SetPanicOnFault(true)
		defer fault.Recover()
		fn()
	}()
}

// Exit terminates the calling goroutine immediately, running deferred
// calls first. fault.Recover calls runtime.Goexit directly for a
// matched fault; Exit is exported so callers can terminate a thread
// voluntarily (e.g. a test harness winding down a worker) the same way.
func Exit() { runtime.Goexit() }
