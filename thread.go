package lsa

import "lsa/internal/threadhost"

// ID identifies a goroutine that owns (or once owned) an Area, for use
// with Clone.
type ID = threadhost.ID

// Current returns the calling goroutine's identity.
func Current() ID { return threadhost.Current() }

// Spawn starts fn on a new goroutine equipped to use this package: it
// enables runtime/debug.SetPanicOnFault and defers this library's fault
// classification around fn, so an out-of-window access to an Area's
// backing memory terminates only that goroutine instead of crashing the
// process. Go gives no portable way to retrofit this onto a goroutine
// already running, so any goroutine that will call Create, Read, Write,
// Clone, or hold onto an Area across a yield point must be started this
// way rather than with a bare `go` statement.
func Spawn(fn func()) { threadhost.Spawn(fn) }

// Exit terminates the calling goroutine immediately, running deferred
// calls first.
func Exit() { threadhost.Exit() }
