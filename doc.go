// Package lsa implements a per-goroutine Local Storage Area: a
// byte-addressable region, private to the goroutine that created it,
// reachable only through Create, Destroy, Read, Write and Clone. Any
// other access — following a raw pointer obtained by bypassing this
// API — terminates the offending goroutine and leaves every other
// goroutine running.
//
// Areas support clone-on-write sharing: Clone gives the calling
// goroutine its own view of another goroutine's Area, sharing every
// page until one side writes to it.
//
// Every goroutine that will ever call into this package must be started
// with Spawn rather than a bare `go` statement — see Spawn's doc comment
// for why.
package lsa
