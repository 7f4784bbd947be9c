// Package fault routes memory-protection faults to the right goroutine.
//
// Stock Go gives no portable, cgo-free way to install a true process-wide
// SIGSEGV handler for faults raised by ordinary Go pointer dereferences;
// the runtime intentionally keeps synchronous-fault recovery scoped to
// the faulting goroutine. runtime/debug.SetPanicOnFault is the standard
// library's own answer to this class of problem (programs that
// intentionally read through a bad pointer and must recover without
// crashing), so that is the mechanism this package builds on:
// threadhost.Spawn enables it once per goroutine, and Recover is
// deferred immediately after. A later out-of-window dereference of an
// Area page then unwinds only that goroutine as a recoverable error
// instead of crashing the process.
package fault

import (
	"runtime"

	"lsa/internal/diag"
	"lsa/internal/pagesize"
	"lsa/internal/registry"
)

// addressable is satisfied by the runtime's unexported fault-error type
// when debug.SetPanicOnFault is enabled: Go interface satisfaction is
// structural, so a locally declared interface naming the same exported
// method set matches it without importing anything unexported.
type addressable interface {
	error
	Addr() uintptr
}

// Recover is deferred by threadhost.Spawn around every goroutine that
// uses this library. On a normal return it does nothing. On a recovered
// panic it classifies the fault:
//
//   - the panic carries a faulting address that matches a live Area
//     page -> terminate the current goroutine only, via runtime.Goexit,
//     leaving every other goroutine untouched.
//   - anything else (an address that matches no LSA page, or a panic
//     that carries no address at all, i.e. an ordinary non-fault panic)
//     -> re-panic, restoring the original crash behavior.
func Recover() {
	r := recover()
	if r == nil {
		return
	}

	ae, ok := r.(addressable)
	if !ok {
		panic(r)
	}

	addr := ae.Addr()
	// Round the faulting address down to its containing page.
	addrPage := addr
	if n, err := pagesize.Get(); err == nil {
		addrPage = addr &^ (uintptr(n) - 1)
	}

	matched := registry.ForEachPage(func(_ registry.ThreadID, pageBase uintptr) bool {
		return pageBase == addrPage
	})

	if !matched {
		diag.FaultsReraised.Inc()
		panic(r)
	}

	diag.FaultsRouted.Inc()
	runtime.Goexit()
}
