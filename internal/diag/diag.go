// Package diag is the library's ambient, non-functional observability
// surface: process-wide counters for pages mapped, CoW splits, and
// faults routed or re-raised. None of this gates or changes any
// operation's behavior; it exists purely for inspection.
//
// Each counter is a tiny atomic wrapper type, summed into a snapshot
// struct on demand rather than pushed anywhere.
package diag

import "sync/atomic"

// Counter is an atomic monotonic counter, modeled on stats.Counter_t.
type Counter struct{ n int64 }

// Inc adds one to the counter.
func (c *Counter) Inc() { atomic.AddInt64(&c.n, 1) }

// Value reads the counter.
func (c *Counter) Value() int64 { return atomic.LoadInt64(&c.n) }

var (
	PagesMapped   Counter
	PagesUnmapped Counter
	CowSplits     Counter
	FaultsRouted  Counter
	FaultsReraised Counter
	AreasCreated  Counter
	AreasDestroyed Counter
)

// Snapshot is a point-in-time copy of every counter, suitable for
// formatting or export.
type Snapshot struct {
	PagesMapped    int64
	PagesUnmapped  int64
	CowSplits      int64
	FaultsRouted   int64
	FaultsReraised int64
	AreasCreated   int64
	AreasDestroyed int64
}

// Snap takes a Snapshot of all counters.
func Snap() Snapshot {
	return Snapshot{
		PagesMapped:    PagesMapped.Value(),
		PagesUnmapped:  PagesUnmapped.Value(),
		CowSplits:      CowSplits.Value(),
		FaultsRouted:   FaultsRouted.Value(),
		FaultsReraised: FaultsReraised.Value(),
		AreasCreated:   AreasCreated.Value(),
		AreasDestroyed: AreasDestroyed.Value(),
	}
}
