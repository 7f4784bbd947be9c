// Package registry is the process-wide mapping from thread identity to
// Area. Each bucket is a singly linked chain whose head is an atomic
// pointer, so the fault router (internal/fault) can walk every chain
// without taking any lock, and a reader is never blocked behind a
// writer.
//
// Mutation (Insert/Remove) is only ever called by internal/engine while
// holding the single process-wide access lock, so buckets never need
// their own write lock — the atomic head pointer exists solely to make
// the lock-free reader side (ForEachPage) race-safe, not to serialize
// writers against each other.
package registry

import (
	"sync/atomic"

	"lsa/internal/storage"
)

// ThreadID identifies the owner of an Area. It is the goroutine id the
// threadhost package hands out (see internal/gid), carried here as a
// plain integer so this package stays free of a dependency on threadhost.
type ThreadID uint64

const numBuckets = 23

type entry struct {
	tid  ThreadID
	area *storage.Area
	next atomic.Pointer[entry]
}

type bucket struct {
	head atomic.Pointer[entry]
}

var table [numBuckets]bucket

func bucketFor(tid ThreadID) *bucket {
	return &table[uint64(tid)%numBuckets]
}

// Lookup returns the Area owned by tid, if any.
func Lookup(tid ThreadID) (*storage.Area, bool) {
	for e := bucketFor(tid).head.Load(); e != nil; e = e.next.Load() {
		if e.tid == tid {
			return e.area, true
		}
	}
	return nil, false
}

// Insert adds (tid, area). It reports false, leaving the registry
// unchanged, if tid already has an entry.
func Insert(tid ThreadID, area *storage.Area) bool {
	b := bucketFor(tid)
	if _, exists := Lookup(tid); exists {
		return false
	}
	n := &entry{tid: tid, area: area}
	n.next.Store(b.head.Load())
	b.head.Store(n)
	return true
}

// Remove deletes and returns tid's entry, or reports absence. It always
// relinks correctly regardless of the matched node's position in the
// chain, including the head.
func Remove(tid ThreadID) (*storage.Area, bool) {
	b := bucketFor(tid)

	var prev *entry
	for e := b.head.Load(); e != nil; e = e.next.Load() {
		if e.tid == tid {
			next := e.next.Load()
			if prev == nil {
				b.head.Store(next)
			} else {
				prev.next.Store(next)
			}
			return e.area, true
		}
		prev = e
	}
	return nil, false
}

// ForEachPage calls visit for every page of every Area currently in the
// registry, stopping early and returning true the first time visit
// returns true. It takes no lock, so it may race a concurrent
// Insert/Remove; that race is tolerated since a page that matches at
// any point during its lifetime is a kill-the-thread case regardless of
// concurrent structural changes, and a benign miss at worst degrades to
// default fault handling.
func ForEachPage(visit func(tid ThreadID, pageBase uintptr) bool) bool {
	for i := range table {
		for e := table[i].head.Load(); e != nil; e = e.next.Load() {
			area := e.area
			for pi := 0; pi < area.PageCount(); pi++ {
				if visit(e.tid, area.Page(pi).Base()) {
					return true
				}
			}
		}
	}
	return false
}
