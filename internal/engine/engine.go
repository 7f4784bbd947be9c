// Package engine implements create, destroy, read, write and clone,
// orchestrating the protect/unprotect windows and the lazy copy-on-write
// page splits a write may require. It owns the single process-wide lock
// that serializes every Registry mutation and every access window.
package engine

import (
	"sync"

	"lsa/internal/diag"
	"lsa/internal/pagesize"
	"lsa/internal/registry"
	"lsa/internal/storage"
	"lsa/internal/threadhost"
	"lsa/internal/vmpage"
)

// registryLock is the single process-wide mutex: it serializes all
// Registry insert/remove/lookup used by the public operations below and
// every access window's unprotect/transfer/reprotect sequence. The
// fault router never takes it — it runs after a goroutine has already
// unwound past any lock it might have held, and must not acquire it.
var registryLock sync.Mutex

// Create allocates an Area of at least size bytes for the calling
// goroutine, zero-initialized, backed by ceil(size/pageSize) pages.
func Create(size uint32) error {
	if size == 0 {
		return ErrInvalidSize
	}

	pageSize, err := pagesize.Get()
	if err != nil {
		return err
	}
	n := (int(size) + pageSize - 1) / pageSize

	registryLock.Lock()
	defer registryLock.Unlock()

	tid := registry.ThreadID(threadhost.Current())
	if _, exists := registry.Lookup(tid); exists {
		return ErrExists
	}

	pages := make([]*vmpage.Page, 0, n)
	for i := 0; i < n; i++ {
		p, err := vmpage.New()
		if err != nil {
			// Release the pages already mapped for this failed Area
			// rather than leaking them.
			for _, done := range pages {
				done.Release()
			}
			return err
		}
		diag.PagesMapped.Inc()
		pages = append(pages, p)
	}

	area := storage.New(size, pageSize, pages)
	if !registry.Insert(tid, area) {
		// Lookup above already proved there is no entry for tid, and
		// registryLock excludes every other mutator, so this cannot
		// happen in practice; treated as a plain failure rather than a
		// panic since it costs nothing to handle gracefully.
		for _, p := range pages {
			p.Release()
		}
		return ErrExists
	}
	diag.AreasCreated.Inc()
	return nil
}

// Destroy releases the calling goroutine's Area, dropping its reference
// to every page it held and unmapping any page that reaches a zero
// reference count.
func Destroy() error {
	registryLock.Lock()
	defer registryLock.Unlock()

	tid := registry.ThreadID(threadhost.Current())
	area, ok := registry.Remove(tid)
	if !ok {
		return ErrNoArea
	}

	for i := 0; i < area.PageCount(); i++ {
		p := area.Page(i)
		if freed, err := p.Release(); err != nil {
			return err
		} else if freed {
			diag.PagesUnmapped.Inc()
		}
	}
	diag.AreasDestroyed.Inc()
	return nil
}

// Clone gives the calling goroutine its own Area sharing every page of
// srcTID's Area at the moment of the call.
func Clone(srcTID uint64) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	tid := registry.ThreadID(threadhost.Current())
	if _, exists := registry.Lookup(tid); exists {
		return ErrExists
	}

	src, ok := registry.Lookup(registry.ThreadID(srcTID))
	if !ok {
		return ErrSrcNoArea
	}

	pages := make([]*vmpage.Page, src.PageCount())
	for i := 0; i < src.PageCount(); i++ {
		p := src.Page(i)
		p.Retain()
		pages[i] = p
	}

	area := storage.New(src.Size(), src.PageSize(), pages)
	if !registry.Insert(tid, area) {
		for _, p := range pages {
			p.Release()
		}
		return ErrExists
	}
	diag.AreasCreated.Inc()
	return nil
}
