// Package vmpage implements a single page-granular protected memory
// frame.
//
// A Page is exactly one OS virtual-memory page, anonymous and private,
// whose protection is NONE at every point outside a sanctioned access
// window. Reference counting lets the same Page be shared by multiple
// Areas under copy-on-write.
package vmpage

import (
	"sync/atomic"
	"unsafe"

	"lsa/internal/pagesize"
)

// Mode selects the protection applied for the duration of an access
// window: ModeRead for a read, ModeReadWrite for a write, which needs
// both read and write since a CoW split copies the whole page, not
// merely the range being written.
type Mode int

const (
	ModeRead Mode = iota
	ModeReadWrite
)

// Page is one anonymous, page-aligned OS mapping owned by the library.
// refcount is the number of LSAs currently referencing it; it never
// drops to zero while the Page struct is reachable — the last Release
// unmaps and the caller discards the struct.
type Page struct {
	base     uintptr
	refcount int32
}

// New allocates a fresh protected page. Its protection is NONE and its
// refcount starts at one.
func New() (*Page, error) {
	base, err := mmapAnon()
	if err != nil {
		return nil, err
	}
	return &Page{base: base, refcount: 1}, nil
}

// Base returns the page's virtual address. Exposed only for the fault
// router's address classification and for test helpers that need to
// manufacture an unsanctioned access.
func (p *Page) Base() uintptr { return p.base }

// Refcount reports the current reference count.
func (p *Page) Refcount() int32 { return atomic.LoadInt32(&p.refcount) }

// Retain increments the reference count, used when a clone starts
// sharing this page.
func (p *Page) Retain() int32 { return atomic.AddInt32(&p.refcount, 1) }

// Release decrements the reference count and unmaps the page once no
// LSA references it anymore. It reports whether this call freed the
// page, so callers can drop their own slot referencing it.
func (p *Page) Release() (freed bool, err error) {
	if atomic.AddInt32(&p.refcount, -1) == 0 {
		if err := munmapAnon(p.base); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Protect sets the page's OS protection to NONE. A failure here is
// fatal to the process: the library can no longer guarantee the
// invariant that every live Area page is NONE-protected outside a
// window.
func (p *Page) Protect() error {
	return mprotect(p.base, protNone)
}

// Unprotect opens an access window at the given mode. Like Protect, a
// failure is fatal to the process.
func (p *Page) Unprotect(mode Mode) error {
	if mode == ModeReadWrite {
		return mprotect(p.base, protReadWrite)
	}
	return mprotect(p.base, protRead)
}

// Bytes returns a slice over the page's bytes. It is only safe to read
// or write through it while an access window for this page is open;
// outside a window the page is NONE-protected and any touch faults.
func (p *Page) Bytes() []byte {
	n, err := pagesize.Get()
	if err != nil {
		panic("vmpage: page size unavailable: " + err.Error())
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p.base)), n)
}

// CopyFrom duplicates src's current contents into p. Used by a
// copy-on-write split: src is assumed already open under the caller's
// access window. CopyFrom leaves p open (ReadWrite) rather than
// reprotecting it, since p is about to be installed in the caller's
// Area in place of src and read or written again before the caller's
// own window closes; the caller's closeWindow is responsible for
// reprotecting it exactly once, alongside every other page of the Area.
func (p *Page) CopyFrom(src *Page) error {
	if err := p.Unprotect(ModeReadWrite); err != nil {
		return err
	}
	copy(p.Bytes(), src.Bytes())
	return nil
}
