// Package storage holds the Local Storage Area container: an ordered
// array of pages backing one logical storage area. It knows nothing
// about threads or the registry; it is the ordinary-data half of the
// Access Engine, exercised by internal/engine.
package storage

import "lsa/internal/vmpage"

// Area is one Local Storage Area: size logical bytes, backed by
// ceil(size/pageSize) pages. Byte i lives at pages[i/pageSize] offset
// i%pageSize.
type Area struct {
	size     uint32
	pageSize int
	pages    []*vmpage.Page
}

// New builds an Area from already-allocated pages. Callers (internal/engine)
// are responsible for allocating exactly ceil(size/pageSize) pages before
// calling this — Area itself never allocates or frees a Page.
func New(size uint32, pageSize int, pages []*vmpage.Page) *Area {
	return &Area{size: size, pageSize: pageSize, pages: pages}
}

// Size returns the logical byte length requested at creation.
func (a *Area) Size() uint32 { return a.size }

// PageCount returns len(pages).
func (a *Area) PageCount() int { return len(a.pages) }

// Page returns the page at the given index.
func (a *Area) Page(i int) *vmpage.Page { return a.pages[i] }

// SetPage replaces the page at index i — used by the CoW split in
// internal/engine, which must swap in a freshly copied page without
// disturbing any other Area sharing the old one.
func (a *Area) SetPage(i int, p *vmpage.Page) { a.pages[i] = p }

// Pages returns the underlying page slice. No package in this module
// calls it; internal/engine changes pages only through SetPage.
func (a *Area) Pages() []*vmpage.Page { return a.pages }

// PageSize returns the page size this Area was built with.
func (a *Area) PageSize() int { return a.pageSize }

// Locate maps a logical byte offset to its page index and in-page offset.
func (a *Area) Locate(offset uint32) (pageIdx int, pageOff int) {
	return int(offset) / a.pageSize, int(offset) % a.pageSize
}
