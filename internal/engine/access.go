package engine

import (
	"lsa/internal/diag"
	"lsa/internal/registry"
	"lsa/internal/storage"
	"lsa/internal/threadhost"
	"lsa/internal/vmpage"
)

// Read copies length bytes starting at offset out of the calling
// goroutine's Area into buf.
func Read(offset, length uint32, buf []byte) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	area, err := currentArea()
	if err != nil {
		return err
	}
	if err := checkRange(area, offset, length); err != nil {
		return err
	}

	if err := openWindow(area, vmpage.ModeRead); err != nil {
		return err
	}
	defer closeWindow(area)

	transfer(area, offset, length, buf, false)
	return nil
}

// Write copies length bytes from buf into the calling goroutine's Area
// starting at offset, splitting any copy-on-write pages the range touches
// before the transfer.
func Write(offset, length uint32, buf []byte) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	area, err := currentArea()
	if err != nil {
		return err
	}
	if err := checkRange(area, offset, length); err != nil {
		return err
	}

	if err := openWindow(area, vmpage.ModeReadWrite); err != nil {
		return err
	}
	defer closeWindow(area)

	splitShared, err := splitSharedPages(area, offset, length)
	if err != nil {
		return err
	}
	_ = splitShared

	transfer(area, offset, length, buf, true)
	return nil
}

func currentArea() (*storage.Area, error) {
	tid := registry.ThreadID(threadhost.Current())
	area, ok := registry.Lookup(tid)
	if !ok {
		return nil, ErrNoArea
	}
	return area, nil
}

// checkRange validates offset+length against the Area's size, rejecting
// any combination whose sum would overflow a uint32.
func checkRange(area *storage.Area, offset, length uint32) error {
	end := uint64(offset) + uint64(length)
	if end > 0xFFFFFFFF {
		return ErrOverflow
	}
	if uint32(end) > area.Size() {
		return ErrOutOfRange
	}
	return nil
}

// openWindow unprotects every page of the Area, not just the pages
// touched by the range, so a read or write always opens the whole
// backing region rather than just the bytes requested. A failure here is
// fatal to the process, like a failed reprotect in closeWindow.
func openWindow(area *storage.Area, mode vmpage.Mode) error {
	for i := 0; i < area.PageCount(); i++ {
		if err := area.Page(i).Unprotect(mode); err != nil {
			fatal("engine: unprotect failed, page protection state is unrecoverable", err)
			return err
		}
	}
	return nil
}

// closeWindow reprotects every page back to NONE. A failure here is
// fatal to the process: the window cannot be left half-open.
func closeWindow(area *storage.Area) {
	for i := 0; i < area.PageCount(); i++ {
		if err := area.Page(i).Protect(); err != nil {
			fatal("engine: reprotect failed, page protection state is unrecoverable", err)
		}
	}
}

// transfer copies bytes between logical offset i and
// pages[i/pageSize].Base()+(i%pageSize), in either direction.
func transfer(area *storage.Area, offset, length uint32, buf []byte, toArea bool) {
	remaining := int(length)
	off := offset
	bufOff := 0
	for remaining > 0 {
		pageIdx, pageOff := area.Locate(off)
		page := area.Page(pageIdx)
		n := area.PageSize() - pageOff
		if n > remaining {
			n = remaining
		}

		pageBytes := page.Bytes()
		if toArea {
			copy(pageBytes[pageOff:pageOff+n], buf[bufOff:bufOff+n])
		} else {
			copy(buf[bufOff:bufOff+n], pageBytes[pageOff:pageOff+n])
		}

		off += uint32(n)
		bufOff += n
		remaining -= n
	}
}

// splitSharedPages performs lazy per-page copy-on-write: for every page
// touched by [offset, offset+length) that is currently shared
// (refcount > 1), it allocates a fresh copy, installs it in this Area,
// drops this Area's reference to the old page, and reprotects the old
// page to NONE since it is no longer part of this Area's open window.
// The fresh page itself is left open (CopyFrom does not reprotect it):
// it is still part of this Area's open window, and transfer is about to
// write through it; Write's deferred closeWindow reprotects it exactly
// once, along with every other page, once the transfer is done.
func splitSharedPages(area *storage.Area, offset, length uint32) (int, error) {
	split := 0
	remaining := int(length)
	off := offset
	for remaining > 0 {
		pageIdx, pageOff := area.Locate(off)
		page := area.Page(pageIdx)
		n := area.PageSize() - pageOff
		if n > remaining {
			n = remaining
		}

		if page.Refcount() > 1 {
			fresh, err := vmpage.New()
			if err != nil {
				fatal("engine: CoW split could not allocate a replacement page", err)
			}
			if err := fresh.CopyFrom(page); err != nil {
				fatal("engine: CoW split could not copy page contents", err)
			}
			area.SetPage(pageIdx, fresh)
			if _, err := page.Release(); err != nil {
				fatal("engine: CoW split could not release the shared page", err)
			}
			if err := page.Protect(); err != nil {
				fatal("engine: CoW split could not reprotect the shared page", err)
			}
			diag.CowSplits.Inc()
			diag.PagesMapped.Inc()
			split++
		}

		off += uint32(n)
		remaining -= n
	}
	return split, nil
}
