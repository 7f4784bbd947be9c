//go:build linux || darwin

package vmpage

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"lsa/internal/pagesize"
)

const (
	protNone      = unix.PROT_NONE
	protRead      = unix.PROT_READ
	protReadWrite = unix.PROT_READ | unix.PROT_WRITE
)

func mmapAnon() (uintptr, error) {
	n, err := pagesize.Get()
	if err != nil {
		return 0, err
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(&b[0])), nil
}

func munmapAnon(base uintptr) error {
	n, err := pagesize.Get()
	if err != nil {
		return err
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(base)), n)
	return unix.Munmap(b)
}

func mprotect(base uintptr, prot int) error {
	n, err := pagesize.Get()
	if err != nil {
		return err
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(base)), n)
	return unix.Mprotect(b, prot)
}
