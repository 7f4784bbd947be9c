// Package gid gives each goroutine a stable numeric identity.
//
// Stock Go deliberately has no public notion of "the current goroutine",
// so this package falls back to the standard cgo-free trick: the first
// line of a runtime.Stack dump always reads "goroutine NNN [running]:"
// and NNN is stable for the life of the goroutine.
package gid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Current returns the calling goroutine's runtime-assigned id.
//
// The id stays the same for the whole life of the calling goroutine, so
// callers (threadhost.Current among them) may call Current on every use
// instead of caching the value. It is only relied on to be unique among
// goroutines alive at the same time.
func Current() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		panic("gid: unexpected runtime.Stack format")
	}
	b = b[len(prefix):]

	sp := bytes.IndexByte(b, ' ')
	if sp < 0 {
		panic("gid: unexpected runtime.Stack format")
	}

	id, err := strconv.ParseUint(string(b[:sp]), 10, 64)
	if err != nil {
		panic("gid: unexpected runtime.Stack format: " + err.Error())
	}
	return id
}
