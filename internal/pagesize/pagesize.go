// Package pagesize discovers and caches the host's virtual memory page
// size exactly once per process.
package pagesize

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"
	"golang.org/x/sys/unix"
)

var group singleflight.Group

var (
	size  atomic.Int64
	ready atomic.Bool
)

// Get returns the process page size, querying the OS on the first call
// from any goroutine and caching the result thereafter. Concurrent first
// calls share a single underlying probe via singleflight rather than
// racing independent sync.Once bodies, since the probe itself can fail
// and sync.Once has no way to retry after a failed attempt.
func Get() (int, error) {
	if ready.Load() {
		return int(size.Load()), nil
	}

	v, err, _ := group.Do("pagesize", func() (interface{}, error) {
		if ready.Load() {
			return int(size.Load()), nil
		}
		n := unix.Getpagesize()
		if n <= 0 {
			return 0, errInvalidPageSize
		}
		size.Store(int64(n))
		ready.Store(true)
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

var errInvalidPageSize = pageSizeError("pagesize: host reported a non-positive page size")

type pageSizeError string

func (e pageSizeError) Error() string { return string(e) }
