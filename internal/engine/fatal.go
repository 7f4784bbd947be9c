package engine

import "log"

// fatal aborts the process for host-facility failures that cannot be
// handled locally: an mprotect failure, or an mmap failure during a CoW
// split mid-write. In both cases the library can no longer guarantee
// that every live Area page is NONE-protected outside its window, so
// continuing would silently violate the one invariant this package
// exists to uphold.
var fatal = func(msg string, err error) {
	log.Fatalf("%s: %v", msg, err)
}
