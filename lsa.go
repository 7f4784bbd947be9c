package lsa

import "lsa/internal/engine"

// Create allocates a Local Storage Area of at least size bytes for the
// calling goroutine, zero-initialized, backed by ceil(size/PAGE_SIZE)
// pages. It returns -1 if size is zero or the calling goroutine already
// owns an Area; see CreateErr for the underlying reason.
func Create(size uint32) int { return toInt(CreateErr(size)) }

// CreateErr is Create, returning the precondition that failed instead
// of collapsing it to -1.
func CreateErr(size uint32) error { return engine.Create(size) }

// Destroy releases the calling goroutine's Area, dropping its reference
// to every page it held (unmapping any page that reaches a zero
// reference count). It returns -1 if the calling goroutine owns no
// Area.
func Destroy() int { return toInt(DestroyErr()) }

// DestroyErr is Destroy, returning the underlying error.
func DestroyErr() error { return engine.Destroy() }

// Read copies length bytes starting at offset out of the calling
// goroutine's Area into buf. It returns -1 if the calling goroutine owns
// no Area, or if offset+length exceeds the Area's size.
func Read(offset, length uint32, buf []byte) int {
	return toInt(ReadErr(offset, length, buf))
}

// ReadErr is Read, returning the underlying error.
func ReadErr(offset, length uint32, buf []byte) error {
	return engine.Read(offset, length, buf)
}

// Write copies length bytes from buf into the calling goroutine's Area
// starting at offset, performing any copy-on-write page splits that
// sharing with a clone requires. It returns -1 under the same
// conditions as Read.
func Write(offset, length uint32, buf []byte) int {
	return toInt(WriteErr(offset, length, buf))
}

// WriteErr is Write, returning the underlying error.
func WriteErr(offset, length uint32, buf []byte) error {
	return engine.Write(offset, length, buf)
}

// Clone gives the calling goroutine its own Area sharing every page of
// srcThread's Area at the moment of the call. It returns -1 if the
// calling goroutine already owns an Area, or if srcThread owns none.
func Clone(srcThread ID) int { return toInt(CloneErr(srcThread)) }

// CloneErr is Clone, returning the underlying error.
func CloneErr(srcThread ID) error { return engine.Clone(uint64(srcThread)) }
