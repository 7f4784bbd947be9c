package engine

import "errors"

// Sentinel errors for the engine's contract violations. Each maps to
// the public API's -1 return; the root lsa package re-exports these so
// callers who want more than "it returned -1" can inspect which
// precondition failed.
var (
	ErrInvalidSize = errors.New("lsa: size must be > 0")
	ErrExists      = errors.New("lsa: calling thread already owns an area")
	ErrNoArea      = errors.New("lsa: calling thread owns no area")
	ErrSrcNoArea   = errors.New("lsa: source thread owns no area")
	ErrOutOfRange  = errors.New("lsa: offset+length exceeds area size")
	ErrOverflow    = errors.New("lsa: offset+length overflows")
)
