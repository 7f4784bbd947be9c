package lsa

import (
	"io"

	"golang.org/x/text/language"

	"lsa/internal/diag"
)

// Stats is a point-in-time snapshot of this package's counters: pages
// mapped and unmapped, copy-on-write splits performed, and faults the
// router classified (routed to a thread-kill, or re-raised as an
// unrelated crash). It is purely observational — nothing in this
// package consults it to make a decision.
type Stats = diag.Snapshot

// Snapshot returns the current value of every counter.
func Snapshot() Stats { return diag.Snap() }

// WriteProfile renders the current counters as a pprof profile with one
// sample per counter, so they can be inspected with any pprof-compatible
// tool.
func WriteProfile(w io.Writer) error { return diag.WriteProfile(w) }

// Report formats the current counters as a human-readable, locale-aware
// line of "name=value" pairs.
func Report(tag language.Tag) string { return diag.Report(tag) }
