package diag

import (
	"io"
	"time"

	"github.com/google/pprof/profile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fields lists the counters exported by WriteProfile, in a fixed order
// so sample values line up with their sample type.
func (s Snapshot) fields() []struct {
	name  string
	value int64
} {
	return []struct {
		name  string
		value int64
	}{
		{"pages_mapped", s.PagesMapped},
		{"pages_unmapped", s.PagesUnmapped},
		{"cow_splits", s.CowSplits},
		{"faults_routed", s.FaultsRouted},
		{"faults_reraised", s.FaultsReraised},
		{"areas_created", s.AreasCreated},
		{"areas_destroyed", s.AreasDestroyed},
	}
}

// WriteProfile renders the current counters as a pprof profile with one
// sample per counter, so they can be inspected with any pprof-compatible
// tool (go tool pprof, the pprof web UI, etc). This is an in-process,
// caller-invoked encode only; nothing here listens on a socket or writes
// to disk unless the caller's io.Writer does.
func WriteProfile(w io.Writer) error {
	s := Snap()
	fields := s.fields()

	p := &profile.Profile{
		TimeNanos: time.Now().UnixNano(),
	}
	for i, f := range fields {
		p.SampleType = append(p.SampleType, &profile.ValueType{
			Type: f.name,
			Unit: "count",
		})
		values := make([]int64, len(fields))
		values[i] = f.value
		p.Sample = append(p.Sample, &profile.Sample{Value: values})
	}
	return p.Write(w)
}

// Report formats the current counters as a human-readable line,
// grouping digits per the caller's locale — e.g. "cow_splits=1,204"
// under en-US — using golang.org/x/text/message rather than hand
// rolling digit grouping.
func Report(tag language.Tag) string {
	p := message.NewPrinter(tag)
	s := Snap()
	out := ""
	for i, f := range s.fields() {
		if i > 0 {
			out += " "
		}
		out += p.Sprintf("%s=%d", f.name, f.value)
	}
	return out
}
