package schedule

import (
	"fmt"
	"math"
	"sort"

	"github.com/lmercat/socsim/core/power"
)

// Transfer is a data transfer window on a radio interface, in seconds.
type Transfer struct {
	Start float64
	End   float64
}

// ExpandRadioSessions converts sparse transfer windows into the dense,
// disjoint interval set the three-state radio model expects: maintenance
// while the interface is up and idle, active during each transfer, and a
// technology-specific tail after each transfer. A tail is cut short by the
// next transfer (the radio re-enters the active state) and by the end of
// the interface-on window. Transfers are clipped to the window; transfers
// that overlap a predecessor extend its active span.
func ExpandRadioSessions(component string, tech power.Technology, onStart, onEnd float64, transfers []Transfer) ([]Interval, error) {
	if onEnd <= onStart {
		return nil, fmt.Errorf("radio %s: interface window end %v not after start %v", component, onEnd, onStart)
	}
	sorted := append([]Transfer(nil), transfers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	maint := power.State{"iface_on": 1}
	active := power.State{"iface_on": 1, "active": 1}
	tailState := power.State{"iface_on": 1, "tail": 1}
	tail := tech.TailDuration()

	ivs := make([]Interval, 0, 3*len(sorted)+1)
	cursor := onStart
	for i, tr := range sorted {
		start := math.Max(tr.Start, cursor)
		end := math.Min(tr.End, onEnd)
		if end <= start {
			continue
		}
		if start > cursor {
			ivs = append(ivs, Interval{Start: cursor, End: start, Component: component, Fields: maint})
		}
		ivs = append(ivs, Interval{Start: start, End: end, Component: component, Fields: active})
		cursor = end
		if tail <= 0 {
			continue
		}
		tailEnd := math.Min(end+tail, onEnd)
		if i+1 < len(sorted) && sorted[i+1].Start < tailEnd {
			tailEnd = sorted[i+1].Start
		}
		if tailEnd > cursor {
			ivs = append(ivs, Interval{Start: cursor, End: tailEnd, Component: component, Fields: tailState})
			cursor = tailEnd
		}
	}
	if cursor < onEnd {
		ivs = append(ivs, Interval{Start: cursor, End: onEnd, Component: component, Fields: maint})
	}
	return ivs, nil
}
