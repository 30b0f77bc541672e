// Package schedule turns sparse, human-authored scenario descriptions into
// the dense per-sample component states the power models consume.
package schedule

import (
	"fmt"
	"sort"

	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/power"
)

// Interval assigns state fields to one component over the half-open span
// [Start, End), in seconds. A sample instant tau belongs to the interval
// when Start <= tau < End, so back-to-back intervals never double-count
// their shared boundary.
type Interval struct {
	Start     float64
	End       float64
	Component string
	Fields    power.State
}

// Validate checks the interval is well formed.
func (iv Interval) Validate() error {
	if iv.Component == "" {
		return fmt.Errorf("interval [%v,%v): empty component name", iv.Start, iv.End)
	}
	if iv.End <= iv.Start {
		return fmt.Errorf("interval for %q: end %v not after start %v", iv.Component, iv.End, iv.Start)
	}
	return nil
}

// Schedule is an ordered list of scenario intervals. Order is significant:
// when two intervals for the same component overlap, the later-declared one
// wins for the shared samples.
type Schedule struct {
	intervals []Interval
}

// New builds a schedule, validating every interval.
func New(intervals ...Interval) (*Schedule, error) {
	s := &Schedule{}
	for _, iv := range intervals {
		if err := s.Add(iv); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends one interval. The field map is copied so callers can reuse it.
func (s *Schedule) Add(iv Interval) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	fields := make(power.State, len(iv.Fields))
	for k, v := range iv.Fields {
		fields[k] = v
	}
	iv.Fields = fields
	s.intervals = append(s.intervals, iv)
	return nil
}

// Intervals returns the declared intervals in declaration order.
func (s *Schedule) Intervals() []Interval {
	return append([]Interval(nil), s.intervals...)
}

// Components returns the distinct component names the schedule addresses,
// sorted for deterministic iteration.
func (s *Schedule) Components() []string {
	seen := make(map[string]bool)
	var names []string
	for _, iv := range s.intervals {
		if !seen[iv.Component] {
			seen[iv.Component] = true
			names = append(names, iv.Component)
		}
	}
	sort.Strings(names)
	return names
}

// Evaluate resolves the per-sample state of every component over the
// timeline. Samples not covered by any interval stay nil, the component's
// off state. Overlapping same-component intervals resolve to the
// later-declared one; every detected overlap is reported as a warning
// diagnostic so scenario authors notice silent shadowing.
func (s *Schedule) Evaluate(tl model.Timeline) (map[string][]power.State, []model.Diagnostic) {
	states := make(map[string][]power.State)
	for _, iv := range s.intervals {
		seq, ok := states[iv.Component]
		if !ok {
			seq = make([]power.State, len(tl))
			states[iv.Component] = seq
		}
		lo := sort.SearchFloat64s(tl, iv.Start)
		for i := lo; i < len(tl) && tl[i] < iv.End; i++ {
			seq[i] = iv.Fields
		}
	}
	return states, s.overlaps()
}

// overlaps reports same-component intervals that share part of their span.
func (s *Schedule) overlaps() []model.Diagnostic {
	byComp := make(map[string][]Interval)
	for _, iv := range s.intervals {
		byComp[iv.Component] = append(byComp[iv.Component], iv)
	}
	names := make([]string, 0, len(byComp))
	for name := range byComp {
		names = append(names, name)
	}
	sort.Strings(names)

	var diags []model.Diagnostic
	for _, name := range names {
		ivs := append([]Interval(nil), byComp[name]...)
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
		maxEnd := ivs[0].End
		for i := 1; i < len(ivs); i++ {
			if ivs[i].Start < maxEnd {
				diags = append(diags, model.Diagnostic{
					Severity: model.SeverityWarning,
					Code:     model.DiagScheduleOverlap,
					Message: fmt.Sprintf("%s interval [%v,%v) overlaps an earlier one; the later-declared interval wins",
						name, ivs[i].Start, ivs[i].End),
				})
			}
			if ivs[i].End > maxEnd {
				maxEnd = ivs[i].End
			}
		}
	}
	return diags
}
