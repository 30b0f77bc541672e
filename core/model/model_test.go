package model

import (
	"errors"
	"math"
	"testing"
)

func TestUniformTimeline(t *testing.T) {
	tl, err := Uniform(0, 10, 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 2.5, 5, 7.5, 10}
	if len(tl) != len(want) {
		t.Fatalf("expected %d instants, got %d", len(want), len(tl))
	}
	for i := range want {
		if math.Abs(tl[i]-want[i]) > 1e-9 {
			t.Errorf("instant %d: expected %v, got %v", i, want[i], tl[i])
		}
	}
	if tl.Span() != 10 {
		t.Errorf("expected span 10, got %v", tl.Span())
	}
}

func TestUniformTimelineRejectsBadInputs(t *testing.T) {
	if _, err := Uniform(0, 10, 0); err == nil {
		t.Error("expected error for zero step")
	}
	if _, err := Uniform(10, 10, 1); err == nil {
		t.Error("expected error for empty window")
	}
}

func TestTimelineValidate(t *testing.T) {
	cases := []struct {
		name    string
		tl      Timeline
		wantErr bool
	}{
		{"increasing", Timeline{0, 1, 2}, false},
		{"irregular", Timeline{0, 0.5, 2, 7}, false},
		{"single", Timeline{1}, true},
		{"duplicate", Timeline{0, 1, 1}, true},
		{"decreasing", Timeline{0, 2, 1}, true},
		{"nan", Timeline{0, math.NaN(), 2}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.tl.Validate()
			if c.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCapacityEffectiveAh(t *testing.T) {
	c := Capacity{NominalAh: 3.0, Fade: 0.3}
	if got := c.EffectiveAh(); math.Abs(got-2.1) > 1e-12 {
		t.Errorf("expected 2.1 Ah, got %v", got)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCapacityValidate(t *testing.T) {
	for _, c := range []Capacity{
		{NominalAh: 0, Fade: 0},
		{NominalAh: -1, Fade: 0},
		{NominalAh: 3, Fade: 1},
		{NominalAh: 3, Fade: -0.1},
	} {
		err := c.Validate()
		if err == nil {
			t.Errorf("capacity %+v: expected error", c)
			continue
		}
		if !errors.Is(err, ErrNonPositiveCapacity) {
			t.Errorf("capacity %+v: expected ErrNonPositiveCapacity, got %v", c, err)
		}
	}
}

func TestDepletionEstimateHours(t *testing.T) {
	e := DepletionEstimate{Threshold: 0.5, Seconds: 5400, Method: MethodInterpolated}
	if got := e.Hours(); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("expected 1.5 h, got %v", got)
	}
	if e.Method.String() != "interpolated" {
		t.Errorf("unexpected method string %q", e.Method.String())
	}
}

func TestTrajectoryEndpoints(t *testing.T) {
	traj := SOCTrajectory{Times: []float64{0, 1, 2}, Values: []float64{1, 0.8, 0.6}}
	if traj.Initial() != 1 || traj.Final() != 0.6 {
		t.Errorf("unexpected endpoints: initial %v, final %v", traj.Initial(), traj.Final())
	}
	var empty SOCTrajectory
	if empty.Initial() != 0 || empty.Final() != 0 {
		t.Error("empty trajectory endpoints should be zero")
	}
}
