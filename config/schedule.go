package config

import (
	"fmt"

	"github.com/lmercat/socsim/core/power"
	"github.com/lmercat/socsim/core/schedule"
)

// IntervalConfig assigns state fields to a component over [start_s, end_s).
type IntervalConfig struct {
	Component string             `json:"component"`
	StartS    float64            `json:"start_s"`
	EndS      float64            `json:"end_s"`
	Fields    map[string]float64 `json:"fields"`
}

// TransferConfig is one data transfer window inside a radio session.
type TransferConfig struct {
	StartS float64 `json:"start_s"`
	EndS   float64 `json:"end_s"`
}

// RadioSessionConfig describes a radio interface that is up over a window
// with sparse transfers inside it. It expands into the dense maintenance,
// active and tail intervals of the three-state radio model.
type RadioSessionConfig struct {
	Component string           `json:"component"`
	OnStartS  float64          `json:"on_start_s"`
	OnEndS    float64          `json:"on_end_s"`
	Transfers []TransferConfig `json:"transfers"`
}

// ScheduleConfig is the usage scenario: explicit intervals plus radio
// sessions. Later entries win when intervals for one component overlap.
type ScheduleConfig struct {
	Intervals     []IntervalConfig     `json:"intervals"`
	RadioSessions []RadioSessionConfig `json:"radio_sessions"`
}

// Validate checks the scenario shape without building it.
func (c ScheduleConfig) Validate() error {
	for i, iv := range c.Intervals {
		if iv.Component == "" {
			return fmt.Errorf("schedule: interval %d has no component", i)
		}
		if iv.EndS <= iv.StartS {
			return fmt.Errorf("schedule: interval %d for %s: end_s %v not after start_s %v", i, iv.Component, iv.EndS, iv.StartS)
		}
	}
	for i, rs := range c.RadioSessions {
		if _, err := radioTech(rs.Component); err != nil {
			return fmt.Errorf("schedule: radio session %d: %w", i, err)
		}
		if rs.OnEndS <= rs.OnStartS {
			return fmt.Errorf("schedule: radio session %d for %s: on_end_s %v not after on_start_s %v", i, rs.Component, rs.OnEndS, rs.OnStartS)
		}
	}
	return nil
}

// Build assembles the schedule, expanding radio sessions.
func (c ScheduleConfig) Build() (*schedule.Schedule, error) {
	ivs := make([]schedule.Interval, 0, len(c.Intervals))
	for _, iv := range c.Intervals {
		fields := make(power.State, len(iv.Fields))
		for k, v := range iv.Fields {
			fields[k] = v
		}
		ivs = append(ivs, schedule.Interval{
			Start:     iv.StartS,
			End:       iv.EndS,
			Component: iv.Component,
			Fields:    fields,
		})
	}
	for _, rs := range c.RadioSessions {
		tech, err := radioTech(rs.Component)
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		transfers := make([]schedule.Transfer, len(rs.Transfers))
		for i, tr := range rs.Transfers {
			transfers[i] = schedule.Transfer{Start: tr.StartS, End: tr.EndS}
		}
		expanded, err := schedule.ExpandRadioSessions(rs.Component, tech, rs.OnStartS, rs.OnEndS, transfers)
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		ivs = append(ivs, expanded...)
	}
	return schedule.New(ivs...)
}

func radioTech(component string) (power.Technology, error) {
	switch component {
	case "cellular":
		return power.TechCellular, nil
	case "wifi":
		return power.TechWiFi, nil
	case "bluetooth":
		return power.TechBluetooth, nil
	default:
		return 0, fmt.Errorf("unknown radio technology %q", component)
	}
}
