package power

import "math"

// burstEpsilon keeps the short-burst penalty finite as the busy-segment
// length approaches zero. The divergence itself is intentional: many short
// bursts cost more than one long burst of the same total length.
const burstEpsilon = 1e-3

// CPU models processor draw as a frequency-dependent base cost plus a
// utilization-proportional term and a penalty for short busy bursts:
//
//	P = base(f) + load(f)*u + w/(L+eps)
//
// base and load are piecewise-linear fits over clock frequency in MHz.
// State fields: "util" in [0,1], "freq_mhz", "burst_s" (busy-segment length
// in seconds; absent means no burst structure, so no penalty).
type CPU struct {
	Base        Table
	LoadCoef    Table
	BurstWeight float64
	FreqMinMHz  float64
	FreqMaxMHz  float64
}

func (CPU) Component() string { return "cpu" }

// Power evaluates the model. Utilization is clamped to [0,1], frequency to
// the declared range and burst length floored at zero.
func (m CPU) Power(s State) float64 {
	if s == nil {
		return 0
	}
	util := clamp(s.Field("util", 0), 0, 1)
	freq := clamp(s.Field("freq_mhz", m.FreqMinMHz), m.FreqMinMHz, m.FreqMaxMHz)
	burst := s.Field("burst_s", math.Inf(1))
	if burst < 0 {
		burst = 0
	}
	p := m.Base.At(freq) + m.LoadCoef.At(freq)*util
	if m.BurstWeight != 0 && !math.IsInf(burst, 1) {
		p += m.BurstWeight / (burst + burstEpsilon)
	}
	return p
}

func (m CPU) Scaled(k float64) Model {
	m.Base = m.Base.scaled(k)
	m.LoadCoef = m.LoadCoef.scaled(k)
	m.BurstWeight *= k
	return m
}

// DegenerateTables names the calibration tables that evaluate to constants.
func (m CPU) DegenerateTables() []string {
	var names []string
	if m.Base.Degenerate() {
		names = append(names, "base")
	}
	if m.LoadCoef.Degenerate() {
		names = append(names, "load")
	}
	return names
}
