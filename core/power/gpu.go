package power

// GPU models graphics draw as a frequency-keyed coefficient times percent
// utilization plus a fixed cost while the unit is powered:
//
//	P = coef(f)*u + on*[powered]
//
// The coefficient table is keyed by the discrete GPU frequency steps and
// interpolated between them. State fields: "util_pct" in [0,100],
// "freq_mhz", "on" indicator.
type GPU struct {
	FreqCoef Table
	OnPowerW float64
}

func (GPU) Component() string { return "gpu" }

func (m GPU) Power(s State) float64 {
	if s == nil {
		return 0
	}
	utilPct := clamp(s.Field("util_pct", 0), 0, 100)
	freq := s.Field("freq_mhz", m.FreqCoef.MinX())
	p := m.FreqCoef.At(freq) * utilPct
	if s.Flag("on") {
		p += m.OnPowerW
	}
	return p
}

func (m GPU) Scaled(k float64) Model {
	m.FreqCoef = m.FreqCoef.scaled(k)
	m.OnPowerW *= k
	return m
}

// DegenerateTables names the calibration tables that evaluate to constants.
func (m GPU) DegenerateTables() []string {
	if m.FreqCoef.Degenerate() {
		return []string{"freq_coef"}
	}
	return nil
}
