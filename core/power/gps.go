package power

// GPS models the positioning receiver as a per-fix energy cost times the
// scenario-driven fix rate. State fields: "fix_rate" in fixes per second.
type GPS struct {
	EnergyPerFixJ float64
}

func (GPS) Component() string { return "gps" }

func (m GPS) Power(s State) float64 {
	if s == nil {
		return 0
	}
	rate := s.Field("fix_rate", 0)
	if rate < 0 {
		rate = 0
	}
	return m.EnergyPerFixJ * rate
}

func (m GPS) Scaled(k float64) Model {
	m.EnergyPerFixJ *= k
	return m
}
