package power

// Toggle is a generic on/off consumer: camera, audio playback, a background
// job. It draws a constant power while its indicator is set, which keeps the
// component roster extensible without new model code. State fields: "on".
type Toggle struct {
	Name     string
	OnPowerW float64
}

func (m Toggle) Component() string { return m.Name }

func (m Toggle) Power(s State) float64 {
	if s == nil || !s.Flag("on") {
		return 0
	}
	return m.OnPowerW
}

func (m Toggle) Scaled(k float64) Model {
	m.OnPowerW *= k
	return m
}
