package power

// Display models panel draw as a calibrated function of brightness. The
// calibration typically holds two points, the draw at minimum and at maximum
// brightness, and interpolates linearly between them. A sample not covered
// by any display interval means the screen is off and draws nothing.
// State fields: "brightness" in [0,1].
type Display struct {
	Cal Table
}

func (Display) Component() string { return "display" }

func (m Display) Power(s State) float64 {
	if s == nil {
		return 0
	}
	b := clamp(s.Field("brightness", 0), 0, 1)
	return m.Cal.At(b)
}

func (m Display) Scaled(k float64) Model {
	m.Cal = m.Cal.scaled(k)
	return m
}

// DegenerateTables names the calibration tables that evaluate to constants.
func (m Display) DegenerateTables() []string {
	if m.Cal.Degenerate() {
		return []string{"cal"}
	}
	return nil
}
