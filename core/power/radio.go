package power

// cellularTailSeconds is how long a cellular radio holds its elevated-power
// state after a transfer before the connection is released.
const cellularTailSeconds = 12.5

// Technology identifies a radio access technology. It governs the tail
// behavior after a transfer: cellular radios linger in a high-power state
// for several seconds before dropping back to idle, local wireless drops
// immediately.
type Technology int

const (
	TechCellular Technology = iota
	TechWiFi
	TechBluetooth
)

func (t Technology) String() string {
	switch t {
	case TechCellular:
		return "cellular"
	case TechWiFi:
		return "wifi"
	case TechBluetooth:
		return "bluetooth"
	default:
		return "unknown"
	}
}

// TailDuration returns how long the technology stays in its tail state
// after a transfer ends, in seconds.
func (t Technology) TailDuration() float64 {
	if t == TechCellular {
		return cellularTailSeconds
	}
	return 0
}

// Radio is the three-state network interface model: maintenance draw while
// the interface is up, active draw during a transfer, tail draw while the
// connection winds down, plus an optional scan draw for technologies that
// periodically search for access points. A transfer in progress masks a
// tail: the state machine is idle -> active -> tail -> idle.
//
// State fields are all indicators: "iface_on", "active", "tail", "scanning".
type Radio struct {
	Tech         Technology
	MaintenanceW float64
	ActiveW      float64
	TailW        float64
	ScanW        float64
}

// Component returns the technology name, so one schedule can drive several
// radios side by side.
func (m Radio) Component() string { return m.Tech.String() }

func (m Radio) Power(s State) float64 {
	if s == nil {
		return 0
	}
	var p float64
	if s.Flag("iface_on") {
		p += m.MaintenanceW
	}
	active := s.Flag("active")
	if active {
		p += m.ActiveW
	}
	if s.Flag("tail") && !active {
		p += m.TailW
	}
	if s.Flag("scanning") {
		p += m.ScanW
	}
	return p
}

func (m Radio) Scaled(k float64) Model {
	m.MaintenanceW *= k
	m.ActiveW *= k
	m.TailW *= k
	m.ScanW *= k
	return m
}
