package config

import (
	"fmt"

	"github.com/lmercat/socsim/core/power"
)

// CPUConfig is the processor calibration: base and per-utilization draw
// fitted over the available clock frequencies.
type CPUConfig struct {
	FreqsMHz    []float64 `json:"freqs_mhz"`
	BaseW       []float64 `json:"base_w"`
	LoadW       []float64 `json:"load_w"`
	BurstWeight float64   `json:"burst_weight"`
}

// GPUConfig is the graphics calibration: a per-percent coefficient fitted
// over the discrete frequency steps plus a fixed cost while powered.
type GPUConfig struct {
	FreqsMHz    []float64 `json:"freqs_mhz"`
	CoefWPerPct []float64 `json:"coef_w_per_pct"`
	OnPowerW    float64   `json:"on_power_w"`
}

// DisplayConfig is the two-point panel calibration: draw at minimum and at
// maximum brightness.
type DisplayConfig struct {
	MinW float64 `json:"min_w"`
	MaxW float64 `json:"max_w"`
}

// RadioConfig holds one interface's state powers. TailW is only meaningful
// for technologies with a tail, ScanW for technologies that scan.
type RadioConfig struct {
	MaintenanceW float64 `json:"maintenance_w"`
	ActiveW      float64 `json:"active_w"`
	TailW        float64 `json:"tail_w"`
	ScanW        float64 `json:"scan_w"`
}

// GPSConfig is the positioning receiver cost.
type GPSConfig struct {
	EnergyPerFixJ float64 `json:"energy_per_fix_j"`
}

// ToggleConfig declares a generic on/off consumer.
type ToggleConfig struct {
	Name     string  `json:"name"`
	OnPowerW float64 `json:"on_power_w"`
}

// ComponentsConfig is the device power profile. Unset sections default to
// the reference handset calibration.
type ComponentsConfig struct {
	CPU       CPUConfig      `json:"cpu"`
	GPU       GPUConfig      `json:"gpu"`
	Display   DisplayConfig  `json:"display"`
	Cellular  RadioConfig    `json:"cellular"`
	WiFi      RadioConfig    `json:"wifi"`
	Bluetooth RadioConfig    `json:"bluetooth"`
	GPS       GPSConfig      `json:"gps"`
	Extras    []ToggleConfig `json:"extras"`
}

// SetDefaults fills empty sections with the reference handset profile.
func (c *ComponentsConfig) SetDefaults() {
	if len(c.CPU.FreqsMHz) == 0 {
		c.CPU = CPUConfig{
			FreqsMHz:    []float64{384, 600, 787, 998, 1190},
			BaseW:       []float64{0.10, 0.14, 0.17, 0.22, 0.27},
			LoadW:       []float64{0.45, 0.60, 0.75, 0.95, 1.20},
			BurstWeight: 0.02,
		}
	}
	if len(c.GPU.FreqsMHz) == 0 {
		c.GPU = GPUConfig{
			FreqsMHz:    []float64{200, 320, 389, 462.4},
			CoefWPerPct: []float64{0.0032, 0.0048, 0.0061, 0.0076},
			OnPowerW:    0.10,
		}
	}
	if c.Display.MaxW == 0 {
		c.Display = DisplayConfig{MinW: 0.30, MaxW: 1.15}
	}
	if c.Cellular == (RadioConfig{}) {
		c.Cellular = RadioConfig{MaintenanceW: 0.05, ActiveW: 0.80, TailW: 0.62}
	}
	if c.WiFi == (RadioConfig{}) {
		c.WiFi = RadioConfig{MaintenanceW: 0.03, ActiveW: 0.72, ScanW: 0.35}
	}
	if c.Bluetooth == (RadioConfig{}) {
		c.Bluetooth = RadioConfig{MaintenanceW: 0.01, ActiveW: 0.10}
	}
	if c.GPS.EnergyPerFixJ == 0 {
		c.GPS.EnergyPerFixJ = 0.35
	}
	if len(c.Extras) == 0 {
		c.Extras = []ToggleConfig{
			{Name: "camera", OnPowerW: 1.5},
			{Name: "audio", OnPowerW: 0.08},
		}
	}
}

// Build constructs the power models for the profile.
func (c ComponentsConfig) Build() ([]power.Model, error) {
	cpuBase, err := power.NewTable(c.CPU.FreqsMHz, c.CPU.BaseW)
	if err != nil {
		return nil, fmt.Errorf("components: cpu base: %w", err)
	}
	cpuLoad, err := power.NewTable(c.CPU.FreqsMHz, c.CPU.LoadW)
	if err != nil {
		return nil, fmt.Errorf("components: cpu load: %w", err)
	}
	gpuCoef, err := power.NewTable(c.GPU.FreqsMHz, c.GPU.CoefWPerPct)
	if err != nil {
		return nil, fmt.Errorf("components: gpu coef: %w", err)
	}
	displayCal, err := power.NewTable([]float64{0, 1}, []float64{c.Display.MinW, c.Display.MaxW})
	if err != nil {
		return nil, fmt.Errorf("components: display: %w", err)
	}

	models := []power.Model{
		power.CPU{
			Base:        cpuBase,
			LoadCoef:    cpuLoad,
			BurstWeight: c.CPU.BurstWeight,
			FreqMinMHz:  cpuBase.MinX(),
			FreqMaxMHz:  cpuBase.MaxX(),
		},
		power.GPU{FreqCoef: gpuCoef, OnPowerW: c.GPU.OnPowerW},
		power.Display{Cal: displayCal},
		radioModel(power.TechCellular, c.Cellular),
		radioModel(power.TechWiFi, c.WiFi),
		radioModel(power.TechBluetooth, c.Bluetooth),
		power.GPS{EnergyPerFixJ: c.GPS.EnergyPerFixJ},
	}
	for _, t := range c.Extras {
		if t.Name == "" {
			return nil, fmt.Errorf("components: extra toggle without a name")
		}
		models = append(models, power.Toggle{Name: t.Name, OnPowerW: t.OnPowerW})
	}
	return models, nil
}

func radioModel(tech power.Technology, rc RadioConfig) power.Radio {
	return power.Radio{
		Tech:         tech,
		MaintenanceW: rc.MaintenanceW,
		ActiveW:      rc.ActiveW,
		TailW:        rc.TailW,
		ScanW:        rc.ScanW,
	}
}
