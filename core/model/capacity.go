package model

import (
	"errors"
	"fmt"
)

// ErrNonPositiveCapacity reports an effective capacity that cannot sustain a
// discharge simulation.
var ErrNonPositiveCapacity = errors.New("effective capacity must be positive")

// Capacity describes the usable charge reservoir of a battery.
type Capacity struct {
	// NominalAh is the rated capacity in ampere-hours.
	NominalAh float64
	// Fade is the fraction of the nominal capacity lost to aging, in [0,1).
	Fade float64
}

// EffectiveAh returns the aging-adjusted capacity in ampere-hours.
func (c Capacity) EffectiveAh() float64 {
	return c.NominalAh * (1 - c.Fade)
}

// Validate checks that the aging-adjusted capacity is usable.
func (c Capacity) Validate() error {
	if c.Fade < 0 || c.Fade >= 1 {
		return fmt.Errorf("fade %v outside [0,1): %w", c.Fade, ErrNonPositiveCapacity)
	}
	if c.NominalAh <= 0 {
		return fmt.Errorf("nominal capacity %v Ah: %w", c.NominalAh, ErrNonPositiveCapacity)
	}
	return nil
}
