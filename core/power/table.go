package power

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// ErrInvalidTable reports calibration abscissae that are not strictly
// increasing.
var ErrInvalidTable = errors.New("calibration table x values must be strictly increasing")

// Table is a fitted calibration table mapping an operating point (clock
// frequency, brightness, ...) to a power coefficient. Lookups interpolate
// linearly between points and extrapolate with the slope of the nearest end
// segment, matching the linear fits the coefficients were measured with.
//
// A table with a single point degenerates to a constant. That is documented
// behavior rather than an error; callers can detect it through Degenerate
// and surface a diagnostic.
type Table struct {
	xs, ys []float64
	pl     interp.PiecewiseLinear
}

// NewTable builds a calibration table from ordered (x, y) pairs.
func NewTable(xs, ys []float64) (Table, error) {
	if len(xs) != len(ys) {
		return Table{}, fmt.Errorf("calibration table: %d x values vs %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return Table{}, errors.New("calibration table: no points")
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return Table{}, fmt.Errorf("point %d (x=%v): %w", i, xs[i], ErrInvalidTable)
		}
	}
	t := Table{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}
	if len(t.xs) >= 2 {
		if err := t.pl.Fit(t.xs, t.ys); err != nil {
			return Table{}, err
		}
	}
	return t, nil
}

// MustTable is NewTable for static tables known to be valid.
func MustTable(xs, ys []float64) Table {
	t, err := NewTable(xs, ys)
	if err != nil {
		panic(err)
	}
	return t
}

// Degenerate reports whether the table has too few points to interpolate
// and therefore evaluates to a constant.
func (t Table) Degenerate() bool { return len(t.xs) < 2 }

// MinX returns the smallest abscissa, or 0 for an empty table.
func (t Table) MinX() float64 {
	if len(t.xs) == 0 {
		return 0
	}
	return t.xs[0]
}

// MaxX returns the largest abscissa, or 0 for an empty table.
func (t Table) MaxX() float64 {
	if len(t.xs) == 0 {
		return 0
	}
	return t.xs[len(t.xs)-1]
}

// At evaluates the table at x.
func (t Table) At(x float64) float64 {
	if len(t.xs) == 0 {
		return 0
	}
	if t.Degenerate() {
		return t.ys[0]
	}
	n := len(t.xs)
	switch {
	case x < t.xs[0]:
		slope := (t.ys[1] - t.ys[0]) / (t.xs[1] - t.xs[0])
		return t.ys[0] + slope*(x-t.xs[0])
	case x > t.xs[n-1]:
		slope := (t.ys[n-1] - t.ys[n-2]) / (t.xs[n-1] - t.xs[n-2])
		return t.ys[n-1] + slope*(x-t.xs[n-1])
	default:
		return t.pl.Predict(x)
	}
}

// scaled returns a copy with every y value multiplied by k.
func (t Table) scaled(k float64) Table {
	if len(t.xs) == 0 {
		return t
	}
	ys := make([]float64, len(t.ys))
	for i, y := range t.ys {
		ys[i] = y * k
	}
	out, err := NewTable(t.xs, ys)
	if err != nil {
		// xs were validated when t was built
		panic(err)
	}
	return out
}
