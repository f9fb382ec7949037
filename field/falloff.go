package field

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Configuration errors returned by Falloff.Validate.
var (
	ErrInvalidRadius   = errors.New("radius must be positive")
	ErrInvalidPower    = errors.New("power must be at least 1")
	ErrInvalidPolarity = errors.New("polarity must be positive or negative")
)

// Polarity selects whether a source adds to or subtracts from the field.
type Polarity int8

const (
	Positive Polarity = 1
	Negative Polarity = -1
)

func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return fmt.Sprintf("Polarity(%d)", int8(p))
}

// ParsePolarity maps a config string to a Polarity. Empty means positive.
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "", "positive", "+":
		return Positive, nil
	case "negative", "-":
		return Negative, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPolarity, s)
}

// Falloff describes the shape of a circular potential.
//
// The potential at squared distance d2 from the center is
//
//	sign * (1 - min(d2/r^2, 1))^Power
//
// which peaks at the center and is exactly zero at and beyond Radius.
type Falloff struct {
	Radius   float64
	Power    int
	Polarity Polarity
}

// Validate reports whether the falloff can be used as a source.
func (f Falloff) Validate() error {
	if !(f.Radius > 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidRadius, f.Radius)
	}
	if f.Power < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPower, f.Power)
	}
	if f.Polarity != Positive && f.Polarity != Negative {
		return fmt.Errorf("%w: got %d", ErrInvalidPolarity, f.Polarity)
	}
	return nil
}

// At returns the potential at p for a source centered at center.
func (f Falloff) At(center, p r2.Vec) float64 {
	d2 := r2.Norm2(r2.Sub(p, center))
	r2r := f.Radius * f.Radius
	if d2 >= r2r {
		return 0
	}
	t := 1 - d2/r2r
	return float64(f.Polarity) * IntegerPow(t, f.Power)
}
