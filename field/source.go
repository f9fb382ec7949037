// Package field defines the potential sources that make up a metaball field.
package field

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Source contributes a scalar potential to the field around its position.
//
// Prepare is called once per field update before any other method, so a
// source can cache whatever it needs (typically its current position).
// Position, Radius and PotentialAt must then stay stable until the next
// Prepare. PotentialAt must be zero at distances of Radius or more.
type Source interface {
	Prepare()
	Position() r2.Vec
	Radius() float64
	PotentialAt(p r2.Vec) float64
}

// Sphere is a circular source with a fixed falloff. The owner moves it by
// setting Center; the value used for the field is the one captured by the
// last Prepare.
type Sphere struct {
	Falloff

	Center r2.Vec
	cached r2.Vec
}

// NewSphere creates a sphere source at center.
func NewSphere(center r2.Vec, f Falloff) (*Sphere, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &Sphere{Falloff: f, Center: center, cached: center}, nil
}

// Move sets the sphere center. Takes effect on the next Prepare.
func (s *Sphere) Move(center r2.Vec) {
	s.Center = center
}

// Prepare caches the current center.
func (s *Sphere) Prepare() {
	s.cached = s.Center
}

// Position returns the center captured by the last Prepare.
func (s *Sphere) Position() r2.Vec { return s.cached }

// Radius returns the influence radius.
func (s *Sphere) Radius() float64 { return s.Falloff.Radius }

// PotentialAt returns the sphere's contribution at p.
func (s *Sphere) PotentialAt(p r2.Vec) float64 {
	return s.Falloff.At(s.cached, p)
}
