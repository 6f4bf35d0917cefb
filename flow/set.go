package flow

import (
	"fmt"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/vector"
)

// meanSamples is the side of the grid sampled to compute a mean direction.
const meanSamples = 10

// ComponentSet resolves a point to the highest zlevel component covering it.
// With equal zlevels the first registered component wins.
type ComponentSet struct {
	components []Component
}

func NewComponentSet(components ...Component) *ComponentSet {
	return &ComponentSet{components: components}
}

func (s *ComponentSet) Add(c Component) {
	s.components = append(s.components, c)
}

func (s *ComponentSet) Components() []Component {
	return s.components
}

func (s *ComponentSet) Lookup(l location.Location) (Component, bool) {
	var best Component
	for _, c := range s.components {
		if !c.Area().Contains(l) {
			continue
		}
		if best == nil || c.ZLevel() > best.ZLevel() {
			best = c
		}
	}
	return best, best != nil
}

func (s *ComponentSet) Resolve(l location.Location) (vector.SpeedPolar, error) {
	c, ok := s.Lookup(l)
	if !ok {
		return vector.SpeedPolar{}, fmt.Errorf("no flow at %v: %w", l, ErrOutsideArea)
	}
	return c.Flow(l)
}

// MeanAngle returns the first declared mean direction, or else the mean of
// the directions sampled over the field.
func (s *ComponentSet) MeanAngle(field location.Area) (angle.Angle, error) {
	for _, c := range s.components {
		if m, ok := c.MeanAngle(); ok {
			return m, nil
		}
	}

	var samples []angle.Angle
	for _, p := range field.Grid(meanSamples) {
		f, err := s.Resolve(p)
		if err != nil {
			continue
		}
		samples = append(samples, f.Angle)
	}
	m, ok := angle.Mean(samples)
	if !ok {
		return angle.Zero, fmt.Errorf("no flow over %v: %w", field, ErrOutsideArea)
	}
	return m, nil
}
