package flow

import (
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/vector"
)

// Complex interpolates bilinearly between the flows at the four corners of
// its area.
type Complex struct {
	base
	nw, ne, sw, se vector.SpeedPolar
}

func NewComplex(name string, zlevel int, area location.Area, nw, ne, sw, se vector.SpeedPolar) *Complex {
	return &Complex{base: base{name: name, kind: TypeComplex, zlevel: zlevel, area: area}, nw: nw, ne: ne, sw: sw, se: se}
}

func (c *Complex) Flow(l location.Location) (vector.SpeedPolar, error) {
	if !c.area.Contains(l) {
		return vector.SpeedPolar{}, c.outside(l)
	}
	fx, fy := c.area.Fraction(l)

	south := c.sw.Extrapolate(c.se, fx)
	north := c.nw.Extrapolate(c.ne, fx)

	return south.Extrapolate(north, fy), nil
}
