package flow

import (
	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/vector"
)

// Constant is the same flow everywhere in its area.
type Constant struct {
	base
	flow vector.SpeedPolar
}

func NewConstant(name string, zlevel int, area location.Area, flow vector.SpeedPolar) *Constant {
	return &Constant{base: base{name: name, kind: TypeConstant, zlevel: zlevel, area: area}, flow: flow}
}

func (c *Constant) Flow(l location.Location) (vector.SpeedPolar, error) {
	if !c.area.Contains(l) {
		return vector.SpeedPolar{}, c.outside(l)
	}
	return c.flow, nil
}

// Test is a fixed flow with an explicit mean direction, used to drive
// decisions with a known wind.
type Test struct {
	base
	flow vector.SpeedPolar
	mean angle.Angle
}

func NewTest(name string, zlevel int, area location.Area, flow vector.SpeedPolar, mean angle.Angle) *Test {
	return &Test{base: base{name: name, kind: TypeTest, zlevel: zlevel, area: area}, flow: flow, mean: mean}
}

func (c *Test) Flow(l location.Location) (vector.SpeedPolar, error) {
	if !c.area.Contains(l) {
		return vector.SpeedPolar{}, c.outside(l)
	}
	return c.flow, nil
}

func (c *Test) MeanAngle() (angle.Angle, bool) {
	return c.mean, true
}
