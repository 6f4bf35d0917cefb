package vector

import (
	"github.com/a-bouts/race-trainer/angle"
)

// MetresPerSecondPerKnot converts flow and boat speeds to distance run.
const MetresPerSecondPerKnot = 0.514444

// DistancePolar is a position offset in metres.
type DistancePolar struct {
	Polar
}

func Distance(metres float64, a angle.Angle) DistancePolar {
	return DistancePolar{New(metres, a)}
}

func (d DistancePolar) Add(o DistancePolar) DistancePolar {
	return DistancePolar{d.Polar.Add(o.Polar)}
}

func (d DistancePolar) Sub(o DistancePolar) DistancePolar {
	return DistancePolar{d.Polar.Sub(o.Polar)}
}

func (d DistancePolar) Mult(f float64) DistancePolar {
	return DistancePolar{d.Polar.Mult(f)}
}

func (d DistancePolar) Div(f float64) (DistancePolar, error) {
	p, err := d.Polar.Div(f)
	return DistancePolar{p}, err
}

func (d DistancePolar) Extrapolate(o DistancePolar, fraction float64) DistancePolar {
	return DistancePolar{d.Polar.Extrapolate(o.Polar, fraction)}
}

// SpeedPolar is a speed in knots. For a flow the angle is where it comes
// from; for a boat it is the heading.
type SpeedPolar struct {
	Polar
}

func Speed(knots float64, a angle.Angle) SpeedPolar {
	return SpeedPolar{New(knots, a)}
}

func (s SpeedPolar) Add(o SpeedPolar) SpeedPolar {
	return SpeedPolar{s.Polar.Add(o.Polar)}
}

func (s SpeedPolar) Sub(o SpeedPolar) SpeedPolar {
	return SpeedPolar{s.Polar.Sub(o.Polar)}
}

func (s SpeedPolar) Mult(f float64) SpeedPolar {
	return SpeedPolar{s.Polar.Mult(f)}
}

func (s SpeedPolar) Div(f float64) (SpeedPolar, error) {
	p, err := s.Polar.Div(f)
	return SpeedPolar{p}, err
}

func (s SpeedPolar) Extrapolate(o SpeedPolar, fraction float64) SpeedPolar {
	return SpeedPolar{s.Polar.Extrapolate(o.Polar, fraction)}
}

// Travel is the distance run along the angle in the given seconds.
func (s SpeedPolar) Travel(seconds float64) DistancePolar {
	return Distance(s.Magnitude*MetresPerSecondPerKnot*seconds, s.Angle)
}

// Drift is the distance a flow carries an object in the given seconds,
// downstream of where the flow comes from.
func (s SpeedPolar) Drift(seconds float64) DistancePolar {
	return Distance(s.Magnitude*MetresPerSecondPerKnot*seconds, s.Angle.Inverse())
}
