package vector

import (
	"errors"
	"fmt"
	"math"

	"github.com/a-bouts/race-trainer/angle"
)

var ErrDivideByZero = errors.New("vector: divide by zero")

// Polar is a magnitude along a compass angle. Sums are always taken on the
// cartesian components, x east and y north.
type Polar struct {
	Magnitude float64     `json:"magnitude"`
	Angle     angle.Angle `json:"angle"`
}

func New(magnitude float64, a angle.Angle) Polar {
	if magnitude < 0 {
		return Polar{Magnitude: -magnitude, Angle: a.Inverse()}
	}
	return Polar{Magnitude: magnitude, Angle: a}
}

func FromComponents(x, y float64) Polar {
	return Polar{
		Magnitude: math.Sqrt(x*x + y*y),
		Angle:     angle.FromRadians(math.Atan2(x, y)),
	}
}

func (p Polar) Components() (float64, float64) {
	return p.Magnitude * p.Angle.Sin(), p.Magnitude * p.Angle.Cos()
}

func (p Polar) Add(o Polar) Polar {
	x1, y1 := p.Components()
	x2, y2 := o.Components()
	return FromComponents(x1+x2, y1+y2)
}

func (p Polar) Sub(o Polar) Polar {
	x1, y1 := p.Components()
	x2, y2 := o.Components()
	return FromComponents(x1-x2, y1-y2)
}

func (p Polar) Mult(f float64) Polar {
	return New(p.Magnitude*f, p.Angle)
}

func (p Polar) Div(f float64) (Polar, error) {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return Polar{}, fmt.Errorf("%w: %v / %v", ErrDivideByZero, p, f)
	}
	return New(p.Magnitude/f, p.Angle), nil
}

// Extrapolate blends p towards o: p*(1-fraction) + o*fraction.
func (p Polar) Extrapolate(o Polar, fraction float64) Polar {
	return p.Mult(1 - fraction).Add(o.Mult(fraction))
}

func (p Polar) IsZero() bool {
	return p.Magnitude == 0
}

func (p Polar) String() string {
	return fmt.Sprintf("%.2f@%v", p.Magnitude, p.Angle)
}
