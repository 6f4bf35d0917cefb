package angle

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Angle is a compass angle in whole degrees, kept in (-180, 180].
// 0 is north and angles grow clockwise.
type Angle int

const (
	Zero  Angle = 0
	North Angle = 0
	East  Angle = 90
	South Angle = 180
	West  Angle = -90
)

var ErrDivideByZero = errors.New("angle: divide by zero")

func normalize(d int) int {
	d %= 360
	for d <= -180 {
		d += 360
	}
	for d > 180 {
		d -= 360
	}
	return d
}

func New(deg int) Angle {
	return Angle(normalize(deg))
}

// FromFloat rounds deg to the nearest degree. Non finite input gives Zero.
func FromFloat(deg float64) Angle {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return Zero
	}
	return New(int(math.Round(math.Mod(deg, 360))))
}

// FromRadians converts an atan2 style result into an Angle.
func FromRadians(r float64) Angle {
	return FromFloat(r * 180 / math.Pi)
}

func (a Angle) Degrees() int {
	return int(a)
}

// Compass returns the angle in [0, 360).
func (a Angle) Compass() int {
	if a < 0 {
		return int(a) + 360
	}
	return int(a)
}

func (a Angle) Radians() float64 {
	return float64(a) * math.Pi / 180
}

func (a Angle) Sin() float64 {
	return math.Sin(a.Radians())
}

func (a Angle) Cos() float64 {
	return math.Cos(a.Radians())
}

func (a Angle) Add(o Angle) Angle {
	return New(int(a) + int(o))
}

func (a Angle) AddFloat(deg float64) Angle {
	return FromFloat(float64(a) + deg)
}

func (a Angle) Sub(o Angle) Angle {
	return New(int(a) - int(o))
}

func (a Angle) Negate() Angle {
	return New(-int(a))
}

// Inverse is the reciprocal direction.
func (a Angle) Inverse() Angle {
	return New(int(a) + 180)
}

func (a Angle) Mult(f float64) Angle {
	return FromFloat(float64(a) * f)
}

func (a Angle) Div(f float64) (Angle, error) {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return Zero, fmt.Errorf("%w: %v / %v", ErrDivideByZero, a, f)
	}
	return FromFloat(float64(a) / f), nil
}

// AngleDiff is the normalized signed difference o - a.
func (a Angle) AngleDiff(o Angle) Angle {
	return o.Sub(a)
}

func (a Angle) AbsAngleDiff(o Angle) Angle {
	d := a.AngleDiff(o)
	if d < 0 {
		return -d
	}
	return d
}

// Comparisons go through the normalized difference, so they only order
// angles lying within 180 degrees of each other.

func (a Angle) Gt(o Angle) bool {
	return a.Sub(o) > 0
}

func (a Angle) Lt(o Angle) bool {
	return a.Sub(o) < 0
}

func (a Angle) Gteq(o Angle) bool {
	return a.Sub(o) >= 0
}

func (a Angle) Lteq(o Angle) bool {
	return a.Sub(o) <= 0
}

func (a Angle) String() string {
	return fmt.Sprintf("%d°", int(a))
}

func (a *Angle) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = FromFloat(f)
	return nil
}
