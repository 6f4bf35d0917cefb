package location

import (
	"fmt"
	"math"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/vector"
)

// Location is a point on the field of play in metres, X east and Y north.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toDegrees(r float64) float64 {
	return r * 180 / math.Pi
}

func wrap360(degrees float64) float64 {
	if 0 <= degrees && degrees < 360 {
		return degrees
	}
	return math.Mod(math.Mod(degrees, 360)+360, 360)
}

func (l Location) DistanceTo(to Location) float64 {
	x := to.X - l.X
	y := to.Y - l.Y

	return math.Sqrt(x*x + y*y)
}

// BearingTo is the compass bearing to another point in [0, 360).
func (l Location) BearingTo(to Location) float64 {
	_, b := l.DistanceAndBearingTo(to)
	return b
}

func (l Location) DistanceAndBearingTo(to Location) (float64, float64) {
	x := to.X - l.X
	y := to.Y - l.Y

	d := math.Sqrt(x*x + y*y)
	if d == 0 {
		return 0, 0
	}

	α := math.Acos(y / d)
	if x < 0 {
		α *= -1
	}

	return d, wrap360(toDegrees(α))
}

func (l Location) AngleTo(to Location) angle.Angle {
	return angle.FromFloat(l.BearingTo(to))
}

func (l Location) To(to Location) vector.DistancePolar {
	d, b := l.DistanceAndBearingTo(to)
	return vector.Distance(d, angle.FromFloat(b))
}

// Destination is the point reached from l after bearing and distance.
func (l Location) Destination(bearing angle.Angle, distance float64) Location {
	return Location{
		X: l.X + distance*bearing.Sin(),
		Y: l.Y + distance*bearing.Cos(),
	}
}

func (l Location) Add(d vector.DistancePolar) Location {
	return l.Destination(d.Angle, d.Magnitude)
}

func (l Location) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", l.X, l.Y)
}
