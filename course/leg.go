package course

import (
	"fmt"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
)

type LegType int

const (
	Windward LegType = iota
	Offwind
	GybingDownwind
)

func (t LegType) String() string {
	switch t {
	case Windward:
		return "windward"
	case Offwind:
		return "offwind"
	case GybingDownwind:
		return "gybing downwind"
	}
	return fmt.Sprintf("LegType(%d)", int(t))
}

// Mark is a named point of the course.
type Mark struct {
	Name             string            `json:"name"`
	Location         location.Location `json:"location"`
	WindwardLaylines bool              `json:"windwardlaylines"`
	DownwindLaylines bool              `json:"downwindlaylines"`
}

// Leg runs from the previous mark (or the start) to Mark.
type Leg struct {
	StartFrom    location.Location
	EndAt        location.Location
	Mark         *Mark
	PortRounding bool
	next         *Leg
}

func (l *Leg) Next() *Leg {
	return l.next
}

// IsFinish reports whether this leg ends the course.
func (l *Leg) IsFinish() bool {
	return l.next == nil
}

func (l *Leg) Bearing() angle.Angle {
	return l.StartFrom.AngleTo(l.EndAt)
}

func (l *Leg) Length() float64 {
	return l.StartFrom.DistanceTo(l.EndAt)
}

// Type classifies the leg against the mean wind: windward when the leg runs
// closer than upwind to the wind, gybing when further off than downwind.
func (l *Leg) Type(meanWind, upwind, downwind angle.Angle) LegType {
	off := l.Bearing().AbsAngleDiff(meanWind)
	switch {
	case off < upwind:
		return Windward
	case off > downwind:
		return GybingDownwind
	}
	return Offwind
}

func (l *Leg) String() string {
	side := "starboard"
	if l.PortRounding {
		side = "port"
	}
	return fmt.Sprintf("%v -> %s (%s)", l.StartFrom, l.Mark.Name, side)
}
