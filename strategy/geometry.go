package strategy

import (
	"math"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/course"
	"github.com/a-bouts/race-trainer/decision"
	"github.com/a-bouts/race-trainer/location"
)

// LegGeometry is what a policy needs to know about the leg being sailed.
type LegGeometry struct {
	Leg          *course.Leg
	Type         course.LegType
	NextType     course.LegType
	NextBearing  angle.Angle
	Finishing    bool
	PortRounding bool
	// Ahead is the direction in which the boat leaves the mark behind:
	// the mean wind upwind, its inverse downwind, the leg bearing otherwise.
	Ahead      angle.Angle
	Mark       location.Location
	SailTo     location.Location
	RhumbStart location.Location
}

func legType(l *course.Leg, meanWind angle.Angle, m boat.Metrics) course.LegType {
	return l.Type(meanWind, m.UpwindRelative, m.DownwindRelative)
}

func aheadOf(t course.LegType, meanWind angle.Angle, l *course.Leg) angle.Angle {
	switch t {
	case course.Windward:
		return meanWind
	case course.GybingDownwind:
		return meanWind.Inverse()
	}
	return l.Bearing()
}

func newLegGeometry(l *course.Leg, meanWind angle.Angle, m boat.Metrics) LegGeometry {
	g := LegGeometry{
		Leg:          l,
		Type:         legType(l, meanWind, m),
		Finishing:    l.IsFinish(),
		PortRounding: l.PortRounding,
		Mark:         l.EndAt,
		RhumbStart:   l.StartFrom,
	}
	g.Ahead = aheadOf(g.Type, meanWind, l)

	side := g.Ahead.Sub(m.MarkPassingAngle)
	if g.PortRounding {
		side = g.Ahead.Add(m.MarkPassingAngle)
	}
	g.SailTo = g.Mark.Destination(side, m.MarkPassingDistance)

	if next := l.Next(); next != nil {
		g.NextType = legType(next, meanWind, m)
		g.NextBearing = next.Bearing()
	}
	return g
}

// nearMark reports whether the boat is in the quadrant beyond the mark it
// leaves on the rounding side, close enough to start rounding. For the
// finish both quadrants count.
func nearMark(b boat.State, g LegGeometry) bool {
	m := b.Metrics
	if g.Mark.DistanceTo(b.Location) > m.MarkPassingDistance+2*m.Length+m.Width {
		return false
	}

	from := g.Mark.AngleTo(b.Location)
	lo, hi := g.Ahead.Sub(90), g.Ahead
	switch {
	case g.Finishing:
		lo, hi = g.Ahead.Sub(90), g.Ahead.Add(90)
	case g.PortRounding:
		lo, hi = g.Ahead, g.Ahead.Add(90)
	}
	return from.Gteq(lo) && from.Lteq(hi)
}

// leavingChannel reports whether the boat is outside ch on the side its
// heading carries it to, still further than the channel width from the
// mark.
func leavingChannel(b boat.State, g LegGeometry, ch *boat.Channel) bool {
	if ch == nil || ch.Width <= 0 {
		return false
	}
	if b.Location.DistanceTo(g.SailTo) <= ch.Width {
		return false
	}

	line := g.RhumbStart.AngleTo(g.SailTo)
	offset := g.RhumbStart.To(b.Location)
	lateral := offset.Magnitude * math.Sin(offset.Angle.Sub(line).Radians())
	if math.Abs(lateral) <= ch.Width/2 {
		return false
	}

	drift := math.Sin(b.Heading.Sub(line).Radians())
	return lateral*drift > 0
}

// sailable clamps a bearing between the close hauled and the deepest
// reaching course on its side of the wind.
func sailable(bearing, wind angle.Angle, m boat.Metrics) angle.Angle {
	off := wind.AngleDiff(bearing)
	sign := 1
	if off < 0 {
		sign = -1
	}
	abs := wind.AbsAngleDiff(bearing)
	switch {
	case abs < m.UpwindRelative:
		return wind.Add(angle.New(sign * int(m.UpwindRelative)))
	case abs > m.DownwindRelative:
		return wind.Add(angle.New(sign * int(m.DownwindRelative)))
	}
	return bearing
}

// pinching reports whether the boat points inside the no go zone.
func pinching(b boat.State, wind angle.Angle) bool {
	return wind.AbsAngleDiff(b.Heading) < b.Metrics.UpwindRelative
}

func sailOn(reason string) decision.Decision {
	var d decision.Decision
	d.SailOn(reason)
	return d
}

// steer turns the short way to a heading, or sails on if already there.
func steer(b boat.State, to angle.Angle, importance decision.Importance, reason string) decision.Decision {
	var d decision.Decision
	if to == b.Heading {
		d.SailOn(reason)
		return d
	}
	d.Turn(to, angle.IsPortTurn(b.Heading, to), importance, reason)
	return d
}
