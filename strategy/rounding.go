package strategy

import (
	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/course"
	"github.com/a-bouts/race-trainer/decision"
)

// roundingPhaseLimit is the largest turn emitted as a single mark rounding.
const roundingPhaseLimit = 90

type roundingPolicy func(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision

type roundingKey struct {
	from   course.LegType
	to     course.LegType
	finish bool
}

func roundingKeyFor(g LegGeometry) roundingKey {
	if g.Finishing {
		return roundingKey{from: g.Type, finish: true}
	}
	return roundingKey{from: g.Type, to: g.NextType}
}

// Windward to windward and gybing to gybing have no rounding.
var roundingPolicies map[roundingKey]roundingPolicy

func init() {
	roundingPolicies = map[roundingKey]roundingPolicy{
		{from: course.Windward, to: course.Offwind}:              windwardToOffwind,
		{from: course.Windward, to: course.GybingDownwind}:       windwardToGybing,
		{from: course.Offwind, to: course.Windward}:              offwindToWindward,
		{from: course.Offwind, to: course.Offwind}:               offwindToOffwind,
		{from: course.Offwind, to: course.GybingDownwind}:        offwindToGybing,
		{from: course.GybingDownwind, to: course.Windward}:       gybingToWindward,
		{from: course.GybingDownwind, to: course.Offwind}:        gybingToOffwind,
		{from: course.Windward, finish: true}:                    finishing,
		{from: course.Offwind, finish: true}:                     finishing,
		{from: course.GybingDownwind, finish: true}:              finishing,
	}
}

// round turns in the rounding direction onto target, going through an
// intermediate heading a quarter turn away when the turn is larger than
// that. If the wind shifts between the two phases the second one is worked
// out from the new wind.
func round(b boat.State, g LegGeometry, target angle.Angle, reason string) decision.Decision {
	var d decision.Decision

	if angle.Rotation(b.Heading, target, g.PortRounding) > roundingPhaseLimit {
		step := b.Heading.Add(roundingPhaseLimit)
		if g.PortRounding {
			step = b.Heading.Sub(roundingPhaseLimit)
		}
		d.Turn(step, g.PortRounding, decision.Major, reason+", first phase")
		return d
	}

	d.MarkRounding(target, g.PortRounding, reason)
	return d
}

// nearest is the option reached with the smallest turn in the rounding
// direction.
func nearest(b boat.State, g LegGeometry, a, c angle.Angle) angle.Angle {
	if angle.Rotation(b.Heading, c, g.PortRounding) < angle.Rotation(b.Heading, a, g.PortRounding) {
		return c
	}
	return a
}

func closeHauledAfter(b boat.State, f FlowSnapshot, g LegGeometry) angle.Angle {
	w := f.Wind.Angle
	return nearest(b, g, b.PortCloseHauled(w), b.StarboardCloseHauled(w))
}

func reachingAfter(b boat.State, f FlowSnapshot, g LegGeometry) angle.Angle {
	w := f.Wind.Angle
	return nearest(b, g, b.PortReaching(w), b.StarboardReaching(w))
}

func nextLegCourse(b boat.State, f FlowSnapshot, g LegGeometry) angle.Angle {
	return sailable(g.NextBearing, f.Wind.Angle, b.Metrics)
}

func windwardToOffwind(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return round(b, g, nextLegCourse(b, f, g), "windward mark: bearing away onto the reach")
}

func windwardToGybing(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return round(b, g, reachingAfter(b, f, g), "windward mark: bearing away downwind")
}

func offwindToWindward(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return round(b, g, closeHauledAfter(b, f, g), "reaching mark: hardening up to close hauled")
}

func offwindToOffwind(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return round(b, g, nextLegCourse(b, f, g), "reaching mark: onto the next reach")
}

func offwindToGybing(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return round(b, g, reachingAfter(b, f, g), "reaching mark: bearing away downwind")
}

func gybingToWindward(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return round(b, g, closeHauledAfter(b, f, g), "leeward mark: hardening up to close hauled")
}

func gybingToOffwind(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return round(b, g, nextLegCourse(b, f, g), "leeward mark: hardening up onto the reach")
}

func finishing(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	var d decision.Decision
	d.MarkRounding(b.Heading, g.PortRounding, "crossing the finish")
	return d
}
