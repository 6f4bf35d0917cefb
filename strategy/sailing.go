package strategy

import (
	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/course"
	"github.com/a-bouts/race-trainer/decision"
)

// sailingPolicy decides the next second of a boat sailing a leg, away from
// the mark.
type sailingPolicy func(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision

type sailingKey struct {
	leg  course.LegType
	port bool
}

var sailingPolicies map[sailingKey]sailingPolicy

func init() {
	sailingPolicies = map[sailingKey]sailingPolicy{
		{course.Windward, true}:        windwardPort,
		{course.Windward, false}:       windwardStarboard,
		{course.GybingDownwind, true}:  gybingPort,
		{course.GybingDownwind, false}: gybingStarboard,
		{course.Offwind, true}:         offwindPort,
		{course.Offwind, false}:        offwindStarboard,
	}
}

func windwardPort(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	w := f.Wind.Angle
	closeHauled, other := b.PortCloseHauled(w), b.StarboardCloseHauled(w)
	beta := b.Location.AngleTo(g.SailTo)

	switch {
	case beta.Lteq(other):
		return steer(b, other, decision.Major, "port tack: on the starboard layline, tacking")
	case beta.Gteq(closeHauled):
		return steer(b, beta, decision.Minor, "port tack: mark is fetchable, steering for it")
	case leavingChannel(b, g, b.Tactics.UpwindChannel):
		return steer(b, other, decision.Major, "port tack: leaving the channel, tacking")
	case b.Tactics.UpwindSailOnBestTack && w.Gt(f.MeanWind):
		return steer(b, other, decision.Major, "port tack: veered, starboard is the lifted tack")
	}

	switch {
	case b.Heading.Lt(closeHauled):
		if b.Tactics.UpwindTackIfHeaded {
			return steer(b, other, decision.Major, "port tack: headed, tacking")
		}
		if b.Tactics.UpwindBearAwayIfHeaded {
			return steer(b, closeHauled, decision.Minor, "port tack: headed, bearing away")
		}
	case b.Heading.Gt(closeHauled):
		if b.Tactics.UpwindLuffUpIfLifted {
			return steer(b, closeHauled, decision.Minor, "port tack: lifted, luffing up")
		}
	}
	if pinching(b, w) {
		return steer(b, closeHauled, decision.Minor, "port tack: pinching, bearing away")
	}
	return sailOn("port tack: sailing on")
}

func windwardStarboard(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	w := f.Wind.Angle
	closeHauled, other := b.StarboardCloseHauled(w), b.PortCloseHauled(w)
	beta := b.Location.AngleTo(g.SailTo)

	switch {
	case beta.Gteq(other):
		return steer(b, other, decision.Major, "starboard tack: on the port layline, tacking")
	case beta.Lteq(closeHauled):
		return steer(b, beta, decision.Minor, "starboard tack: mark is fetchable, steering for it")
	case leavingChannel(b, g, b.Tactics.UpwindChannel):
		return steer(b, other, decision.Major, "starboard tack: leaving the channel, tacking")
	case b.Tactics.UpwindSailOnBestTack && w.Lt(f.MeanWind):
		return steer(b, other, decision.Major, "starboard tack: backed, port is the lifted tack")
	}

	switch {
	case b.Heading.Gt(closeHauled):
		if b.Tactics.UpwindTackIfHeaded {
			return steer(b, other, decision.Major, "starboard tack: headed, tacking")
		}
		if b.Tactics.UpwindBearAwayIfHeaded {
			return steer(b, closeHauled, decision.Minor, "starboard tack: headed, bearing away")
		}
	case b.Heading.Lt(closeHauled):
		if b.Tactics.UpwindLuffUpIfLifted {
			return steer(b, closeHauled, decision.Minor, "starboard tack: lifted, luffing up")
		}
	}
	if pinching(b, w) {
		return steer(b, closeHauled, decision.Minor, "starboard tack: pinching, bearing away")
	}
	return sailOn("starboard tack: sailing on")
}

func gybingPort(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	w := f.Wind.Angle
	reaching, other := b.PortReaching(w), b.StarboardReaching(w)
	beta := b.Location.AngleTo(g.SailTo)

	switch {
	case beta.Gteq(other):
		return steer(b, other, decision.Major, "port gybe: on the starboard layline, gybing")
	case beta.Lteq(reaching):
		return steer(b, beta, decision.Minor, "port gybe: mark is fetchable, steering for it")
	case leavingChannel(b, g, b.Tactics.DownwindChannel):
		return steer(b, other, decision.Major, "port gybe: leaving the channel, gybing")
	case b.Tactics.DownwindSailOnBestGybe && w.Lt(f.MeanWind):
		return steer(b, other, decision.Major, "port gybe: backed, starboard is the better gybe")
	}

	switch {
	case b.Heading.Gt(reaching):
		if b.Tactics.DownwindLuffUpIfLifted {
			return steer(b, reaching, decision.Minor, "port gybe: lifted, luffing up")
		}
		if b.Tactics.DownwindGybeIfLifted {
			return steer(b, other, decision.Major, "port gybe: lifted, gybing")
		}
	case b.Heading.Lt(reaching):
		if b.Tactics.DownwindBearAwayIfHeaded {
			return steer(b, reaching, decision.Minor, "port gybe: headed, bearing away")
		}
	}
	return sailOn("port gybe: sailing on")
}

func gybingStarboard(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	w := f.Wind.Angle
	reaching, other := b.StarboardReaching(w), b.PortReaching(w)
	beta := b.Location.AngleTo(g.SailTo)

	switch {
	case beta.Lteq(other):
		return steer(b, other, decision.Major, "starboard gybe: on the port layline, gybing")
	case beta.Gteq(reaching):
		return steer(b, beta, decision.Minor, "starboard gybe: mark is fetchable, steering for it")
	case leavingChannel(b, g, b.Tactics.DownwindChannel):
		return steer(b, other, decision.Major, "starboard gybe: leaving the channel, gybing")
	case b.Tactics.DownwindSailOnBestGybe && w.Gt(f.MeanWind):
		return steer(b, other, decision.Major, "starboard gybe: veered, port is the better gybe")
	}

	switch {
	case b.Heading.Lt(reaching):
		if b.Tactics.DownwindLuffUpIfLifted {
			return steer(b, reaching, decision.Minor, "starboard gybe: lifted, luffing up")
		}
		if b.Tactics.DownwindGybeIfLifted {
			return steer(b, other, decision.Major, "starboard gybe: lifted, gybing")
		}
	case b.Heading.Gt(reaching):
		if b.Tactics.DownwindBearAwayIfHeaded {
			return steer(b, reaching, decision.Minor, "starboard gybe: headed, bearing away")
		}
	}
	return sailOn("starboard gybe: sailing on")
}

// offwind steers straight for the mark while the course is sailable and
// falls back to beating or gybing when it is not.
func offwind(b boat.State, f FlowSnapshot, g LegGeometry, windward, gybing sailingPolicy) decision.Decision {
	w := f.Wind.Angle
	beta := b.Location.AngleTo(g.SailTo)
	off := w.AbsAngleDiff(beta)

	switch {
	case off < b.Metrics.UpwindRelative:
		return windward(b, f, g)
	case off > b.Metrics.DownwindRelative:
		return gybing(b, f, g)
	}
	return steer(b, beta, decision.Minor, "reaching: steering for the mark")
}

func offwindPort(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return offwind(b, f, g, windwardPort, gybingPort)
}

func offwindStarboard(b boat.State, f FlowSnapshot, g LegGeometry) decision.Decision {
	return offwind(b, f, g, windwardStarboard, gybingStarboard)
}
