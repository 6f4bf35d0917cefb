package decision

import (
	"fmt"

	"github.com/a-bouts/race-trainer/angle"
)

type Action int

const (
	SailOn Action = iota
	Turn
	MarkRounding
	Stop
)

func (a Action) String() string {
	switch a {
	case SailOn:
		return "SAIL_ON"
	case Turn:
		return "TURN"
	case MarkRounding:
		return "MARK_ROUNDING"
	case Stop:
		return "STOP"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

type Importance int

const (
	Insignificant Importance = iota
	Minor
	Major
)

func (i Importance) String() string {
	switch i {
	case Insignificant:
		return "INSIGNIFICANT"
	case Minor:
		return "MINOR"
	case Major:
		return "MAJOR"
	}
	return fmt.Sprintf("Importance(%d)", int(i))
}

// Decision is what a boat does during the next second. TurnIsPort is the
// direction of rotation, port being anticlockwise.
type Decision struct {
	Action     Action
	Angle      angle.Angle
	TurnIsPort bool
	Importance Importance
	Reason     string
}

func (d *Decision) SailOn(reason string) {
	*d = Decision{Action: SailOn, Importance: Insignificant, Reason: reason}
}

func (d *Decision) Turn(to angle.Angle, port bool, importance Importance, reason string) {
	*d = Decision{Action: Turn, Angle: to, TurnIsPort: port, Importance: importance, Reason: reason}
}

func (d *Decision) MarkRounding(to angle.Angle, port bool, reason string) {
	*d = Decision{Action: MarkRounding, Angle: to, TurnIsPort: port, Importance: Major, Reason: reason}
}

func (d *Decision) Stop(reason string) {
	*d = Decision{Action: Stop, Importance: Major, Reason: reason}
}

// Turns reports whether the decision changes heading.
func (d Decision) Turns() bool {
	return d.Action == Turn || d.Action == MarkRounding
}

func (d Decision) String() string {
	if !d.Turns() {
		return fmt.Sprintf("%v (%v): %s", d.Action, d.Importance, d.Reason)
	}
	side := "starboard"
	if d.TurnIsPort {
		side = "port"
	}
	return fmt.Sprintf("%v to %v by %s (%v): %s", d.Action, d.Angle, side, d.Importance, d.Reason)
}
