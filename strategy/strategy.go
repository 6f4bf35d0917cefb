package strategy

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/course"
	"github.com/a-bouts/race-trainer/decision"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
)

// finishClearance is how many boat lengths past the finish a boat sails
// before stopping.
const finishClearance = 10

// legStrategy decides for the part of the race a boat is in. It is replaced
// when a leg is completed.
type legStrategy interface {
	next(b boat.State, f FlowSnapshot) (decision.Decision, error)
}

// sailLeg sails the current leg and switches for good to rounding once the
// boat is near the mark.
type sailLeg struct {
	current  *course.CurrentLeg
	rounding bool
	// tack is the tack or gybe under way, held until the boat is on its
	// new heading.
	tack *decision.Decision
}

func (s *sailLeg) next(b boat.State, f FlowSnapshot) (decision.Decision, error) {
	g := newLegGeometry(s.current.Leg(), f.MeanWind, b.Metrics)

	if !s.rounding && nearMark(b, g) {
		s.rounding = true
		log.WithFields(log.Fields{"boat": b.Name, "mark": g.Leg.Mark.Name}).Debug("Rounding")
	}

	if s.rounding {
		policy, ok := roundingPolicies[roundingKeyFor(g)]
		if !ok {
			return decision.Decision{}, simerr.Config("course.legs", "no rounding from a %v leg to a %v leg at %s", g.Type, g.NextType, g.Leg.Mark.Name)
		}
		return policy(b, f, g), nil
	}

	if s.tack != nil && s.tack.Angle != b.Heading {
		return *s.tack, nil
	}
	s.tack = nil

	d := sailingPolicies[sailingKey{leg: g.Type, port: b.IsPort(f.Wind.Angle)}](b, f, g)
	if d.Action == decision.Turn && d.Importance == decision.Major {
		s.tack = &d
	}
	return d, nil
}

type afterFinish struct {
	finish location.Location
}

func (s *afterFinish) next(b boat.State, f FlowSnapshot) (decision.Decision, error) {
	var d decision.Decision
	if b.Location.DistanceTo(s.finish) > finishClearance*b.Metrics.Length {
		d.Stop("finished, clear of the line")
	} else {
		d.SailOn("finished, sailing clear of the line")
	}
	return d, nil
}

// BoatStrategy drives one boat around the course.
type BoatStrategy struct {
	boat     *boat.Boat
	current  *course.CurrentLeg
	active   legStrategy
	decision decision.Decision
}

// Validate checks that every mark of c can be rounded by a boat with
// metrics m in the given mean wind.
func Validate(c *course.Course, meanWind angle.Angle, m boat.Metrics) error {
	for _, leg := range c.Legs() {
		g := newLegGeometry(leg, meanWind, m)
		if _, ok := roundingPolicies[roundingKeyFor(g)]; !ok {
			return simerr.Config("course.legs", "no rounding from a %v leg to a %v leg at %s", g.Type, g.NextType, leg.Mark.Name)
		}
	}
	return nil
}

func New(ctx SimulationContext, b *boat.Boat, c *course.Course) (*BoatStrategy, error) {
	if err := Validate(c, ctx.Wind.MeanAngle(), b.Metrics); err != nil {
		return nil, fmt.Errorf("boat %s: %w", b.Name, err)
	}
	current := c.CurrentLeg()
	return &BoatStrategy{
		boat:    b,
		current: current,
		active:  &sailLeg{current: current},
	}, nil
}

// NextTimeInterval works out the decision for the coming second.
func (s *BoatStrategy) NextTimeInterval(ctx SimulationContext) (decision.Decision, error) {
	b := s.boat.State()

	wind, err := ctx.Wind.Flow(b.Location)
	if err != nil {
		return decision.Decision{}, fmt.Errorf("boat %s: %w", b.Name, err)
	}

	d, err := s.active.next(b, FlowSnapshot{Wind: wind, MeanWind: ctx.Wind.MeanAngle()})
	if err != nil {
		return d, fmt.Errorf("boat %s: %w", b.Name, err)
	}
	s.decision = d
	return d, nil
}

// LegCompleted moves on to the following leg, or to the after finish
// strategy at the end of the course.
func (s *BoatStrategy) LegCompleted() {
	if s.Finished() {
		return
	}
	if s.current.ToFollowingLeg() {
		s.active = &sailLeg{current: s.current}
		return
	}
	s.active = &afterFinish{finish: s.current.Leg().EndAt}
	log.WithField("boat", s.boat.Name).Info("Finished")
}

func (s *BoatStrategy) Boat() *boat.Boat {
	return s.boat
}

func (s *BoatStrategy) Decision() decision.Decision {
	return s.decision
}

func (s *BoatStrategy) LegIndex() int {
	return s.current.Index()
}

func (s *BoatStrategy) Rounding() bool {
	sl, ok := s.active.(*sailLeg)
	return ok && sl.rounding
}

func (s *BoatStrategy) Finished() bool {
	_, ok := s.active.(*afterFinish)
	return ok
}

func (s *BoatStrategy) Stopped() bool {
	return s.decision.Action == decision.Stop
}
