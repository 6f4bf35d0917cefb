package boat

import (
	"fmt"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/decision"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/polar"
	"github.com/a-bouts/race-trainer/simerr"
	"github.com/a-bouts/race-trainer/vector"
)

// Metrics are the dimensions and handling of a boat.
type Metrics struct {
	Length              float64     `json:"length"`
	Width               float64     `json:"width"`
	UpwindRelative      angle.Angle `json:"upwindrelative"`
	DownwindRelative    angle.Angle `json:"downwindrelative"`
	RotationPerSecond   angle.Angle `json:"rotationpersecond"`
	MarkPassingDistance float64     `json:"markpassingdistance"`
	MarkPassingAngle    angle.Angle `json:"markpassingangle"`
}

func DefaultMetrics() Metrics {
	return Metrics{
		Length:              4.2,
		Width:               1.4,
		UpwindRelative:      45,
		DownwindRelative:    135,
		RotationPerSecond:   15,
		MarkPassingDistance: 8.4,
		MarkPassingAngle:    90,
	}
}

// WithDefaults fills unset metrics from DefaultMetrics.
func (m Metrics) WithDefaults() Metrics {
	d := DefaultMetrics()
	if m.Length <= 0 {
		m.Length = d.Length
	}
	if m.Width <= 0 {
		m.Width = d.Width
	}
	if m.UpwindRelative == 0 {
		m.UpwindRelative = d.UpwindRelative
	}
	if m.DownwindRelative == 0 {
		m.DownwindRelative = d.DownwindRelative
	}
	if m.RotationPerSecond <= 0 {
		m.RotationPerSecond = d.RotationPerSecond
	}
	if m.MarkPassingDistance <= 0 {
		m.MarkPassingDistance = 2 * m.Length
	}
	if m.MarkPassingAngle == 0 {
		m.MarkPassingAngle = d.MarkPassingAngle
	}
	return m
}

func (m Metrics) Validate() error {
	if m.UpwindRelative <= 0 || m.DownwindRelative <= m.UpwindRelative {
		return simerr.Config("boat.metrics", "upwind %v and downwind %v relative angles are inconsistent", m.UpwindRelative, m.DownwindRelative)
	}
	return nil
}

// Channel is a corridor of Width metres centred on the rhumb line of a leg.
type Channel struct {
	Width float64 `json:"width"`
}

// Tactics are the per boat behaviour flags.
type Tactics struct {
	UpwindSailOnBestTack   bool `json:"upwindsailonbesttack"`
	UpwindTackIfHeaded     bool `json:"upwindtackifheaded"`
	UpwindBearAwayIfHeaded bool `json:"upwindbearawayifheaded"`
	UpwindLuffUpIfLifted   bool `json:"upwindluffupiflifted"`

	DownwindSailOnBestGybe   bool `json:"downwindsailonbestgybe"`
	DownwindBearAwayIfHeaded bool `json:"downwindbearawayifheaded"`
	DownwindGybeIfLifted     bool `json:"downwindgybeiflifted"`
	DownwindLuffUpIfLifted   bool `json:"downwindluffupiflifted"`

	UpwindChannel   *Channel `json:"upwindchannel,omitempty"`
	DownwindChannel *Channel `json:"downwindchannel,omitempty"`
}

// State is the read only view of a boat handed to decision code.
type State struct {
	Name     string            `json:"name"`
	Location location.Location `json:"location"`
	Heading  angle.Angle       `json:"heading"`
	Speed    float64           `json:"speed"`
	Metrics  Metrics           `json:"-"`
	Tactics  Tactics           `json:"-"`
}

// IsPort reports whether the wind blows over the port side.
func (s State) IsPort(wind angle.Angle) bool {
	return angle.Twa(s.Heading, wind) < 0
}

func (s State) PortCloseHauled(wind angle.Angle) angle.Angle {
	return wind.Add(s.Metrics.UpwindRelative)
}

func (s State) StarboardCloseHauled(wind angle.Angle) angle.Angle {
	return wind.Sub(s.Metrics.UpwindRelative)
}

func (s State) PortReaching(wind angle.Angle) angle.Angle {
	return wind.Add(s.Metrics.DownwindRelative)
}

func (s State) StarboardReaching(wind angle.Angle) angle.Angle {
	return wind.Sub(s.Metrics.DownwindRelative)
}

type Boat struct {
	Name     string
	Location location.Location
	Heading  angle.Angle
	Speed    float64
	Metrics  Metrics
	Tactics  Tactics

	polar   *polar.Polar
	stopped bool
}

func New(name string, l location.Location, heading angle.Angle, m Metrics, t Tactics, p *polar.Polar) *Boat {
	if p == nil {
		p = polar.Default()
	}
	return &Boat{Name: name, Location: l, Heading: heading, Metrics: m.WithDefaults(), Tactics: t, polar: p}
}

func (b *Boat) State() State {
	return State{
		Name:     b.Name,
		Location: b.Location,
		Heading:  b.Heading,
		Speed:    b.Speed,
		Metrics:  b.Metrics,
		Tactics:  b.Tactics,
	}
}

func (b *Boat) Stopped() bool {
	return b.stopped
}

func (b *Boat) rotate(target angle.Angle, port bool) {
	remaining := angle.Rotation(b.Heading, target, port)
	rate := int(b.Metrics.RotationPerSecond)
	if remaining <= rate {
		b.Heading = target
		return
	}
	if port {
		b.Heading = b.Heading.Sub(b.Metrics.RotationPerSecond)
	} else {
		b.Heading = b.Heading.Add(b.Metrics.RotationPerSecond)
	}
}

// Move applies d for one second in the given wind and water and reports
// whether a mark rounding has been completed.
func (b *Boat) Move(d decision.Decision, wind, water vector.SpeedPolar) bool {
	if d.Action == decision.Stop {
		b.Speed = 0
		b.stopped = true
		return false
	}
	if d.Turns() {
		b.rotate(d.Angle, d.TurnIsPort)
	}

	b.Speed = b.polar.GetBoatSpeed(angle.Twa(b.Heading, wind.Angle), wind.Magnitude)

	through := vector.Speed(b.Speed, b.Heading).Travel(1)
	b.Location = b.Location.Add(through).Add(water.Drift(1))

	return d.Action == decision.MarkRounding && b.Heading == d.Angle
}

func (b *Boat) String() string {
	return fmt.Sprintf("%s at %v heading %v %.1fkn", b.Name, b.Location, b.Heading, b.Speed)
}
