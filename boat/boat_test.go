package boat

import (
	"math"
	"testing"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/decision"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
	"github.com/a-bouts/race-trainer/vector"
)

var (
	northerly = vector.Speed(10, angle.North)
	slack     = vector.SpeedPolar{}
)

func TestTack(t *testing.T) {
	b := New("b", location.Location{}, angle.New(140), Metrics{}, Tactics{}, nil)
	s := b.State()
	if !s.IsPort(angle.North) {
		t.Errorf("heading 140 in a northerly should be on port")
	}
	s.Heading = angle.New(-45)
	if s.IsPort(angle.North) {
		t.Errorf("heading -45 in a northerly should be on starboard")
	}
	if s.PortCloseHauled(angle.North) != 45 || s.StarboardCloseHauled(angle.North) != -45 {
		t.Errorf("close hauled = (%v, %v); want (45, -45)", s.PortCloseHauled(angle.North), s.StarboardCloseHauled(angle.North))
	}
	if s.PortReaching(angle.North) != 135 || s.StarboardReaching(angle.North) != -135 {
		t.Errorf("reaching = (%v, %v); want (135, -135)", s.PortReaching(angle.North), s.StarboardReaching(angle.North))
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name    string
		heading int
		target  int
		port    bool
		want    angle.Angle
	}{
		{"snap", 140, 135, true, 135},
		{"port step", 45, -45, true, 30},
		{"starboard the long way", 45, -45, false, 60},
		{"across the seam", 170, -170, false, -175},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("b", location.Location{}, angle.New(tt.heading), Metrics{}, Tactics{}, nil)
			var d decision.Decision
			d.Turn(angle.New(tt.target), tt.port, decision.Minor, "")
			b.Move(d, northerly, slack)
			if b.Heading != tt.want {
				t.Errorf("heading = %v; want %v", b.Heading, tt.want)
			}
		})
	}
}

func TestMove(t *testing.T) {
	b := New("b", location.Location{}, angle.East, Metrics{}, Tactics{}, nil)
	var d decision.Decision
	d.SailOn("")

	b.Move(d, northerly, slack)
	want := 5.8 * vector.MetresPerSecondPerKnot
	if math.Abs(b.Speed-5.8) > 1e-9 || math.Abs(b.Location.X-want) > 1e-9 || math.Abs(b.Location.Y) > 1e-9 {
		t.Errorf("after one second boat is %v; want (%.3f,0) at 5.8kn", b, want)
	}

	// a southward current of one knot
	b = New("b", location.Location{}, angle.East, Metrics{}, Tactics{}, nil)
	b.Move(d, northerly, vector.Speed(1, angle.North))
	if math.Abs(b.Location.Y+vector.MetresPerSecondPerKnot) > 1e-9 {
		t.Errorf("drift = %v; want %.3f south", b.Location, vector.MetresPerSecondPerKnot)
	}
}

func TestMarkRoundingCompletesLeg(t *testing.T) {
	b := New("b", location.Location{}, angle.New(60), Metrics{}, Tactics{}, nil)
	var d decision.Decision
	d.MarkRounding(angle.New(45), true, "")

	if !b.Move(d, northerly, slack) {
		t.Errorf("a rounding within one second of rotation should complete the leg")
	}

	b.Heading = angle.New(90)
	if b.Move(d, northerly, slack) {
		t.Errorf("a rounding still turning should not complete the leg")
	}
	if b.Heading != 75 {
		t.Errorf("heading = %v; want 75", b.Heading)
	}
}

func TestStop(t *testing.T) {
	b := New("b", location.Location{}, angle.East, Metrics{}, Tactics{}, nil)
	var d decision.Decision
	d.Stop("")
	b.Move(d, northerly, slack)
	if !b.Stopped() || b.Speed != 0 || b.Location != (location.Location{}) {
		t.Errorf("stopped boat = %v", b)
	}
}

func TestNewFromConfig(t *testing.T) {
	b, err := NewFromConfig(Config{Name: "b", Heading: angle.New(45)})
	if err != nil {
		t.Fatal(err)
	}
	if b.Metrics != DefaultMetrics() {
		t.Errorf("metrics = %+v; want defaults", b.Metrics)
	}

	_, err = NewFromConfig(Config{Name: "b", Metrics: Metrics{UpwindRelative: 90, DownwindRelative: 60}})
	if !simerr.IsConfig(err) {
		t.Errorf("inconsistent metrics error = %v", err)
	}
	_, err = NewFromConfig(Config{Name: "b", Tactics: Tactics{UpwindChannel: &Channel{}}})
	if !simerr.IsConfig(err) {
		t.Errorf("empty channel error = %v", err)
	}
	if _, err := NewFromConfig(Config{}); !simerr.IsConfig(err) {
		t.Errorf("unnamed boat error = %v", err)
	}
}
