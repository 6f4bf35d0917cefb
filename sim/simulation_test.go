package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/course"
	"github.com/a-bouts/race-trainer/decision"
	"github.com/a-bouts/race-trainer/decisionlog"
	"github.com/a-bouts/race-trainer/flow"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/scenario"
	"github.com/a-bouts/race-trainer/vector"
)

type notifications struct {
	lock     sync.Mutex
	messages []string
}

func (n *notifications) Send(message string) error {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

// reach is a single reaching leg to the east in a northerly.
func reach(boats ...string) scenario.Config {
	breeze := vector.Speed(10, 0)
	cfg := scenario.Config{
		Name:  "reach",
		Field: location.NewArea(-200, -200, 600, 400),
		Wind: scenario.FlowConfig{Components: []flow.ComponentConfig{
			{Name: "breeze", Type: flow.TypeConstant, Flow: &breeze},
		}},
		Start: location.Location{X: 0, Y: 0},
		Marks: []course.Mark{{Name: "finish", Location: location.Location{X: 200, Y: 0}}},
		Legs:  []course.MarkRounding{{Mark: "finish", PortRounding: true}},
		Seed:  7,
	}
	for i, name := range boats {
		cfg.Boats = append(cfg.Boats, boat.Config{
			Name:     name,
			Location: location.Location{X: 0, Y: float64(-10 * i)},
			Heading:  90,
		})
	}
	return cfg
}

func newSimulation(t *testing.T, cfg scenario.Config, opts ...Option) *Simulation {
	t.Helper()
	sc, err := cfg.Build()
	require.NoError(t, err)
	s, err := New(sc, opts...)
	require.NoError(t, err)
	return s
}

func TestStep(t *testing.T) {
	s := newSimulation(t, reach("blue"))

	require.NoError(t, s.Step(context.Background()))
	assert.Equal(t, 1, s.Second())

	snap := s.Snapshot()
	require.Len(t, snap.Boats, 1)
	b := snap.Boats[0]
	assert.Equal(t, decision.Turn, b.Decision.Action)
	assert.Greater(t, b.Location.X, 2.0)
	assert.Greater(t, b.Speed, 5.0)

	records := s.Decisions("blue")
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Second)
	assert.Equal(t, "TURN", records[0].Action)
	// the record holds the state the decision was taken in
	assert.Equal(t, 0.0, records[0].X)
}

func TestRaceToTheFinish(t *testing.T) {
	n := &notifications{}
	mem := decisionlog.NewMemory(0)
	s := newSimulation(t, reach("blue", "red"), WithNotifier(n), WithSink(mem))

	require.NoError(t, RunFor(context.Background(), s, 600))
	require.True(t, s.Finished())

	snap := s.Snapshot()
	require.Len(t, snap.Results, 2)
	for _, b := range snap.Boats {
		assert.True(t, b.Finished, b.Name)
		assert.True(t, b.Stopped, b.Name)
		assert.Greater(t, b.Location.X, 200.0, b.Name)
	}

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "reach finished")
	assert.Contains(t, n.messages[0], "1. ")

	var roundings int
	for _, r := range mem.Records("blue") {
		if r.Action == decision.MarkRounding.String() {
			roundings++
		}
	}
	assert.Equal(t, 1, roundings)
	assert.ErrorIs(t, s.Step(context.Background()), ErrFinished)
	require.NoError(t, s.Close())
}

func TestSecondsLimit(t *testing.T) {
	cfg := reach("blue")
	cfg.Seconds = 10
	s := newSimulation(t, cfg)

	require.NoError(t, RunFor(context.Background(), s, 0))
	assert.True(t, s.Finished())
	assert.Equal(t, 10, s.Second())
	assert.Empty(t, s.Snapshot().Results)
}

func TestOutsideTheWind(t *testing.T) {
	cfg := reach("blue")
	cfg.Boats[0].Location = location.Location{X: 0, Y: 1000}
	s := newSimulation(t, cfg)

	err := s.Step(context.Background())
	assert.True(t, errors.Is(err, flow.ErrOutsideArea), "Step() = %v", err)
}

func TestUnsupportedCourse(t *testing.T) {
	cfg := reach("blue")
	cfg.Marks = []course.Mark{
		{Name: "one", Location: location.Location{X: 0, Y: 100}},
		{Name: "two", Location: location.Location{X: 0, Y: 190}},
	}
	cfg.Legs = []course.MarkRounding{{Mark: "one", PortRounding: true}, {Mark: "two", PortRounding: true}}
	sc, err := cfg.Build()
	require.NoError(t, err)

	_, err = New(sc)
	assert.Error(t, err)
}

func TestRunner(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSimulation(t, reach("blue"))
	var displays []int
	r := &Runner{
		Simulation:        s,
		SpeedUp:           2000,
		SecondsPerDisplay: 20,
		Display: func(snap Snapshot) {
			displays = append(displays, snap.Second)
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	assert.True(t, s.Finished())
	require.NotEmpty(t, displays)
	assert.Equal(t, 20, displays[0])
}

func TestRunnerHighSpeedUp(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &Runner{Simulation: newSimulation(t, reach("blue")), SpeedUp: 20000, SecondsPerDisplay: 10}
	assert.Equal(t, 500*time.Microsecond, r.interval())

	r.SpeedUp = 1e9
	assert.Equal(t, minInterval, r.interval())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	assert.True(t, r.Simulation.Finished())
}

func TestRunnerCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newSimulation(t, reach("blue"))
	r := &Runner{Simulation: s, SpeedUp: 1, SecondsPerDisplay: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
	assert.Equal(t, 0, s.Second())
}

func TestWindShiftsAreReproducible(t *testing.T) {
	cfg := reach("blue")
	cfg.Wind.ShiftAngle = angle.New(10)
	cfg.Wind.RandomShifts = true

	run := func() []int {
		s := newSimulation(t, cfg)
		require.NoError(t, s.Advance(context.Background(), 30))
		var headings []int
		for _, r := range s.Decisions("blue") {
			headings = append(headings, r.Heading)
		}
		return headings
	}
	assert.Equal(t, run(), run())
}
