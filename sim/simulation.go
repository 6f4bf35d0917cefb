// Package sim advances a scenario one second at a time.
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/decision"
	"github.com/a-bouts/race-trainer/decisionlog"
	"github.com/a-bouts/race-trainer/scenario"
	"github.com/a-bouts/race-trainer/strategy"
)

var ErrFinished = errors.New("simulation finished")

// memorySize is the number of decision records kept for the API.
const memorySize = 100000

// Notifier is told when a race is over.
type Notifier interface {
	Send(message string) error
}

type Option func(*Simulation)

// WithSink also writes every decision record to sink.
func WithSink(sink decisionlog.Sink) Option {
	return func(s *Simulation) {
		s.sinks = append(s.sinks, sink)
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Simulation) {
		s.notifier = n
	}
}

// Result is a boat's finishing time.
type Result struct {
	Boat   string `json:"boat"`
	Second int    `json:"second"`
}

type BoatSnapshot struct {
	boat.State
	Leg      int               `json:"leg"`
	Decision decision.Decision `json:"decision"`
	Finished bool              `json:"finished"`
	Stopped  bool              `json:"stopped"`
}

type Snapshot struct {
	Scenario string         `json:"scenario"`
	Second   int            `json:"second"`
	Finished bool           `json:"finished"`
	Boats    []BoatSnapshot `json:"boats"`
	Results  []Result       `json:"results"`
}

type Simulation struct {
	lock       sync.RWMutex
	scenario   *scenario.Scenario
	strategies []*strategy.BoatStrategy
	second     int
	finished   bool
	results    []Result

	memory   *decisionlog.Memory
	sinks    []decisionlog.Sink
	sink     decisionlog.Sink
	notifier Notifier
}

func New(sc *scenario.Scenario, opts ...Option) (*Simulation, error) {
	s := &Simulation{scenario: sc, memory: decisionlog.NewMemory(memorySize)}
	for _, opt := range opts {
		opt(s)
	}
	s.sink = decisionlog.Multi(append([]decisionlog.Sink{s.memory}, s.sinks...)...)

	ctx := s.context()
	for _, b := range sc.Boats {
		st, err := strategy.New(ctx, b, sc.Course)
		if err != nil {
			return nil, err
		}
		s.strategies = append(s.strategies, st)
	}
	return s, nil
}

func (s *Simulation) context() strategy.SimulationContext {
	return strategy.SimulationContext{
		Second: s.second,
		Wind:   s.scenario.Wind,
		Water:  s.scenario.Water,
		Field:  s.scenario.Field,
	}
}

// Step advances the simulation by one second. Every boat decides against
// the same flows before any of them moves.
func (s *Simulation) Step(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.finished {
		return ErrFinished
	}

	s.second++
	s.scenario.Wind.TimerAdvance(s.second)
	s.scenario.Water.TimerAdvance(s.second)
	sc := s.context()

	decisions := make([]decision.Decision, len(s.strategies))
	eg, ctx := errgroup.WithContext(ctx)
	for i, st := range s.strategies {
		if st.Boat().Stopped() {
			continue
		}
		i, st := i, st
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := st.NextTimeInterval(sc)
			decisions[i] = d
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	records := make([]decisionlog.Record, 0, len(s.strategies))
	for i, st := range s.strategies {
		b := st.Boat()
		if b.Stopped() {
			continue
		}
		d := decisions[i]
		state := b.State()
		records = append(records, decisionlog.NewRecord(s.second, state, st.LegIndex(), d))

		if d.Importance == decision.Major {
			log.WithFields(log.Fields{
				"second": s.second,
				"boat":   b.Name,
				"leg":    st.LegIndex(),
			}).Debug(d)
		}

		wind, err := sc.Wind.Flow(state.Location)
		if err != nil {
			return fmt.Errorf("boat %s: %w", b.Name, err)
		}
		water, err := sc.Water.Flow(state.Location)
		if err != nil {
			return fmt.Errorf("boat %s: %w", b.Name, err)
		}

		if b.Move(d, wind, water) {
			st.LegCompleted()
			if st.Finished() {
				s.results = append(s.results, Result{Boat: b.Name, Second: s.second})
			}
		}
	}

	if err := s.sink.Append(records...); err != nil {
		log.WithError(err).Warn("Error logging decisions")
	}

	if s.allStopped() || (s.scenario.Seconds > 0 && s.second >= s.scenario.Seconds) {
		s.finish()
	}
	return nil
}

func (s *Simulation) allStopped() bool {
	for _, st := range s.strategies {
		if !st.Boat().Stopped() {
			return false
		}
	}
	return true
}

func (s *Simulation) finish() {
	s.finished = true

	summary := s.summary()
	log.WithFields(log.Fields{
		"scenario": s.scenario.Name,
		"second":   s.second,
	}).Info(summary)

	if s.notifier != nil {
		if err := s.notifier.Send(summary); err != nil {
			log.WithError(err).Warn("Error sending race summary")
		}
	}
}

func (s *Simulation) summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s finished after %ds", s.scenario.Name, s.second)
	for i, r := range s.results {
		fmt.Fprintf(&sb, "\n%d. %s %ds", i+1, r.Boat, r.Second)
	}
	if len(s.results) < len(s.strategies) {
		fmt.Fprintf(&sb, "\n%d did not finish", len(s.strategies)-len(s.results))
	}
	return sb.String()
}

// Advance runs up to n steps, stopping early once the race is over.
func (s *Simulation) Advance(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if s.Finished() {
			return nil
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) Finished() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.finished
}

func (s *Simulation) Second() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.second
}

func (s *Simulation) Scenario() *scenario.Scenario {
	return s.scenario
}

func (s *Simulation) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()

	snap := Snapshot{
		Scenario: s.scenario.Name,
		Second:   s.second,
		Finished: s.finished,
		Results:  append([]Result(nil), s.results...),
	}
	for _, st := range s.strategies {
		snap.Boats = append(snap.Boats, BoatSnapshot{
			State:    st.Boat().State(),
			Leg:      st.LegIndex(),
			Decision: st.Decision(),
			Finished: st.Finished(),
			Stopped:  st.Boat().Stopped(),
		})
	}
	return snap
}

// Decisions returns the latest decision records, optionally of one boat.
func (s *Simulation) Decisions(boat string) []decisionlog.Record {
	return s.memory.Records(boat)
}

// Close flushes the decision sinks.
func (s *Simulation) Close() error {
	return s.sink.Close()
}
