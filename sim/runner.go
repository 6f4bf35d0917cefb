package sim

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Runner paces a simulation against the wall clock.
type Runner struct {
	Simulation *Simulation
	// SpeedUp is simulated seconds per real second.
	SpeedUp float64
	// SecondsPerDisplay is the number of steps between two displays.
	SecondsPerDisplay int
	Display           func(Snapshot)
}

// minInterval bounds the ticker period at high speed ups.
const minInterval = 100 * time.Microsecond

func (r *Runner) interval() time.Duration {
	speedUp := r.SpeedUp
	if speedUp <= 0 {
		speedUp = 1
	}
	d := time.Duration(float64(r.SecondsPerDisplay) * float64(time.Second) / speedUp)
	if d < minInterval {
		return minInterval
	}
	return d
}

// Run advances the simulation on every tick until it finishes or ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.SecondsPerDisplay <= 0 {
		r.SecondsPerDisplay = 1
	}
	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()

	log.WithFields(log.Fields{
		"scenario": r.Simulation.Scenario().Name,
		"interval": r.interval(),
		"steps":    r.SecondsPerDisplay,
	}).Info("Running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Simulation.Advance(ctx, r.SecondsPerDisplay); err != nil {
				return err
			}
			if r.Display != nil {
				r.Display(r.Simulation.Snapshot())
			}
			if r.Simulation.Finished() {
				return nil
			}
		}
	}
}

// RunFor runs the simulation unpaced for at most seconds steps, or until the
// race is over when seconds is zero.
func RunFor(ctx context.Context, s *Simulation, seconds int) error {
	for seconds <= 0 || s.Second() < seconds {
		if s.Finished() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
