package strategy

import (
	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/flow"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/vector"
)

// SimulationContext is the state of one simulated second, shared read only
// by every boat's decision.
type SimulationContext struct {
	Second int
	Wind   flow.Snapshot
	Water  flow.Snapshot
	Field  location.Area
}

// FlowSnapshot is the wind a boat sails in this second.
type FlowSnapshot struct {
	Wind     vector.SpeedPolar
	MeanWind angle.Angle
}
