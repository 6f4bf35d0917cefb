package model

import (
	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/sim"
)

// Run asks for a scenario of the library to be simulated.
type Run struct {
	Scenario string `json:"scenario"`
	// Seconds caps the run, the scenario's own limit when zero.
	Seconds int     `json:"seconds"`
	Seed    *uint64 `json:"seed,omitempty"`
	// Tactics replaces the tactics of the named boats.
	Tactics map[string]boat.Tactics `json:"tactics,omitempty"`
}

type RunResult struct {
	ID       int          `json:"id"`
	Took     string       `json:"took"`
	Snapshot sim.Snapshot `json:"snapshot"`
}

type Flow struct {
	Angle int     `json:"angle"`
	Speed float64 `json:"speed"`
}

type Error struct {
	Error string `json:"error"`
}
