// Package scenario loads race set ups from JSON and builds the live objects
// a simulation runs on.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/course"
	"github.com/a-bouts/race-trainer/flow"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
	"github.com/a-bouts/race-trainer/vector"
)

// FlowConfig describes the wind or the water of a scenario.
type FlowConfig struct {
	Components []flow.ComponentConfig `json:"components"`
	flow.ShiftConfig
	CacheSize       int     `json:"cachesize,omitempty"`
	CacheResolution float64 `json:"cacheresolution,omitempty"`
}

type Config struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Field       location.Area         `json:"field"`
	SailingArea location.Area         `json:"sailingarea"`
	Wind        FlowConfig            `json:"wind"`
	Water       FlowConfig            `json:"water"`
	Start       location.Location     `json:"start"`
	Marks       []course.Mark         `json:"marks"`
	Legs        []course.MarkRounding `json:"legs"`
	Boats       []boat.Config         `json:"boats"`
	// Seed drives the random wind shifts. Water uses Seed+1.
	Seed uint64 `json:"seed"`
	// Seconds caps the length of a run, unlimited when zero.
	Seconds int `json:"seconds,omitempty"`
}

// Scenario is a built configuration, ready to be simulated.
type Scenario struct {
	Name        string
	Field       location.Area
	SailingArea location.Area
	Wind        *flow.Field
	Water       *flow.Field
	Course      *course.Course
	Boats       []*boat.Boat
	Seconds     int
}

func Load(file string) (Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", file, err)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Name == "" {
		return Config{}, simerr.Config("name", "a scenario needs a name")
	}
	return cfg, nil
}

func buildFlow(name string, cfg FlowConfig, field location.Area, seed uint64) (*flow.Field, error) {
	set := flow.NewComponentSet()
	for _, cc := range cfg.Components {
		c, err := flow.NewComponent(cc, field)
		if err != nil {
			return nil, err
		}
		set.Add(c)
	}
	return flow.NewField(name, set, cfg.ShiftConfig, field,
		flow.WithSeed(seed),
		flow.WithCache(cfg.CacheSize, cfg.CacheResolution))
}

// Build creates the flows, the course and the boats. Every call returns new
// objects, so a config can be run any number of times.
func (cfg Config) Build() (*Scenario, error) {
	if err := cfg.Field.Validate(); err != nil {
		return nil, simerr.Config("field", "%v", err)
	}
	if cfg.Field.IsDegenerate() {
		return nil, simerr.Config("field", "the field of play has no extent")
	}
	if len(cfg.Wind.Components) == 0 {
		return nil, simerr.Config("wind.components", "the wind needs at least one component")
	}

	wind, err := buildFlow("wind", cfg.Wind, cfg.Field, cfg.Seed)
	if err != nil {
		return nil, err
	}

	waterCfg := cfg.Water
	if len(waterCfg.Components) == 0 {
		still := vector.Speed(0, 0)
		waterCfg.Components = []flow.ComponentConfig{{Name: "still", Type: flow.TypeConstant, Flow: &still}}
	}
	water, err := buildFlow("water", waterCfg, cfg.Field, cfg.Seed+1)
	if err != nil {
		return nil, err
	}

	c, err := course.New(cfg.Start, cfg.Marks, cfg.Legs)
	if err != nil {
		return nil, err
	}

	if len(cfg.Boats) == 0 {
		return nil, simerr.Config("boats", "a scenario needs at least one boat")
	}
	names := make(map[string]bool)
	var boats []*boat.Boat
	for _, bc := range cfg.Boats {
		if names[bc.Name] {
			return nil, simerr.Config("boats."+bc.Name, "duplicate boat name")
		}
		names[bc.Name] = true

		b, err := boat.NewFromConfig(bc)
		if err != nil {
			return nil, err
		}
		boats = append(boats, b)
	}

	log.WithFields(log.Fields{
		"scenario": cfg.Name,
		"legs":     len(c.Legs()),
		"boats":    len(boats),
		"meanwind": wind.MeanAngle(),
	}).Info("Scenario built")

	return &Scenario{
		Name:        cfg.Name,
		Field:       cfg.Field,
		SailingArea: cfg.SailingArea.OrDefault(cfg.Field),
		Wind:        wind,
		Water:       water,
		Course:      c,
		Boats:       boats,
		Seconds:     cfg.Seconds,
	}, nil
}
