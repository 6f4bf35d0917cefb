package boat

import (
	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/polar"
	"github.com/a-bouts/race-trainer/simerr"
)

// Config is the scenario description of a boat.
type Config struct {
	Name     string            `json:"name"`
	Location location.Location `json:"location"`
	Heading  angle.Angle       `json:"heading"`
	Metrics  Metrics           `json:"metrics"`
	Tactics  Tactics           `json:"tactics"`
	// Polar is a polar file, the built in dinghy when empty.
	Polar string `json:"polar,omitempty"`
}

func NewFromConfig(cfg Config) (*Boat, error) {
	if cfg.Name == "" {
		return nil, simerr.Config("boats", "a boat needs a name")
	}
	m := cfg.Metrics.WithDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for _, ch := range []*Channel{cfg.Tactics.UpwindChannel, cfg.Tactics.DownwindChannel} {
		if ch != nil && ch.Width <= 0 {
			return nil, simerr.Config("boats."+cfg.Name, "channel width must be positive")
		}
	}

	p := polar.Default()
	if cfg.Polar != "" {
		var err error
		if p, err = polar.Load(cfg.Polar); err != nil {
			return nil, simerr.Config("boats."+cfg.Name, "%v", err)
		}
	}
	return New(cfg.Name, cfg.Location, cfg.Heading, m, cfg.Tactics, p), nil
}
