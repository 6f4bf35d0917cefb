package polar

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/race-trainer/angle"
)

//go:embed default.json
var defaultPolar []byte

// Polar is a boat speed table in knots, indexed by true wind angle (rows)
// and true wind speed (columns).
type Polar struct {
	Label            string      `json:"label"`
	GlobalSpeedRatio float64     `json:"globalSpeedRatio"`
	Tws              []float64   `json:"tws"`
	Twa              []float64   `json:"twa"`
	Speed            [][]float64 `json:"speed"`
}

var (
	defaultOnce sync.Once
	defaultBoat *Polar
)

// Default is the built in dinghy polar.
func Default() *Polar {
	defaultOnce.Do(func() {
		p, err := Parse(defaultPolar)
		if err != nil {
			log.WithError(err).Fatal("Invalid default polar")
		}
		defaultBoat = p
	})
	return defaultBoat
}

func Load(file string) (*Polar, error) {
	log.WithField("file", file).Debug("Load polar")

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("polar %s: %w", file, err)
	}
	return p, nil
}

func Parse(data []byte) (*Polar, error) {
	var p Polar
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.GlobalSpeedRatio == 0 {
		p.GlobalSpeedRatio = 1
	}
	if len(p.Tws) == 0 || len(p.Twa) == 0 {
		return nil, fmt.Errorf("polar %q has no tws or twa", p.Label)
	}
	if len(p.Speed) != len(p.Twa) {
		return nil, fmt.Errorf("polar %q has %d speed rows for %d twa", p.Label, len(p.Speed), len(p.Twa))
	}
	for i, row := range p.Speed {
		if len(row) != len(p.Tws) {
			return nil, fmt.Errorf("polar %q row %d has %d speeds for %d tws", p.Label, i, len(row), len(p.Tws))
		}
	}
	return &p, nil
}

func interpolationIndex(values []float64, value float64) (int, int, float64) {

	i := 0
	for values[i] < value {
		i++
		if i == len(values) {
			return i - 1, 0, 1
		}
	}

	if i > 0 {
		return i - 1, i, (values[i] - value) / (values[i] - values[i-1])
	}

	return 0, 0, 0
}

// GetBoatSpeed returns the boat speed in knots for a true wind angle and a
// true wind speed in knots.
func (p *Polar) GetBoatSpeed(twa angle.Angle, tws float64) float64 {
	t := float64(twa.Degrees())
	if t < 0 {
		t = -1 * t
	}

	twsIndex0, twsIndex1, twsFactor := interpolationIndex(p.Tws, tws)
	twaIndex0, twaIndex1, twaFactor := interpolationIndex(p.Twa, t)

	ti0 := p.Speed[twaIndex0]
	ti1 := p.Speed[twaIndex1]
	bs := (ti0[twsIndex0]*twsFactor+ti0[twsIndex1]*(1-twsFactor))*twaFactor + (ti1[twsIndex0]*twsFactor+ti1[twsIndex1]*(1-twsFactor))*(1-twaFactor)

	return bs * p.GlobalSpeedRatio
}
