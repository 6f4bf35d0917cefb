package flow

import (
	"errors"
	"fmt"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
	"github.com/a-bouts/race-trainer/vector"
)

// ErrOutsideArea is returned when no component covers the queried point.
var ErrOutsideArea = errors.New("location outside area")

const (
	TypeConstant = "constant"
	TypeGradient = "gradient"
	TypeComplex  = "complex"
	TypeTest     = "test"
	TypeGrid     = "grid"
)

// Component produces a flow inside its area.
type Component interface {
	Name() string
	Type() string
	ZLevel() int
	Area() location.Area
	Flow(l location.Location) (vector.SpeedPolar, error)
	// MeanAngle returns a fixed mean flow direction when the component
	// declares one.
	MeanAngle() (angle.Angle, bool)
}

type base struct {
	name   string
	kind   string
	zlevel int
	area   location.Area
}

func (b base) Name() string                   { return b.name }
func (b base) Type() string                   { return b.kind }
func (b base) ZLevel() int                    { return b.zlevel }
func (b base) Area() location.Area            { return b.area }
func (b base) MeanAngle() (angle.Angle, bool) { return angle.Zero, false }

func (b base) outside(l location.Location) error {
	return fmt.Errorf("%s %q at %v: %w", b.kind, b.name, l, ErrOutsideArea)
}

// ComponentConfig is the scenario description of one component. Only the
// fields of the selected type are read.
type ComponentConfig struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	ZLevel int           `json:"zlevel"`
	Area   location.Area `json:"area"`

	// constant, test
	Flow *vector.SpeedPolar `json:"flow,omitempty"`
	Mean *angle.Angle       `json:"mean,omitempty"`

	// gradient
	Gradient  string       `json:"gradient,omitempty"`
	Direction *angle.Angle `json:"direction,omitempty"`
	Speeds    []float64    `json:"speeds,omitempty"`

	// complex
	NorthWest *vector.SpeedPolar `json:"northwest,omitempty"`
	NorthEast *vector.SpeedPolar `json:"northeast,omitempty"`
	SouthWest *vector.SpeedPolar `json:"southwest,omitempty"`
	SouthEast *vector.SpeedPolar `json:"southeast,omitempty"`

	// grid
	File string `json:"file,omitempty"`
}

// NewComponent builds the component described by cfg. A degenerate area
// covers the whole field.
func NewComponent(cfg ComponentConfig, field location.Area) (Component, error) {
	if err := cfg.Area.Validate(); err != nil {
		return nil, simerr.Config("flow."+cfg.Name, "%v", err)
	}
	b := base{name: cfg.Name, kind: cfg.Type, zlevel: cfg.ZLevel, area: cfg.Area.OrDefault(field)}

	switch cfg.Type {
	case TypeConstant:
		if cfg.Flow == nil {
			return nil, simerr.Config("flow."+cfg.Name, "constant component needs a flow")
		}
		return &Constant{base: b, flow: *cfg.Flow}, nil
	case TypeTest:
		if cfg.Flow == nil {
			return nil, simerr.Config("flow."+cfg.Name, "test component needs a flow")
		}
		mean := cfg.Flow.Angle
		if cfg.Mean != nil {
			mean = *cfg.Mean
		}
		return &Test{base: b, flow: *cfg.Flow, mean: mean}, nil
	case TypeGradient:
		return newGradient(b, cfg)
	case TypeComplex:
		if cfg.NorthWest == nil || cfg.NorthEast == nil || cfg.SouthWest == nil || cfg.SouthEast == nil {
			return nil, simerr.Config("flow."+cfg.Name, "complex component needs four corner flows")
		}
		return &Complex{base: b, nw: *cfg.NorthWest, ne: *cfg.NorthEast, sw: *cfg.SouthWest, se: *cfg.SouthEast}, nil
	case TypeGrid:
		if cfg.File == "" {
			return nil, simerr.Config("flow."+cfg.Name, "grid component needs a file")
		}
		return LoadGrid(b, cfg.File)
	}

	return nil, simerr.Config("flow."+cfg.Name, "unsupported flow component type %q", cfg.Type)
}
