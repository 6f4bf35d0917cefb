package flow

import (
	"math"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
	"github.com/a-bouts/race-trainer/vector"
)

var gradients = map[string]angle.Angle{
	"north": angle.North,
	"south": angle.South,
	"east":  angle.East,
	"west":  angle.West,
}

// Gradient varies the flow speed linearly along a compass axis. Speeds are
// evenly spaced from the edge opposite the tag to the tagged edge.
type Gradient struct {
	base
	tag       string
	direction angle.Angle
	speeds    []float64
}

func NewGradient(name string, zlevel int, area location.Area, tag string, direction angle.Angle, speeds []float64) (*Gradient, error) {
	return newGradient(base{name: name, kind: TypeGradient, zlevel: zlevel, area: area}, ComponentConfig{
		Name:      name,
		Gradient:  tag,
		Direction: &direction,
		Speeds:    speeds,
	})
}

func newGradient(b base, cfg ComponentConfig) (*Gradient, error) {
	tagAngle, ok := gradients[cfg.Gradient]
	if !ok {
		return nil, simerr.Config("flow."+cfg.Name, "unknown gradient %q", cfg.Gradient)
	}
	if len(cfg.Speeds) == 0 {
		return nil, simerr.Config("flow."+cfg.Name, "gradient component needs at least one speed")
	}
	g := &Gradient{base: b, tag: cfg.Gradient, direction: tagAngle, speeds: cfg.Speeds}
	if cfg.Direction != nil {
		g.direction = *cfg.Direction
	}
	return g, nil
}

// position is how far l lies along the gradient axis, 0 to 1.
func (g *Gradient) position(l location.Location) float64 {
	fx, fy := g.area.Fraction(l)
	switch g.tag {
	case "north":
		return fy
	case "south":
		return 1 - fy
	case "east":
		return fx
	default:
		return 1 - fx
	}
}

func (g *Gradient) speedAt(p float64) float64 {
	if len(g.speeds) == 1 {
		return g.speeds[0]
	}
	p = math.Max(0, math.Min(1, p))
	x := p * float64(len(g.speeds)-1)
	i := int(math.Floor(x))
	if i >= len(g.speeds)-1 {
		return g.speeds[len(g.speeds)-1]
	}
	f := x - float64(i)
	return g.speeds[i]*(1-f) + g.speeds[i+1]*f
}

func (g *Gradient) Flow(l location.Location) (vector.SpeedPolar, error) {
	if !g.area.Contains(l) {
		return vector.SpeedPolar{}, g.outside(l)
	}
	return vector.Speed(g.speedAt(g.position(l)), g.direction), nil
}
