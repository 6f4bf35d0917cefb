package flow

import (
	"math"
	"sync"

	"github.com/MichaelTJones/pcg"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/vector"
)

// randomShiftChance is the per tick probability, in percent, that a random
// shift takes effect.
const randomShiftChance = 2

// ShiftConfig describes the angular perturbation laid over the base flow.
type ShiftConfig struct {
	SwingAngle   angle.Angle `json:"swingangle"`
	SwingPeriod  int         `json:"swingperiod"`
	ShiftAngle   angle.Angle `json:"shiftangle"`
	ShiftPeriod  int         `json:"shiftperiod"`
	RandomShifts bool        `json:"randomshifts"`
}

// Snapshot is the read side of a flow field seen by decision code.
type Snapshot interface {
	Flow(l location.Location) (vector.SpeedPolar, error)
	MeanAngle() angle.Angle
}

type cell struct {
	x, y int64
}

// Field is a fluid over the field of play: a component set with a swing and
// shift model advanced once per simulated second.
type Field struct {
	name  string
	set   *ComponentSet
	cfg   ShiftConfig
	field location.Area
	mean  angle.Angle

	lock   sync.RWMutex
	rand   *pcg.PCG32
	second int
	swing  float64
	shift  angle.Angle

	cache      *lru.Cache[cell, vector.SpeedPolar]
	resolution float64
}

type Option func(*Field) error

func WithSeed(seed uint64) Option {
	return func(f *Field) error {
		f.rand.Seed(seed, 0xda3e39cb94b95bdb)
		return nil
	}
}

// WithCache keeps up to size base flow lookups, with points snapped to a
// grid of the given resolution in metres.
func WithCache(size int, resolution float64) Option {
	return func(f *Field) error {
		if size <= 0 || resolution <= 0 {
			return nil
		}
		c, err := lru.New[cell, vector.SpeedPolar](size)
		if err != nil {
			return err
		}
		f.cache = c
		f.resolution = resolution
		return nil
	}
}

func NewField(name string, set *ComponentSet, cfg ShiftConfig, field location.Area, opts ...Option) (*Field, error) {
	f := &Field{
		name:  name,
		set:   set,
		cfg:   cfg,
		field: field,
		rand:  pcg.NewPCG32(),
	}
	f.rand.Seed(1, 0xda3e39cb94b95bdb)
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	mean, err := set.MeanAngle(field)
	if err != nil {
		return nil, err
	}
	f.mean = mean

	log.WithFields(log.Fields{
		"flow":       name,
		"components": len(set.Components()),
		"mean":       mean,
	}).Debug("Flow field ready")

	return f, nil
}

func (f *Field) Name() string {
	return f.name
}

func (f *Field) Components() *ComponentSet {
	return f.set
}

func (f *Field) Config() ShiftConfig {
	return f.cfg
}

// MeanAngle is computed from the base flow and does not move with swing or
// shift.
func (f *Field) MeanAngle() angle.Angle {
	return f.mean
}

func (f *Field) Second() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.second
}

func (f *Field) Swing() float64 {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.swing
}

func (f *Field) Shift() angle.Angle {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.shift
}

func shiftForPhase(phase int, shiftAngle angle.Angle) angle.Angle {
	switch phase {
	case 1:
		return shiftAngle.Negate()
	case 3:
		return shiftAngle
	}
	return angle.Zero
}

func (f *Field) randomPhase() int {
	if f.cfg.ShiftPeriod <= 0 {
		return int(f.rand.Bounded(4))
	}
	sample := int(f.rand.Bounded(uint32(f.cfg.ShiftPeriod)))
	return sample * 4 / f.cfg.ShiftPeriod
}

// TimerAdvance moves the swing and shift to the given simulation second.
func (f *Field) TimerAdvance(second int) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.second = second

	if p := f.cfg.SwingPeriod; p > 0 {
		f.swing = float64(f.cfg.SwingAngle) * math.Sin(2*math.Pi*float64(second%p)/float64(p))
	} else {
		f.swing = 0
	}

	if f.cfg.RandomShifts {
		if f.rand.Bounded(100) < randomShiftChance {
			f.shift = shiftForPhase(f.randomPhase(), f.cfg.ShiftAngle)
		}
	} else if p := f.cfg.ShiftPeriod; p > 0 {
		f.shift = shiftForPhase((second%p)*4/p, f.cfg.ShiftAngle)
	}
}

func (f *Field) base(l location.Location) (vector.SpeedPolar, error) {
	if f.cache == nil {
		return f.set.Resolve(l)
	}

	k := cell{x: int64(math.Round(l.X / f.resolution)), y: int64(math.Round(l.Y / f.resolution))}
	if v, ok := f.cache.Get(k); ok {
		return v, nil
	}
	v, err := f.set.Resolve(location.Location{X: float64(k.x) * f.resolution, Y: float64(k.y) * f.resolution})
	if err != nil {
		// the snapped point fell off an edge
		return f.set.Resolve(l)
	}
	f.cache.Add(k, v)
	return v, nil
}

// BaseFlow is the flow without swing or shift.
func (f *Field) BaseFlow(l location.Location) (vector.SpeedPolar, error) {
	return f.base(l)
}

func (f *Field) Flow(l location.Location) (vector.SpeedPolar, error) {
	b, err := f.base(l)
	if err != nil {
		return b, err
	}

	f.lock.RLock()
	defer f.lock.RUnlock()

	a := b.Angle
	if f.cfg.SwingPeriod > 0 {
		a = a.AddFloat(f.swing)
	}
	if f.cfg.ShiftPeriod > 0 || f.cfg.RandomShifts {
		a = a.Add(f.shift)
	}
	return vector.Speed(b.Magnitude, a), nil
}
