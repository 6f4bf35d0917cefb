package course

import (
	"sync"

	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
)

// MarkRounding is one entry of the course order: which mark and on which
// side it is left.
type MarkRounding struct {
	Mark         string `json:"mark"`
	PortRounding bool   `json:"portrounding"`
}

// Course chains legs from the start through the ordered roundings. Edits to
// the start or to a mark rebuild the legs and notify listeners.
type Course struct {
	lock      sync.RWMutex
	start     location.Location
	marks     []*Mark
	roundings []MarkRounding
	legs      []*Leg
	listeners []func(*Course)
}

func New(start location.Location, marks []Mark, roundings []MarkRounding) (*Course, error) {
	c := &Course{start: start, roundings: roundings}
	for i := range marks {
		m := marks[i]
		c.marks = append(c.marks, &m)
	}
	if err := c.Recompute(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Course) mark(name string) *Mark {
	for _, m := range c.marks {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Recompute rebuilds the legs from the current marks.
func (c *Course) Recompute() error {
	c.lock.Lock()
	if len(c.roundings) == 0 {
		c.lock.Unlock()
		return simerr.Config("course.legs", "a course needs at least one leg")
	}

	legs := make([]*Leg, 0, len(c.roundings))
	from := c.start
	for i, r := range c.roundings {
		m := c.mark(r.Mark)
		if m == nil {
			c.lock.Unlock()
			return simerr.Config("course.legs", "leg %d references unknown mark %q", i+1, r.Mark)
		}
		leg := &Leg{StartFrom: from, EndAt: m.Location, Mark: m, PortRounding: r.PortRounding}
		if len(legs) > 0 {
			legs[len(legs)-1].next = leg
		}
		legs = append(legs, leg)
		from = m.Location
	}
	c.legs = legs
	listeners := c.listeners
	c.lock.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
	return nil
}

// OnChange registers fn to be called after every recompute.
func (c *Course) OnChange(fn func(*Course)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Course) SetStart(l location.Location) error {
	c.lock.Lock()
	c.start = l
	c.lock.Unlock()
	return c.Recompute()
}

func (c *Course) SetMark(name string, l location.Location) error {
	c.lock.Lock()
	m := c.mark(name)
	if m == nil {
		c.lock.Unlock()
		return simerr.Config("course.marks", "unknown mark %q", name)
	}
	m.Location = l
	c.lock.Unlock()
	return c.Recompute()
}

func (c *Course) Start() location.Location {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.start
}

func (c *Course) Mark(name string) (Mark, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if m := c.mark(name); m != nil {
		return *m, true
	}
	return Mark{}, false
}

func (c *Course) Marks() []Mark {
	c.lock.RLock()
	defer c.lock.RUnlock()
	marks := make([]Mark, len(c.marks))
	for i, m := range c.marks {
		marks[i] = *m
	}
	return marks
}

func (c *Course) Legs() []*Leg {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.legs
}

func (c *Course) leg(i int) *Leg {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if i < 0 || i >= len(c.legs) {
		return nil
	}
	return c.legs[i]
}

func (c *Course) FirstLeg() *Leg {
	return c.leg(0)
}

// CurrentLeg returns a cursor on the first leg.
func (c *Course) CurrentLeg() *CurrentLeg {
	return &CurrentLeg{course: c}
}

// CurrentLeg is a boat's position in the course. It reads the legs through
// the course so it follows recomputes.
type CurrentLeg struct {
	course *Course
	index  int
}

func (cl *CurrentLeg) Index() int {
	return cl.index
}

func (cl *CurrentLeg) Leg() *Leg {
	return cl.course.leg(cl.index)
}

func (cl *CurrentLeg) HasFollowingLeg() bool {
	return cl.course.leg(cl.index+1) != nil
}

func (cl *CurrentLeg) FollowingLeg() *Leg {
	return cl.course.leg(cl.index + 1)
}

// ToFollowingLeg advances to the next leg if there is one.
func (cl *CurrentLeg) ToFollowingLeg() bool {
	if !cl.HasFollowingLeg() {
		return false
	}
	cl.index++
	return true
}
