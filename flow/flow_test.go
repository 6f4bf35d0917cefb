package flow

import (
	"errors"
	"math"
	"testing"

	"github.com/a-bouts/race-trainer/angle"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
	"github.com/a-bouts/race-trainer/vector"
)

var field = location.NewArea(-1000, -1000, 2000, 2000)

func speed(knots float64, deg int) vector.SpeedPolar {
	return vector.Speed(knots, angle.New(deg))
}

func TestZLevelPrecedence(t *testing.T) {
	low := NewConstant("low", 0, field, speed(10, 0))
	high := NewConstant("high", 5, location.NewArea(0, 0, 100, 100), speed(4, 90))
	p := location.Location{X: 50, Y: 50}

	for _, set := range []*ComponentSet{NewComponentSet(low, high), NewComponentSet(high, low)} {
		f, err := set.Resolve(p)
		if err != nil {
			t.Fatalf("Resolve(%v) error %v", p, err)
		}
		if f.Magnitude != 4 || f.Angle != 90 {
			t.Errorf("Resolve(%v) = %v; want the high zlevel flow", p, f)
		}
	}

	f, _ := NewComponentSet(high, low).Resolve(location.Location{X: 500, Y: 500})
	if f.Magnitude != 10 {
		t.Errorf("Resolve outside the high zone = %v; want the low flow", f)
	}
}

func TestOutsideArea(t *testing.T) {
	set := NewComponentSet(NewConstant("c", 0, location.NewArea(0, 0, 10, 10), speed(10, 0)))
	if _, err := set.Resolve(location.Location{X: 20, Y: 20}); !errors.Is(err, ErrOutsideArea) {
		t.Errorf("Resolve outside error = %v; want ErrOutsideArea", err)
	}
}

func TestComplexIdempotence(t *testing.T) {
	corner := speed(12, 135)
	c := NewComplex("c", 0, field, corner, corner, corner, corner)
	for _, p := range field.Grid(7) {
		f, err := c.Flow(p)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(f.Magnitude-corner.Magnitude) > 1e-9 || f.Angle != corner.Angle {
			t.Fatalf("Flow(%v) = %v; want %v", p, f, corner)
		}
	}
}

func TestComplexBlend(t *testing.T) {
	a := location.NewArea(0, 0, 100, 100)
	c := NewComplex("c", 0, a, speed(10, 0), speed(10, 0), speed(20, 0), speed(20, 0))

	f, _ := c.Flow(location.Location{X: 50, Y: 50})
	if math.Abs(f.Magnitude-15) > 1e-9 || f.Angle != 0 {
		t.Errorf("centre flow = %v; want (15,0)", f)
	}
	f, _ = c.Flow(location.Location{X: 0, Y: 100})
	if math.Abs(f.Magnitude-10) > 1e-9 {
		t.Errorf("north west flow = %v; want 10", f)
	}
}

func TestGradient(t *testing.T) {
	a := location.NewArea(0, 0, 100, 100)
	g, err := NewGradient("g", 0, a, "north", angle.New(0), []float64{4, 8, 16})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		y    float64
		want float64
	}{
		{0, 4},
		{25, 6},
		{50, 8},
		{75, 12},
		{100, 16},
	}
	for _, tt := range tests {
		f, _ := g.Flow(location.Location{X: 10, Y: tt.y})
		if math.Abs(f.Magnitude-tt.want) > 1e-9 || f.Angle != 0 {
			t.Errorf("gradient at y=%v = %v; want %v", tt.y, f, tt.want)
		}
	}

	w, _ := newGradient(base{area: a}, ComponentConfig{Gradient: "west", Speeds: []float64{2, 6}})
	f, _ := w.Flow(location.Location{X: 0, Y: 50})
	if f.Magnitude != 6 || f.Angle != -90 {
		t.Errorf("west gradient at west edge = %v; want (6,-90)", f)
	}
}

func TestNewComponent(t *testing.T) {
	flow := speed(10, 20)
	c, err := NewComponent(ComponentConfig{Name: "wind", Type: TypeConstant, Flow: &flow}, field)
	if err != nil {
		t.Fatal(err)
	}
	if c.Area() != field {
		t.Errorf("degenerate area should default to the field, got %v", c.Area())
	}

	if _, err := NewComponent(ComponentConfig{Name: "x", Type: "vortex"}, field); !simerr.IsConfig(err) {
		t.Errorf("unsupported type error = %v; want a configuration error", err)
	}
	if _, err := NewComponent(ComponentConfig{Name: "x", Type: TypeGradient, Gradient: "up"}, field); !simerr.IsConfig(err) {
		t.Errorf("bad gradient error = %v; want a configuration error", err)
	}

	mean := angle.New(-10)
	c, _ = NewComponent(ComponentConfig{Name: "t", Type: TypeTest, Flow: &flow, Mean: &mean}, field)
	if m, ok := c.MeanAngle(); !ok || m != -10 {
		t.Errorf("test component mean = (%v, %t); want (-10, true)", m, ok)
	}
}

func TestGrid(t *testing.T) {
	// wind blowing towards the north east, from the south west
	u := [][]float64{{1, 1}, {1, 1}}
	v := [][]float64{{1, 1}, {1, 1}}
	g, err := NewGrid("g", 0, field, u, v)
	if err != nil {
		t.Fatal(err)
	}
	f, err := g.Flow(location.Location{X: 10, Y: -300})
	if err != nil {
		t.Fatal(err)
	}
	if f.Angle != -135 || math.Abs(f.Magnitude-math.Sqrt2) > 1e-9 {
		t.Errorf("grid flow = %v; want (1.41,-135)", f)
	}

	if _, err := NewGrid("bad", 0, field, u, [][]float64{{1}}); !simerr.IsConfig(err) {
		t.Errorf("mismatched grid error = %v; want a configuration error", err)
	}
}

func TestGridInterpolation(t *testing.T) {
	// u grows from west to east, v from north to south
	u := [][]float64{{0, 2}, {0, 2}}
	v := [][]float64{{0, 0}, {4, 4}}
	g, err := NewGrid("g", 0, field, u, v)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		l     location.Location
		knots float64
		from  angle.Angle
	}{
		{field.NorthEast(), 2, -90},
		{field.SouthWest(), 4, 180},
		{field.Center(), math.Sqrt(5), -153},
		{location.Location{X: 500, Y: 500}, math.Sqrt(3.25), -124},
	}
	for _, tt := range tests {
		f, err := g.Flow(tt.l)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(f.Magnitude-tt.knots) > 1e-9 || f.Angle != tt.from {
			t.Errorf("grid flow at %v = %v; want (%.2f,%v)", tt.l, f, tt.knots, tt.from)
		}
	}
}

func TestLoadGrid(t *testing.T) {
	// global 1 degree GFS 10 m wind, north to south rows
	c, err := NewComponent(ComponentConfig{Name: "gfs", Type: TypeGrid, File: "testdata/gfs-10m.grib2"}, field)
	if err != nil {
		t.Fatal(err)
	}
	g := c.(*Grid)
	if len(g.U) != 181 || len(g.U[0]) != 360 || len(g.V) != 181 {
		t.Fatalf("grid = %v; want 360x181", g)
	}
	if math.Abs(g.U[0][0]-1.18876*knotsPerMetreSecond) > 1e-3 || math.Abs(g.U[0][1]-1.16876*knotsPerMetreSecond) > 1e-3 {
		t.Errorf("u[0][0:2] = %v; want the first two grib values in knots", g.U[0][:2])
	}
	if math.Abs(g.V[0][0]+1.28446*knotsPerMetreSecond) > 1e-3 {
		t.Errorf("v[0][0] = %v; want the first grib value in knots", g.V[0][0])
	}
	if _, err := g.Flow(field.Center()); err != nil {
		t.Errorf("Flow() error %v", err)
	}

	if _, err := NewComponent(ComponentConfig{Name: "none", Type: TypeGrid, File: "testdata/missing.grib2"}, field); !simerr.IsConfig(err) {
		t.Errorf("missing grib error = %v; want a configuration error", err)
	}
}

func TestMeanAngle(t *testing.T) {
	set := NewComponentSet(
		NewConstant("west half", 0, location.NewArea(-1000, -1000, 1000, 2000), speed(10, 170)),
		NewConstant("east half", 0, location.NewArea(0, -1000, 1000, 2000), speed(10, -170)),
	)
	m, err := set.MeanAngle(field)
	if err != nil {
		t.Fatal(err)
	}
	if m != 180 {
		t.Errorf("MeanAngle = %v; want 180", m)
	}

	flow := speed(10, 0)
	set.Add(NewTest("test", 0, field, flow, angle.New(7)))
	if m, _ := set.MeanAngle(field); m != 7 {
		t.Errorf("MeanAngle with override = %v; want 7", m)
	}
}

func TestSwing(t *testing.T) {
	set := NewComponentSet(NewConstant("c", 0, field, speed(10, 0)))
	f, err := NewField("wind", set, ShiftConfig{SwingAngle: angle.New(10), SwingPeriod: 40}, field)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		second int
		want   angle.Angle
	}{
		{0, 0},
		{10, 10},
		{20, 0},
		{30, -10},
		{50, 10},
	}
	for _, tt := range tests {
		f.TimerAdvance(tt.second)
		w, _ := f.Flow(location.Location{})
		if w.Angle != tt.want {
			t.Errorf("swing at %ds = %v; want %v", tt.second, w.Angle, tt.want)
		}
	}
	if f.MeanAngle() != 0 {
		t.Errorf("mean should ignore the swing, got %v", f.MeanAngle())
	}
}

func TestShift(t *testing.T) {
	set := NewComponentSet(NewConstant("c", 0, field, speed(10, 0)))
	f, _ := NewField("wind", set, ShiftConfig{ShiftAngle: angle.New(5), ShiftPeriod: 100}, field)

	tests := []struct {
		second int
		want   angle.Angle
	}{
		{0, 0},
		{24, 0},
		{25, -5},
		{49, -5},
		{50, 0},
		{75, 5},
		{99, 5},
		{100, 0},
	}
	for _, tt := range tests {
		f.TimerAdvance(tt.second)
		w, _ := f.Flow(location.Location{})
		if w.Angle != tt.want {
			t.Errorf("shift at %ds = %v; want %v", tt.second, w.Angle, tt.want)
		}
	}
}

func TestRandomShiftsAreSeeded(t *testing.T) {
	run := func() []angle.Angle {
		set := NewComponentSet(NewConstant("c", 0, field, speed(10, 0)))
		f, _ := NewField("wind", set, ShiftConfig{ShiftAngle: angle.New(8), ShiftPeriod: 60, RandomShifts: true}, field, WithSeed(42))
		var out []angle.Angle
		for s := 1; s <= 2000; s++ {
			f.TimerAdvance(s)
			out = append(out, f.Shift())
		}
		return out
	}

	a, b := run(), run()
	changed := false
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded runs diverge at %d: %v != %v", i, a[i], b[i])
		}
		if a[i] != 0 && a[i] != 8 && a[i] != -8 {
			t.Fatalf("shift %v is not one of the four phases", a[i])
		}
		if a[i] != 0 {
			changed = true
		}
	}
	if !changed {
		t.Errorf("2000 ticks at 2%% should produce a shift")
	}
}

func TestCache(t *testing.T) {
	a := location.NewArea(0, 0, 100, 100)
	set := NewComponentSet(NewComplex("c", 0, a, speed(10, 0), speed(10, 0), speed(20, 0), speed(20, 0)))
	f, err := NewField("water", set, ShiftConfig{}, a, WithCache(64, 10))
	if err != nil {
		t.Fatal(err)
	}

	w1, _ := f.Flow(location.Location{X: 51, Y: 49})
	w2, _ := f.Flow(location.Location{X: 49, Y: 51})
	if w1 != w2 {
		t.Errorf("points in the same cell should share a flow: %v != %v", w1, w2)
	}
	if f.cache.Len() != 1 {
		t.Errorf("cache holds %d cells; want 1", f.cache.Len())
	}
	if math.Abs(w1.Magnitude-15) > 1e-9 {
		t.Errorf("cached flow = %v; want 15", w1)
	}
}
