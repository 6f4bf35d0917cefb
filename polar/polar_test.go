package polar

import (
	"math"
	"testing"

	"github.com/a-bouts/race-trainer/angle"
)

func TestInterpolationIndex(t *testing.T) {

	array := []float64{0, 4, 8}

	i0, i1, d := interpolationIndex(array, 0)
	if i0 != 0 || i1 != 0 || d != 0.0 {
		t.Errorf("interpolationIndex(0) = (%d, %d, %f); want (0, 0, 0.0)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 1)
	if i0 != 0 || i1 != 1 || d != 0.75 {
		t.Errorf("interpolationIndex(1) = (%d, %d, %f); want (0, 1, 0.75)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 2)
	if i0 != 0 || i1 != 1 || d != 0.5 {
		t.Errorf("interpolationIndex(2) = (%d, %d, %f); want (0, 1, 0.5)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 4)
	if i0 != 0 || i1 != 1 || d != 0.0 {
		t.Errorf("interpolationIndex(4) = (%d, %d, %f); want (0, 1, 0.0)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 5)
	if i0 != 1 || i1 != 2 || d != 0.75 {
		t.Errorf("interpolationIndex(5) = (%d, %d, %f); want (1, 2, 0.75)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 9)
	if i0 != 2 || i1 != 0 || d != 1.0 {
		t.Errorf("interpolationIndex(9) = (%d, %d, %f); want (2, 0, 1.0)", i0, i1, d)
	}
}

func TestGetBoatSpeed(t *testing.T) {
	p := Default()

	if bs := p.GetBoatSpeed(angle.New(0), 10); bs != 0 {
		t.Errorf("GetBoatSpeed(0, 10) = %f; want 0", bs)
	}

	if bs := p.GetBoatSpeed(angle.New(90), 10); math.Abs(bs-5.8) > 1e-9 {
		t.Errorf("GetBoatSpeed(90, 10) = %f; want 5.8", bs)
	}

	if bs := p.GetBoatSpeed(angle.New(-90), 10); math.Abs(bs-5.8) > 1e-9 {
		t.Errorf("GetBoatSpeed(-90, 10) = %f; want 5.8", bs)
	}

	// half way between 10 and 12 knots
	if bs := p.GetBoatSpeed(angle.New(45), 11); math.Abs(bs-4.7) > 1e-9 {
		t.Errorf("GetBoatSpeed(45, 11) = %f; want 4.7", bs)
	}

	if bs := p.GetBoatSpeed(angle.New(180), 30); math.Abs(bs-5.9) > 1e-9 {
		t.Errorf("GetBoatSpeed(180, 30) = %f; want 5.9", bs)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse([]byte(`{"tws":[0,10],"twa":[0,90],"speed":[[0,0]]}`)); err == nil {
		t.Errorf("Parse should reject missing speed rows")
	}
	p, err := Parse([]byte(`{"tws":[0,10],"twa":[0,90],"speed":[[0,0],[0,5]]}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.GlobalSpeedRatio != 1 {
		t.Errorf("GlobalSpeedRatio = %f; want 1", p.GlobalSpeedRatio)
	}
}
