package angle

import (
	"errors"
	"testing"
)

func TestNormalization(t *testing.T) {
	for d := -1000; d <= 1000; d++ {
		a := New(d)
		if a <= -180 || a > 180 {
			t.Fatalf("New(%d) = %d; want in (-180, 180]", d, a)
		}
		for k := -3; k <= 3; k++ {
			if b := New(d + 360*k); b != a {
				t.Fatalf("New(%d) = %d; want %d", d+360*k, b, a)
			}
		}
	}

	if a := New(-180); a != 180 {
		t.Errorf("New(-180) = %d; want 180", a)
	}
	if a := New(540); a != 180 {
		t.Errorf("New(540) = %d; want 180", a)
	}
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want Angle
	}{
		{0, 0},
		{44.6, 45},
		{-44.6, -45},
		{359.6, 0},
		{1e12 + 90, New(int(int64(1e12+90) % 360))},
	}
	for _, tt := range tests {
		if got := FromFloat(tt.in); got != tt.want {
			t.Errorf("FromFloat(%v) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestDiffSymmetry(t *testing.T) {
	for a := -179; a <= 180; a += 7 {
		for b := -179; b <= 180; b += 11 {
			x, y := New(a), New(b)
			d1 := x.AngleDiff(y)
			d2 := y.AngleDiff(x)
			if d1 != d2.Negate() {
				t.Fatalf("%d.AngleDiff(%d) = %d; want -(%d)", x, y, d1, d2)
			}
			if x.AbsAngleDiff(y) != y.AbsAngleDiff(x) {
				t.Fatalf("AbsAngleDiff(%d, %d) not symmetric", x, y)
			}
		}
	}
}

func TestInverse(t *testing.T) {
	for d := -179; d <= 180; d++ {
		a := New(d)
		if got := a.Inverse().Inverse(); got != a {
			t.Fatalf("%d.Inverse().Inverse() = %d", a, got)
		}
	}
	if got := New(0).Inverse(); got != 180 {
		t.Errorf("0.Inverse() = %d; want 180", got)
	}
	if got := New(90).Inverse(); got != -90 {
		t.Errorf("90.Inverse() = %d; want -90", got)
	}
}

func TestComparisons(t *testing.T) {
	if !New(10).Gt(New(-10)) {
		t.Errorf("10 > -10 should hold")
	}
	if !New(-170).Gt(New(170)) {
		t.Errorf("-170 > 170 should hold across the seam")
	}
	if !New(45).Gteq(New(45)) || !New(45).Lteq(New(45)) {
		t.Errorf("45 >= 45 and 45 <= 45 should hold")
	}
	if New(45).Lt(New(45)) || New(45).Gt(New(45)) {
		t.Errorf("45 < 45 and 45 > 45 should not hold")
	}
	if !New(-179).Lt(New(-135)) {
		t.Errorf("-179 < -135 should hold")
	}
}

func TestDiv(t *testing.T) {
	a, err := New(90).Div(2)
	if err != nil || a != 45 {
		t.Errorf("90 / 2 = (%d, %v); want (45, nil)", a, err)
	}
	if _, err := New(90).Div(0); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("90 / 0 error = %v; want ErrDivideByZero", err)
	}
}

func TestTwaHeading(t *testing.T) {
	if twa := Twa(New(140), New(0)); twa != -140 {
		t.Errorf("Twa(140, 0) = %d; want -140", twa)
	}
	if h := Heading(New(-140), New(0)); h != 140 {
		t.Errorf("Heading(-140, 0) = %d; want 140", h)
	}
}

func TestRotation(t *testing.T) {
	if r := Clockwise(New(170), New(-170)); r != 20 {
		t.Errorf("Clockwise(170, -170) = %d; want 20", r)
	}
	if r := Anticlockwise(New(170), New(-170)); r != 340 {
		t.Errorf("Anticlockwise(170, -170) = %d; want 340", r)
	}
	if r := Rotation(New(45), New(45), true); r != 0 {
		t.Errorf("Rotation(45, 45) = %d; want 0", r)
	}
	if !IsPortTurn(New(140), New(135)) {
		t.Errorf("140 -> 135 should turn to port")
	}
	if IsPortTurn(New(130), New(135)) {
		t.Errorf("130 -> 135 should turn to starboard")
	}
	if IsPortTurn(New(0), New(180)) {
		t.Errorf("a half turn should go to starboard")
	}
	if IsPortTurn(New(175), New(-45)) {
		t.Errorf("175 -> -45 should turn to starboard")
	}
}

func TestMean(t *testing.T) {
	m, ok := Mean([]Angle{New(170), New(-170)})
	if !ok || m != 180 {
		t.Errorf("Mean(170, -170) = (%d, %t); want (180, true)", m, ok)
	}
	m, _ = Mean([]Angle{New(10), New(20), New(30)})
	if m != 20 {
		t.Errorf("Mean(10, 20, 30) = %d; want 20", m)
	}
	if _, ok := Mean(nil); ok {
		t.Errorf("Mean(nil) should not be ok")
	}
}
