package angle

// Twa is the true wind angle seen from heading, negative when the wind
// blows over the port side.
func Twa(heading, wind Angle) Angle {
	return heading.AngleDiff(wind)
}

// Heading is the course giving twa for the wind direction.
func Heading(twa, wind Angle) Angle {
	return wind.Sub(twa)
}

// Clockwise returns the clockwise rotation from -> to in [0, 360).
func Clockwise(from, to Angle) int {
	d := int(to) - int(from)
	if d < 0 {
		d += 360
	}
	return d % 360
}

// Anticlockwise returns the anticlockwise rotation from -> to in [0, 360).
func Anticlockwise(from, to Angle) int {
	return Clockwise(to, from)
}

// Rotation is the turn from -> to when rotating to port (anticlockwise) or
// to starboard.
func Rotation(from, to Angle, port bool) int {
	if port {
		return Anticlockwise(from, to)
	}
	return Clockwise(from, to)
}

// IsPortTurn reports whether the shortest rotation from -> to is
// anticlockwise. A half turn goes to starboard.
func IsPortTurn(from, to Angle) bool {
	return from.AngleDiff(to) < 0
}

// Mean is the arithmetic mean of angles taken relative to the first one, so
// samples on either side of the ±180 seam average correctly.
func Mean(angles []Angle) (Angle, bool) {
	if len(angles) == 0 {
		return Zero, false
	}
	ref := angles[0]
	sum := 0
	for _, a := range angles {
		sum += int(ref.AngleDiff(a))
	}
	return ref.AddFloat(float64(sum) / float64(len(angles))), true
}
