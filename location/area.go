package location

import (
	"fmt"
)

// Area is an axis aligned rectangle whose origin is its south west corner.
type Area struct {
	Origin Location `json:"origin"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

func NewArea(x, y, width, height float64) Area {
	return Area{Origin: Location{X: x, Y: y}, Width: width, Height: height}
}

func (a Area) Validate() error {
	if a.Width < 0 || a.Height < 0 {
		return fmt.Errorf("area %v has a negative extent", a)
	}
	return nil
}

func (a Area) IsDegenerate() bool {
	return a.Width <= 0 || a.Height <= 0
}

// OrDefault returns field when a has no extent.
func (a Area) OrDefault(field Area) Area {
	if a.IsDegenerate() {
		return field
	}
	return a
}

func (a Area) Left() float64   { return a.Origin.X }
func (a Area) Right() float64  { return a.Origin.X + a.Width }
func (a Area) Bottom() float64 { return a.Origin.Y }
func (a Area) Top() float64    { return a.Origin.Y + a.Height }

func (a Area) SouthWest() Location { return a.Origin }
func (a Area) SouthEast() Location { return Location{X: a.Right(), Y: a.Bottom()} }
func (a Area) NorthWest() Location { return Location{X: a.Left(), Y: a.Top()} }
func (a Area) NorthEast() Location { return Location{X: a.Right(), Y: a.Top()} }

func (a Area) Center() Location {
	return Location{X: a.Origin.X + a.Width/2, Y: a.Origin.Y + a.Height/2}
}

// Contains includes the edges.
func (a Area) Contains(l Location) bool {
	return l.X >= a.Left() && l.X <= a.Right() && l.Y >= a.Bottom() && l.Y <= a.Top()
}

// Fraction is the position of l inside the area, (0, 0) at the south west
// corner and (1, 1) at the north east one.
func (a Area) Fraction(l Location) (float64, float64) {
	fx, fy := 0.0, 0.0
	if a.Width > 0 {
		fx = (l.X - a.Origin.X) / a.Width
	}
	if a.Height > 0 {
		fy = (l.Y - a.Origin.Y) / a.Height
	}
	return fx, fy
}

// Grid returns n x n points spread evenly over the area, cell centres.
func (a Area) Grid(n int) []Location {
	points := make([]Location, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			points = append(points, Location{
				X: a.Origin.X + a.Width*(float64(i)+0.5)/float64(n),
				Y: a.Origin.Y + a.Height*(float64(j)+0.5)/float64(n),
			})
		}
	}
	return points
}

func (a Area) String() string {
	return fmt.Sprintf("%v+%.0fx%.0f", a.Origin, a.Width, a.Height)
}
