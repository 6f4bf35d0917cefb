package flow

import (
	"fmt"
	"math"
	"os"

	"github.com/nilsmagnus/grib/griblib"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/simerr"
	"github.com/a-bouts/race-trainer/vector"
)

const knotsPerMetreSecond = 1.9438444924406

// Grid samples a regular grid of u/v components (knots) stretched over its
// area. Row 0 is the northern edge and column 0 the western one.
type Grid struct {
	base
	U [][]float64
	V [][]float64
}

func NewGrid(name string, zlevel int, area location.Area, u, v [][]float64) (*Grid, error) {
	g := &Grid{base: base{name: name, kind: TypeGrid, zlevel: zlevel, area: area}, U: u, V: v}
	if err := g.check(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) check() error {
	if len(g.U) == 0 || len(g.U) != len(g.V) {
		return simerr.Config("flow."+g.name, "grid needs matching u and v rows")
	}
	for j := range g.U {
		if len(g.U[j]) == 0 || len(g.U[j]) != len(g.U[0]) || len(g.V[j]) != len(g.U[0]) {
			return simerr.Config("flow."+g.name, "grid row %d has a bad length", j)
		}
	}
	return nil
}

func buildGrid(data []float64, ni, nj uint32) [][]float64 {
	grid := make([][]float64, nj)

	p := 0
	for j := uint32(0); j < nj; j++ {
		grid[j] = make([]float64, ni)
		for i := uint32(0); i < ni; i++ {
			grid[j][i] = data[p] * knotsPerMetreSecond
			p++
		}
	}
	return grid
}

// LoadGrid reads the 10 m wind u/v messages of a GRIB2 file.
func LoadGrid(b base, file string) (*Grid, error) {
	g := &Grid{base: b}

	gribfile, err := os.Open(file)
	if err != nil {
		return nil, simerr.Config("flow."+b.name, "%v", err)
	}
	defer gribfile.Close()

	messages, err := griblib.ReadMessages(gribfile)
	if err != nil {
		return nil, simerr.Config("flow."+b.name, "reading grib %s: %v", file, err)
	}
	for _, message := range messages {
		if message.Section0.Discipline == uint8(0) && message.Section4.ProductDefinitionTemplate.ParameterCategory == uint8(2) && message.Section4.ProductDefinitionTemplate.FirstSurface.Type == 103 && message.Section4.ProductDefinitionTemplate.FirstSurface.Value == 10 {
			grid0, ok := message.Section3.Definition.(*griblib.Grid0)
			if !ok {
				continue
			}
			if len(message.Section7.Data) < int(grid0.Ni*grid0.Nj) {
				continue
			}
			if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
				g.U = buildGrid(message.Section7.Data, grid0.Ni, grid0.Nj)
			} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
				g.V = buildGrid(message.Section7.Data, grid0.Ni, grid0.Nj)
			}
		}
	}
	if err := g.check(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"component": b.name, "file": file}).Infof("Loaded %dx%d flow grid", len(g.U[0]), len(g.U))
	return g, nil
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

func (g *Grid) Flow(l location.Location) (vector.SpeedPolar, error) {
	if !g.area.Contains(l) {
		return vector.SpeedPolar{}, g.outside(l)
	}
	fx, fy := g.area.Fraction(l)

	rows, cols := len(g.U), len(g.U[0])
	i, j := (1-fy)*float64(rows-1), fx*float64(cols-1)
	i0, j0 := int(math.Floor(i)), int(math.Floor(j))
	i1, j1 := min(i0+1, rows-1), min(j0+1, cols-1)
	di, dj := i-float64(i0), j-float64(j0)

	at := func(c [][]float64) float64 {
		return lerp(lerp(c[i0][j0], c[i0][j1], dj), lerp(c[i1][j0], c[i1][j1], dj), di)
	}

	// u/v point where the air goes, flows are named for where they come from
	p := vector.FromComponents(-at(g.U), -at(g.V))
	return vector.SpeedPolar{Polar: p}, nil
}

func (g *Grid) String() string {
	return fmt.Sprintf("grid %q %dx%d", g.name, len(g.U[0]), len(g.U))
}
