/*
Copyright © 2021 the Atmosim authors.
This file is part of Atmosim.

Atmosim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Atmosim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Atmosim.  If not, see <http://www.gnu.org/licenses/>.
*/

package atmosim

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
)

// Grid holds the fixed global collection of atmosphere cells. All
// cells are created once, eagerly covering the whole sphere; after
// initialization only their state and activation flags change.
type Grid struct {
	latSize, lonSize float64 // cell edge lengths [degrees]
	nlat, nlon       int

	cells  []*Cell // row-major, index = lat*nlon + lon
	index  *rtree.Rtree
	active cellList
}

// RegularGrid returns a function that creates the simulation grid at
// the configured resolution. Calling it when the grid already exists
// is a no-op. The mechanism m contributes its species to every cell's
// initial composition so that mechanism variables are present even
// when the configured default composition omits them.
func (cfg *Config) RegularGrid(m Mechanism) DomainManipulator {
	return func(s *Simulator) error {
		if s.grid != nil {
			return nil
		}
		g, err := NewGrid(cfg, m)
		if err != nil {
			return err
		}
		s.grid = g
		return nil
	}
}

// NewGrid eagerly allocates the full cell set for the configured
// resolution. Every cell starts inactive with the default temperature
// and composition.
func NewGrid(cfg *Config, m Mechanism) (*Grid, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	g := &Grid{
		latSize: cfg.GridResolution,
		lonSize: cfg.GridResolution,
		nlat:    cfg.nlat(),
		nlon:    cfg.nlon(),
		index:   rtree.NewTree(25, 50),
	}
	g.cells = make([]*Cell, g.nlat*g.nlon)
	initial := make(map[string]float64, len(cfg.DefaultComposition))
	if m != nil {
		for _, gas := range m.Species() {
			initial[gas] = 0
		}
	}
	for gas, p := range cfg.DefaultComposition {
		initial[gas] = p
	}
	for i := 0; i < g.nlat; i++ {
		for j := 0; j < g.nlon; j++ {
			lat0 := -90 + g.latSize*float64(i)
			lon0 := -180 + g.lonSize*float64(j)
			c := &Cell{
				Polygonal: geom.Polygon{{
					{X: lon0, Y: lat0},
					{X: lon0 + g.lonSize, Y: lat0},
					{X: lon0 + g.lonSize, Y: lat0 + g.latSize},
					{X: lon0, Y: lat0 + g.latSize},
				}},
				Coord:       CellCoord{Lat: i, Lon: j},
				Temperature: cfg.DefaultTemperature,
				WindSpeed:   cfg.SurfaceWindSpeed,
				Composition: NewComposition(initial),
			}
			c.Pressure = c.Composition.TotalPressure()
			c.Insolation = meanInsolation(cfg, c.CenterLat())
			g.cells[i*g.nlon+j] = c
			g.index.Insert(c)
		}
	}
	return g, nil
}

// CoordAt returns the coordinate of the grid cell containing the given
// point [degrees]. Points outside the grid are clamped to its edge.
func (cfg *Config) CoordAt(lat, lon float64) CellCoord {
	i := int(math.Floor((lat + 90) / cfg.GridResolution))
	j := int(math.Floor((lon + 180) / cfg.GridResolution))
	if i < 0 {
		i = 0
	} else if i >= cfg.nlat() {
		i = cfg.nlat() - 1
	}
	if j < 0 {
		j = 0
	} else if j >= cfg.nlon() {
		j = cfg.nlon() - 1
	}
	return CellCoord{Lat: i, Lon: j}
}

// Dims returns the number of latitude and longitude cells.
func (g *Grid) Dims() (nlat, nlon int) {
	return g.nlat, g.nlon
}

// valid reports whether cc addresses a cell in this grid.
func (g *Grid) valid(cc CellCoord) bool {
	return cc.Lat >= 0 && cc.Lat < g.nlat && cc.Lon >= 0 && cc.Lon < g.nlon
}

// Cell returns the cell at the given coordinate, or nil if the
// coordinate is not in the grid.
func (g *Grid) Cell(cc CellCoord) *Cell {
	if !g.valid(cc) {
		return nil
	}
	return g.cells[cc.Lat*g.nlon+cc.Lon]
}

// Cells returns all of the grid cells in coordinate order.
func (g *Grid) Cells() []*Cell {
	o := make([]*Cell, len(g.cells))
	copy(o, g.cells)
	return o
}

// ActivateCell marks the cell at cc as active, inserting it into the
// active set. Invalid coordinates and repeated activations are no-ops.
func (g *Grid) ActivateCell(cc CellCoord) {
	c := g.Cell(cc)
	if c == nil {
		return
	}
	if c.Active {
		return
	}
	c.Active = true
	g.active.add(c)
}

// DeactivateCell marks the cell at cc as inactive. The cell keeps its
// last computed state. Invalid coordinates are no-ops.
func (g *Grid) DeactivateCell(cc CellCoord) {
	c := g.Cell(cc)
	if c == nil {
		return
	}
	if !c.Active {
		return
	}
	c.Active = false
	g.active.deleteCell(c)
}

// ActiveCells returns all cells with the active flag set, in
// coordinate order.
func (g *Grid) ActiveCells() []*Cell {
	return g.active.array()
}

// CellsInRegion returns the cells, active or not, whose geographic
// centers fall within the inclusive bounding box, in coordinate
// order. Latitudes are in [-90,90] and longitudes in [-180,180].
func (g *Grid) CellsInRegion(latMin, latMax, lonMin, lonMax float64) []*Cell {
	box := &geom.Bounds{
		Min: geom.Point{X: lonMin, Y: latMin},
		Max: geom.Point{X: lonMax, Y: latMax},
	}
	var l cellList
	for _, cI := range g.index.SearchIntersect(box) {
		c := cI.(*Cell)
		cent := c.Centroid()
		if cent.Y < latMin || cent.Y > latMax || cent.X < lonMin || cent.X > lonMax {
			continue
		}
		l.add(c)
	}
	return l.array()
}

// AverageTemperature returns the arithmetic mean temperature [K] over
// the active cells. Cells are equal-count buckets here, not equal
// physical areas; the area-weighted global average comes from the
// regional models. Returns zero when no cells are active.
func (g *Grid) AverageTemperature() float64 {
	return g.activeMean(func(c *Cell) float64 { return c.Temperature })
}

// AveragePressure returns the arithmetic mean total pressure [kPa]
// over the active cells, or zero when no cells are active.
func (g *Grid) AveragePressure() float64 {
	return g.activeMean(func(c *Cell) float64 { return c.Pressure })
}

// AveragePartialPressure returns the arithmetic mean partial pressure
// [kPa] of the given gas over the active cells, or zero when no cells
// are active.
func (g *Grid) AveragePartialPressure(gas string) float64 {
	return g.activeMean(func(c *Cell) float64 { return c.Composition.Get(gas) })
}

func (g *Grid) activeMean(value func(c *Cell) float64) float64 {
	if g.active.len() == 0 {
		return 0
	}
	vals := make([]float64, 0, g.active.len())
	for _, c := range g.active {
		c.RLock()
		vals = append(vals, value(c))
		c.RUnlock()
	}
	return stat.Mean(vals, nil)
}

// MeanComposition returns the arithmetic mean partial pressures of all
// gases present in active cells. With no active cells it returns the
// configured default composition, so that downstream physics always
// have a column to work with.
func (g *Grid) MeanComposition(cfg *Config) *Composition {
	if g.active.len() == 0 {
		return NewComposition(cfg.DefaultComposition)
	}
	sums := make(map[string]float64)
	for _, c := range g.active {
		c.RLock()
		for _, gas := range c.Composition.Gases() {
			sums[gas] += c.Composition.Get(gas)
		}
		c.RUnlock()
	}
	n := float64(g.active.len())
	for gas := range sums {
		sums[gas] /= n
	}
	return NewComposition(sums)
}

// TemperatureField returns the cell temperatures [K] as a [nlat, nlon]
// array.
func (g *Grid) TemperatureField() *sparse.DenseArray {
	return g.toArray("Temperature")
}

// PressureField returns the cell total pressures [kPa] as a
// [nlat, nlon] array.
func (g *Grid) PressureField() *sparse.DenseArray {
	return g.toArray("Pressure")
}

// GasField returns the partial pressures [kPa] of the given gas as a
// [nlat, nlon] array.
func (g *Grid) GasField(gas string) *sparse.DenseArray {
	return g.toArray(gas)
}

// toArray converts the named cell variable into a gridded array.
func (g *Grid) toArray(name string) *sparse.DenseArray {
	o := sparse.ZerosDense(g.nlat, g.nlon)
	for _, c := range g.cells {
		c.RLock()
		o.Set(c.getValue(name), c.Coord.Lat, c.Coord.Lon)
		c.RUnlock()
	}
	return o
}

func (g *Grid) String() string {
	return fmt.Sprintf("%d×%d grid (%g°), %d active", g.nlat, g.nlon, g.latSize, g.active.len())
}
