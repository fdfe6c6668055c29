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
	"sync"

	"github.com/ctessum/geom"
)

// CellCoord uniquely identifies a grid cell by its latitude and longitude
// indices. Index (0,0) is the cell whose southwest corner is at
// (90°S, 180°W); latitude indices increase northward and longitude indices
// increase eastward.
type CellCoord struct {
	Lat int
	Lon int
}

func (cc CellCoord) String() string {
	return fmt.Sprintf("(%d,%d)", cc.Lat, cc.Lon)
}

// Cell holds the atmospheric state of a single grid cell.
type Cell struct {
	geom.Polygonal // Cell boundary [degrees latitude/longitude]

	Coord CellCoord // Grid coordinate; fixed at creation

	Temperature       float64 `desc:"Atmospheric temperature" units:"K"`
	Pressure          float64 `desc:"Total atmospheric pressure" units:"kPa"`
	GreenhouseWarming float64 `desc:"Greenhouse contribution to temperature" units:"K"`
	Insolation        float64 `desc:"Annual mean insolation at cell latitude" units:"W/m²"`
	WindSpeed         float64 `desc:"RMS surface wind speed" units:"m/s"`

	Composition *Composition // Gas partial pressures [kPa]

	// Active reports whether the cell participates in simulation
	// steps and active-only aggregates. Deactivated cells keep
	// their last computed state.
	Active bool

	sync.RWMutex
}

// CenterLat returns the latitude of the cell center [degrees].
func (c *Cell) CenterLat() float64 {
	return c.Centroid().Y
}

// CenterLon returns the longitude of the cell center [degrees].
func (c *Cell) CenterLon() float64 {
	return c.Centroid().X
}

// areaFraction returns the fraction of the planetary surface covered
// by this cell. On a sphere, a latitude-longitude rectangle bounded by
// latitudes φ₁..φ₂ and spanning Δλ of longitude covers
// (sin φ₂ - sin φ₁)·Δλ/(4π) of the surface.
func (c *Cell) areaFraction() float64 {
	b := c.Bounds()
	φ1 := b.Min.Y * degToRad
	φ2 := b.Max.Y * degToRad
	Δλ := (b.Max.X - b.Min.X) * degToRad
	return (math.Sin(φ2) - math.Sin(φ1)) * Δλ / (4 * math.Pi)
}

// before returns whether c should be sorted before c2. Cells are
// ordered by latitude index and then longitude index so that
// iteration over sorted lists is deterministic.
func (c *Cell) before(c2 *Cell) bool {
	if c == c2 {
		return true
	}
	if c.Coord.Lat != c2.Coord.Lat {
		return c.Coord.Lat < c2.Coord.Lat
	}
	if c.Coord.Lon != c2.Coord.Lon {
		return c.Coord.Lon < c2.Coord.Lon
	}
	panic(fmt.Errorf("atmosim: duplicate cell coordinate %v", c.Coord))
}

// getValue returns the named variable for this cell. Variable names
// are the physical Cell fields plus the symbols of any gases present
// in the cell composition; unknown names resolve to zero.
func (c *Cell) getValue(name string) float64 {
	switch name {
	case "Temperature":
		return c.Temperature
	case "Pressure":
		return c.Pressure
	case "GreenhouseWarming":
		return c.GreenhouseWarming
	case "Insolation":
		return c.Insolation
	case "WindSpeed":
		return c.WindSpeed
	default:
		return c.Composition.Get(name)
	}
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell%v T=%.2fK P=%.3gkPa active=%v",
		c.Coord, c.Temperature, c.Pressure, c.Active)
}
