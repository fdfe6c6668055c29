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
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/atmos/plumerise"
)

// ErrVentEscaped is returned when vented gas rises above the model top
// and escapes without changing surface pressure.
var ErrVentEscaped = errors.New("atmosim: vented mass escaped above the model top")

// VentStack describes the geometry and exhaust state of a vent or
// stack releasing gas into a cell's atmospheric column (see
// github.com/ctessum/atmos/plumerise for units).
type VentStack struct {
	Height      float64 // [m]
	Diameter    float64 // [m]
	Temperature float64 // [K]
	Velocity    float64 // [m/s]
}

// ventLayers is the number of layers in the synthetic vertical profile
// used for plume rise; the profile spans one scale height.
const ventLayers = 10

// dryLapseCp is the specific heat capacity [J kg-1 K-1] used for the
// synthetic profile's adiabatic lapse rate.
const dryLapseCp = 850.0

// ventRise computes the effective release height [m] of gas vented
// through stack into the column above c, using the ASME (1973) plume
// rise formulas over a synthetic vertical profile built from the
// cell's state. It returns ErrVentEscaped when the plume rises above
// one scale height. The caller must hold the cell's lock.
func (s *Simulator) ventRise(stack VentStack, c *Cell) (plumeHeight float64, err error) {
	cfg := s.Config
	mm := s.Registry.MeanMolarMass(c.Composition)
	if mm <= 0 {
		return 0, fmt.Errorf("atmosim: plume rise in cell %v: no registered molar masses", c.Coord)
	}
	H := ScaleHeight(cfg, c.Temperature, mm)
	if H <= 0 {
		return 0, fmt.Errorf("atmosim: plume rise in cell %v: non-physical scale height", c.Coord)
	}

	layerHeights := make([]float64, ventLayers+1)
	temperature := make([]float64, ventLayers)
	windSpeed := make([]float64, ventLayers)
	windSpeedInverse := make([]float64, ventLayers)
	windSpeedMinusThird := make([]float64, ventLayers)
	windSpeedMinusOnePointFour := make([]float64, ventLayers)
	sClass := make([]float64, ventLayers)
	s1 := make([]float64, ventLayers)

	dz := H / ventLayers
	lapse := cfg.Gravity / dryLapseCp
	ws := c.WindSpeed
	if ws <= 0 {
		ws = cfg.SurfaceWindSpeed
	}
	for i := 0; i < ventLayers; i++ {
		layerHeights[i+1] = layerHeights[i] + dz
		zMid := layerHeights[i] + dz/2
		temperature[i] = clampTemperature(cfg, c.Temperature-lapse*zMid)
		windSpeed[i] = ws
		windSpeedInverse[i] = 1 / ws
		windSpeedMinusThird[i] = math.Pow(ws, -1./3.)
		windSpeedMinusOnePointFour[i] = math.Pow(ws, -1.4)
		sClass[i] = 0 // neutral stability
		s1[i] = 1.e-4 // stability parameter; unused for the neutral class
	}

	_, plumeHeight, err = plumerise.ASMEPrecomputed(stack.Height, stack.Diameter,
		stack.Temperature, stack.Velocity, layerHeights, temperature, windSpeed,
		sClass, s1, windSpeedMinusOnePointFour, windSpeedMinusThird,
		windSpeedInverse)
	if err != nil {
		if err == plumerise.ErrAboveModelTop {
			return plumeHeight, ErrVentEscaped
		}
		return 0, fmt.Errorf("atmosim: plume rise in cell %v: %v", c.Coord, err)
	}
	return plumeHeight, nil
}

// PlumeHeight returns the effective release height [m] for gas vented
// through stack in the cell at cc. Invalid coordinates are an error
// here, because there is no column to rise through.
func (s *Simulator) PlumeHeight(cc CellCoord, stack VentStack) (float64, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	if s.grid == nil {
		return 0, fmt.Errorf("atmosim: plume rise: grid is not initialized")
	}
	c := s.grid.Cell(cc)
	if c == nil {
		return 0, fmt.Errorf("atmosim: plume rise: no cell at %v", cc)
	}
	c.RLock()
	defer c.RUnlock()
	return s.ventRise(stack, c)
}

// AddVentedGas adds mass [kg] of the gas with the given symbol to the
// cell at cc through the given stack. The gas is released at the
// plume's effective height, so only the barometric fraction
// exp(-h/H) of the surface-level pressure increment reaches the
// surface record. Vented mass that rises above the model top escapes:
// the cell is unchanged and AddVentedGas returns ErrVentEscaped.
func (s *Simulator) AddVentedGas(cc CellCoord, symbol string, mass float64, stack VentStack) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.grid == nil {
		return fmt.Errorf("atmosim: venting gas: grid is not initialized")
	}
	c := s.grid.Cell(cc)
	if c == nil {
		return fmt.Errorf("atmosim: venting gas: no cell at %v", cc)
	}
	molarMass, ok := s.Registry.MolarMass(symbol)
	if !ok {
		return fmt.Errorf("atmosim: venting gas: no molar mass registered for %s; registered gases are %v",
			symbol, s.Registry.Symbols())
	}

	c.Lock()
	defer c.Unlock()
	h, err := s.ventRise(stack, c)
	if err != nil {
		return err
	}
	H := ScaleHeight(s.Config, c.Temperature, molarMass)
	area := c.areaFraction() * s.Config.SurfaceArea()
	Δp := pressureIncrement(s.Config, mass, molarMass, c.Temperature, area)
	c.Composition.Add(symbol, PressureAtAltitude(Δp, h, H))
	c.Pressure = c.Composition.TotalPressure()
	return nil
}
