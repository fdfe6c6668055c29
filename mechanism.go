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

// Mechanism is an interface for greenhouse gas mechanisms: the set of
// radiatively active species a simulation models and the warming they
// produce.
type Mechanism interface {
	// Species returns the names of the gas species that are used
	// by this mechanism.
	Species() []string

	// Value returns the value of the given variable in the given
	// Cell. It returns an error if given an invalid variable name.
	Value(c *Cell, variable string) (float64, error)

	// Units returns the units of the given variable, or an
	// error if the variable name is invalid.
	Units(variable string) (string, error)

	// Forcing returns the total greenhouse warming [K] produced by
	// the given partial pressures [kPa] of CO2, water vapor, and the
	// summed remaining greenhouse species, clamped to the maximum
	// warming in cfg.
	Forcing(cfg *Config, co2, h2o, ghg float64) float64

	// Warming returns a function that applies greenhouse warming and
	// radiative equilibrium to a cell.
	Warming(cfg *Config) CellManipulator

	// GreenhousePressures returns the CO2, water vapor, and summed
	// other-species partial pressures [kPa] in the given composition,
	// as consumed by Forcing.
	GreenhousePressures(a *Composition) (co2, h2o, ghg float64)

	// Len returns the number of gas species in the mechanism.
	Len() int
}
