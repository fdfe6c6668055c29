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

// Package simplegreen contains a simplified greenhouse forcing
// mechanism.
package simplegreen

import (
	"fmt"
	"math"

	"github.com/PerAsperaMods/atmosim"
)

// Mechanism fulfils the github.com/PerAsperaMods/atmosim.Mechanism
// interface.
type Mechanism struct{}

// physical constants
const (
	// co2ScaleFactor converts the logarithmic CO2 pressure ratio to
	// warming [K], following the standard logarithmic forcing form.
	co2ScaleFactor = 5.35

	// h2oScaleFactor converts water vapor partial pressure to
	// warming [K/kPa].
	h2oScaleFactor = 10.0

	// ghgScaleFactor converts potency-weighted trace gas partial
	// pressure to warming [K/kPa].
	ghgScaleFactor = 1.0
)

// gasSymbols lists the species used by this mechanism.
var gasSymbols = []string{"CO2", "H2O", "CH4", "NH3", "CFC"}

// greenhousePotency weights the partial pressure of each trace
// greenhouse species by its warming potency relative to CO2.
// CO2 and H2O have their own forcing forms and are not listed here.
var greenhousePotency = map[string]float64{
	"CH4": 25,
	"NH3": 100,
	"CFC": 10600,
}

// Len returns the number of gas species in this mechanism (5).
func (m Mechanism) Len() int {
	return len(gasSymbols)
}

// Species returns the names of the gas species that are used by this
// mechanism.
func (m Mechanism) Species() []string {
	o := make([]string, len(gasSymbols))
	copy(o, gasSymbols)
	return o
}

// Value returns the partial pressure of the given gas species in the
// given Cell. It returns an error if given an invalid variable name.
func (m Mechanism) Value(c *atmosim.Cell, variable string) (float64, error) {
	for _, s := range gasSymbols {
		if s == variable {
			return c.Composition.Get(variable), nil
		}
	}
	return math.NaN(), fmt.Errorf("simplegreen: invalid variable name %s; valid names are %v",
		variable, m.Species())
}

// Units returns the units of the given variable, or an error if the
// variable name is invalid.
func (m Mechanism) Units(variable string) (string, error) {
	for _, s := range gasSymbols {
		if s == variable {
			return "kPa", nil
		}
	}
	return "", fmt.Errorf("simplegreen: invalid variable name %s; valid names are %v",
		variable, m.Species())
}

// GreenhousePressures returns the CO2 and water vapor partial
// pressures [kPa] in the given composition, plus the potency-weighted
// sum of the remaining greenhouse species.
func (m Mechanism) GreenhousePressures(a *atmosim.Composition) (co2, h2o, ghg float64) {
	co2 = a.Get("CO2")
	h2o = a.Get("H2O")
	for gas, potency := range greenhousePotency {
		ghg += a.Get(gas) * potency
	}
	return co2, h2o, ghg
}

// co2Warming returns the greenhouse warming [K] from a CO2 partial
// pressure of p [kPa]. CO2 at or below the baseline pressure
// contributes nothing; above it, warming grows with the logarithm of
// the pressure ratio.
func co2Warming(cfg *atmosim.Config, p float64) float64 {
	if p <= cfg.CO2BaselinePressure || p <= 0 {
		return 0
	}
	return cfg.CO2GreenhouseEfficiency * co2ScaleFactor * math.Log(p/cfg.CO2BaselinePressure)
}

// Forcing returns the total greenhouse warming [K] produced by the
// given partial pressures [kPa] of CO2, water vapor, and the summed
// potency-weighted remaining greenhouse species, clamped to
// [0, cfg.MaxGreenhouseWarming].
func (m Mechanism) Forcing(cfg *atmosim.Config, co2, h2o, ghg float64) float64 {
	w := co2Warming(cfg, co2)
	if h2o > 0 {
		w += cfg.H2OGreenhouseEfficiency * h2oScaleFactor * h2o
	}
	if ghg > 0 {
		w += cfg.GHGGreenhouseEfficiency * ghgScaleFactor * ghg
	}
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	if w > cfg.MaxGreenhouseWarming {
		return cfg.MaxGreenhouseWarming
	}
	return w
}

// Warming returns a function that recomputes a cell's greenhouse
// warming from its composition and moves its temperature toward the
// resulting radiative equilibrium, damped by thermal inertia.
func (m Mechanism) Warming(cfg *atmosim.Config) atmosim.CellManipulator {
	return func(c *atmosim.Cell, Δt float64) {
		co2, h2o, ghg := m.GreenhousePressures(c.Composition)
		c.GreenhouseWarming = m.Forcing(cfg, co2, h2o, ghg)
		target := atmosim.EquilibriumTemperature(cfg, c.Insolation, c.GreenhouseWarming)
		c.Temperature = atmosim.ApproachTemperature(c.Temperature, target,
			cfg.ThermalInertia, Δt, cfg.ThermalTimeConstant)
	}
}
