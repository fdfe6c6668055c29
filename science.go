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

	"github.com/ctessum/unit"
)

const (
	// stefanBoltzmann is the Stefan-Boltzmann constant [W m-2 K-4].
	stefanBoltzmann = 5.670374419e-8

	// gasConstant is the universal gas constant [J mol-1 K-1].
	gasConstant = 8.3144598
)

// BaselineTemperature returns the planetary black-body equilibrium
// temperature [K] for the configured solar constant, with no
// greenhouse contribution:
//
//	T = (S/(4σ))^¼
func BaselineTemperature(cfg *Config) float64 {
	return math.Pow(cfg.SolarConstant/(4*stefanBoltzmann), 0.25)
}

// EquilibriumTemperature returns the local radiative equilibrium
// temperature [K] for the given absorbed insolation [W m-2] plus the
// given greenhouse warming [K], clamped to the configured temperature
// bounds.
func EquilibriumTemperature(cfg *Config, insolation, warming float64) float64 {
	if insolation < 0 {
		insolation = 0
	}
	t := math.Pow(insolation/stefanBoltzmann, 0.25) + warming
	return clampTemperature(cfg, t)
}

// ApproachTemperature moves current toward target with the step
// bounded by |target-current| × inertia × Δt/τ, where τ is the
// thermal time constant in the same time units as Δt. The result
// never overshoots the target.
func ApproachTemperature(current, target, inertia, Δt, τ float64) float64 {
	if τ <= 0 || Δt <= 0 {
		return current
	}
	ΔT := target - current
	step := math.Abs(ΔT) * inertia * Δt / τ
	if step > math.Abs(ΔT) {
		step = math.Abs(ΔT)
	}
	return current + math.Copysign(step, ΔT)
}

// clampTemperature bounds t to [cfg.MinTemperature, cfg.MaxTemperature].
// NaN is replaced with the lower bound.
func clampTemperature(cfg *Config, t float64) float64 {
	if math.IsNaN(t) || t < cfg.MinTemperature {
		return cfg.MinTemperature
	}
	if t > cfg.MaxTemperature {
		return cfg.MaxTemperature
	}
	return t
}

// sanitize returns fallback when v is NaN or infinite, otherwise v.
// State variables must stay finite even when pressures or temperatures
// are driven to extremes.
func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// ScaleHeight returns the atmospheric scale height H = RT/(Mg) [m] for
// temperature T [K] and molar mass M [kg mol-1] under the configured
// gravity. It returns zero for non-physical inputs.
func ScaleHeight(cfg *Config, T, molarMass float64) float64 {
	if T <= 0 || molarMass <= 0 || cfg.Gravity <= 0 {
		return 0
	}
	return gasConstant * T / (molarMass * cfg.Gravity)
}

// PressureAtAltitude returns the barometric pressure at altitude h [m]
// for surface pressure p0 and scale height H [m]:
//
//	P(h) = P₀ exp(-h/H)
//
// A non-positive scale height degenerates to zero pressure above the
// surface.
func PressureAtAltitude(p0, h, scaleHeight float64) float64 {
	if scaleHeight <= 0 {
		if h <= 0 {
			return p0
		}
		return 0
	}
	return p0 * math.Exp(-h/scaleHeight)
}

// pressureIncrement returns the change in surface partial pressure
// [kPa] from adding mass [kg] of a gas with molar mass M [kg mol-1] to
// an atmospheric column of base area [m2] at temperature T [K]. The
// column height is taken as one scale height, so by the ideal gas law
//
//	Δp = nRT/(A·H)
//
// Negative mass removes gas. Non-physical inputs yield zero.
func pressureIncrement(cfg *Config, mass, molarMass, T, area float64) float64 {
	if mass == 0 || molarMass <= 0 || T <= 0 || area <= 0 {
		return 0
	}
	H := ScaleHeight(cfg, T, molarMass)
	if H <= 0 {
		return 0
	}
	n := mass / molarMass
	return sanitize(n*gasConstant*T/(area*H)/1000, 0)
}

// AddGasMass adds mass [kg] of the gas with the given symbol to the
// atmosphere as a whole, raising the gas's partial pressure in every
// grid cell by the surface-pressure increment for the full planetary
// surface area. Negative mass removes gas; partial pressures never
// drop below zero. The gas must be registered with a molar mass.
func (s *Simulator) AddGasMass(symbol string, mass float64) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.addGasMass(symbol, mass, nil)
}

// AddGasMassAt adds mass [kg] of the gas with the given symbol to the
// atmospheric column of the single cell at coordinate cc, raising that
// cell's partial pressure by the surface-pressure increment for the
// cell's share of the planetary surface. Out-of-range coordinates are
// ignored. The gas must be registered with a molar mass.
func (s *Simulator) AddGasMassAt(cc CellCoord, symbol string, mass float64) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.grid == nil {
		return fmt.Errorf("atmosim: adding gas mass: grid is not initialized")
	}
	c := s.grid.Cell(cc)
	if c == nil {
		return nil
	}
	return s.addGasMass(symbol, mass, c)
}

// AddGas is the dimension-checked version of AddGasMass; mass must be
// in kilograms.
func (s *Simulator) AddGas(symbol string, mass *unit.Unit) error {
	if mass == nil {
		return fmt.Errorf("atmosim: adding gas %s: nil mass", symbol)
	}
	if err := mass.Check(unit.Kilogram); err != nil {
		return fmt.Errorf("atmosim: adding gas %s: %v", symbol, err)
	}
	return s.AddGasMass(symbol, mass.Value())
}

// addGasMass applies the partial pressure increment for mass [kg] of
// the given gas to target, or to every grid cell when target is nil.
// The caller must hold the simulator lock.
func (s *Simulator) addGasMass(symbol string, mass float64, target *Cell) error {
	if s.grid == nil {
		return fmt.Errorf("atmosim: adding gas mass: grid is not initialized")
	}
	molarMass, ok := s.Registry.MolarMass(symbol)
	if !ok {
		return fmt.Errorf("atmosim: adding gas mass: no molar mass registered for %s; registered gases are %v",
			symbol, s.Registry.Symbols())
	}
	if math.IsNaN(mass) || math.IsInf(mass, 0) {
		return fmt.Errorf("atmosim: adding gas mass: mass %g kg of %s is not finite", mass, symbol)
	}
	planetArea := s.Config.SurfaceArea()
	if target != nil {
		target.Lock()
		defer target.Unlock()
		area := target.areaFraction() * planetArea
		Δp := pressureIncrement(s.Config, mass, molarMass, target.Temperature, area)
		target.Composition.Add(symbol, Δp)
		target.Pressure = target.Composition.TotalPressure()
		return nil
	}
	for _, c := range s.grid.Cells() {
		c.Lock()
		Δp := pressureIncrement(s.Config, mass, molarMass, c.Temperature, planetArea)
		c.Composition.Add(symbol, Δp)
		c.Pressure = c.Composition.TotalPressure()
		c.Unlock()
	}
	return nil
}
