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
	"sort"

	"github.com/ctessum/unit"
)

// Composition maps gas symbols to partial pressures [kPa] for one cell.
// Unregistered symbols read as zero; partial pressures are never negative.
//
// The total pressure is normally the sum of the current entries, but a
// composition can be switched to driven mode, where the total is set
// externally and kept until the next explicit update. Driven mode exists
// for cells whose bulk pressure is controlled by an outside system while
// the tracked species are only a subset of the total.
type Composition struct {
	gases  map[string]float64
	total  float64
	driven bool
}

// NewComposition creates a Composition initialized with the given
// partial pressures [kPa]. Negative values are clamped to zero.
func NewComposition(initial map[string]float64) *Composition {
	a := &Composition{gases: make(map[string]float64, len(initial))}
	for gas, p := range initial {
		a.Set(gas, p)
	}
	return a
}

// Get returns the partial pressure [kPa] of the given gas,
// or zero if the gas is not present.
func (a *Composition) Get(gas string) float64 {
	return a.gases[gas]
}

// Set sets the partial pressure [kPa] of the given gas,
// clamping negative values to zero.
func (a *Composition) Set(gas string, p float64) {
	if p < 0 {
		p = 0
	}
	a.gases[gas] = p
	if !a.driven {
		a.total = a.sum()
	}
}

// Add adds Δp [kPa] to the partial pressure of the given gas. The
// resulting partial pressure is clamped at zero from below.
func (a *Composition) Add(gas string, Δp float64) {
	a.Set(gas, a.gases[gas]+Δp)
}

// TotalPressure returns the total pressure [kPa]: the sum of all
// partial pressures, or the externally driven total if one has been set.
func (a *Composition) TotalPressure() float64 {
	return a.total
}

// SetTotalPressure switches the composition to driven mode and sets
// the total pressure [kPa] directly. Subsequent Set and Add calls
// change partial pressures without touching the total.
func (a *Composition) SetTotalPressure(p float64) {
	if p < 0 {
		p = 0
	}
	a.driven = true
	a.total = p
}

// Gases returns the symbols currently present, sorted for
// deterministic iteration.
func (a *Composition) Gases() []string {
	o := make([]string, 0, len(a.gases))
	for gas := range a.gases {
		o = append(o, gas)
	}
	sort.Strings(o)
	return o
}

// Clone returns a deep copy of the composition.
func (a *Composition) Clone() *Composition {
	o := &Composition{
		gases:  make(map[string]float64, len(a.gases)),
		total:  a.total,
		driven: a.driven,
	}
	for gas, p := range a.gases {
		o.gases[gas] = p
	}
	return o
}

func (a *Composition) sum() float64 {
	s := 0.
	for _, p := range a.gases {
		s += p
	}
	return s
}

// Gas describes one gas species for registration and reporting.
type Gas struct {
	Symbol string // e.g. "CO2"
	Name   string // display name, e.g. "Carbon dioxide"
	Units  string // reporting units, e.g. "kPa"

	// MolarMass is the mass of one mole of the gas. It is required
	// for converting added mass to a pressure change; gases registered
	// without it can be reported on but not mass-injected.
	MolarMass *unit.Unit
}

// GasRegistry holds the gas vocabulary for a simulation. Each
// simulator owns its own registry; registrations in one simulation
// are never visible to another. Registering a gas never alters
// existing cell compositions; the new symbol reads as zero everywhere
// until set.
type GasRegistry struct {
	gases map[string]Gas
	order []string
}

// kilogramPerMole is the dimension set used for molar masses. The
// mole is not an independent dimension here, so molar masses carry
// mass dimensions with the per-mole accounting implicit.
var kilogramPerMole = unit.Dimensions{unit.MassDim: 1}

// MolarMassOf returns a molar mass quantity suitable for gas
// registration, where m is in kilograms per mole.
func MolarMassOf(m float64) *unit.Unit {
	return unit.New(m, kilogramPerMole)
}

// NewGasRegistry returns a registry pre-loaded with the bulk
// atmospheric species.
func NewGasRegistry() *GasRegistry {
	r := &GasRegistry{gases: make(map[string]Gas)}
	for _, g := range []Gas{
		{Symbol: "CO2", Name: "Carbon dioxide", Units: "kPa", MolarMass: unit.New(44.0095e-3, kilogramPerMole)},
		{Symbol: "N2", Name: "Nitrogen", Units: "kPa", MolarMass: unit.New(28.0134e-3, kilogramPerMole)},
		{Symbol: "O2", Name: "Oxygen", Units: "kPa", MolarMass: unit.New(31.9988e-3, kilogramPerMole)},
		{Symbol: "H2O", Name: "Water vapor", Units: "kPa", MolarMass: unit.New(18.01528e-3, kilogramPerMole)},
		{Symbol: "Ar", Name: "Argon", Units: "kPa", MolarMass: unit.New(39.948e-3, kilogramPerMole)},
		{Symbol: "CH4", Name: "Methane", Units: "kPa", MolarMass: unit.New(16.0425e-3, kilogramPerMole)},
		{Symbol: "NH3", Name: "Ammonia", Units: "kPa", MolarMass: unit.New(17.03052e-3, kilogramPerMole)},
		{Symbol: "CFC", Name: "Chlorofluorocarbons", Units: "kPa", MolarMass: unit.New(120.913e-3, kilogramPerMole)},
	} {
		r.Register(g)
	}
	return r
}

// Register adds or replaces a gas record. It returns an error for an
// empty symbol or a negative molar mass; a nil molar mass is allowed.
func (r *GasRegistry) Register(g Gas) error {
	if g.Symbol == "" {
		return fmt.Errorf("atmosim: gas registration is missing a symbol")
	}
	if g.MolarMass != nil {
		if err := g.MolarMass.Check(kilogramPerMole); err != nil {
			return fmt.Errorf("atmosim: molar mass for gas %s: %v", g.Symbol, err)
		}
		if g.MolarMass.Value() <= 0 {
			return fmt.Errorf("atmosim: molar mass for gas %s must be positive, not %g",
				g.Symbol, g.MolarMass.Value())
		}
	}
	if _, ok := r.gases[g.Symbol]; !ok {
		r.order = append(r.order, g.Symbol)
	}
	r.gases[g.Symbol] = g
	return nil
}

// RegisterGas records reporting metadata for a gas symbol. It is a
// convenience wrapper around Register for callers that only have
// display information; existing molar mass information for the
// symbol is kept.
func (r *GasRegistry) RegisterGas(symbol, displayName, units string) error {
	g := Gas{Symbol: symbol, Name: displayName, Units: units}
	if old, ok := r.gases[symbol]; ok {
		g.MolarMass = old.MolarMass
	}
	return r.Register(g)
}

// Gas returns the record for the given symbol and whether the symbol
// has been registered. Unregistered symbols are not an error; the
// zero record is returned.
func (r *GasRegistry) Gas(symbol string) (Gas, bool) {
	g, ok := r.gases[symbol]
	return g, ok
}

// MolarMass returns the molar mass [kg/mol] of the given gas and
// whether it is known.
func (r *GasRegistry) MolarMass(symbol string) (float64, bool) {
	g, ok := r.gases[symbol]
	if !ok || g.MolarMass == nil {
		return 0, false
	}
	return g.MolarMass.Value(), true
}

// Symbols returns the registered gas symbols in registration order.
func (r *GasRegistry) Symbols() []string {
	o := make([]string, len(r.order))
	copy(o, r.order)
	return o
}

// Len returns the number of registered gases.
func (r *GasRegistry) Len() int {
	return len(r.order)
}

// MeanMolarMass returns the pressure-weighted mean molar mass
// [kg/mol] of the given composition, counting only gases with
// registered molar masses. It returns zero when the composition
// contains none.
func (r *GasRegistry) MeanMolarMass(a *Composition) float64 {
	var mSum, pSum float64
	for _, gas := range a.Gases() {
		m, ok := r.MolarMass(gas)
		if !ok {
			continue
		}
		p := a.Get(gas)
		mSum += m * p
		pSum += p
	}
	if pSum <= 0 {
		return 0
	}
	return mSum / pSum
}
