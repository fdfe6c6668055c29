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

package simplegreen

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/PerAsperaMods/atmosim"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// Test whether the forcing combines logarithmic CO2 warming, linear
// water vapor warming and potency-weighted trace gas warming, clamped
// to the configured maximum.
func TestForcing(t *testing.T) {
	const testTolerance = 1.e-8

	var m Mechanism
	cfg := atmosim.DefaultConfig()

	// CO2 at or below the baseline pressure contributes nothing.
	if w := m.Forcing(cfg, cfg.CO2BaselinePressure, 0, 0); w != 0 {
		t.Errorf("baseline CO2: have %g, want 0", w)
	}
	if w := m.Forcing(cfg, cfg.CO2BaselinePressure/2, 0, 0); w != 0 {
		t.Errorf("sub-baseline CO2: have %g, want 0", w)
	}

	// Tenfold CO2 warms with the logarithm of the pressure ratio.
	want := cfg.CO2GreenhouseEfficiency * 5.35 * math.Log(10)
	if w := m.Forcing(cfg, cfg.CO2BaselinePressure*10, 0, 0); different(w, want, testTolerance) {
		t.Errorf("tenfold CO2: have %g, want %g", w, want)
	}

	// Water vapor warms linearly at 10 K per kPa.
	if w := m.Forcing(cfg, 0, 0.5, 0); different(w, 5, testTolerance) {
		t.Errorf("water vapor: have %g, want 5", w)
	}

	// The trace gas term arrives already potency-weighted.
	if w := m.Forcing(cfg, 0, 0, 2.5); different(w, 2.5, testTolerance) {
		t.Errorf("trace gases: have %g, want 2.5", w)
	}

	// Negative pressures cannot cool.
	if w := m.Forcing(cfg, -1, -1, -5); w != 0 {
		t.Errorf("negative pressures: have %g, want 0", w)
	}

	// A runaway atmosphere saturates at the configured maximum.
	if w := m.Forcing(cfg, 1.e30, 100, 1.e6); w != cfg.MaxGreenhouseWarming {
		t.Errorf("runaway: have %g, want %g", w, cfg.MaxGreenhouseWarming)
	}
}

// Test whether the greenhouse pressures separate CO2 and water vapor
// and weight the remaining species by potency.
func TestGreenhousePressures(t *testing.T) {
	const testTolerance = 1.e-8

	var m Mechanism
	comp := atmosim.NewComposition(map[string]float64{
		"CO2": 1.2,
		"H2O": 0.3,
		"CH4": 0.01,
		"NH3": 0.002,
		"CFC": 1.e-4,
		"N2":  50,
	})
	co2, h2o, ghg := m.GreenhousePressures(comp)
	if co2 != 1.2 || h2o != 0.3 {
		t.Errorf("have co2=%g h2o=%g, want 1.2 and 0.3", co2, h2o)
	}
	wantGHG := 0.01*25 + 0.002*100 + 1.e-4*10600
	if different(ghg, wantGHG, testTolerance) {
		t.Errorf("trace gases: have %g, want %g", ghg, wantGHG)
	}
}

// Test whether the mechanism exposes its species and rejects other
// variable names.
func TestSpecies(t *testing.T) {
	var m Mechanism
	if m.Len() != 5 {
		t.Errorf("Len: have %d, want 5", m.Len())
	}
	want := []string{"CO2", "H2O", "CH4", "NH3", "CFC"}
	if !reflect.DeepEqual(m.Species(), want) {
		t.Errorf("species: have %v, want %v", m.Species(), want)
	}

	c := &atmosim.Cell{Composition: atmosim.NewComposition(map[string]float64{"CH4": 0.01})}
	if v, err := m.Value(c, "CH4"); err != nil || v != 0.01 {
		t.Errorf("Value(CH4): have %g, %v", v, err)
	}
	if _, err := m.Value(c, "banana"); err == nil || !strings.Contains(err.Error(), "valid names") {
		t.Errorf("Value(banana): have %v, want listing error", err)
	}
	if u, err := m.Units("CFC"); err != nil || u != "kPa" {
		t.Errorf("Units(CFC): have %q, %v", u, err)
	}
	if _, err := m.Units("banana"); err == nil {
		t.Error("Units(banana): have nil, want error")
	}
}

// Test whether the warming manipulator records the forcing on the cell
// and moves its temperature to the radiative equilibrium target.
func TestWarming(t *testing.T) {
	const testTolerance = 1.e-8

	var m Mechanism
	cfg := atmosim.DefaultConfig()
	cfg.ThermalInertia = 1
	cfg.ThermalTimeConstant = 1000

	c := &atmosim.Cell{
		Temperature: 250,
		Insolation:  100,
		Composition: atmosim.NewComposition(map[string]float64{"CO2": cfg.CO2BaselinePressure * 10}),
	}
	m.Warming(cfg)(c, 1000)

	wantW := cfg.CO2GreenhouseEfficiency * 5.35 * math.Log(10)
	if different(c.GreenhouseWarming, wantW, testTolerance) {
		t.Errorf("warming: have %g, want %g", c.GreenhouseWarming, wantW)
	}
	// With unit inertia and Δt equal to the time constant, the
	// temperature lands exactly on the equilibrium target.
	want := atmosim.EquilibriumTemperature(cfg, c.Insolation, c.GreenhouseWarming)
	if different(c.Temperature, want, testTolerance) {
		t.Errorf("temperature: have %g, want %g", c.Temperature, want)
	}
}
