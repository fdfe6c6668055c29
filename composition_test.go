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
	"reflect"
	"testing"

	"github.com/ctessum/unit"
)

// Test whether partial pressure accounting stays consistent and
// non-negative through sets and adds.
func TestComposition(t *testing.T) {
	const testTolerance = 1.e-12

	a := NewComposition(map[string]float64{"CO2": 0.6, "N2": 0.02, "H2O": -5})
	if p := a.Get("H2O"); p != 0 {
		t.Errorf("negative initial pressure: have %g, want 0", p)
	}
	if p := a.Get("Xe"); p != 0 {
		t.Errorf("unknown gas: have %g, want 0", p)
	}
	if absDifferent(a.TotalPressure(), 0.62, testTolerance) {
		t.Errorf("total: have %g, want 0.62", a.TotalPressure())
	}

	a.Add("CO2", 0.4)
	if absDifferent(a.Get("CO2"), 1.0, testTolerance) {
		t.Errorf("CO2 after add: have %g, want 1", a.Get("CO2"))
	}
	if absDifferent(a.TotalPressure(), 1.02, testTolerance) {
		t.Errorf("total after add: have %g, want 1.02", a.TotalPressure())
	}

	// Removing more than exists clamps at zero.
	a.Add("N2", -1)
	if p := a.Get("N2"); p != 0 {
		t.Errorf("over-removal: have %g, want 0", p)
	}
	if absDifferent(a.TotalPressure(), 1.0, testTolerance) {
		t.Errorf("total after removal: have %g, want 1", a.TotalPressure())
	}

	want := []string{"CO2", "H2O", "N2"}
	if !reflect.DeepEqual(a.Gases(), want) {
		t.Errorf("gases: have %v, want %v", a.Gases(), want)
	}
}

// Test whether driven mode decouples the total pressure from the
// tracked species.
func TestCompositionDriven(t *testing.T) {
	const testTolerance = 1.e-12

	a := NewComposition(map[string]float64{"CO2": 0.6})
	a.SetTotalPressure(101.325)
	if absDifferent(a.TotalPressure(), 101.325, testTolerance) {
		t.Errorf("driven total: have %g, want 101.325", a.TotalPressure())
	}
	a.Add("CO2", 10)
	if absDifferent(a.TotalPressure(), 101.325, testTolerance) {
		t.Errorf("driven total moved: have %g, want 101.325", a.TotalPressure())
	}
	if absDifferent(a.Get("CO2"), 10.6, testTolerance) {
		t.Errorf("partial pressure: have %g, want 10.6", a.Get("CO2"))
	}
	a.SetTotalPressure(-3)
	if p := a.TotalPressure(); p != 0 {
		t.Errorf("negative driven total: have %g, want 0", p)
	}
}

// Test whether clones are independent of their source.
func TestCompositionClone(t *testing.T) {
	a := NewComposition(map[string]float64{"CO2": 0.6, "N2": 0.02})
	b := a.Clone()
	b.Set("CO2", 99)
	if a.Get("CO2") != 0.6 {
		t.Errorf("clone mutated source: have %g, want 0.6", a.Get("CO2"))
	}
	if a.TotalPressure() == b.TotalPressure() {
		t.Error("clone total should have diverged")
	}
}

// Test whether the default registry carries the bulk species and
// whether registration validates molar masses.
func TestGasRegistry(t *testing.T) {
	r := NewGasRegistry()
	if r.Len() != 8 {
		t.Errorf("default registry: have %d gases, want 8", r.Len())
	}
	// Symbols come back in registration order, CO2 first.
	if syms := r.Symbols(); syms[0] != "CO2" {
		t.Errorf("first symbol: have %s, want CO2", syms[0])
	}
	if mm, ok := r.MolarMass("CO2"); !ok || different(mm, 44.0095e-3, 1.e-8) {
		t.Errorf("CO2 molar mass: have %g,%v", mm, ok)
	}

	if err := r.Register(Gas{Symbol: "Xe", Name: "Xenon", MolarMass: MolarMassOf(131.293e-3)}); err != nil {
		t.Errorf("registering xenon: %v", err)
	}
	if r.Len() != 9 {
		t.Errorf("after registration: have %d gases, want 9", r.Len())
	}

	if err := r.Register(Gas{Name: "anonymous"}); err == nil {
		t.Error("missing symbol: have nil, want error")
	}
	if err := r.Register(Gas{Symbol: "Kr", MolarMass: unit.New(83.798e-3, unit.Meter)}); err == nil {
		t.Error("wrong molar mass dimensions: have nil, want error")
	}
	if err := r.Register(Gas{Symbol: "Kr", MolarMass: MolarMassOf(-1)}); err == nil {
		t.Error("negative molar mass: have nil, want error")
	}
	if _, ok := r.Gas("Kr"); ok {
		t.Error("failed registrations should not be recorded")
	}

	// Metadata-only re-registration keeps the molar mass.
	if err := r.RegisterGas("CO2", "Carbon Dioxide", "Pa"); err != nil {
		t.Fatal(err)
	}
	if g, _ := r.Gas("CO2"); g.Units != "Pa" {
		t.Errorf("units: have %s, want Pa", g.Units)
	}
	if _, ok := r.MolarMass("CO2"); !ok {
		t.Error("re-registration dropped the molar mass")
	}
	if r.Len() != 9 {
		t.Errorf("re-registration changed the count: have %d, want 9", r.Len())
	}
}

// Test whether the mean molar mass is pressure-weighted and skips
// gases without registered masses.
func TestMeanMolarMass(t *testing.T) {
	const testTolerance = 1.e-12

	r := NewGasRegistry()

	a := NewComposition(map[string]float64{"CO2": 1})
	if mm := r.MeanMolarMass(a); different(mm, 44.0095e-3, testTolerance) {
		t.Errorf("pure CO2: have %g, want %g", mm, 44.0095e-3)
	}

	// Equal parts CO2 and N2 average the two masses.
	a = NewComposition(map[string]float64{"CO2": 2, "N2": 2})
	want := (44.0095e-3 + 28.0134e-3) / 2
	if mm := r.MeanMolarMass(a); different(mm, want, testTolerance) {
		t.Errorf("CO2+N2: have %g, want %g", mm, want)
	}

	// An unregistered trace gas carries no weight.
	a.Set("Xe", 5)
	if mm := r.MeanMolarMass(a); different(mm, want, testTolerance) {
		t.Errorf("with unregistered gas: have %g, want %g", mm, want)
	}

	if mm := r.MeanMolarMass(NewComposition(nil)); mm != 0 {
		t.Errorf("empty composition: have %g, want 0", mm)
	}
}
