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
	"testing"
)

// orbitSim returns a simulator whose steps only advance the orbital
// clock.
func orbitSim(t *testing.T) *Simulator {
	t.Helper()
	var m Mech
	cfg := SimTestData()
	s := &Simulator{
		Config:    cfg,
		Mechanism: m,
		InitFuncs: []DomainManipulator{cfg.RegularGrid(m), cfg.SetupRegions()},
		StepFuncs: []DomainManipulator{AdvanceOrbit()},
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	return s
}

// Test whether the orbital clock advances in sols and wraps at the
// year and sol boundaries.
func TestAdvanceOrbit(t *testing.T) {
	const testTolerance = 1.e-8

	s := orbitSim(t)
	cfg := s.Config

	if err := s.Step(cfg.SolLength / 2); err != nil {
		t.Fatal(err)
	}
	if absDifferent(s.TimeOfDay, 0.5, testTolerance) {
		t.Errorf("time of day: have %g, want 0.5", s.TimeOfDay)
	}
	if absDifferent(s.DayOfYear, 0.5, testTolerance) {
		t.Errorf("day of year: have %g, want 0.5", s.DayOfYear)
	}

	// Another three half-sols: the time of day wraps twice.
	for i := 0; i < 3; i++ {
		if err := s.Step(cfg.SolLength / 2); err != nil {
			t.Fatal(err)
		}
	}
	if absDifferent(s.TimeOfDay, 0, testTolerance) {
		t.Errorf("wrapped time of day: have %g, want 0", s.TimeOfDay)
	}
	if absDifferent(s.DayOfYear, 2, testTolerance) {
		t.Errorf("day of year: have %g, want 2", s.DayOfYear)
	}

	// A full year later the seasonal position is unchanged.
	if err := s.Step(cfg.YearLength * cfg.SolLength); err != nil {
		t.Fatal(err)
	}
	if absDifferent(s.DayOfYear, 2, testTolerance) {
		t.Errorf("day of year after one year: have %g, want 2", s.DayOfYear)
	}
}

// Test whether the subsolar latitude follows the axial tilt through
// the seasons.
func TestSolarDeclination(t *testing.T) {
	const testTolerance = 1.e-8

	s := orbitSim(t)
	cfg := s.Config

	// Day zero is the northern spring equinox.
	if δ := s.solarDeclination(); absDifferent(δ, 0, testTolerance) {
		t.Errorf("equinox declination: have %g, want 0", δ)
	}

	s.DayOfYear = cfg.YearLength / 4
	if δ := s.solarDeclination(); absDifferent(δ, cfg.AxialTilt, testTolerance) {
		t.Errorf("northern solstice: have %g, want %g", δ, cfg.AxialTilt)
	}

	s.DayOfYear = 3 * cfg.YearLength / 4
	if δ := s.solarDeclination(); absDifferent(δ, -cfg.AxialTilt, testTolerance) {
		t.Errorf("southern solstice: have %g, want %g", δ, -cfg.AxialTilt)
	}
}

// Test whether instantaneous insolation tracks the solar zenith angle,
// with zero on the night side.
func TestInsolationAt(t *testing.T) {
	const testTolerance = 1.e-8

	s := orbitSim(t)
	cfg := s.Config

	// A fresh simulation sits at local midnight.
	if I := s.InsolationAt(0); I != 0 {
		t.Errorf("midnight: have %g, want 0", I)
	}

	// Equinox noon at the equator sees the full attenuated solar
	// constant.
	s.TimeOfDay = 0.5
	want := cfg.SolarConstant * cfg.AtmosphericAttenuation
	if I := s.InsolationAt(0); different(I, want, testTolerance) {
		t.Errorf("overhead sun: have %g, want %g", I, want)
	}
	// At 60° the sun stands 60° from the zenith.
	if I := s.InsolationAt(60); different(I, want/2, testTolerance) {
		t.Errorf("60° latitude: have %g, want %g", I, want/2)
	}

	// Polar night: during southern summer the north polar cap gets
	// no sun even at noon.
	s.DayOfYear = 3 * cfg.YearLength / 4
	if I := s.InsolationAt(82.5); I != 0 {
		t.Errorf("polar night: have %g, want 0", I)
	}
	// The south polar cap has continuous day, including at local
	// midnight.
	s.TimeOfDay = 0
	if I := s.InsolationAt(-82.5); I <= 0 {
		t.Errorf("midnight sun: have %g, want positive", I)
	}
}
