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
	"bytes"
	"strings"
	"testing"
)

// Test whether a saved snapshot restores the orbital clock and the
// per-cell state into a freshly built grid.
func TestSaveLoad(t *testing.T) {
	buf := bytes.NewBuffer([]byte{})

	var mech Mech
	cfg := SimTestData()
	s := &Simulator{
		Config:    cfg,
		Mechanism: mech,
		InitFuncs: []DomainManipulator{
			cfg.RegularGrid(mech),
			cfg.SetupRegions(),
		},
		StepFuncs:    []DomainManipulator{AdvanceOrbit()},
		CleanupFuncs: []DomainManipulator{Save(buf)},
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.ActivateCell(CellCoord{Lat: 2, Lon: 3})
	c := s.Grid().Cell(CellCoord{Lat: 2, Lon: 3})
	c.Temperature = 321
	c.Composition.Set("CO2", 4.5)
	c.Pressure = c.Composition.TotalPressure()
	for i := 0; i < 2; i++ {
		if err := s.Step(cfg.SolLength); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Cleanup(); err != nil {
		t.Fatal(err)
	}

	s2 := &Simulator{
		Config:    cfg,
		Mechanism: mech,
		InitFuncs: []DomainManipulator{
			cfg.RegularGrid(mech),
			cfg.SetupRegions(),
			Load(buf),
		},
	}
	if err := s2.Init(); err != nil {
		t.Fatal(err)
	}

	if s2.StepNumber != s.StepNumber || s2.Elapsed != s.Elapsed || s2.DayOfYear != s.DayOfYear {
		t.Errorf("clock: have step %d elapsed %g day %g, want step %d elapsed %g day %g",
			s2.StepNumber, s2.Elapsed, s2.DayOfYear, s.StepNumber, s.Elapsed, s.DayOfYear)
	}
	c2 := s2.Grid().Cell(CellCoord{Lat: 2, Lon: 3})
	if c2.Temperature != 321 {
		t.Errorf("temperature: have %g, want 321", c2.Temperature)
	}
	if p := c2.Composition.Get("CO2"); p != 4.5 {
		t.Errorf("CO2: have %g, want 4.5", p)
	}
	if c2.Pressure != c.Pressure {
		t.Errorf("pressure: have %g, want %g", c2.Pressure, c.Pressure)
	}
	if !c2.Active {
		t.Error("cell should be active after load")
	}
	if have, want := len(s2.ActiveCells()), len(s.ActiveCells()); have != want {
		t.Errorf("active cells: have %d, want %d", have, want)
	}
	if s2.Grid().Cell(CellCoord{Lat: 0, Lon: 0}).Active {
		t.Error("cell should be inactive after load")
	}
}

// Test whether loading a snapshot into a grid with a different
// resolution is reported as an error.
func TestLoadResolutionMismatch(t *testing.T) {
	buf := bytes.NewBuffer([]byte{})

	var mech Mech
	cfg := SimTestData()
	s := &Simulator{
		Config:    cfg,
		Mechanism: mech,
		InitFuncs: []DomainManipulator{
			cfg.RegularGrid(mech),
			cfg.SetupRegions(),
			Save(buf),
		},
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	cfg2 := SimTestData()
	cfg2.GridResolution = 45
	s2 := &Simulator{
		Config:    cfg2,
		Mechanism: mech,
		InitFuncs: []DomainManipulator{
			cfg2.RegularGrid(mech),
			cfg2.SetupRegions(),
			Load(buf),
		},
	}
	err := s2.Init()
	if err == nil {
		t.Fatal("want error")
	}
	if !strings.Contains(err.Error(), "loading state") {
		t.Errorf("have %v", err)
	}
}
