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

// Test whether the status line formats each of its fields.
func TestStatusString(t *testing.T) {
	st := &SimulationStatus{
		StepNumber:            3,
		Elapsed:               266325,
		DayOfYear:             1.5,
		GlobalTemperature:     210.123,
		ActiveCellTemperature: 215.5,
		ActiveCellPressure:    0.65,
		ActiveCells:           72,
	}
	line := st.String()
	for _, want := range []string{
		"step 3", "sol=1.5", "t=2.66e+05s", "active=72",
		"Tglobal=210.12K", "Tcells=215.50K", "P=0.65kPa",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("%q missing from %q", want, line)
		}
	}
}

// Test whether Log writes one status line per step.
func TestLog(t *testing.T) {
	var m Mech
	cfg := SimTestData()
	var buf bytes.Buffer
	s := &Simulator{
		Config:    cfg,
		Mechanism: m,
		InitFuncs: []DomainManipulator{cfg.RegularGrid(m), cfg.SetupRegions()},
		StepFuncs: []DomainManipulator{AdvanceOrbit(), Log(&buf)},
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Step(cfg.SolLength); err != nil {
		t.Fatal(err)
	}
	if err := s.Step(cfg.SolLength); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("have %d log lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "sol=1") || !strings.Contains(lines[1], "sol=2") {
		t.Errorf("log lines do not track the orbit: %q", lines)
	}
	if !strings.Contains(lines[1], "walltime=") || !strings.Contains(lines[1], "timestep=") {
		t.Errorf("unexpected log line %q", lines[1])
	}
}

// Test whether Report delivers a snapshot for every step with the
// orbital state already advanced.
func TestReport(t *testing.T) {
	var m Mech
	cfg := SimTestData()
	ch := make(chan *SimulationStatus, 2)
	s := &Simulator{
		Config:    cfg,
		Mechanism: m,
		InitFuncs: []DomainManipulator{cfg.RegularGrid(m), cfg.SetupRegions()},
		StepFuncs: []DomainManipulator{AdvanceOrbit(), Report(ch)},
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Step(cfg.SolLength); err != nil {
		t.Fatal(err)
	}
	if err := s.Step(cfg.SolLength / 2); err != nil {
		t.Fatal(err)
	}
	close(ch)
	var days []float64
	for st := range ch {
		days = append(days, st.DayOfYear)
	}
	if len(days) != 2 || absDifferent(days[0], 1, 1.e-8) || absDifferent(days[1], 1.5, 1.e-8) {
		t.Errorf("reported days: have %v, want [1 1.5]", days)
	}
}

// Test whether Results grids the cell fields and gas pressures by
// coordinate and rejects unknown variable names.
func TestResults(t *testing.T) {
	var m Mech
	s, err := NewSimulator(SimTestData(), m)
	if err != nil {
		t.Fatal(err)
	}
	cc := CellCoord{Lat: 2, Lon: 7}
	s.ActivateCell(cc)
	c := s.Grid().Cell(cc)
	c.Temperature = 321
	c.Composition.Set("CO2", 4.5)
	c.Pressure = c.Composition.TotalPressure()

	r, err := s.Results("Temperature", "Pressure", "CO2")
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 3 {
		t.Fatalf("have %d variables, want 3", len(r))
	}
	temp := r["Temperature"]
	if len(temp) != 6 || len(temp[0]) != 12 {
		t.Fatalf("temperature grid is %d×%d, want 6×12", len(temp), len(temp[0]))
	}
	if temp[2][7] != 321 {
		t.Errorf("Temperature[2][7]: have %g, want 321", temp[2][7])
	}
	if temp[0][0] != s.Config.DefaultTemperature {
		t.Errorf("Temperature[0][0]: have %g, want %g", temp[0][0], s.Config.DefaultTemperature)
	}
	if co2 := r["CO2"]; co2[2][7] != 4.5 || co2[0][0] != s.Config.DefaultComposition["CO2"] {
		t.Errorf("CO2: have %g and %g, want 4.5 and %g",
			co2[2][7], co2[0][0], s.Config.DefaultComposition["CO2"])
	}
	if p := r["Pressure"]; p[2][7] != c.Pressure {
		t.Errorf("Pressure[2][7]: have %g, want %g", p[2][7], c.Pressure)
	}

	if _, err := s.Results("Vorticity"); err == nil || !strings.Contains(err.Error(), "valid names") {
		t.Errorf("invalid name: have %v, want listing error", err)
	}
}
