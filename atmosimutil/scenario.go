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

package atmosimutil

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/PerAsperaMods/atmosim"
)

// Scenario describes a scripted simulation: a run duration, optional
// additional gas registrations, and a schedule of gas releases.
type Scenario struct {
	// Duration is the simulated length of the scenario [sols].
	Duration float64

	// Gases registers additional gas species before the run starts.
	Gases []ScenarioGas

	// Releases is the schedule of gas additions and removals. It does
	// not need to be sorted.
	Releases []Release
}

// ScenarioGas registers one gas species for use in a scenario.
type ScenarioGas struct {
	Symbol string
	Name   string
	Units  string

	// MolarMass is the molar mass [kg/mol]. Gases registered without
	// it can be reported on but not released.
	MolarMass float64
}

// Release is one scheduled gas addition, or removal when Mass is
// negative.
type Release struct {
	// Sol is the sol at which the release occurs, counted from the
	// start of the scenario.
	Sol float64

	// Gas is the symbol of the gas being released.
	Gas string

	// Mass is the released mass [kg].
	Mass float64

	// Lat and Lon select the cell that receives the release [degrees].
	// If they are omitted the release is spread over the whole planet.
	Lat, Lon *float64

	// Vent, if present, routes the release through an elevated vent;
	// plume rise then determines how much of the gas stays in the
	// receiving cell.
	Vent *Vent
}

// Vent describes the stack parameters of an elevated release.
type Vent struct {
	Height      float64 // [m]
	Diameter    float64 // [m]
	Temperature float64 // [K]
	Velocity    float64 // [m/s]
}

// ReadScenario reads and validates the scenario in the given TOML
// file. The returned scenario's releases are sorted by sol.
func ReadScenario(filename string) (*Scenario, error) {
	var sc Scenario
	if _, err := toml.DecodeFile(filename, &sc); err != nil {
		return nil, fmt.Errorf("atmosim: reading scenario %s: %v", filename, err)
	}
	if sc.Duration <= 0 {
		return nil, fmt.Errorf("atmosim: scenario %s: Duration must be positive, not %g", filename, sc.Duration)
	}
	for i, r := range sc.Releases {
		if r.Gas == "" {
			return nil, fmt.Errorf("atmosim: scenario %s: release %d is missing a gas symbol", filename, i)
		}
		if (r.Lat == nil) != (r.Lon == nil) {
			return nil, fmt.Errorf("atmosim: scenario %s: release %d: Lat and Lon must be specified together", filename, i)
		}
		if r.Vent != nil && r.Lat == nil {
			return nil, fmt.Errorf("atmosim: scenario %s: release %d: a vented release requires Lat and Lon", filename, i)
		}
	}
	sort.SliceStable(sc.Releases, func(i, j int) bool {
		return sc.Releases[i].Sol < sc.Releases[j].Sol
	})
	return &sc, nil
}

// register adds the scenario's gas registrations to the simulation.
func (sc *Scenario) register(s *atmosim.Simulator) error {
	for _, g := range sc.Gases {
		gas := atmosim.Gas{Symbol: g.Symbol, Name: g.Name, Units: g.Units}
		if g.MolarMass > 0 {
			gas.MolarMass = atmosim.MolarMassOf(g.MolarMass)
		}
		if err := s.Registry.Register(gas); err != nil {
			return err
		}
	}
	return nil
}

// applier returns a function that applies the scheduled releases as
// simulated time passes. It must be called with nondecreasing elapsed
// times [s]; each release fires once, when elapsed time first reaches
// its sol.
func (sc *Scenario) applier(s *atmosim.Simulator) func(elapsed float64) error {
	next := 0
	return func(elapsed float64) error {
		sol := elapsed / s.Config.SolLength
		for next < len(sc.Releases) && sc.Releases[next].Sol <= sol {
			if err := sc.release(s, sc.Releases[next]); err != nil {
				return err
			}
			next++
		}
		return nil
	}
}

// release applies a single scheduled release to the simulation.
func (sc *Scenario) release(s *atmosim.Simulator, r Release) error {
	if r.Lat == nil {
		return s.AddGasMass(r.Gas, r.Mass)
	}
	cc := s.Config.CoordAt(*r.Lat, *r.Lon)
	if r.Vent != nil {
		return s.AddVentedGas(cc, r.Gas, r.Mass, atmosim.VentStack{
			Height:      r.Vent.Height,
			Diameter:    r.Vent.Diameter,
			Temperature: r.Vent.Temperature,
			Velocity:    r.Vent.Velocity,
		})
	}
	return s.AddGasMassAt(cc, r.Gas, r.Mass)
}
