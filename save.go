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
	"encoding/gob"
	"fmt"
	"io"
)

// simState is the on-disk form of a simulation snapshot.
type simState struct {
	StepNumber int
	Elapsed    float64
	DayOfYear  float64
	TimeOfDay  float64
	Cells      []cellState
}

// cellState is the on-disk form of a single grid cell.
type cellState struct {
	Coord             CellCoord
	Temperature       float64
	Pressure          float64
	GreenhouseWarming float64
	Insolation        float64
	WindSpeed         float64
	Active            bool
	Composition       map[string]float64
}

// Save returns a function that saves the simulation state to w as a
// gob stream (format description at https://golang.org/pkg/encoding/gob/).
// The snapshot holds the orbital clock and the per-cell state; gas
// registrations are configuration and are not included.
func Save(w io.Writer) DomainManipulator {
	return func(s *Simulator) error {
		if s.grid == nil {
			return fmt.Errorf("atmosim: saving state: grid is not initialized")
		}
		st := simState{
			StepNumber: s.StepNumber,
			Elapsed:    s.Elapsed,
			DayOfYear:  s.DayOfYear,
			TimeOfDay:  s.TimeOfDay,
			Cells:      make([]cellState, 0, len(s.grid.Cells())),
		}
		for _, c := range s.grid.Cells() {
			c.RLock()
			comp := make(map[string]float64)
			for _, gas := range c.Composition.Gases() {
				comp[gas] = c.Composition.Get(gas)
			}
			st.Cells = append(st.Cells, cellState{
				Coord:             c.Coord,
				Temperature:       c.Temperature,
				Pressure:          c.Pressure,
				GreenhouseWarming: c.GreenhouseWarming,
				Insolation:        c.Insolation,
				WindSpeed:         c.WindSpeed,
				Active:            c.Active,
				Composition:       comp,
			})
			c.RUnlock()
		}
		if err := gob.NewEncoder(w).Encode(st); err != nil {
			return fmt.Errorf("atmosim: saving state: %v", err)
		}
		return nil
	}
}

// Load returns a function that restores the state from a previously
// Saved snapshot. The grid must already be built, at the same
// resolution the snapshot was taken at; Load replaces the orbital
// clock and the per-cell state but keeps the gas registry, so gases
// registered after the snapshot was taken must be registered again
// before loading.
func Load(r io.Reader) DomainManipulator {
	return func(s *Simulator) error {
		if s.grid == nil {
			return fmt.Errorf("atmosim: loading state: grid is not initialized")
		}
		var st simState
		if err := gob.NewDecoder(r).Decode(&st); err != nil {
			return fmt.Errorf("atmosim: loading state: %v", err)
		}
		for _, cs := range st.Cells {
			c := s.grid.Cell(cs.Coord)
			if c == nil {
				return fmt.Errorf("atmosim: loading state: no cell at %v; was the snapshot taken at a different grid resolution?", cs.Coord)
			}
			c.Lock()
			c.Temperature = cs.Temperature
			c.Pressure = cs.Pressure
			c.GreenhouseWarming = cs.GreenhouseWarming
			c.Insolation = cs.Insolation
			c.WindSpeed = cs.WindSpeed
			c.Composition = NewComposition(cs.Composition)
			c.Unlock()
			if cs.Active {
				s.grid.ActivateCell(cs.Coord)
			} else {
				s.grid.DeactivateCell(cs.Coord)
			}
		}
		s.StepNumber = st.StepNumber
		s.Elapsed = st.Elapsed
		s.DayOfYear = st.DayOfYear
		s.TimeOfDay = st.TimeOfDay
		return nil
	}
}
