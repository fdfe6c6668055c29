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
	"io"
	"time"

	"github.com/ctessum/sparse"
)

// SimulationStatus is a snapshot of the simulation state after a
// completed step.
type SimulationStatus struct {
	// StepNumber counts completed steps and Elapsed is the total
	// simulated time [s].
	StepNumber int
	Elapsed    float64

	// DayOfYear [sols] and TimeOfDay [fraction of a sol] locate the
	// simulation in the orbital year.
	DayOfYear float64
	TimeOfDay float64

	// GlobalTemperature is the area-weighted regional mean [K],
	// ActiveCellTemperature and ActiveCellPressure are the
	// arithmetic means over active cells [K, kPa], and ActiveCells
	// is the number of active cells.
	GlobalTemperature     float64
	ActiveCellTemperature float64
	ActiveCellPressure    float64
	ActiveCells           int
}

func (st *SimulationStatus) String() string {
	return fmt.Sprintf("step %-5d sol=%-7.4g t=%.3gs active=%d Tglobal=%.2fK Tcells=%.2fK P=%.3gkPa",
		st.StepNumber, st.DayOfYear, st.Elapsed, st.ActiveCells,
		st.GlobalTemperature, st.ActiveCellTemperature, st.ActiveCellPressure)
}

// status builds a snapshot without locking; for use by step functions
// that run while the simulator lock is already held.
func (s *Simulator) status() *SimulationStatus {
	return &SimulationStatus{
		StepNumber:            s.StepNumber,
		Elapsed:               s.Elapsed,
		DayOfYear:             s.DayOfYear,
		TimeOfDay:             s.TimeOfDay,
		GlobalTemperature:     s.globalT,
		ActiveCellTemperature: s.grid.AverageTemperature(),
		ActiveCellPressure:    s.grid.AveragePressure(),
		ActiveCells:           s.grid.active.len(),
	}
}

// Status returns a snapshot of the simulation state.
func (s *Simulator) Status() *SimulationStatus {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.status()
}

// Log returns a function that writes a status line for every step to w.
func Log(w io.Writer) DomainManipulator {
	startTime := time.Now()
	timeStepTime := time.Now()

	return func(s *Simulator) error {
		st := s.status()
		fmt.Fprintf(w, "%v  walltime=%6.3gh  Δwalltime=%4.2gs  timestep=%2.0fs\n",
			st, time.Since(startTime).Hours(),
			time.Since(timeStepTime).Seconds(), s.Δt)
		timeStepTime = time.Now()
		return nil
	}
}

// Report returns a function that sends a status snapshot to c after
// every step. The receiver must drain the channel for the simulation
// to make progress.
func Report(c chan *SimulationStatus) DomainManipulator {
	return func(s *Simulator) error {
		c <- s.status()
		return nil
	}
}

// Results returns simulation results in the form of
// map[variable][lat][lon]value. The variable names are the physical
// cell fields plus the symbols of registered gases; invalid names
// cause an error listing the valid ones.
func (s *Simulator) Results(outputVariables ...string) (map[string][][]float64, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	o := make(map[string][][]float64, len(outputVariables))
	for _, name := range outputVariables {
		if err := s.checkOutputName(name); err != nil {
			return nil, err
		}
		var data *sparse.DenseArray
		switch name {
		case "Temperature":
			data = s.grid.TemperatureField()
		case "Pressure":
			data = s.grid.PressureField()
		default:
			data = s.grid.toArray(name)
		}
		nlat, nlon := s.grid.Dims()
		rows := make([][]float64, nlat)
		for i := 0; i < nlat; i++ {
			rows[i] = make([]float64, nlon)
			for j := 0; j < nlon; j++ {
				rows[i][j] = data.Get(i, j)
			}
		}
		o[name] = rows
	}
	return o, nil
}

// checkOutputName returns an error if name is not a physical cell
// field or a registered gas symbol.
func (s *Simulator) checkOutputName(name string) error {
	for _, v := range cellFieldNames() {
		if v == name {
			return nil
		}
	}
	for _, sym := range s.Registry.Symbols() {
		if sym == name {
			return nil
		}
	}
	return fmt.Errorf("atmosim: invalid output variable name %s; valid names are %v",
		name, append(cellFieldNames(), s.Registry.Symbols()...))
}
