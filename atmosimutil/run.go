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
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/PerAsperaMods/atmosim"
)

// Run runs an Atmosim simulation for NumSteps time steps of Timestep
// seconds each, activating the grid cells in the given
// latitude/longitude box before the first step. Progress is logged to
// LogFile and to the command's output writer, the configured output
// variables are evaluated after every step, and the recorded values
// are written to OutputFile as CSV when the run completes. addInit,
// addStep, and addCleanup allow the simulation to be extended with
// additional functionality.
func Run(CobraCommand *cobra.Command, LogFile, OutputFile string,
	OutputVariables map[string]string, NumSteps int,
	Timestep, latMin, latMax, lonMin, lonMax float64,
	cfg *atmosim.Config, addInit, addStep, addCleanup []atmosim.DomainManipulator,
	m atmosim.Mechanism) error {
	if NumSteps <= 0 {
		return fmt.Errorf("atmosim: NumSteps must be positive, not %d", NumSteps)
	}
	return runSim(CobraCommand, LogFile, OutputFile, OutputVariables, NumSteps,
		Timestep, latMin, latMax, lonMin, lonMax, cfg,
		addInit, addStep, addCleanup, m, nil)
}

// RunScenario runs an Atmosim simulation under the control of a
// scripted scenario, stepping until the scenario duration has elapsed
// and applying its scheduled gas releases as simulated time passes.
// Logging and output variable recording work the same way as in Run.
func RunScenario(CobraCommand *cobra.Command, LogFile, OutputFile string,
	OutputVariables map[string]string, scenario *Scenario,
	Timestep, latMin, latMax, lonMin, lonMax float64,
	cfg *atmosim.Config, m atmosim.Mechanism) error {
	if Timestep <= 0 {
		return fmt.Errorf("atmosim: Timestep must be positive, not %g", Timestep)
	}
	nsteps := int(math.Ceil(scenario.Duration * cfg.SolLength / Timestep))
	if nsteps < 1 {
		nsteps = 1
	}
	return runSim(CobraCommand, LogFile, OutputFile, OutputVariables, nsteps,
		Timestep, latMin, latMax, lonMin, lonMax, cfg,
		nil, nil, nil, m, scenario)
}

func runSim(CobraCommand *cobra.Command, LogFile, OutputFile string,
	OutputVariables map[string]string, NumSteps int,
	Timestep, latMin, latMax, lonMin, lonMax float64,
	cfg *atmosim.Config, addInit, addStep, addCleanup []atmosim.DomainManipulator,
	m atmosim.Mechanism, scenario *Scenario) error {
	startTime := time.Now()

	// Start functions to receive and print simulation progress.
	cRegion := make(chan atmosim.RegionStatus)
	cLog := make(chan *atmosim.SimulationStatus)

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("atmosim: problem creating log file: %v", err)
	}
	mw := io.MultiWriter(CobraCommand.OutOrStdout(), logfile)
	log.SetOutput(mw)
	cLogTick := time.NewTicker(2 * time.Second)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for status := range cRegion {
			if status.Err != nil {
				log.Printf("updating region %s: %v", status.Region, status.Err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for status := range cLog {
			select {
			case <-cLogTick.C:
				log.Println(status.String())
			default:
				runtime.Gosched()
			}
		}
	}()
	defer func() {
		close(cRegion)
		close(cLog)
		cLogTick.Stop()
		wg.Wait()
		logfile.Close()
	}()

	log.Println("Initializing model...")

	s := &atmosim.Simulator{
		Config:    cfg,
		Mechanism: m,
		InitFuncs: append([]atmosim.DomainManipulator{
			cfg.RegularGrid(m),
			cfg.SetupRegions(),
			activateRegion(latMin, latMax, lonMin, lonMax),
		}, addInit...),
		StepFuncs: append([]atmosim.DomainManipulator{
			atmosim.AdvanceOrbit(),
			atmosim.Calculations(m.Warming(cfg)),
			atmosim.UpdateRegions(cRegion),
			atmosim.AggregateRegions(),
			atmosim.Report(cLog),
		}, addStep...),
		CleanupFuncs: addCleanup,
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("atmosim: problem initializing simulation: %v", err)
	}
	if scenario != nil {
		if err := scenario.register(s); err != nil {
			return err
		}
	}

	monitor, err := atmosim.NewMonitor(s, OutputVariables, nil)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(OutputVariables))
	for name := range OutputVariables {
		names = append(names, name)
	}
	sort.Strings(names)

	log.Println("Initial mean partial pressures:")
	for _, gas := range s.Registry.Symbols() {
		log.Printf("\t%s: %.3g kPa", gas, s.AveragePartialPressure(gas))
	}

	var apply func(float64) error
	if scenario != nil {
		apply = scenario.applier(s)
	}

	records := make([][]string, 0, NumSteps)
	for i := 0; i < NumSteps; i++ {
		if apply != nil {
			if err := apply(s.Elapsed); err != nil {
				return err
			}
		}
		if err := s.Step(Timestep); err != nil {
			return fmt.Errorf("atmosim: problem stepping simulation: %v", err)
		}
		record := make([]string, 0, len(names)+2)
		record = append(record,
			strconv.Itoa(s.StepNumber),
			strconv.FormatFloat(s.Elapsed/cfg.SolLength, 'g', -1, 64))
		for _, name := range names {
			v, err := monitor.Value(name)
			if err != nil {
				return err
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		records = append(records, record)
	}

	if err := s.Cleanup(); err != nil {
		return fmt.Errorf("atmosim: problem shutting down simulation: %v", err)
	}

	log.Println(s.Status().String())
	log.Println("Final mean partial pressures:")
	for _, gas := range s.Registry.Symbols() {
		log.Printf("\t%s: %.3g kPa", gas, s.AveragePartialPressure(gas))
	}

	if err := writeOutput(OutputFile, append([]string{"Step", "Sol"}, names...), records); err != nil {
		return err
	}

	log.Printf("Elapsed time: %f hours", time.Since(startTime).Hours())
	return nil
}

// activateRegion returns an initialization function that activates all
// of the grid cells in the given latitude/longitude box [degrees].
func activateRegion(latMin, latMax, lonMin, lonMax float64) atmosim.DomainManipulator {
	return func(s *atmosim.Simulator) error {
		cells := s.Grid().CellsInRegion(latMin, latMax, lonMin, lonMax)
		if len(cells) == 0 {
			return fmt.Errorf("atmosim: no grid cells within the active region lat [%g, %g] lon [%g, %g]",
				latMin, latMax, lonMin, lonMax)
		}
		for _, c := range cells {
			s.Grid().ActivateCell(c.Coord)
		}
		return nil
	}
}

// writeOutput writes the per-step analytics records to a CSV file.
func writeOutput(filename string, header []string, records [][]string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("atmosim: creating output file: %v", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("atmosim: writing output file: %v", err)
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("atmosim: writing output file: %v", err)
	}
	return f.Close()
}
