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
	"time"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/PerAsperaMods/atmosim"
)

// RunWeb runs an Atmosim simulation continuously, advancing one time
// step of Timestep seconds every stepInterval seconds of wall-clock
// time, and serves the browser monitoring interface on address. It
// blocks until the server fails.
func RunWeb(CobraCommand *cobra.Command, address string,
	stepInterval, Timestep, latMin, latMax, lonMin, lonMax float64,
	cfg *atmosim.Config, openBrowser bool, m atmosim.Mechanism) error {
	if stepInterval <= 0 {
		return fmt.Errorf("atmosim: Web.StepInterval must be positive, not %g", stepInterval)
	}

	s := &atmosim.Simulator{
		Config:    cfg,
		Mechanism: m,
		InitFuncs: []atmosim.DomainManipulator{
			cfg.RegularGrid(m),
			cfg.SetupRegions(),
			activateRegion(latMin, latMax, lonMin, lonMax),
		},
		StepFuncs: []atmosim.DomainManipulator{
			atmosim.AdvanceOrbit(),
			atmosim.Calculations(m.Warming(cfg)),
			atmosim.UpdateRegions(nil),
			atmosim.AggregateRegions(),
		},
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("atmosim: problem initializing simulation: %v", err)
	}

	ws := atmosim.NewWebServer(s)
	fmt.Fprintf(CobraCommand.OutOrStdout(), "Monitoring interface listening at http://%s\n", address)

	go func() {
		ticker := time.NewTicker(time.Duration(stepInterval * float64(time.Second)))
		defer ticker.Stop()
		for range ticker.C {
			if err := s.Step(Timestep); err != nil {
				ws.Log.Printf("atmosim: stepping simulation: %v", err)
				return
			}
		}
	}()

	if openBrowser {
		open.Run("http://" + address)
	}
	return ws.ListenAndServe(address)
}
