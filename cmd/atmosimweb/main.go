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

// command atmosimweb runs a long-lived Atmosim simulation behind the
// browser monitoring interface.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/PerAsperaMods/atmosim"
	"github.com/PerAsperaMods/atmosim/science/greenhouse/simplegreen"
)

const Address = ":10000"

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

var config = flag.String("config", "", "Path to the configuration file")

// serverConfig holds the atmosimweb configuration.
type serverConfig struct {
	// Address is the address to listen on. The default is ":10000".
	Address string

	// StepInterval is the wall-clock time [s] between simulation steps.
	// The default is one step per second.
	StepInterval float64

	// Timestep is the simulated time [s] per step. The default is one
	// sol per step.
	Timestep float64

	// ActiveRegion is the latitude/longitude box [degrees] of grid
	// cells to activate at startup.
	ActiveRegion struct {
		LatMin, LatMax float64
		LonMin, LonMax float64
	}

	// Simulation configures the model physics and grid.
	Simulation atmosim.Config
}

func main() {
	flag.Parse()

	f, err := os.Open(os.ExpandEnv(*config))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	var c serverConfig
	_, err = toml.DecodeReader(f, &c)
	if err != nil {
		log.Fatal(err)
	}
	if c.Address == "" {
		c.Address = Address
	}
	if c.StepInterval <= 0 {
		c.StepInterval = 1
	}
	if c.Timestep <= 0 {
		c.Timestep = c.Simulation.SolLength
	}

	logger.Info("setting up...")
	s, err := atmosim.NewSimulator(&c.Simulation, simplegreen.Mechanism{})
	if err != nil {
		logger.WithError(err).Fatal("failed to create simulation")
	}
	for _, cell := range s.CellsInRegion(c.ActiveRegion.LatMin, c.ActiveRegion.LatMax,
		c.ActiveRegion.LonMin, c.ActiveRegion.LonMax) {
		s.ActivateCell(cell.Coord)
	}

	ws := atmosim.NewWebServer(s)
	ws.Log = logger

	go func() {
		ticker := time.NewTicker(time.Duration(c.StepInterval * float64(time.Second)))
		defer ticker.Stop()
		for range ticker.C {
			if err := s.Step(c.Timestep); err != nil {
				logger.WithError(err).Error("stepping simulation")
				return
			}
		}
	}()

	srv := &http.Server{
		Addr:              c.Address,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	logger.Infof("listening on http://%s\n", c.Address)
	logger.Fatal(srv.ListenAndServe())
}
