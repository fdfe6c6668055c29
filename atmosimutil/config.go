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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	"github.com/PerAsperaMods/atmosim"
)

// SimConfig assembles a simulation configuration from the given
// configuration information.
func SimConfig(cfg *viper.Viper) (*atmosim.Config, error) {
	composition, err := getStringMapFloat64("Grid.DefaultComposition", cfg)
	if err != nil {
		return nil, fmt.Errorf("atmosim: parsing configuration variable Grid.DefaultComposition: %v", err)
	}
	c := &atmosim.Config{
		SolarConstant:           cfg.GetFloat64("Planet.SolarConstant"),
		AtmosphericAttenuation:  cfg.GetFloat64("Planet.AtmosphericAttenuation"),
		AxialTilt:               cfg.GetFloat64("Planet.AxialTilt"),
		YearLength:              cfg.GetFloat64("Planet.YearLength"),
		SolLength:               cfg.GetFloat64("Planet.SolLength"),
		PlanetRadius:            cfg.GetFloat64("Planet.Radius"),
		Gravity:                 cfg.GetFloat64("Planet.Gravity"),
		CO2GreenhouseEfficiency: cfg.GetFloat64("Greenhouse.CO2Efficiency"),
		H2OGreenhouseEfficiency: cfg.GetFloat64("Greenhouse.H2OEfficiency"),
		GHGGreenhouseEfficiency: cfg.GetFloat64("Greenhouse.GHGEfficiency"),
		CO2BaselinePressure:     cfg.GetFloat64("Greenhouse.CO2BaselinePressure"),
		MaxGreenhouseWarming:    cfg.GetFloat64("Greenhouse.MaxWarming"),
		MinTemperature:          cfg.GetFloat64("Temperature.Min"),
		MaxTemperature:          cfg.GetFloat64("Temperature.Max"),
		ThermalInertia:          cfg.GetFloat64("Temperature.Inertia"),
		ThermalTimeConstant:     cfg.GetFloat64("Temperature.TimeConstant"),
		GridResolution:          cfg.GetFloat64("Grid.Resolution"),
		DefaultTemperature:      cfg.GetFloat64("Grid.DefaultTemperature"),
		DefaultComposition:      composition,
		PolarArea:               cfg.GetFloat64("Regions.PolarArea"),
		EquatorialArea:          cfg.GetFloat64("Regions.EquatorialArea"),
		PolarAlbedo:             cfg.GetFloat64("Regions.PolarAlbedo"),
		EquatorialAlbedo:        cfg.GetFloat64("Regions.EquatorialAlbedo"),
		SurfaceWindSpeed:        cfg.GetFloat64("Regions.SurfaceWindSpeed"),
		CondensationEnabled:     cfg.GetBool("Regions.Condensation"),
		InitialIceCapArea:       cfg.GetFloat64("Regions.InitialIceCapArea"),
	}
	if err := c.Valid(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkOutputFile makes sure that the output file is specified
// and its directory exists, and expands any environment variables.
func checkOutputFile(o string) (string, error) {
	if o == "" {
		return o, fmt.Errorf("you need to specify an output file configuration variable (for example: OutputFile=\"output.csv\")")
	}
	o = os.ExpandEnv(o)
	outdir := filepath.Dir(o)
	if _, err := os.Stat(outdir); err != nil {
		return o, fmt.Errorf("atmosim: the OutputFile directory doesn't exist: %v", err)
	}
	return o, nil
}

// checkOutputVars makes sure that at least one output variable is
// specified and removes any whitespace from the expressions.
func checkOutputVars(o map[string]string) (map[string]string, error) {
	if len(o) == 0 {
		return o, fmt.Errorf("there are no variables specified to output. Please fill in the OutputVariables configuration and try again")
	}
	for k, v := range o {
		o[k] = strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(v)
	}
	return o, nil
}

// checkLogFile fills in a default value for the log file path
// if one isn't specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(os.ExpandEnv(outputFile), filepath.Ext(outputFile)) + ".log"
	} else {
		logFile = os.ExpandEnv(logFile)
	}
	return logFile
}

// GetStringMapString returns a map of strings from the given
// configuration variable, parsing it from a JSON object if necessary.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case string:
		o := make(map[string]string)
		if err := json.Unmarshal([]byte(strings.TrimSpace(i.(string))), &o); err != nil {
			panic(fmt.Errorf("atmosim: parsing configuration variable %s: %v", varName, err))
		}
		return o
	default:
		return cast.ToStringMapString(i)
	}
}

// getStringMapFloat64 returns a map of numbers from the given
// configuration variable, parsing it from a JSON object if necessary.
func getStringMapFloat64(varName string, cfg *viper.Viper) (map[string]float64, error) {
	i := cfg.Get(varName)
	switch i.(type) {
	case string:
		o := make(map[string]float64)
		if err := json.Unmarshal([]byte(strings.TrimSpace(i.(string))), &o); err != nil {
			return nil, err
		}
		return o, nil
	default:
		m := cast.ToStringMap(i)
		o := make(map[string]float64, len(m))
		for k, v := range m {
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, fmt.Errorf("value for %s: %v", k, err)
			}
			o[k] = f
		}
		return o, nil
	}
}
