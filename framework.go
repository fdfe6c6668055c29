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
	"math"
	"runtime"
	"sync"
)

// Version gives the version number.
const Version = "0.1.0"

// Config holds the immutable-per-run parameters of a simulation.
// A Config is supplied at simulator construction and must not be
// changed while the simulation is running.
type Config struct {
	// SolarConstant is the top-of-atmosphere solar flux at the
	// planet's mean orbital distance [W/m²].
	SolarConstant float64

	// AtmosphericAttenuation is the fraction of insolation reaching
	// the surface, in the interval (0, 1].
	AtmosphericAttenuation float64

	// AxialTilt is the planet's axial tilt [degrees].
	AxialTilt float64

	// YearLength is the orbital period [sols].
	YearLength float64

	// SolLength is the length of one sol [seconds].
	SolLength float64

	// PlanetRadius is the mean planetary radius [m].
	PlanetRadius float64

	// Gravity is the surface gravitational acceleration [m/s²].
	Gravity float64

	// CO2GreenhouseEfficiency, H2OGreenhouseEfficiency, and
	// GHGGreenhouseEfficiency scale the warming contributions of
	// CO2, water vapor, and the remaining greenhouse species.
	CO2GreenhouseEfficiency float64
	H2OGreenhouseEfficiency float64
	GHGGreenhouseEfficiency float64

	// CO2BaselinePressure is the CO2 partial pressure [kPa] at or
	// below which CO2 contributes no warming.
	CO2BaselinePressure float64

	// MaxGreenhouseWarming caps the total greenhouse warming [K].
	MaxGreenhouseWarming float64

	// MinTemperature and MaxTemperature bound equilibrium
	// temperatures [K].
	MinTemperature float64
	MaxTemperature float64

	// ThermalInertia is the dimensionless rate coefficient for the
	// approach of actual temperature to equilibrium temperature, and
	// ThermalTimeConstant [s] is the time scale it applies over.
	ThermalInertia      float64
	ThermalTimeConstant float64

	// GridResolution is the cell size [degrees]. It must divide
	// evenly into both 90 and 360.
	GridResolution float64

	// DefaultTemperature [K] and DefaultComposition [kPa by gas
	// symbol] initialize every grid cell.
	DefaultTemperature float64
	DefaultComposition map[string]float64

	// PolarArea and EquatorialArea are the surface areas [km²] of
	// the polar and equatorial reference regions.
	PolarArea      float64
	EquatorialArea float64

	// PolarAlbedo and EquatorialAlbedo are the shortwave albedos of
	// the reference regions.
	PolarAlbedo      float64
	EquatorialAlbedo float64

	// SurfaceWindSpeed is the default RMS surface wind speed [m/s].
	SurfaceWindSpeed float64

	// CondensationEnabled turns on seasonal CO2 condensation at the
	// poles. When off, polar ice caps keep their initial extent.
	CondensationEnabled bool

	// InitialIceCapArea is the starting ice cap extent at each
	// pole [km²].
	InitialIceCapArea float64
}

// DefaultConfig returns the configuration for a partially terraformed
// Mars with an Earth-like target baseline.
func DefaultConfig() *Config {
	return &Config{
		SolarConstant:           590,
		AtmosphericAttenuation:  0.85,
		AxialTilt:               25.19,
		YearLength:              668.6,
		SolLength:               88775,
		PlanetRadius:            3.3895e6,
		Gravity:                 3.711,
		CO2GreenhouseEfficiency: 1,
		H2OGreenhouseEfficiency: 1,
		GHGGreenhouseEfficiency: 1,
		CO2BaselinePressure:     0.6,
		MaxGreenhouseWarming:    120,
		MinTemperature:          150,
		MaxTemperature:          400,
		ThermalInertia:          0.3,
		ThermalTimeConstant:     10 * 88775,
		GridResolution:          5,
		DefaultTemperature:      288.15,
		DefaultComposition: map[string]float64{
			"CO2": 0.6,
			"N2":  0.02,
			"O2":  0.001,
			"H2O": 0.001,
			"Ar":  0.01,
		},
		PolarArea:         8.0e6,
		EquatorialArea:    40.0e6,
		PolarAlbedo:       0.5,
		EquatorialAlbedo:  0.22,
		SurfaceWindSpeed:  7,
		InitialIceCapArea: 1.2e6,
	}
}

// Valid checks the configuration for parameter combinations that would
// silently corrupt the simulation, returning an error describing the
// first problem found.
func (cfg *Config) Valid() error {
	if cfg.SolarConstant <= 0 {
		return fmt.Errorf("atmosim: SolarConstant must be positive, not %g", cfg.SolarConstant)
	}
	if cfg.AtmosphericAttenuation <= 0 || cfg.AtmosphericAttenuation > 1 {
		return fmt.Errorf("atmosim: AtmosphericAttenuation must be in (0,1], not %g", cfg.AtmosphericAttenuation)
	}
	if cfg.YearLength <= 0 || cfg.SolLength <= 0 {
		return fmt.Errorf("atmosim: YearLength and SolLength must be positive, not %g and %g",
			cfg.YearLength, cfg.SolLength)
	}
	if cfg.PlanetRadius <= 0 || cfg.Gravity <= 0 {
		return fmt.Errorf("atmosim: PlanetRadius and Gravity must be positive, not %g and %g",
			cfg.PlanetRadius, cfg.Gravity)
	}
	if cfg.CO2BaselinePressure < 0 {
		return fmt.Errorf("atmosim: CO2BaselinePressure must not be negative, not %g", cfg.CO2BaselinePressure)
	}
	if cfg.MaxGreenhouseWarming < 0 {
		return fmt.Errorf("atmosim: MaxGreenhouseWarming must not be negative, not %g", cfg.MaxGreenhouseWarming)
	}
	if cfg.MinTemperature >= cfg.MaxTemperature {
		return fmt.Errorf("atmosim: MinTemperature %g is not below MaxTemperature %g",
			cfg.MinTemperature, cfg.MaxTemperature)
	}
	if cfg.ThermalInertia < 0 || cfg.ThermalTimeConstant <= 0 {
		return fmt.Errorf("atmosim: ThermalInertia must not be negative and ThermalTimeConstant "+
			"must be positive, not %g and %g", cfg.ThermalInertia, cfg.ThermalTimeConstant)
	}
	if cfg.GridResolution <= 0 ||
		math.Mod(90, cfg.GridResolution) != 0 || math.Mod(360, cfg.GridResolution) != 0 {
		return fmt.Errorf("atmosim: GridResolution must be positive and divide evenly into "+
			"90 and 360, not %g", cfg.GridResolution)
	}
	for gas, p := range cfg.DefaultComposition {
		if p < 0 {
			return fmt.Errorf("atmosim: DefaultComposition[%s] must not be negative, not %g", gas, p)
		}
	}
	if cfg.PolarArea <= 0 || cfg.EquatorialArea <= 0 {
		return fmt.Errorf("atmosim: PolarArea and EquatorialArea must be positive, not %g and %g",
			cfg.PolarArea, cfg.EquatorialArea)
	}
	if cfg.PolarAlbedo < 0 || cfg.PolarAlbedo > 1 || cfg.EquatorialAlbedo < 0 || cfg.EquatorialAlbedo > 1 {
		return fmt.Errorf("atmosim: albedos must be in [0,1], not %g and %g",
			cfg.PolarAlbedo, cfg.EquatorialAlbedo)
	}
	if cfg.InitialIceCapArea < 0 {
		return fmt.Errorf("atmosim: InitialIceCapArea must not be negative, not %g", cfg.InitialIceCapArea)
	}
	return nil
}

// SurfaceArea returns the planet's surface area [m²].
func (cfg *Config) SurfaceArea() float64 {
	return 4 * math.Pi * cfg.PlanetRadius * cfg.PlanetRadius
}

// nlat and nlon are the grid dimensions at the configured resolution.
func (cfg *Config) nlat() int { return int(180 / cfg.GridResolution) }
func (cfg *Config) nlon() int { return int(360 / cfg.GridResolution) }

// DomainManipulator is a class of functions that operate on the
// simulation domain as a whole.
type DomainManipulator func(s *Simulator) error

// CellManipulator is a class of functions that operate on a single
// grid cell, where Δt is the length of the current time step [s].
type CellManipulator func(c *Cell, Δt float64)

// Simulator holds the current state of a simulation and the functions
// that advance it. InitFuncs run once when Init is called, StepFuncs
// run in order on every Step, and CleanupFuncs run when Cleanup
// is called.
type Simulator struct {
	InitFuncs    []DomainManipulator
	StepFuncs    []DomainManipulator
	CleanupFuncs []DomainManipulator

	Config    *Config
	Mechanism Mechanism

	// Registry is the gas vocabulary for this simulation. If nil,
	// Init installs a registry with the bulk atmospheric species.
	Registry *GasRegistry

	// Δt is the length of the current time step [s], set by Step.
	Δt float64

	// StepNumber counts completed steps, and Elapsed is the total
	// simulated time [s].
	StepNumber int
	Elapsed    float64

	// DayOfYear is the position in the orbital year [sols], and
	// TimeOfDay is the fraction of the current sol, both advanced
	// by AdvanceOrbit.
	DayOfYear float64
	TimeOfDay float64

	grid    *Grid
	regions []Region

	// driving is the composition that drives regional greenhouse
	// physics, recomputed by UpdateRegions from the mean of the
	// active cells.
	driving *Composition

	// globalT is the area-weighted global temperature [K] computed
	// by AggregateRegions.
	globalT float64

	initialized bool

	mx sync.RWMutex
}

// Init initializes the simulation by running InitFuncs in order.
func (s *Simulator) Init() error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.Config == nil {
		return fmt.Errorf("atmosim: simulator is missing a Config")
	}
	if err := s.Config.Valid(); err != nil {
		return err
	}
	if s.Mechanism == nil {
		return fmt.Errorf("atmosim: simulator is missing a Mechanism")
	}
	if s.Registry == nil {
		s.Registry = NewGasRegistry()
	}
	for _, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	s.initialized = true
	return nil
}

// Step advances the simulation by Δt seconds of simulated time,
// running StepFuncs in order. It runs to completion before returning;
// no simulation state is mutated outside of Step and the explicit
// setter methods.
func (s *Simulator) Step(Δt float64) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if !s.initialized {
		return fmt.Errorf("atmosim: Step called before Init")
	}
	if Δt <= 0 || math.IsNaN(Δt) || math.IsInf(Δt, 0) {
		return fmt.Errorf("atmosim: invalid time step %g s", Δt)
	}
	s.Δt = Δt
	for _, f := range s.StepFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	s.StepNumber++
	s.Elapsed += Δt
	return nil
}

// Cleanup finishes the simulation by running CleanupFuncs in order.
func (s *Simulator) Cleanup() error {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// NewSimulator returns an initialized simulator with the default
// science functions wired in: orbital advancement, per-cell greenhouse
// warming and radiative equilibrium, regional climate updates, and
// area-weighted aggregation.
func NewSimulator(cfg *Config, m Mechanism) (*Simulator, error) {
	s := &Simulator{
		Config:    cfg,
		Mechanism: m,
	}
	s.InitFuncs = []DomainManipulator{
		cfg.RegularGrid(m),
		cfg.SetupRegions(),
	}
	s.StepFuncs = []DomainManipulator{
		AdvanceOrbit(),
		Calculations(m.Warming(cfg)),
		UpdateRegions(nil),
		AggregateRegions(),
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Calculations returns a function that concurrently runs a series of
// calculations on all of the active grid cells. Cells are disjoint
// between goroutines and every goroutine completes before the
// returned function does.
func Calculations(calculators ...CellManipulator) DomainManipulator {
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup

	return func(s *Simulator) error {
		cells := s.grid.active.array()
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				var c *Cell
				for ii := pp; ii < len(cells); ii += nprocs {
					c = cells[ii]
					c.Lock()
					for _, f := range calculators {
						f(c, s.Δt)
					}
					c.Unlock()
				}
				wg.Done()
			}(pp)
		}
		wg.Wait()
		return nil
	}
}

// Grid returns the simulation grid. The grid itself is not
// concurrency-guarded; callers that read it while another goroutine
// steps the simulation should use the Simulator query methods instead.
func (s *Simulator) Grid() *Grid {
	return s.grid
}

// Cells returns all of the grid cells in coordinate order.
func (s *Simulator) Cells() []*Cell {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.grid.Cells()
}

// ActiveCells returns the active grid cells in coordinate order.
func (s *Simulator) ActiveCells() []*Cell {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.grid.ActiveCells()
}

// ActivateCell marks the cell at the given coordinate as active.
// Invalid coordinates are ignored.
func (s *Simulator) ActivateCell(cc CellCoord) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.grid.ActivateCell(cc)
}

// DeactivateCell marks the cell at the given coordinate as inactive.
// Invalid coordinates are ignored.
func (s *Simulator) DeactivateCell(cc CellCoord) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.grid.DeactivateCell(cc)
}

// CellsInRegion returns the cells, active or not, whose centers fall
// within the inclusive bounding box.
func (s *Simulator) CellsInRegion(latMin, latMax, lonMin, lonMax float64) []*Cell {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.grid.CellsInRegion(latMin, latMax, lonMin, lonMax)
}

// AverageTemperature returns the arithmetic mean temperature [K] of
// the active cells, or zero when no cells are active.
func (s *Simulator) AverageTemperature() float64 {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.grid.AverageTemperature()
}

// AveragePressure returns the arithmetic mean total pressure [kPa] of
// the active cells, or zero when no cells are active.
func (s *Simulator) AveragePressure() float64 {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.grid.AveragePressure()
}

// RegisterGas extends the gas vocabulary with reporting metadata for
// the given symbol. Existing cell compositions are not changed; the
// new gas reads as zero everywhere until explicitly set.
func (s *Simulator) RegisterGas(symbol, displayName, units string) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.Registry.RegisterGas(symbol, displayName, units)
}
