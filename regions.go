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
)

// Region is a coarse climate model for one part of the planet. Regions
// evolve independently of the cell grid; their only coupling to it is
// the mean active-cell composition that drives their greenhouse
// physics. Update is called once per simulation step while the
// simulator holds its write lock.
type Region interface {
	// Name returns the region's identifying name.
	Name() string

	// Area returns the region's surface area [km²].
	Area() float64

	// Temperature returns the region's atmospheric temperature [K].
	Temperature() float64

	// Update advances the region's physics over the simulator's
	// current time step.
	Update(s *Simulator) error

	// Data returns a snapshot of the region's state.
	Data() RegionData
}

// RegionData is a point-in-time snapshot of a region's state.
type RegionData struct {
	Name string

	Area                  float64 `desc:"Region surface area" units:"km²"`
	SurfaceTemperature    float64 `desc:"Ground surface temperature" units:"K"`
	AtmosphereTemperature float64 `desc:"Near-surface air temperature" units:"K"`
	Humidity              float64 `desc:"Relative humidity" units:"fraction"`
	Albedo                float64 `desc:"Shortwave albedo" units:"fraction"`
	WindSpeed             float64 `desc:"RMS surface wind speed" units:"m/s"`

	// IceCapArea and IceTemperature are zero for regions without
	// an ice cap.
	IceCapArea     float64 `desc:"Ice cap extent" units:"km²"`
	IceTemperature float64 `desc:"Ice surface temperature" units:"K"`
}

// IceCap describes the state of one polar ice cap.
type IceCap struct {
	Area        float64 // [km²]
	Temperature float64 // [K]
}

// RegionStatus reports the result of one region's update within a
// simulation step.
type RegionStatus struct {
	Region string
	Err    error
}

func (rs RegionStatus) String() string {
	if rs.Err == nil {
		return fmt.Sprintf("region %s: ok", rs.Region)
	}
	return fmt.Sprintf("region %s: %v", rs.Region, rs.Err)
}

// SetupRegions returns a function that creates the reference climate
// regions: one cap model per pole and one equatorial band.
func (cfg *Config) SetupRegions() DomainManipulator {
	return func(s *Simulator) error {
		s.regions = []Region{
			newPole("north_pole", 82.5, cfg),
			newPole("south_pole", -82.5, cfg),
			newEquatorialBand("equator", cfg),
		}
		s.globalT = cfg.DefaultTemperature
		return nil
	}
}

// UpdateRegions returns a function that advances every region's
// physics by one step. A failed region logs through the status channel
// (if non-nil) and the remaining regions still update; region failures
// never abort the step.
func UpdateRegions(c chan RegionStatus) DomainManipulator {
	return func(s *Simulator) error {
		s.driving = s.grid.MeanComposition(s.Config)
		for _, r := range s.regions {
			err := r.Update(s)
			if c != nil {
				c <- RegionStatus{Region: r.Name(), Err: err}
			}
		}
		return nil
	}
}

// AggregateRegions returns a function that recomputes the area-weighted
// global temperature Σ(Tᵣ·Aᵣ)/ΣAᵣ from the current region states.
func AggregateRegions() DomainManipulator {
	return func(s *Simulator) error {
		var tSum, aSum float64
		for _, r := range s.regions {
			tSum += r.Temperature() * r.Area()
			aSum += r.Area()
		}
		if aSum > 0 {
			s.globalT = sanitize(tSum/aSum, s.globalT)
		}
		return nil
	}
}

// GlobalAverageTemperature returns the area-weighted mean temperature
// [K] over the climate regions, as of the last completed step.
func (s *Simulator) GlobalAverageTemperature() float64 {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.globalT
}

// RegionalTemperatures returns the atmospheric temperature [K] of each
// climate region by name.
func (s *Simulator) RegionalTemperatures() map[string]float64 {
	s.mx.RLock()
	defer s.mx.RUnlock()
	o := make(map[string]float64, len(s.regions))
	for _, r := range s.regions {
		o[r.Name()] = r.Temperature()
	}
	return o
}

// RegionalData returns snapshots of every climate region in creation
// order.
func (s *Simulator) RegionalData() []RegionData {
	s.mx.RLock()
	defer s.mx.RUnlock()
	o := make([]RegionData, len(s.regions))
	for i, r := range s.regions {
		o[i] = r.Data()
	}
	return o
}

// IceCapStatus returns the extent and temperature of each polar ice
// cap by region name.
func (s *Simulator) IceCapStatus() map[string]IceCap {
	s.mx.RLock()
	defer s.mx.RUnlock()
	o := make(map[string]IceCap)
	for _, r := range s.regions {
		if p, ok := r.(*Pole); ok {
			o[p.name] = IceCap{Area: p.iceArea, Temperature: p.iceT}
		}
	}
	return o
}

// regionForcing returns the greenhouse warming [K] produced by the
// current driving composition.
func (s *Simulator) regionForcing() float64 {
	if s.driving == nil {
		s.driving = s.grid.MeanComposition(s.Config)
	}
	co2, h2o, ghg := s.Mechanism.GreenhousePressures(s.driving)
	return s.Mechanism.Forcing(s.Config, co2, h2o, ghg)
}

// CO2 sublimation pressure follows the Clausius-Clapeyron fit
//
//	p [Pa] = exp(a - b/T)
//
// which gives a frost point near 148 K at 0.6 kPa.
const (
	co2FrostA = 27.9546
	co2FrostB = 3182.48
)

// co2FrostPoint returns the temperature [K] below which CO2 condenses
// at the given partial pressure [kPa], or zero for non-positive
// pressure.
func co2FrostPoint(pkPa float64) float64 {
	if pkPa <= 0 {
		return 0
	}
	d := co2FrostA - math.Log(pkPa*1000)
	if d <= 0 {
		return 0
	}
	return co2FrostB / d
}

// waterSaturationPressure returns the saturation vapor pressure of
// water [kPa] at temperature T [K], using the Magnus fit over liquid
// water.
func waterSaturationPressure(T float64) float64 {
	tc := T - 273.15
	return 0.61094 * math.Exp(17.625 * tc / (tc + 243.04))
}

// frostFlux is the reference CO2 condensation mass flux
// [kg m⁻² s⁻¹] when the ice surface is at absolute zero; the actual
// flux scales with how far the surface is below the frost point.
const frostFlux = 2.0e-7

// frostColumnDensity converts seasonal frost mass to ice cap extent
// [kg/m² of fully developed seasonal frost].
const frostColumnDensity = 1000.0

// Pole models the climate of one polar cap region.
type Pole struct {
	name string
	lat  float64 // representative latitude [degrees]

	area   float64 // [km²]
	albedo float64
	wind   float64 // [m/s]

	surfaceT float64 // [K]
	airT     float64 // [K]
	iceT     float64 // [K]
	humidity float64

	// iceArea is the current cap extent [km²] and seasonalFrost is
	// the CO2 mass [kg] currently condensed beyond the permanent cap.
	iceArea       float64
	seasonalFrost float64
}

func newPole(name string, lat float64, cfg *Config) *Pole {
	return &Pole{
		name:     name,
		lat:      lat,
		area:     cfg.PolarArea,
		albedo:   cfg.PolarAlbedo,
		wind:     cfg.SurfaceWindSpeed,
		surfaceT: cfg.DefaultTemperature,
		airT:     cfg.DefaultTemperature,
		iceT:     cfg.DefaultTemperature,
		iceArea:  cfg.InitialIceCapArea,
	}
}

func (p *Pole) Name() string         { return p.name }
func (p *Pole) Area() float64        { return p.area }
func (p *Pole) Temperature() float64 { return p.airT }

// Update advances the polar energy balance by one step. The seasonal
// insolation term comes from the solar declination; at the poles there
// is no diurnal cycle, so the cap sees continuous day or continuous
// night for large parts of the year. When condensation is enabled and
// the ice surface is below the CO2 frost point, CO2 is drawn out of
// the atmosphere onto the cap; it sublimates back when the cap warms.
func (p *Pole) Update(s *Simulator) error {
	cfg := s.Config
	insolation := s.InsolationAt(p.lat)
	warming := s.regionForcing()

	surfaceTarget := EquilibriumTemperature(cfg, insolation*(1-p.albedo), warming)
	p.surfaceT = ApproachTemperature(p.surfaceT, surfaceTarget,
		cfg.ThermalInertia, s.Δt, cfg.ThermalTimeConstant)

	// Air couples convectively to the surface; wind strengthens
	// the coupling.
	coupling := cfg.ThermalInertia * (1 + p.wind/10)
	if coupling > 1 {
		coupling = 1
	}
	p.airT = ApproachTemperature(p.airT, p.surfaceT, coupling, s.Δt, cfg.ThermalTimeConstant)

	pCO2 := s.driving.Get("CO2")
	frost := co2FrostPoint(pCO2)
	condensing := cfg.CondensationEnabled && p.iceT <= frost && frost > 0

	// Latent heat pins a condensing ice surface at the frost point.
	iceTarget := p.airT
	if condensing && iceTarget < frost {
		iceTarget = frost
	}
	p.iceT = ApproachTemperature(p.iceT, iceTarget, cfg.ThermalInertia, s.Δt, cfg.ThermalTimeConstant)

	if cfg.CondensationEnabled {
		if err := p.exchangeFrost(s, frost); err != nil {
			return err
		}
	}

	p.humidity = relativeHumidity(s.driving.Get("H2O"), p.airT)
	return nil
}

// exchangeFrost condenses CO2 onto the cap when the ice surface is
// below the frost point and sublimates the accumulated seasonal frost
// when it is above, moving the corresponding mass out of or into the
// atmosphere.
func (p *Pole) exchangeFrost(s *Simulator, frost float64) error {
	if frost <= 0 {
		return nil
	}
	capArea := p.iceArea * 1e6 // [m²]
	if p.iceT < frost {
		mass := frostFlux * (frost - p.iceT) / frost * capArea * s.Δt
		if mass > 0 {
			if err := s.addGasMass("CO2", -mass, nil); err != nil {
				return err
			}
			p.seasonalFrost += mass
		}
	} else if p.seasonalFrost > 0 {
		mass := frostFlux * (p.iceT - frost) / frost * capArea * s.Δt
		if mass > p.seasonalFrost {
			mass = p.seasonalFrost
		}
		if mass > 0 {
			if err := s.addGasMass("CO2", mass, nil); err != nil {
				return err
			}
			p.seasonalFrost -= mass
		}
	}
	p.iceArea = s.Config.InitialIceCapArea + p.seasonalFrost/frostColumnDensity/1e6
	return nil
}

func (p *Pole) Data() RegionData {
	return RegionData{
		Name:                  p.name,
		Area:                  p.area,
		SurfaceTemperature:    p.surfaceT,
		AtmosphereTemperature: p.airT,
		Humidity:              p.humidity,
		Albedo:                p.albedo,
		WindSpeed:             p.wind,
		IceCapArea:            p.iceArea,
		IceTemperature:        p.iceT,
	}
}

// latentHeatWarming is the maximum warming [K] contributed by water
// vapor condensation in a saturated equatorial column.
const latentHeatWarming = 5.0

// EquatorialBand models the climate of the low-latitude band.
type EquatorialBand struct {
	name string

	area   float64 // [km²]
	albedo float64
	wind   float64 // [m/s]

	surfaceT float64 // [K]
	airT     float64 // [K]
	humidity float64
}

func newEquatorialBand(name string, cfg *Config) *EquatorialBand {
	return &EquatorialBand{
		name:     name,
		area:     cfg.EquatorialArea,
		albedo:   cfg.EquatorialAlbedo,
		wind:     cfg.SurfaceWindSpeed,
		surfaceT: cfg.DefaultTemperature,
		airT:     cfg.DefaultTemperature,
	}
}

func (e *EquatorialBand) Name() string         { return e.name }
func (e *EquatorialBand) Area() float64        { return e.area }
func (e *EquatorialBand) Temperature() float64 { return e.airT }

// Update advances the equatorial energy balance by one step. The band
// sees the full diurnal cycle, and condensing water vapor adds latent
// heat in proportion to the relative humidity.
func (e *EquatorialBand) Update(s *Simulator) error {
	cfg := s.Config
	insolation := s.InsolationAt(0)
	warming := s.regionForcing()

	e.humidity = relativeHumidity(s.driving.Get("H2O"), e.airT)
	warming += latentHeatWarming * e.humidity

	surfaceTarget := EquilibriumTemperature(cfg, insolation*(1-e.albedo), warming)
	e.surfaceT = ApproachTemperature(e.surfaceT, surfaceTarget,
		cfg.ThermalInertia, s.Δt, cfg.ThermalTimeConstant)

	coupling := cfg.ThermalInertia * (1 + e.wind/10)
	if coupling > 1 {
		coupling = 1
	}
	e.airT = ApproachTemperature(e.airT, e.surfaceT, coupling, s.Δt, cfg.ThermalTimeConstant)
	return nil
}

func (e *EquatorialBand) Data() RegionData {
	return RegionData{
		Name:                  e.name,
		Area:                  e.area,
		SurfaceTemperature:    e.surfaceT,
		AtmosphereTemperature: e.airT,
		Humidity:              e.humidity,
		Albedo:                e.albedo,
		WindSpeed:             e.wind,
	}
}

// relativeHumidity returns the ratio of the given water vapor partial
// pressure [kPa] to the saturation pressure at temperature T, clamped
// to [0, 1].
func relativeHumidity(pH2O, T float64) float64 {
	sat := waterSaturationPressure(T)
	if sat <= 0 {
		return 0
	}
	h := pH2O / sat
	if h < 0 {
		return 0
	}
	if h > 1 {
		return 1
	}
	return h
}
