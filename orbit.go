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

import "math"

const degToRad = math.Pi / 180

// Latitude weighting of annual-mean insolation, normalized so that
// the area-weighted global mean equals SolarConstant/4.
const (
	insolLatWeight = 0.75
	insolLatOffset = 1 - insolLatWeight*math.Pi/4
)

// AdvanceOrbit returns a function that advances the orbital state by
// the current time step. DayOfYear wraps modulo the orbital period
// and TimeOfDay wraps modulo one sol.
func AdvanceOrbit() DomainManipulator {
	return func(s *Simulator) error {
		sols := s.Δt / s.Config.SolLength
		s.TimeOfDay = math.Mod(s.TimeOfDay+sols, 1)
		s.DayOfYear = math.Mod(s.DayOfYear+sols, s.Config.YearLength)
		return nil
	}
}

// solarDeclination returns the current subsolar latitude [degrees].
// Day zero is the northern spring equinox.
func (s *Simulator) solarDeclination() float64 {
	return s.Config.AxialTilt * math.Sin(2*math.Pi*s.DayOfYear/s.Config.YearLength)
}

// InsolationAt returns the instantaneous surface insolation [W/m²] at
// the given latitude [degrees] for the current orbital state: the
// attenuated solar constant scaled by the cosine of the solar zenith
// angle, with the night side receiving zero.
func (s *Simulator) InsolationAt(lat float64) float64 {
	δ := s.solarDeclination() * degToRad
	φ := lat * degToRad
	h := 2 * math.Pi * (s.TimeOfDay - 0.5) // hour angle; local noon at TimeOfDay=0.5
	cosZ := math.Sin(φ)*math.Sin(δ) + math.Cos(φ)*math.Cos(δ)*math.Cos(h)
	if cosZ < 0 {
		return 0
	}
	return s.Config.SolarConstant * s.Config.AtmosphericAttenuation * cosZ
}

// meanInsolation returns the annual mean surface insolation [W/m²] at
// the given latitude [degrees].
func meanInsolation(cfg *Config, lat float64) float64 {
	w := insolLatOffset + insolLatWeight*math.Cos(lat*degToRad)
	return cfg.SolarConstant / 4 * cfg.AtmosphericAttenuation * w
}
