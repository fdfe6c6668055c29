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
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RegionBox is an inclusive latitude/longitude bounding box [degrees].
type RegionBox struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// monitorRegions are the named query regions. A region can span more
// than one box; the midlatitudes cover a band in each hemisphere.
var monitorRegions = map[string][]RegionBox{
	"north_pole":   {{LatMin: 75, LatMax: 90, LonMin: -180, LonMax: 180}},
	"south_pole":   {{LatMin: -90, LatMax: -75, LonMin: -180, LonMax: 180}},
	"equator":      {{LatMin: -15, LatMax: 15, LonMin: -180, LonMax: 180}},
	"midlatitudes": {{LatMin: 30, LatMax: 60, LonMin: -180, LonMax: 180}, {LatMin: -60, LatMax: -30, LonMin: -180, LonMax: 180}},
}

// Monitor answers string-keyed analytics queries about a simulation.
//
// Built-in keys are "temperature_global" and "pressure_global",
// "temperature_<region>" for the named query regions, and
// "pressure_<gas>", "variance_<gas>" and "hotspots_<gas>" for
// registered gases. Additional keys can be registered as expressions
// over built-in keys; expressions can use the functions
// defined in NewMonitor.
type Monitor struct {
	sim *Simulator

	// expressions maps registered derived keys to their expression
	// text, and compiled holds the parsed form.
	expressions map[string]string
	compiled    map[string]*govaluate.EvaluableExpression

	functions map[string]govaluate.ExpressionFunction
}

// NewMonitor returns a Monitor for s and registers the given derived
// expressions, if any. The default expression functions are:
//
// 'exp(x)', 'log(x)' and 'abs(x)', which apply the corresponding
// math functions, and
//
// 'sum(x, y, ...)' which sums its arguments.
//
// Functions in extraFunctions are added to (and can replace) the
// defaults.
func NewMonitor(s *Simulator, expressions map[string]string, extraFunctions map[string]govaluate.ExpressionFunction) (*Monitor, error) {
	defaultFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("atmosim: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return (float64)(math.Exp(arg[0].(float64))), nil
		},
		"log": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("atmosim: got %d arguments for function 'log', but needs 1", len(arg))
			}
			return (float64)(math.Log(arg[0].(float64))), nil
		},
		"abs": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("atmosim: got %d arguments for function 'abs', but needs 1", len(arg))
			}
			return (float64)(math.Abs(arg[0].(float64))), nil
		},
		"sum": func(arg ...interface{}) (interface{}, error) {
			vals := make([]float64, len(arg))
			for i, a := range arg {
				v, ok := a.(float64)
				if !ok {
					return nil, fmt.Errorf("atmosim: argument %d to function 'sum' is not a number", i)
				}
				vals[i] = v
			}
			return floats.Sum(vals), nil
		},
	}
	for key, val := range extraFunctions {
		defaultFuncs[key] = val
	}
	m := &Monitor{
		sim:         s,
		expressions: make(map[string]string),
		compiled:    make(map[string]*govaluate.EvaluableExpression),
		functions:   defaultFuncs,
	}
	for name, expr := range expressions {
		if err := m.RegisterExpression(name, expr); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RegisterExpression adds a derived analytics key calculated by the
// given expression. Every variable in the expression must be a
// built-in key or a previously registered expression; anything else is
// an error listing the valid keys.
func (m *Monitor) RegisterExpression(name, expr string) error {
	compiled, err := govaluate.NewEvaluableExpressionWithFunctions(expr, m.functions)
	if err != nil {
		return fmt.Errorf("atmosim: expression %s: %v", name, err)
	}
	for _, v := range compiled.Vars() {
		if _, ok := m.expressions[v]; ok {
			continue
		}
		if _, err := m.builtin(v); err != nil {
			return fmt.Errorf("atmosim: expression %s: %v", name, err)
		}
	}
	m.expressions[name] = expr
	m.compiled[name] = compiled
	return nil
}

// RegisterGas extends the simulation's gas vocabulary with reporting
// metadata; existing cell state is unchanged and the new gas reads as
// zero everywhere until explicitly set.
func (m *Monitor) RegisterGas(symbol, displayName, units string) error {
	return m.sim.RegisterGas(symbol, displayName, units)
}

// Value returns the current value of the given analytics key.
func (m *Monitor) Value(key string) (float64, error) {
	return m.resolve(key, make(map[string]bool))
}

// resolve evaluates key, recursing through registered expressions.
// seen guards against expression cycles.
func (m *Monitor) resolve(key string, seen map[string]bool) (float64, error) {
	if seen[key] {
		return math.NaN(), fmt.Errorf("atmosim: analytics key %s is defined in terms of itself", key)
	}
	compiled, ok := m.compiled[key]
	if !ok {
		return m.builtin(key)
	}
	seen[key] = true
	params := make(map[string]interface{})
	for _, v := range compiled.Vars() {
		val, err := m.resolve(v, seen)
		if err != nil {
			return math.NaN(), err
		}
		params[v] = val
	}
	result, err := compiled.Evaluate(params)
	if err != nil {
		return math.NaN(), fmt.Errorf("atmosim: evaluating analytics key %s: %v", key, err)
	}
	v, ok := result.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("atmosim: analytics key %s does not evaluate to a number", key)
	}
	return v, nil
}

// builtin resolves one of the built-in analytics keys.
func (m *Monitor) builtin(key string) (float64, error) {
	switch {
	case key == "temperature_global":
		return m.sim.GlobalAverageTemperature(), nil
	case key == "temperature_cells":
		return m.sim.AverageTemperature(), nil
	case key == "pressure_global":
		return m.sim.AveragePressure(), nil
	case strings.HasPrefix(key, "temperature_"):
		return m.RegionTemperature(strings.TrimPrefix(key, "temperature_"))
	case strings.HasPrefix(key, "pressure_"):
		return m.sim.AveragePartialPressure(strings.TrimPrefix(key, "pressure_")), nil
	case strings.HasPrefix(key, "variance_"):
		return m.Variance(strings.TrimPrefix(key, "variance_")), nil
	case strings.HasPrefix(key, "hotspots_"):
		return float64(m.Hotspots(strings.TrimPrefix(key, "hotspots_"))), nil
	}
	return math.NaN(), fmt.Errorf("atmosim: invalid analytics key %s; valid keys are %v", key, m.Keys())
}

// Keys returns all of the currently valid analytics keys in sorted
// order.
func (m *Monitor) Keys() []string {
	keys := []string{"temperature_global", "temperature_cells", "pressure_global"}
	for region := range monitorRegions {
		keys = append(keys, "temperature_"+region)
	}
	for _, gas := range m.sim.Registry.Symbols() {
		keys = append(keys, "pressure_"+gas, "variance_"+gas, "hotspots_"+gas)
	}
	for name := range m.expressions {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// RegionTemperature returns the arithmetic mean temperature [K] of the
// active cells in the named query region. A region with no active
// cells reads as the configured default temperature, never NaN.
// Unknown region names are an error listing the valid ones.
func (m *Monitor) RegionTemperature(region string) (float64, error) {
	boxes, ok := monitorRegions[region]
	if !ok {
		names := make([]string, 0, len(monitorRegions))
		for name := range monitorRegions {
			names = append(names, name)
		}
		sort.Strings(names)
		return math.NaN(), fmt.Errorf("atmosim: invalid query region %s; valid regions are %v", region, names)
	}
	t, any := m.sim.boxTemperature(boxes)
	if !any {
		return m.sim.Config.DefaultTemperature, nil
	}
	return t, nil
}

// Variance returns the spread of the given gas's partial pressure
// across the active cells as a percentage of the mean:
// (max-min)/mean × 100. It is zero when fewer than two cells are
// active or the mean is zero.
func (m *Monitor) Variance(gas string) float64 {
	vals := m.sim.gasValues(gas)
	if len(vals) < 2 {
		return 0
	}
	mean := stat.Mean(vals, nil)
	if mean == 0 {
		return 0
	}
	return sanitize((floats.Max(vals)-floats.Min(vals))/mean*100, 0)
}

// Hotspots returns the number of active cells whose partial pressure
// of the given gas exceeds the active-cell mean by more than two
// standard deviations. It is recomputed on every call.
func (m *Monitor) Hotspots(gas string) int {
	vals := m.sim.gasValues(gas)
	if len(vals) == 0 {
		return 0
	}
	mean, std := stat.MeanStdDev(vals, nil)
	threshold := mean + 2*std
	var n int
	for _, v := range vals {
		if v > threshold {
			n++
		}
	}
	return n
}

// AveragePartialPressure returns the arithmetic mean partial pressure
// [kPa] of the given gas over the active cells, or zero when no cells
// are active.
func (s *Simulator) AveragePartialPressure(gas string) float64 {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.grid.AveragePartialPressure(gas)
}

// boxTemperature returns the arithmetic mean temperature of the active
// cells inside the given boxes, and whether any were found.
func (s *Simulator) boxTemperature(boxes []RegionBox) (float64, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	var sum float64
	var n int
	for _, b := range boxes {
		for _, c := range s.grid.CellsInRegion(b.LatMin, b.LatMax, b.LonMin, b.LonMax) {
			c.RLock()
			if c.Active {
				sum += c.Temperature
				n++
			}
			c.RUnlock()
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// gasValues returns the partial pressure of the given gas in each
// active cell, in coordinate order.
func (s *Simulator) gasValues(gas string) []float64 {
	s.mx.RLock()
	defer s.mx.RUnlock()
	cells := s.grid.ActiveCells()
	vals := make([]float64, len(cells))
	for i, c := range cells {
		c.RLock()
		vals[i] = c.Composition.Get(gas)
		c.RUnlock()
	}
	return vals
}
