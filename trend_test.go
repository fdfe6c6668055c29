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
	"math"
	"os"
	"testing"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Test whether stepped greenhouse warming follows the logarithmic
// forcing law: regressing warming against ln(CO2 partial pressure)
// over a sequence of enrichment steps should recover the 5.35 forcing
// coefficient. Also renders the fit as a scatter plot.
func TestWarmingTrend(t *testing.T) {
	const testTolerance = 1.e-8

	cfg := SimTestData()
	var mech Mech
	s, err := NewSimulator(cfg, mech)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range s.Cells() {
		s.ActivateCell(c.Coord)
	}

	factors := []float64{2, 3, 4, 6, 8, 12, 16, 24}
	x := make([]float64, len(factors))
	y := make([]float64, len(factors))
	probe := CellCoord{Lat: 3, Lon: 5}
	for i, f := range factors {
		p := cfg.CO2BaselinePressure * f
		for _, c := range s.ActiveCells() {
			c.Composition.Set("CO2", p)
		}
		if err := s.Step(cfg.SolLength); err != nil {
			t.Fatal(err)
		}
		c := s.Grid().Cell(probe)
		x[i] = math.Log(c.Composition.Get("CO2"))
		y[i] = c.GreenhouseWarming
	}

	slope, intercept, rsquared, _, _, _ := stats.LinearRegression(x, y)
	wantSlope := cfg.CO2GreenhouseEfficiency * 5.35
	wantIntercept := -wantSlope * math.Log(cfg.CO2BaselinePressure)
	if different(slope, wantSlope, testTolerance) {
		t.Errorf("slope: have %g, want %g", slope, wantSlope)
	}
	if different(intercept, wantIntercept, testTolerance) {
		t.Errorf("intercept: have %g, want %g", intercept, wantIntercept)
	}
	if rsquared < 0.999999 {
		t.Errorf("r²: have %g, want ≈1", rsquared)
	}

	trendPlot(t, x, y, slope, intercept)
}

// trendPlot renders the regression as a scatter plot with the fitted
// line, in the same form as the model evaluation figures.
func trendPlot(t *testing.T, x, y []float64, slope, intercept float64) {
	p, err := plot.New()
	if err != nil {
		t.Fatal(err)
	}
	p.X.Label.Text = "ln CO2 partial pressure (kPa)"
	p.Y.Label.Text = "Greenhouse warming (K)"

	xy := make(plotter.XYs, len(x))
	for i := range x {
		xy[i].X = x[i]
		xy[i].Y = y[i]
	}
	sc, err := plotter.NewScatter(xy)
	if err != nil {
		t.Fatal(err)
	}
	sc.Radius = 1.5
	sc.Shape = draw.CircleGlyph{}
	x0, x1 := x[0], x[len(x)-1]
	fit, err := plotter.NewLine(plotter.XYs{
		{x0, slope*x0 + intercept},
		{x1, slope*x1 + intercept},
	})
	if err != nil {
		t.Fatal(err)
	}
	p.Add(sc, fit)
	p.Legend.Add("stepped warming", sc)
	p.Legend.Add("fit", fit)

	c := vgimg.NewWith(vgimg.UseWH(4*vg.Inch, 4*vg.Inch), vgimg.UseDPI(96))
	p.Draw(draw.New(c))
	f, err := os.Create("tmp_warming_trend.png")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove("tmp_warming_trend.png")
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
