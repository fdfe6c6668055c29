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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ctessum/plotextra"
	"github.com/ctessum/requestcache"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// cellFieldNames returns the names of the Cell fields that carry
// description tags.
func cellFieldNames() []string {
	t := reflect.TypeOf((*Cell)(nil)).Elem()
	var names []string
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("desc") != "" {
			names = append(names, t.Field(i).Name)
		}
	}
	return names
}

// OutputOptions returns the options for output variable names and
// their descriptions and units: the physical cell variables followed
// by the registered gases.
func (s *Simulator) OutputOptions() (names []string, descriptions []string, units []string) {
	t := reflect.TypeOf((*Cell)(nil)).Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		desc := f.Tag.Get("desc")
		if desc == "" {
			continue
		}
		names = append(names, f.Name)
		descriptions = append(descriptions, desc)
		units = append(units, f.Tag.Get("units"))
	}

	s.mx.RLock()
	defer s.mx.RUnlock()
	for _, sym := range s.Registry.Symbols() {
		g, _ := s.Registry.Gas(sym)
		desc := g.Name
		if desc == "" {
			desc = sym
		}
		names = append(names, sym)
		descriptions = append(descriptions, desc+" partial pressure")
		units = append(units, s.getUnits(sym))
	}
	return
}

// getUnits returns the units of the given output variable.
func (s *Simulator) getUnits(name string) string {
	t := reflect.TypeOf((*Cell)(nil)).Elem()
	if f, ok := t.FieldByName(name); ok {
		if u := f.Tag.Get("units"); u != "" {
			return u
		}
	}
	if g, ok := s.Registry.Gas(name); ok && g.Units != "" {
		return g.Units
	}
	return "kPa"
}

// WebServer serves a browser monitoring interface for a running
// simulation: a live status stream plus rendered maps and legends of
// any output variable.
type WebServer struct {
	sim *Simulator

	// Log receives status and error messages. The default is the
	// logrus standard logger.
	Log logrus.FieldLogger

	upgrader websocket.Upgrader

	renderCache     *requestcache.Cache
	renderCacheOnce sync.Once
}

// NewWebServer returns a monitoring server for s.
func NewWebServer(s *Simulator) *WebServer {
	return &WebServer{
		sim: s,
		Log: logrus.StandardLogger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the monitoring interface routes:
//
//	/          the monitoring page
//	/status    a JSON status snapshot
//	/ws        a websocket stream of status snapshots
//	/map/X     a rendered map of output variable X
//	/legend/X  the color legend for output variable X
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.uiHandler)
	mux.HandleFunc("/status", ws.statusHandler)
	mux.HandleFunc("/ws", ws.websocketHandler)
	mux.HandleFunc("/map/", ws.mapHandler)
	mux.HandleFunc("/legend/", ws.legendHandler)
	return mux
}

// ListenAndServe serves the monitoring interface at address until the
// server fails.
func (ws *WebServer) ListenAndServe(address string) error {
	ws.Log.WithFields(logrus.Fields{"address": address}).Info("atmosim serving monitor")
	return http.ListenAndServe(address, ws.Handler())
}

// webStatus is the JSON document sent to monitoring clients.
type webStatus struct {
	*SimulationStatus
	Regions []RegionData
	IceCaps map[string]IceCap
}

func (ws *WebServer) currentStatus() *webStatus {
	return &webStatus{
		SimulationStatus: ws.sim.Status(),
		Regions:          ws.sim.RegionalData(),
		IceCaps:          ws.sim.IceCapStatus(),
	}
}

func (ws *WebServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ws.currentStatus()); err != nil {
		ws.Log.WithError(err).Error("atmosim: encoding status")
	}
}

// websocketHandler streams status snapshots to the client once per
// second until the connection closes.
func (ws *WebServer) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.Log.WithError(err).Error("atmosim: upgrading status connection")
		return
	}
	defer conn.Close()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteJSON(ws.currentStatus()); err != nil {
			return
		}
	}
}

// renderRequest identifies one image to render.
type renderRequest struct {
	ws       *WebServer
	kind     string // "map" or "legend"
	variable string
}

// renderImage produces the PNG for a render request.
func renderImage(ctx context.Context, reqI interface{}) (interface{}, error) {
	req := reqI.(renderRequest)
	switch req.kind {
	case "map":
		return req.ws.renderMap(req.variable)
	case "legend":
		return req.ws.renderLegend(req.variable)
	}
	return nil, fmt.Errorf("atmosim: invalid render kind %s", req.kind)
}

// renderedImage returns the PNG for the given variable, rendering it
// if a render for the current step is not already cached.
func (ws *WebServer) renderedImage(kind, variable string) ([]byte, error) {
	ws.renderCacheOnce.Do(func() {
		ws.renderCache = requestcache.NewCache(renderImage, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(50))
	})
	req := ws.renderCache.NewRequest(context.TODO(),
		renderRequest{ws: ws, kind: kind, variable: variable},
		fmt.Sprintf("%s_%s_%d", kind, variable, ws.sim.Status().StepNumber),
	)
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (ws *WebServer) imageHandler(kind, base string, w http.ResponseWriter, r *http.Request) {
	variable := strings.TrimPrefix(r.URL.Path, base)
	img, err := ws.renderedImage(kind, variable)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}

func (ws *WebServer) mapHandler(w http.ResponseWriter, r *http.Request) {
	ws.imageHandler("map", "/map/", w, r)
}

func (ws *WebServer) legendHandler(w http.ResponseWriter, r *http.Request) {
	ws.imageHandler("legend", "/legend/", w, r)
}

// fieldGrid adapts a [lat][lon] field to the plotter grid interface.
type fieldGrid struct {
	rows [][]float64
	res  float64
}

func (fg fieldGrid) Dims() (c, r int)   { return len(fg.rows[0]), len(fg.rows) }
func (fg fieldGrid) Z(c, r int) float64 { return fg.rows[r][c] }
func (fg fieldGrid) X(c int) float64    { return -180 + fg.res*(float64(c)+0.5) }
func (fg fieldGrid) Y(r int) float64    { return -90 + fg.res*(float64(r)+0.5) }

// renderMap renders the current field of the given variable as a
// latitude-longitude heat map.
func (ws *WebServer) renderMap(variable string) ([]byte, error) {
	results, err := ws.sim.Results(variable)
	if err != nil {
		return nil, err
	}
	rows := results[variable]
	if len(rows) == 0 {
		return nil, fmt.Errorf("atmosim: rendering %s: empty grid", variable)
	}

	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("%v (%v)", variable, ws.sim.getUnits(variable))
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	h := plotter.NewHeatMap(fieldGrid{rows: rows, res: ws.sim.Config.GridResolution},
		moreland.ExtendedBlackBody().Palette(255))
	p.Add(h)

	img := vgimg.New(6*vg.Inch, 3.4*vg.Inch)
	dc := draw.New(img)
	p.Draw(dc)
	return pngBytes(img)
}

// renderLegend renders the color legend for the given variable's
// current value range. Values above the 99.9th percentile are
// compressed into the top of the scale so a single hotspot does not
// wash out the rest of the map.
func (ws *WebServer) renderLegend(variable string) ([]byte, error) {
	results, err := ws.sim.Results(variable)
	if err != nil {
		return nil, err
	}
	var vals []float64
	for _, row := range results[variable] {
		vals = append(vals, row...)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("atmosim: rendering %s legend: empty grid", variable)
	}
	sort.Float64s(vals)
	min, max := vals[0], vals[len(vals)-1]
	if max <= min {
		max = min + 1e-9
	}
	highcut := percentile(vals, 0.999)
	if highcut <= min {
		highcut = max
	}

	overflow, err := moreland.NewLuminance([]color.Color{
		color.NRGBA{G: 176, A: 255},
		color.NRGBA{G: 255, A: 255},
	})
	if err != nil {
		return nil, err
	}
	cm := &plotextra.BrokenColorMap{
		Base:     moreland.ExtendedBlackBody(),
		OverFlow: palette.Reverse(overflow),
	}
	cm.SetMin(min)
	cm.SetMax(max)
	cm.SetHighCut(highcut)

	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Add(&plotter.ColorBar{ColorMap: cm})
	p.X.Scale = plotextra.BrokenScale{
		HighCut:         highcut,
		HighCutFraction: 0.9,
	}
	p.X.Tick.Marker = plotextra.BrokenTicks{
		HighCut: highcut,
	}
	p.HideY()
	p.X.Padding = 0
	p.Title.Text = fmt.Sprintf("%v (%v)", variable, ws.sim.getUnits(variable))

	img := vgimg.New(300, 40)
	dc := draw.New(img)
	p.Draw(dc)
	return pngBytes(img)
}

// pngBytes encodes a canvas as PNG.
func pngBytes(img *vgimg.Canvas) ([]byte, error) {
	b := new(bytes.Buffer)
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// percentile returns percentile p (range [0,1]) of the given sorted
// data.
func percentile(sorted []float64, p float64) float64 {
	i := roundInt(p*float64(len(sorted))) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}

// roundInt rounds a float to an integer.
func roundInt(x float64) int {
	return int(x + 0.5)
}

const monitorPage = `<!DOCTYPE html>
<html>
<head><title>Atmosim monitor</title>
<style>
body { font-family: sans-serif; margin: 1em 2em; }
#status { font-family: monospace; white-space: pre; }
table { border-collapse: collapse; }
td, th { border: 1px solid #999; padding: 0.2em 0.6em; }
</style>
</head>
<body>
<h1>Atmosim monitor</h1>
<div id="status">connecting…</div>
<h2>Regions</h2>
<table id="regions"></table>
<h2>Map</h2>
<select id="variable">{{options}}</select><br>
<img id="map" width="720"><br>
<img id="legend" width="360">
<script>
var variable = document.getElementById("variable");
function refreshImages(step) {
	var v = variable.value;
	document.getElementById("map").src = "/map/" + v + "?step=" + step;
	document.getElementById("legend").src = "/legend/" + v + "?step=" + step;
}
variable.onchange = function() { refreshImages("now" + Date.now()); };
var lastStep = -1;
var ws = new WebSocket("ws://" + window.location.host + "/ws");
ws.onmessage = function(evt) {
	var st = JSON.parse(evt.data);
	document.getElementById("status").textContent =
		"step " + st.StepNumber + "  sol " + st.DayOfYear.toFixed(2) +
		"  active cells " + st.ActiveCells +
		"  T(global) " + st.GlobalTemperature.toFixed(2) + " K" +
		"  T(cells) " + st.ActiveCellTemperature.toFixed(2) + " K" +
		"  P " + st.ActiveCellPressure.toFixed(3) + " kPa";
	var rows = "<tr><th>Region</th><th>T air (K)</th><th>T surface (K)</th>" +
		"<th>Humidity</th><th>Ice cap (km²)</th></tr>";
	st.Regions.forEach(function(rg) {
		rows += "<tr><td>" + rg.Name + "</td><td>" +
			rg.AtmosphereTemperature.toFixed(2) + "</td><td>" +
			rg.SurfaceTemperature.toFixed(2) + "</td><td>" +
			rg.Humidity.toFixed(3) + "</td><td>" +
			rg.IceCapArea.toFixed(0) + "</td></tr>";
	});
	document.getElementById("regions").innerHTML = rows;
	if (st.StepNumber !== lastStep) {
		lastStep = st.StepNumber;
		refreshImages(st.StepNumber);
	}
};
</script>
</body>
</html>
`

// uiHandler serves the monitoring page.
func (ws *WebServer) uiHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	names, descriptions, _ := ws.sim.OutputOptions()
	var options strings.Builder
	for i, name := range names {
		fmt.Fprintf(&options, `<option value="%s">%s</option>`, name, descriptions[i])
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, strings.Replace(monitorPage, "{{options}}", options.String(), 1))
}
