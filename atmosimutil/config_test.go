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
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/lnashier/viper"
)

// Test whether the output file check rejects missing files and
// directories and expands environment variables.
func TestCheckOutputFile(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := checkOutputFile("")
		want := `you need to specify an output file configuration variable (for example: OutputFile="output.csv")`
		if err == nil || err.Error() != want {
			t.Errorf("have %v", err)
		}
	})
	t.Run("ok", func(t *testing.T) {
		o, err := checkOutputFile("tmp_check_output.csv")
		if err != nil {
			t.Fatal(err)
		}
		if o != "tmp_check_output.csv" {
			t.Errorf("have %q", o)
		}
	})
	t.Run("env", func(t *testing.T) {
		os.Setenv("ATMOSIM_TEST_OUTDIR", ".")
		defer os.Unsetenv("ATMOSIM_TEST_OUTDIR")
		o, err := checkOutputFile("${ATMOSIM_TEST_OUTDIR}/tmp_check_output.csv")
		if err != nil {
			t.Fatal(err)
		}
		if o != "./tmp_check_output.csv" {
			t.Errorf("have %q", o)
		}
	})
	t.Run("missing dir", func(t *testing.T) {
		_, err := checkOutputFile("tmp_no_such_dir/output.csv")
		if err == nil || !strings.Contains(err.Error(), "OutputFile directory doesn't exist") {
			t.Errorf("have %v", err)
		}
	})
}

// Test whether the output variable check rejects empty variable sets
// and strips line breaks from expressions.
func TestCheckOutputVars(t *testing.T) {
	if _, err := checkOutputVars(nil); err == nil ||
		!strings.Contains(err.Error(), "there are no variables specified to output") {
		t.Errorf("empty: %v", err)
	}
	o, err := checkOutputVars(map[string]string{
		"A": "temperature_global\r\n",
		"B": "pressure_CO2 +\npressure_N2\r",
	})
	if err != nil {
		t.Fatal(err)
	}
	if o["A"] != "temperature_global" {
		t.Errorf("A: %q", o["A"])
	}
	if o["B"] != "pressure_CO2 +pressure_N2" {
		t.Errorf("B: %q", o["B"])
	}
}

// Test whether the log file path defaults to the output file location.
func TestCheckLogFile(t *testing.T) {
	if l := checkLogFile("", "out/run.csv"); l != "out/run.log" {
		t.Errorf("default: %q", l)
	}
	if l := checkLogFile("custom.log", "out/run.csv"); l != "custom.log" {
		t.Errorf("explicit: %q", l)
	}
	os.Setenv("ATMOSIM_TEST_LOGDIR", "logs")
	defer os.Unsetenv("ATMOSIM_TEST_LOGDIR")
	if l := checkLogFile("${ATMOSIM_TEST_LOGDIR}/run.log", ""); l != "logs/run.log" {
		t.Errorf("env: %q", l)
	}
}

// Test whether string maps are read from both JSON-encoded strings and
// native configuration maps.
func TestGetStringMapString(t *testing.T) {
	v := viper.New()
	v.Set("json", `{"TGlobal": "temperature_global"}`)
	v.Set("native", map[string]string{"PTotal": "pressure_global"})

	have := GetStringMapString("json", v)
	if !reflect.DeepEqual(have, map[string]string{"TGlobal": "temperature_global"}) {
		t.Errorf("json: %v", have)
	}
	have = GetStringMapString("native", v)
	if !reflect.DeepEqual(have, map[string]string{"PTotal": "pressure_global"}) {
		t.Errorf("native: %v", have)
	}
}

// Test whether number maps are read from JSON-encoded strings and
// native configuration maps, and whether unparseable values are
// reported.
func TestGetStringMapFloat64(t *testing.T) {
	v := viper.New()
	v.Set("json", `{"CO2": 0.6, "N2": 0.02}`)
	v.Set("native", map[string]interface{}{"CO2": 0.6, "N2": "0.02"})
	v.Set("badval", map[string]interface{}{"CO2": "banana"})
	v.Set("badjson", "{bad json")

	want := map[string]float64{"CO2": 0.6, "N2": 0.02}
	have, err := getStringMapFloat64("json", v)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have, want) {
		t.Errorf("json: %v", have)
	}
	have, err = getStringMapFloat64("native", v)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have, want) {
		t.Errorf("native: %v", have)
	}
	if _, err := getStringMapFloat64("badval", v); err == nil ||
		!strings.Contains(err.Error(), "value for CO2") {
		t.Errorf("bad value: %v", err)
	}
	if _, err := getStringMapFloat64("badjson", v); err == nil {
		t.Error("bad JSON: want error")
	}
}
