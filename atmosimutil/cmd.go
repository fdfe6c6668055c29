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
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"

	"github.com/ctessum/gobra"
	"github.com/lnashier/viper"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PerAsperaMods/atmosim"
	"github.com/PerAsperaMods/atmosim/science/greenhouse/simplegreen"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Atmosim.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "NumSteps",
			usage: `
              NumSteps specifies the number of time steps to simulate.`,
			shorthand:  "n",
			defaultVal: 669,
			flagsets:   []*pflag.FlagSet{stepsCmd.Flags()},
		},
		{
			name: "Timestep",
			usage: `
              Timestep is the length of each simulation time step in
              seconds of simulated time. The default is one Martian sol.`,
			defaultVal: 88775.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output file location. It can
              include environment variables.`,
			defaultVal: "atmosim_output.csv",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which analytics variables should be recorded
              at each time step and included in the output file. Values can be
              analytics keys or expressions combining them.`,
			defaultVal: map[string]string{
				"TGlobal": "temperature_global",
				"TCells":  "temperature_cells",
				"PTotal":  "pressure_global",
				"PCO2":    "pressure_CO2",
			},
			flagsets: []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "ScenarioFile",
			usage: `
              ScenarioFile is the path to a TOML scenario describing the run
              duration and a schedule of gas releases. It can be a local path
              or an HTTP URL.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{scenarioCmd.Flags()},
		},
		{
			name: "ActiveRegion.LatMin",
			usage: `
              ActiveRegion.LatMin is the southern boundary of the initially
              active grid region [degrees latitude].`,
			defaultVal: -90.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "ActiveRegion.LatMax",
			usage: `
              ActiveRegion.LatMax is the northern boundary of the initially
              active grid region [degrees latitude].`,
			defaultVal: 90.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "ActiveRegion.LonMin",
			usage: `
              ActiveRegion.LonMin is the western boundary of the initially
              active grid region [degrees longitude].`,
			defaultVal: -180.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "ActiveRegion.LonMax",
			usage: `
              ActiveRegion.LonMax is the eastern boundary of the initially
              active grid region [degrees longitude].`,
			defaultVal: 180.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Planet.SolarConstant",
			usage: `
              Planet.SolarConstant is the top-of-atmosphere solar flux at the
              planet's mean orbital distance [W/m²].`,
			defaultVal: 590.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Planet.AtmosphericAttenuation",
			usage: `
              Planet.AtmosphericAttenuation is the fraction of insolation
              reaching the surface, in the interval (0, 1].`,
			defaultVal: 0.85,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Planet.AxialTilt",
			usage: `
              Planet.AxialTilt is the planet's axial tilt [degrees].`,
			defaultVal: 25.19,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Planet.YearLength",
			usage: `
              Planet.YearLength is the orbital period [sols].`,
			defaultVal: 668.6,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Planet.SolLength",
			usage: `
              Planet.SolLength is the length of one sol [seconds].`,
			defaultVal: 88775.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Planet.Radius",
			usage: `
              Planet.Radius is the mean planetary radius [m].`,
			defaultVal: 3.3895e6,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Planet.Gravity",
			usage: `
              Planet.Gravity is the surface gravitational acceleration [m/s²].`,
			defaultVal: 3.711,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Greenhouse.CO2Efficiency",
			usage: `
              Greenhouse.CO2Efficiency scales the greenhouse warming
              contribution of carbon dioxide.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Greenhouse.H2OEfficiency",
			usage: `
              Greenhouse.H2OEfficiency scales the greenhouse warming
              contribution of water vapor.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Greenhouse.GHGEfficiency",
			usage: `
              Greenhouse.GHGEfficiency scales the greenhouse warming
              contribution of the engineered greenhouse gas species.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Greenhouse.CO2BaselinePressure",
			usage: `
              Greenhouse.CO2BaselinePressure is the CO2 partial pressure [kPa]
              at or below which CO2 contributes no warming.`,
			defaultVal: 0.6,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Greenhouse.MaxWarming",
			usage: `
              Greenhouse.MaxWarming caps the total greenhouse warming [K].`,
			defaultVal: 120.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Temperature.Min",
			usage: `
              Temperature.Min is the lower bound on equilibrium
              temperatures [K].`,
			defaultVal: 150.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Temperature.Max",
			usage: `
              Temperature.Max is the upper bound on equilibrium
              temperatures [K].`,
			defaultVal: 400.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Temperature.Inertia",
			usage: `
              Temperature.Inertia is the dimensionless rate coefficient for the
              approach of actual temperature to equilibrium temperature.`,
			defaultVal: 0.3,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Temperature.TimeConstant",
			usage: `
              Temperature.TimeConstant is the time scale [s] that
              Temperature.Inertia applies over.`,
			defaultVal: 887750.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Grid.Resolution",
			usage: `
              Grid.Resolution is the grid cell size [degrees]. It must divide
              evenly into both 90 and 360.`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Grid.DefaultTemperature",
			usage: `
              Grid.DefaultTemperature is the initial temperature [K] of every
              grid cell.`,
			defaultVal: 288.15,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Grid.DefaultComposition",
			usage: `
              Grid.DefaultComposition gives the initial partial pressure [kPa]
              of each gas in every grid cell, keyed by gas symbol.`,
			defaultVal: map[string]float64{
				"CO2": 0.6,
				"N2":  0.02,
				"O2":  0.001,
				"H2O": 0.001,
				"Ar":  0.01,
			},
			flagsets: []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Regions.PolarArea",
			usage: `
              Regions.PolarArea is the surface area [km²] of each polar
              reference region.`,
			defaultVal: 8.0e6,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Regions.EquatorialArea",
			usage: `
              Regions.EquatorialArea is the surface area [km²] of the
              equatorial reference region.`,
			defaultVal: 4.0e7,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Regions.PolarAlbedo",
			usage: `
              Regions.PolarAlbedo is the shortwave albedo of the polar
              reference regions.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Regions.EquatorialAlbedo",
			usage: `
              Regions.EquatorialAlbedo is the shortwave albedo of the
              equatorial reference region.`,
			defaultVal: 0.22,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Regions.SurfaceWindSpeed",
			usage: `
              Regions.SurfaceWindSpeed is the default RMS surface wind
              speed [m/s].`,
			defaultVal: 7.0,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Regions.Condensation",
			usage: `
              Regions.Condensation turns on seasonal CO2 condensation at the
              poles. When false, polar ice caps keep their initial extent.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Regions.InitialIceCapArea",
			usage: `
              Regions.InitialIceCapArea is the starting ice cap extent at
              each pole [km²].`,
			defaultVal: 1.2e6,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), webCmd.Flags()},
		},
		{
			name: "Web.Address",
			usage: `
              Web.Address is the address for the monitoring interface to
              listen on.`,
			defaultVal: "localhost:8080",
			flagsets:   []*pflag.FlagSet{webCmd.Flags()},
		},
		{
			name: "Web.StepInterval",
			usage: `
              Web.StepInterval is the wall-clock time [s] between simulation
              steps when running with the monitoring interface.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{webCmd.Flags()},
		},
		{
			name: "open_browser",
			usage: `
              open_browser specifies whether to open the monitoring interface
              in a browser window after the server starts.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{webCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ATMOSIM")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string, map[string]float64:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	runCmd.AddCommand(stepsCmd)
	runCmd.AddCommand(scenarioCmd)
	Root.AddCommand(webCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Printf(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("atmosim: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "atmosim",
	Short: "A cellular planetary atmosphere model.",
	Long: `Atmosim is a cellular simulation model for planetary atmospheres.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ATMOSIM_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Atmosim.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Atmosim v%s\n", atmosim.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs an Atmosim simulation. Use the subcommands specified below to
choose a run mode: 'steps' simulates a fixed number of time steps and
'scenario' simulates a scripted schedule of gas releases.`,
	DisableAutoGenTag: true,
}

// stepsCmd is a command that runs a simulation for a fixed number of
// time steps.
var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Run Atmosim for a fixed number of time steps.",
	Long: `steps runs Atmosim for the configured number of time steps, recording
the configured output variables at each step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := SimConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		return Run(
			cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputFile),
			outputFile,
			outputVars,
			Cfg.GetInt("NumSteps"),
			Cfg.GetFloat64("Timestep"),
			Cfg.GetFloat64("ActiveRegion.LatMin"),
			Cfg.GetFloat64("ActiveRegion.LatMax"),
			Cfg.GetFloat64("ActiveRegion.LonMin"),
			Cfg.GetFloat64("ActiveRegion.LonMax"),
			cfg, nil, nil, nil,
			simplegreen.Mechanism{})
	},
	DisableAutoGenTag: true,
}

// scenarioCmd is a command that runs a scripted simulation scenario.
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run a scripted Atmosim scenario.",
	Long: `scenario runs Atmosim under the control of a TOML scenario file that
specifies the run duration, additional gas registrations, and a
schedule of gas releases, which may be ground level or elevated
through vents. The scenario file location can be a local path or an
HTTP URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outChan := outChan()

		cfg, err := SimConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		scenario, err := ReadScenario(maybeDownload(os.ExpandEnv(Cfg.GetString("ScenarioFile")), outChan))
		if err != nil {
			return err
		}
		return RunScenario(
			cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputFile),
			outputFile,
			outputVars,
			scenario,
			Cfg.GetFloat64("Timestep"),
			Cfg.GetFloat64("ActiveRegion.LatMin"),
			Cfg.GetFloat64("ActiveRegion.LatMax"),
			Cfg.GetFloat64("ActiveRegion.LonMin"),
			Cfg.GetFloat64("ActiveRegion.LonMax"),
			cfg,
			simplegreen.Mechanism{})
	},
	DisableAutoGenTag: true,
}

// webCmd is a command that runs a simulation with the browser
// monitoring interface.
var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run Atmosim with the browser monitor.",
	Long: `web runs an Atmosim simulation continuously, advancing one time step
every Web.StepInterval seconds of wall-clock time, and serves a
monitoring interface showing live status, regional climate data, and
rendered maps of any output variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := SimConfig(Cfg)
		if err != nil {
			return err
		}
		return RunWeb(
			cmd,
			Cfg.GetString("Web.Address"),
			Cfg.GetFloat64("Web.StepInterval"),
			Cfg.GetFloat64("Timestep"),
			Cfg.GetFloat64("ActiveRegion.LatMin"),
			Cfg.GetFloat64("ActiveRegion.LatMax"),
			Cfg.GetFloat64("ActiveRegion.LonMin"),
			Cfg.GetFloat64("ActiveRegion.LonMax"),
			cfg,
			Cfg.GetBool("open_browser"),
			simplegreen.Mechanism{})
	},
	DisableAutoGenTag: true,
}

// StartConfigServer starts a web server offering a browser interface
// for configuring and launching the Atmosim commands.
func StartConfigServer() {
	setConfig() // Ignore any errors for now.

	http.HandleFunc("/setConfig", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		configFile := r.Form["config"][0]
		Root.Flags().Set("config", configFile)
		err := setConfig()
		if err != nil {
			http.Error(w, err.Error(), 204)
			return
		}
		config := make(map[string]interface{})
		for _, option := range options {
			config[option.name] = Cfg.Get(option.name)
		}
		e := json.NewEncoder(w)
		if err := e.Encode(config); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	})

	log.Println("Loading front-end...")

	for _, cmd := range []*cobra.Command{Root, versionCmd, runCmd, stepsCmd,
		scenarioCmd, webCmd} {
		cmd.SilenceUsage = true // We don't want the usage messages in the GUI.
	}

	const address = "localhost:7171"
	const tmpl = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Atmosim</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #bbb; margin: .3em; color: #333; padding-left: 5px; font-size: 75%; }
		div[id^="gobra-"] code { font-weight: bold; }
		div[id^="gobra-"] input { font-family: monospace; margin-left: .2em; width: 50%; outline:none; }
		.red-border{ border: 1px solid #c35; }
		.green-border{ border: 1px solid #3c5; }
		.blue-border{ border: 1px solid #35c; }
	</style>
</head>
<body>
<div class="container">
	<h1>Atmosim</h1>
	<p>Configure the simulation below.</p>
	<p>
		Color key: black=default;
		<font color="red">red</font>=error;
		<font color="green">green</font>=value from config file;
		<font color="blue">blue</font>=user entered
	</p>
	<div>
		{{.}}
	</div>
	<footer>
		© 2021 Atmosim Authors
	</footer>
</div>

<script>
// If the configuration file is changed, send the new file path
// to the server and update fields

let allFlags = [...document.querySelectorAll('[data-name]')];
allFlags.forEach(x => {
	let inputField = x.children[0];
	inputField.addEventListener("input", e => {
		inputField.classList.remove("green-border");
		inputField.classList.add("blue-border");
	})
})

let configInput = allFlags.filter(x => x.dataset.name == "config")[0].children[0];
configInput.addEventListener("input", e => {
	fetch("http://` + address + `/setConfig?config="+configInput.value)
		.then( res => {
			if (res.status !== 200) {
				if (res.status == 204) {
					configInput.classList.remove("blue-border");
					configInput.classList.remove("green-border");
					configInput.classList.add("red-border");
				} else {
					console.log("Error fetching /setConfig: ", response.text());
				}
			} else {
				res.json().then( data => {
					configInput.classList.remove("red-border");
					for (let key in data)
						for(let f of allFlags)
							if (f.dataset.name == key) {
								let input = f.children[0];
								var newValue = JSON.stringify(data[key]).replace(/^"+|"+$/g,'');
								if (input.value != newValue) {
									input.value = newValue
									input.classList.remove("blue-border");
									input.classList.add("green-border");
								}
							}
				})
			}
		})
		.catch( err => {
			console.log("Error fetching /setConfig", err)
		})
})
</script>
</body>
</html>`

	output := template.Must(template.New("").Parse(tmpl))
	server := gobra.Server{Root: Root, ServerAddress: address, AllowCORS: false, HTML: output}
	log.Println("Server starting... ")
	open.Run("http://" + address)
	fmt.Println("If not opened automatically, please visit http://localhost:7171")
	server.Start()
}
