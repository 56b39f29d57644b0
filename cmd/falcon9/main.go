package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/alecthomas/colour"
	"github.com/alecthomas/repr"
	"github.com/reddec/falcon9"
	"github.com/reddec/falcon9/internal/config"
	"github.com/reddec/falcon9/internal/flight"
	"github.com/reddec/falcon9/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("falcon9", "Falcon9 rocket model and sample flight")
	settingsFile := app.Flag("settings", "Settings file (yaml, toml or json)").ExistingFile()
	logLevel := app.Flag("log-level", "Log level: trace, debug, info, warn, error, off").String()
	noColor := app.Flag("no-color", "Disable coloured output").Bool()

	fly := app.Command("fly", "Fly the sample flight and print status after each transition").Default()
	flyManifest := fly.Flag("manifest", "Vehicle manifest (.toml)").String()
	flyTemplate := fly.Flag("template", "Go template file for status lines. Vars: .Vehicle .Phase .Stages").ExistingFile()
	flyCountdown := fly.Flag("countdown", "Countdown length").PlaceHolder("N").String()

	describe := app.Command("describe", "Describe the vehicle")
	describeManifest := describe.Flag("manifest", "Vehicle manifest (.toml)").String()

	dump := app.Command("dump", "Dump pre-launch status to JSON")
	dumpManifest := dump.Flag("manifest", "Vehicle manifest (.toml)").String()
	dumpRepr := dump.Flag("repr", "Dump as Go values instead of JSON").Bool()

	app.ErrorWriter(stderr)
	app.UsageWriter(stderr)
	command, err := app.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, "falcon9:", err)
		return 2
	}

	v := viper.New()
	config.InitSettings(v)
	if *logLevel != "" {
		v.Set("log_level", *logLevel)
	}
	if *noColor {
		v.Set("no_color", true)
	}
	for _, manifest := range []string{*flyManifest, *describeManifest, *dumpManifest} {
		if manifest != "" {
			v.Set("manifest", manifest)
		}
	}
	if *flyTemplate != "" {
		v.Set("template", *flyTemplate)
	}
	if *flyCountdown != "" {
		v.Set("countdown", *flyCountdown)
	}

	log := logging.New(logging.Options{Out: stderr})
	settings, err := config.LoadSettings(v, *settingsFile)
	if err != nil {
		log.Error().Err(err).Msg("settings")
		return 1
	}
	log = logging.New(logging.Options{Level: settings.LogLevel, NoColor: settings.NoColor, Out: stderr})

	manifest := config.DefaultManifest()
	if settings.Manifest != "" {
		manifest, err = config.LoadManifest(settings.Manifest)
		if err != nil {
			log.Error().Err(err).Msg("manifest")
			return 1
		}
	}
	rocket, err := manifest.Build()
	if err != nil {
		log.Error().Err(err).Msg("build")
		return 1
	}
	log.Debug().Str("vehicle", rocket.Name).Int("stages", len(rocket.Stages())).Msg("vehicle built")

	out := colour.TTY(stdout)
	if settings.NoColor {
		out = colour.Strip(stdout)
	}

	switch command {
	case fly.FullCommand():
		err = runFlight(rocket, settings, manifest, out, log)
	case describe.FullCommand():
		_, err = fmt.Fprintln(stdout, rocket)
	case dump.FullCommand():
		if *dumpRepr {
			_, err = fmt.Fprintln(stdout, repr.String(rocket.Status(), repr.Indent("  ")))
			break
		}
		var data []byte
		data, err = json.MarshalIndent(rocket.Status(), "", "  ")
		if err == nil {
			_, err = fmt.Fprintln(stdout, string(data))
		}
	}
	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("failed")
		return 1
	}
	return 0
}

func runFlight(rocket *falcon9.Rocket, settings config.Settings, manifest config.Manifest, out colour.Printer, log zerolog.Logger) error {
	var text string
	if settings.Template != "" {
		content, err := ioutil.ReadFile(settings.Template)
		if err != nil {
			return err
		}
		text = string(content)
	}
	driver, err := flight.New(rocket, flight.Options{
		Countdown: settings.Countdown,
		Template:  text,
		Plan:      manifest.Plan(),
		Out:       out,
		Log:       log,
	})
	if err != nil {
		return err
	}
	return driver.Fly()
}
