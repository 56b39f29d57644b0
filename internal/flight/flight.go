// Package flight drives a rocket through a sample flight: countdown, launch,
// a burn per stage and staging until every stage has separated. A status
// line is printed after each transition.
package flight

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/alecthomas/colour"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/reddec/falcon9"
	"github.com/reddec/falcon9/internal/present"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultTemplate renders one status line. Colour codes (^B, ^3, ^R) are
// stripped when the output is not a terminal.
const DefaultTemplate = `[{{ .Vehicle | upper }}] ^B{{ print .Phase }}^R` +
	`{{ range .Stages }} | {{ .Name }}: {{ .EnginesRunning }}/{{ count .Engines "engine" }} running,` +
	` fuel {{ fuel .Fuel }}/{{ fuel .Capacity }}{{ if .Separated }} ^3separated^R{{ end }}{{ end }}`

const DefaultCountdown = 3

// Burn is the planned burn of one stage while it is active. Seconds > 0
// fires the engines at Throttle; otherwise Amount is burned, and an invalid
// Amount drains the stage.
type Burn struct {
	Amount   decimal.NullDecimal
	Throttle float64
	Seconds  int
}

type Options struct {
	ID        uuid.UUID // zero value generates a new one
	Countdown int
	Template  string
	Plan      []Burn // indexed by stage; missing entries drain the stage
	Out       colour.Printer
	Log       zerolog.Logger
}

// Driver flies one rocket once.
type Driver struct {
	rocket *falcon9.Rocket
	id     uuid.UUID
	opts   Options
	tmpl   *template.Template
	out    colour.Printer
	log    zerolog.Logger
}

func New(rocket *falcon9.Rocket, opts Options) (*Driver, error) {
	if rocket == nil {
		return nil, errors.New("flight: rocket is required")
	}
	if opts.Countdown < 0 {
		return nil, errors.Errorf("flight: countdown must not be negative (got %d)", opts.Countdown)
	}
	text := opts.Template
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("status").Funcs(sprig.TxtFuncMap()).Funcs(template.FuncMap{
		"count": present.Count,
		"fuel":  formatFuel,
	}).Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "flight: parse status template")
	}
	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	out := opts.Out
	if out == nil {
		out = colour.Stdout
	}
	return &Driver{
		rocket: rocket,
		id:     id,
		opts:   opts,
		tmpl:   tmpl,
		out:    out,
		log:    opts.Log.With().Str("flight", id.String()).Str("vehicle", rocket.Name).Logger(),
	}, nil
}

func (d *Driver) ID() uuid.UUID {
	return d.id
}

func (d *Driver) String() string {
	return fmt.Sprintf("Flight %s of %s Rocket", d.id, d.rocket.Name)
}

// StatusLine renders the current rocket status through the status template.
func (d *Driver) StatusLine() (string, error) {
	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, d.rocket.Status()); err != nil {
		return "", errors.Wrap(err, "render status")
	}
	return buf.String(), nil
}

// Fly runs the whole flight. It stops at the first model error.
func (d *Driver) Fly() error {
	d.out.Println(d.String())
	d.countdown()

	if err := d.rocket.Launch(); err != nil {
		d.log.Error().Err(err).Msg("launch failed")
		return errors.Wrap(err, "flight")
	}
	d.log.Info().Str("phase", d.rocket.Phase().String()).Msg("launched")
	if err := d.report(); err != nil {
		return err
	}

	for i := 0; d.rocket.Phase() != falcon9.PhaseAllSeparated; i++ {
		stage, _ := d.rocket.ActiveStage()
		if err := d.burn(i, stage); err != nil {
			return errors.Wrap(err, "flight")
		}
		if err := d.rocket.AdvanceStage(); err != nil {
			d.log.Error().Err(err).Str("stage", stage.Name).Msg("staging failed")
			return errors.Wrap(err, "flight")
		}
		d.log.Info().Str("stage", stage.Name).Str("phase", d.rocket.Phase().String()).Msg("stage separated")
		d.out.Printf("%s separated\n", stage.Name)
		if stage.Recoverable() {
			d.out.Printf("^2%s recovered^R\n", stage.Name)
		}
		if err := d.report(); err != nil {
			return err
		}
	}

	if p := d.rocket.Payload(); !p.IsZero() {
		d.out.Printf("Payload deployed: %s\n", p.Kind)
	}
	d.log.Info().Msg("flight complete")
	return nil
}

func (d *Driver) countdown() {
	d.out.Println("Launch in t-minus")
	for i := d.opts.Countdown; i > 0; i-- {
		d.out.Println(strconv.Itoa(i))
	}
	d.out.Println("^BBlast off!^R")
}

func (d *Driver) burn(i int, stage *falcon9.Stage) error {
	var plan Burn
	if i < len(d.opts.Plan) {
		plan = d.opts.Plan[i]
	}
	var (
		burned decimal.Decimal
		err    error
	)
	switch {
	case plan.Seconds > 0:
		burned, err = stage.Fire(plan.Throttle, plan.Seconds)
	case plan.Amount.Valid:
		burned, err = stage.BurnFuel(plan.Amount.Decimal)
		if err == nil && burned.LessThan(plan.Amount.Decimal) {
			d.log.Warn().Str("stage", stage.Name).
				Str("requested", plan.Amount.Decimal.String()).
				Str("burned", burned.String()).
				Msg("short burn")
		}
	default:
		burned, err = stage.BurnFuel(stage.Remaining())
	}
	if falcon9.IsCatastrophicFailure(err) {
		d.log.Error().Err(err).Str("stage", stage.Name).Int("burned_out", stage.BurnedOut()).Msg("catastrophic failure")
		d.out.Printf("^1%s catastrophic failure: %s burned out^R\n", stage.Name, present.Count(stage.BurnedOut(), "engine"))
		return err
	}
	if err != nil {
		d.log.Error().Err(err).Str("stage", stage.Name).Msg("burn failed")
		return err
	}
	if out := stage.BurnedOut(); out > 0 {
		d.log.Warn().Str("stage", stage.Name).Int("burned_out", out).Int("tolerated", stage.EngineOutTolerance()).Msg("engines burned out")
		d.out.Printf("^3%s: %s burned out^R\n", stage.Name, present.Count(out, "engine"))
	}
	d.log.Debug().Str("stage", stage.Name).Str("burned", burned.String()).Msg("burn")
	d.out.Printf("%s burned %s of %s\n", stage.Name, formatFuel(burned), formatFuel(stage.Capacity()))
	return nil
}

func (d *Driver) report() error {
	line, err := d.StatusLine()
	if err != nil {
		return err
	}
	d.out.Println(line)
	return nil
}

func formatFuel(d decimal.Decimal) string {
	return d.StringFixed(2)
}
