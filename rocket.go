package falcon9

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Rocket is an ordered sequence of stages, bottom first. It moves through
// PreLaunch, StageNActive and AllSeparated; no transition is reversible.
type Rocket struct {
	Name string

	stages   []*Stage
	current  int
	launched bool
	payload  Payload
	policy   SeparationPolicy
}

// Option customizes a Rocket at construction.
type Option func(r *Rocket)

func WithPayload(p Payload) Option {
	return func(r *Rocket) {
		r.payload = p
	}
}

// WithSeparationPolicy sets the readiness gate consulted by AdvanceStage.
func WithSeparationPolicy(policy SeparationPolicy) Option {
	return func(r *Rocket) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// NewRocket builds the stages described by specs, bottom stage first.
func NewRocket(name string, specs []StageSpec, opts ...Option) (*Rocket, error) {
	if name == "" {
		return nil, invalidArgument("create", "rocket", name, "name is required")
	}
	r := &Rocket{Name: name, policy: OnCommand}
	for i, spec := range specs {
		s, err := NewStage(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "rocket %s stage %d", name, i+1)
		}
		r.stages = append(r.stages, s)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Launch ignites the engines of the first stage.
func (r *Rocket) Launch() error {
	if len(r.stages) == 0 {
		return invalidState("launch", r.Name, "rocket has no stages")
	}
	if r.launched {
		return invalidState("launch", r.Name, "rocket already launched")
	}
	if r.stages[0].IsSeparated() {
		return invalidState("launch", r.Name, "first stage already separated")
	}
	if err := r.stages[0].IgniteEngines(); err != nil {
		return errors.Wrapf(err, "launch %s", r.Name)
	}
	r.launched = true
	return nil
}

// AdvanceStage separates the active stage and ignites the next one. After the
// last stage separates the rocket is AllSeparated. Readiness of both stages
// is checked first, so a refused advance changes nothing.
func (r *Rocket) AdvanceStage() error {
	if !r.launched {
		return invalidState("advance", r.Name, "rocket not launched")
	}
	if r.current >= len(r.stages) {
		return invalidState("advance", r.Name, "all stages already separated")
	}
	cur := r.stages[r.current]
	if cur.IsSeparated() {
		return invalidState("advance", r.Name, "active stage already separated")
	}
	if err := r.policy(cur); err != nil {
		return errors.Wrapf(err, "advance %s", r.Name)
	}
	var next *Stage
	if r.current+1 < len(r.stages) {
		next = r.stages[r.current+1]
		if err := next.readyToIgnite(); err != nil {
			return errors.Wrapf(err, "advance %s", r.Name)
		}
	}
	if err := cur.Separate(); err != nil {
		return errors.Wrapf(err, "advance %s", r.Name)
	}
	r.current++
	if next != nil {
		if err := next.IgniteEngines(); err != nil {
			return errors.Wrapf(err, "advance %s", r.Name)
		}
	}
	return nil
}

func (r *Rocket) Phase() Phase {
	switch {
	case !r.launched:
		return PhasePreLaunch
	case r.current >= len(r.stages):
		return PhaseAllSeparated
	}
	return StageActive(r.current + 1)
}

// ActiveStage returns the burning stage, if any.
func (r *Rocket) ActiveStage() (*Stage, bool) {
	if !r.launched || r.current >= len(r.stages) {
		return nil, false
	}
	return r.stages[r.current], true
}

// Stage returns the stage at zero-based index i.
func (r *Rocket) Stage(i int) (*Stage, error) {
	if i < 0 || i >= len(r.stages) {
		return nil, invalidArgument("lookup", r.Name, i, "stage index out of range")
	}
	return r.stages[i], nil
}

func (r *Rocket) Stages() []*Stage {
	return r.stages
}

func (r *Rocket) Payload() Payload {
	return r.payload
}

// Status snapshots the rocket without side effects.
func (r *Rocket) Status() Status {
	phase := r.Phase()
	st := Status{
		Vehicle:     r.Name,
		Phase:       phase,
		ActiveStage: phase.ActiveStage(),
	}
	if !r.payload.IsZero() {
		st.Payload = r.payload.Kind
	}
	for i, s := range r.stages {
		st.Stages = append(st.Stages, stageStatus(i+1, s, i+1 == st.ActiveStage))
	}
	return st
}

// String is the multi-line vehicle description. Each adjacent pair of stages
// is joined by an interstage.
func (r *Rocket) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name + " Rocket")
	for i, s := range r.stages {
		if i > 0 {
			sb.WriteString("\n\tInterStage: composite structure connecting stages " + strconv.Itoa(i) + " and " + strconv.Itoa(i+1))
		}
		sb.WriteString("\n\t" + s.String())
	}
	if !r.payload.IsZero() {
		sb.WriteString("\n\t" + r.payload.String())
	}
	return sb.String()
}
