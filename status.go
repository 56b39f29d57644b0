package falcon9

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Phase is the rocket state: PreLaunch, StageNActive or AllSeparated.
type Phase int

const (
	PhasePreLaunch    Phase = 0
	PhaseAllSeparated Phase = -1
)

// StageActive is the phase in which stage n (1-based) is burning.
func StageActive(n int) Phase {
	return Phase(n)
}

// ActiveStage returns the 1-based active stage number, or 0.
func (p Phase) ActiveStage() int {
	if p > 0 {
		return int(p)
	}
	return 0
}

func (p Phase) String() string {
	switch {
	case p == PhasePreLaunch:
		return "PreLaunch"
	case p == PhaseAllSeparated:
		return "AllSeparated"
	case p > 0:
		return fmt.Sprintf("Stage%dActive", int(p))
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Status is a read-only snapshot of a rocket.
type Status struct {
	Vehicle     string        `json:"vehicle"`
	Phase       Phase         `json:"phase"`
	ActiveStage int           `json:"active_stage"`
	Payload     string        `json:"payload,omitempty"`
	Stages      []StageStatus `json:"stages"`
}

// StageStatus is the snapshot of one stage.
type StageStatus struct {
	Number         int             `json:"number"`
	Name           string          `json:"name"`
	EngineType     string          `json:"engine_type"`
	Engines        int             `json:"engines"`
	EnginesRunning int             `json:"engines_running"`
	BurnedOut      int             `json:"burned_out"`
	Fuel           decimal.Decimal `json:"fuel"`
	Capacity       decimal.Decimal `json:"capacity"`
	Active         bool            `json:"active"`
	Separated      bool            `json:"separated"`
	Recoverable    bool            `json:"recoverable"`
}

func stageStatus(number int, s *Stage, active bool) StageStatus {
	return StageStatus{
		Number:         number,
		Name:           s.Name,
		EngineType:     s.EngineType,
		Engines:        len(s.engines),
		EnginesRunning: s.EnginesRunning(),
		BurnedOut:      s.BurnedOut(),
		Fuel:           s.Remaining(),
		Capacity:       s.Capacity(),
		Active:         active,
		Separated:      s.separated,
		Recoverable:    s.recoverable,
	}
}
