package falcon9

import "fmt"

// Engine is a single propulsion unit. It is created by its owning Stage and
// has no lifetime of its own.
type Engine struct {
	Name  string
	Index int

	ignited   bool
	burnedOut bool
}

func newEngine(name string, index int) *Engine {
	return &Engine{Name: name, Index: index}
}

func (e *Engine) String() string {
	return fmt.Sprintf("%s #%d", e.Name, e.Index)
}

// Ignite starts the engine. It fails if the engine is already running or
// has burned out.
func (e *Engine) Ignite() error {
	if e.burnedOut {
		return invalidState("ignite", e.String(), "engine burned out")
	}
	if e.ignited {
		return invalidState("ignite", e.String(), "engine already ignited")
	}
	e.ignited = true
	return nil
}

// Shutdown stops a running engine.
func (e *Engine) Shutdown() error {
	if !e.ignited {
		return invalidState("shutdown", e.String(), "engine not ignited")
	}
	e.ignited = false
	return nil
}

// burnOut stops a running engine that ran out of propellant. A burned-out
// engine never ignites again.
func (e *Engine) burnOut() {
	e.ignited = false
	e.burnedOut = true
}

func (e *Engine) IsIgnited() bool {
	return e.ignited
}

func (e *Engine) IsBurnedOut() bool {
	return e.burnedOut
}
