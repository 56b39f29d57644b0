package falcon9

// SeparationPolicy decides whether the active stage may separate. A non-nil
// error refuses the separation.
type SeparationPolicy func(s *Stage) error

// Policy names accepted by PolicyByName.
const (
	PolicyOnCommand  = "on-command"
	PolicyEmptyTanks = "empty-tanks"
)

// OnCommand always permits separation.
func OnCommand(*Stage) error {
	return nil
}

// RequireEmptyTanks permits separation only once the stage is out of fuel.
func RequireEmptyTanks(s *Stage) error {
	if s.HasFuel() {
		return invalidState("separate", s.target(), "stage still has fuel")
	}
	return nil
}

// PolicyByName resolves a policy from its configuration name. Empty means
// on-command.
func PolicyByName(name string) (SeparationPolicy, error) {
	switch name {
	case "", PolicyOnCommand:
		return OnCommand, nil
	case PolicyEmptyTanks:
		return RequireEmptyTanks, nil
	}
	return nil, invalidArgument("lookup", "separation policy", name, "unknown policy")
}
