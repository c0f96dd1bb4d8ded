package types

import "fmt"

// State is one named state of a machine. Exactly one state per machine
// is flagged initial; any number may be final.
type State struct {
	Name    string `yaml:"name"`
	Initial bool   `yaml:"initial,omitempty"`
	Final   bool   `yaml:"final,omitempty"`
}

// Transition moves an entity from one state to another when its event
// fires. Guards are evaluated in declared order before the state change
// commits; the first rejection aborts the transition. Actions run in
// declared order after the commit and are best-effort.
type Transition struct {
	Event   string   `yaml:"event"`
	From    string   `yaml:"from"`
	To      string   `yaml:"to"`
	Guards  []string `yaml:"guards,omitempty"`
	Actions []string `yaml:"actions,omitempty"`
}

// Machine is the lifecycle definition bound to one type-key prefix.
type Machine struct {
	Prefix      string       `yaml:"prefix"`
	States      []State      `yaml:"states"`
	Transitions []Transition `yaml:"transitions"`
}

// Initial returns the name of the machine's initial state.
func (m *Machine) Initial() string {
	for _, s := range m.States {
		if s.Initial {
			return s.Name
		}
	}
	return ""
}

// HasState reports whether name is a declared state of the machine.
func (m *Machine) HasState(name string) bool {
	for _, s := range m.States {
		if s.Name == name {
			return true
		}
	}
	return false
}

// TransitionsFrom returns the transitions whose From matches state, in
// declared order. Guards are not evaluated here; they may depend on
// state that changes between listing and firing.
func (m *Machine) TransitionsFrom(state string) []Transition {
	var out []Transition
	for _, t := range m.Transitions {
		if t.From == state {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the transition matching (from, event), if any.
func (m *Machine) Find(from, event string) (Transition, bool) {
	for _, t := range m.Transitions {
		if t.From == from && t.Event == event {
			return t, true
		}
	}
	return Transition{}, false
}

// Validate checks that the machine is well-formed: a non-empty prefix,
// exactly one initial state, unique state names, and transitions that
// reference declared states. Returns ErrInvalidMachine wrapped with the
// failing detail.
func (m *Machine) Validate() error {
	if m.Prefix == "" {
		return fmt.Errorf("%w: empty prefix", ErrInvalidMachine)
	}
	if len(m.States) == 0 {
		return fmt.Errorf("%w: machine %s has no states", ErrInvalidMachine, m.Prefix)
	}
	seen := make(map[string]bool, len(m.States))
	initials := 0
	for _, s := range m.States {
		if s.Name == "" {
			return fmt.Errorf("%w: machine %s has an unnamed state", ErrInvalidMachine, m.Prefix)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: machine %s declares state %s twice", ErrInvalidMachine, m.Prefix, s.Name)
		}
		seen[s.Name] = true
		if s.Initial {
			initials++
		}
	}
	if initials != 1 {
		return fmt.Errorf("%w: machine %s must declare exactly one initial state, has %d", ErrInvalidMachine, m.Prefix, initials)
	}
	for _, t := range m.Transitions {
		if t.Event == "" {
			return fmt.Errorf("%w: machine %s has a transition without an event", ErrInvalidMachine, m.Prefix)
		}
		if !seen[t.From] {
			return fmt.Errorf("%w: machine %s transition %s references undeclared state %s", ErrInvalidMachine, m.Prefix, t.Event, t.From)
		}
		if !seen[t.To] {
			return fmt.Errorf("%w: machine %s transition %s references undeclared state %s", ErrInvalidMachine, m.Prefix, t.Event, t.To)
		}
	}
	return nil
}
