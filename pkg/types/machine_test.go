// Tests for machine definitions and validation.
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMachine() *Machine {
	return &Machine{
		Prefix: "task",
		States: []State{
			{Name: "todo", Initial: true},
			{Name: "in_progress"},
			{Name: "done", Final: true},
		},
		Transitions: []Transition{
			{Event: "start", From: "todo", To: "in_progress"},
			{Event: "complete", From: "todo", To: "done"},
			{Event: "complete", From: "in_progress", To: "done"},
		},
	}
}

func TestMachine_Initial(t *testing.T) {
	m := testMachine()
	assert.Equal(t, "todo", m.Initial())

	empty := &Machine{Prefix: "x"}
	assert.Empty(t, empty.Initial())
}

func TestMachine_TransitionsFrom(t *testing.T) {
	m := testMachine()

	from := m.TransitionsFrom("todo")
	require.Len(t, from, 2)
	assert.Equal(t, "start", from[0].Event)
	assert.Equal(t, "complete", from[1].Event)

	assert.Empty(t, m.TransitionsFrom("done"))
	assert.Empty(t, m.TransitionsFrom("unknown"))
}

func TestMachine_Find(t *testing.T) {
	m := testMachine()

	tr, ok := m.Find("in_progress", "complete")
	require.True(t, ok)
	assert.Equal(t, "done", tr.To)

	// The same event from another state is a distinct transition.
	tr, ok = m.Find("todo", "complete")
	require.True(t, ok)
	assert.Equal(t, "todo", tr.From)

	_, ok = m.Find("done", "complete")
	assert.False(t, ok)
}

func TestMachine_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Machine)
		ok     bool
	}{
		{"well-formed", func(*Machine) {}, true},
		{"empty prefix", func(m *Machine) { m.Prefix = "" }, false},
		{"no states", func(m *Machine) { m.States = nil }, false},
		{"no initial", func(m *Machine) { m.States[0].Initial = false }, false},
		{"two initials", func(m *Machine) { m.States[1].Initial = true }, false},
		{"duplicate state", func(m *Machine) { m.States[1].Name = "todo" }, false},
		{"transition from undeclared state", func(m *Machine) { m.Transitions[0].From = "ghost" }, false},
		{"transition to undeclared state", func(m *Machine) { m.Transitions[0].To = "ghost" }, false},
		{"transition without event", func(m *Machine) { m.Transitions[0].Event = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMachine()
			tt.mutate(m)
			err := m.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidMachine)
			}
		})
	}
}
