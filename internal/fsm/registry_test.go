// Tests for the machine registry and the built-in machines.
package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/pkg/types"
)

func TestDefaultRegistry_CoversStandardKinds(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, len(types.StandardKinds), len(r.Prefixes()))

	for _, kind := range types.StandardKinds {
		m, err := r.Resolve(kind + ".anything")
		require.NoError(t, err, kind)
		assert.Equal(t, kind, m.Prefix)
		assert.NoError(t, m.Validate())
		assert.NotEmpty(t, m.Initial(), "machine %s needs an initial state", kind)
	}
}

func TestRegistry_ResolveUnknownPrefix(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Resolve("widget.custom")
	assert.ErrorIs(t, err, types.ErrInvalidTypeKey)
}

func TestRegistry_RegisterValidates(t *testing.T) {
	r := NewRegistry()

	err := r.Register(&types.Machine{Prefix: "task"})
	assert.ErrorIs(t, err, types.ErrInvalidMachine)
	assert.Empty(t, r.Prefixes())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := DefaultRegistry()

	custom := &types.Machine{
		Prefix: types.KindTask,
		States: []types.State{
			{Name: "open", Initial: true},
			{Name: "closed", Final: true},
		},
		Transitions: []types.Transition{
			{Event: "close", From: "open", To: "closed"},
		},
	}
	require.NoError(t, r.Register(custom))

	m, err := r.Resolve("task.example")
	require.NoError(t, err)
	assert.Equal(t, "open", m.Initial())
}

func TestRegistry_Prefixes_Sorted(t *testing.T) {
	r := DefaultRegistry()
	prefixes := r.Prefixes()
	for i := 1; i < len(prefixes); i++ {
		assert.Less(t, prefixes[i-1], prefixes[i])
	}
}
