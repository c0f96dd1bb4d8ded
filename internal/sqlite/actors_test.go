// Tests for actor identity and membership rows.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/pkg/types"
)

func TestEnsureActor_Idempotent(t *testing.T) {
	b := setupBackend(t)

	first, err := b.EnsureActor("alice", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := b.EnsureActor("alice", time.Now())
	require.NoError(t, err)
	assert.Equal(t, first, second, "same user must resolve to the same actor")

	other, err := b.EnsureActor("bob", time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	_, err = b.EnsureActor("", time.Now())
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestGetActor(t *testing.T) {
	b := setupBackend(t)

	actorID, err := b.EnsureActor("alice", time.Now())
	require.NoError(t, err)

	actor, err := b.GetActor(actorID)
	require.NoError(t, err)
	assert.Equal(t, "alice", actor.UserID)

	_, err = b.GetActor(types.NewID())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMembership_Lifecycle(t *testing.T) {
	b := setupBackend(t)

	m := &types.Membership{
		ProjectID: "proj-1",
		ActorID:   "actor-1",
		Level:     types.LevelRead,
		AddedAt:   time.Now(),
	}
	require.NoError(t, b.UpsertMembership(m))

	level, ok, err := b.MembershipLevel("proj-1", "actor-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.LevelRead, level)

	// Upsert raises the level in place.
	m.Level = types.LevelAdmin
	require.NoError(t, b.UpsertMembership(m))
	level, ok, err = b.MembershipLevel("proj-1", "actor-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.LevelAdmin, level)

	require.NoError(t, b.RemoveMembership("proj-1", "actor-1", time.Now()))
	_, ok, err = b.MembershipLevel("proj-1", "actor-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing again finds no active row.
	assert.ErrorIs(t, b.RemoveMembership("proj-1", "actor-1", time.Now()), types.ErrNotFound)

	// Re-grant reactivates the row.
	m.Level = types.LevelWrite
	require.NoError(t, b.UpsertMembership(m))
	level, ok, err = b.MembershipLevel("proj-1", "actor-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.LevelWrite, level)
}

func TestUpsertMembership_RejectsBadLevel(t *testing.T) {
	b := setupBackend(t)

	err := b.UpsertMembership(&types.Membership{
		ProjectID: "proj-1",
		ActorID:   "actor-1",
		Level:     "owner",
		AddedAt:   time.Now(),
	})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}
