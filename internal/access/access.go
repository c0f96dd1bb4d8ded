// Package access resolves human users to durable actor identities and
// answers project access-level queries. Leaf dependency for the graph
// store, the FSM engine, and the migration orchestrator.
package access

import (
	"fmt"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

// Service answers identity and access questions against the store.
type Service struct {
	store types.Store
	now   func() time.Time
}

// NewService creates an access service. now defaults to time.Now when nil.
func NewService(store types.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// EnsureActor returns the actor ID for userID, creating the actor on
// first access. Idempotent and safe under concurrent calls for the same
// user: the unique index on user_id guarantees a single row.
func (s *Service) EnsureActor(userID string) (string, error) {
	actorID, err := s.store.EnsureActor(userID, s.now())
	if err != nil {
		return "", fmt.Errorf("ensuring actor for user %s: %w", userID, err)
	}
	return actorID, nil
}

// HasProjectAccess reports whether the actor holds at least the
// requested level on the project. Access derives from project ownership
// (created_by) or an active membership carrying a covering level.
func (s *Service) HasProjectAccess(actorID, projectID, level string) (bool, error) {
	if !types.ValidLevel(level) {
		return false, types.ErrInvalidData
	}
	if actorID == "" || projectID == "" {
		return false, nil
	}

	project, err := s.store.GetEntity(types.KindProject, projectID, true)
	if err != nil {
		if err == types.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("resolving project %s: %w", projectID, err)
	}
	if project.CreatedBy == actorID {
		// Owners hold admin implicitly.
		return true, nil
	}

	held, ok, err := s.store.MembershipLevel(projectID, actorID)
	if err != nil {
		return false, fmt.Errorf("resolving membership: %w", err)
	}
	if !ok {
		return false, nil
	}
	return types.LevelCovers(held, level), nil
}

// Grant adds or updates an active membership.
func (s *Service) Grant(projectID, actorID, level string) error {
	return s.store.UpsertMembership(&types.Membership{
		ProjectID: projectID,
		ActorID:   actorID,
		Level:     level,
		AddedAt:   s.now(),
	})
}

// Revoke deactivates a membership. The row is kept with removed_at set.
func (s *Service) Revoke(projectID, actorID string) error {
	return s.store.RemoveMembership(projectID, actorID, s.now())
}
