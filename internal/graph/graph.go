// Package graph is the entity and edge store service: typed nodes with
// a taxonomy key, a machine-governed state key, and an open props bag;
// directed typed relations between them. Every mutation is authorized
// through the access layer and recorded in the audit log.
package graph

import (
	"fmt"
	"time"

	"github.com/praxis-works/onto/internal/access"
	"github.com/praxis-works/onto/internal/audit"
	"github.com/praxis-works/onto/internal/fsm"
	"github.com/praxis-works/onto/pkg/types"
)

// Store is the graph-facing service over the persistence backend.
type Store struct {
	store    types.Store
	access   *access.Service
	machines *fsm.Registry
	log      *audit.Logger
	now      func() time.Time
}

// NewStore wires the graph service. now defaults to time.Now when nil.
func NewStore(store types.Store, acc *access.Service, machines *fsm.Registry, log *audit.Logger, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{store: store, access: acc, machines: machines, log: log, now: now}
}

// CreateEntity creates a node in the initial state of the machine bound
// to typeKey's prefix. Fails with ErrInvalidTypeKey when no machine is
// registered for the prefix and ErrAccessDenied when the actor lacks
// write access to the project. Project entities own themselves and skip
// the project access check.
func (s *Store) CreateEntity(typeKey, projectID string, props map[string]any, actorID string) (*types.Entity, error) {
	machine, err := s.machines.Resolve(typeKey)
	if err != nil {
		return nil, err
	}
	kind := types.KindFromTypeKey(typeKey)

	if kind != types.KindProject {
		if projectID == "" {
			return nil, types.ErrInvalidData
		}
		ok, err := s.access.HasProjectAccess(actorID, projectID, types.LevelWrite)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, types.ErrAccessDenied
		}
	}

	if props == nil {
		props = map[string]any{}
	}
	now := s.now().UTC()
	entity := &types.Entity{
		EntityID:  types.NewID(),
		Kind:      kind,
		ProjectID: projectID,
		TypeKey:   typeKey,
		StateKey:  machine.Initial(),
		Props:     props,
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertEntity(entity); err != nil {
		return nil, fmt.Errorf("creating entity: %w", err)
	}

	s.log.Record(kind, entity.EntityID, types.AuditCreated, actorID, nil, entity.Snapshot())
	return entity, nil
}

// GetEntity retrieves a node. Soft-deleted entities are ErrNotFound
// unless includeDeleted is set.
func (s *Store) GetEntity(kind, id string, includeDeleted bool) (*types.Entity, error) {
	return s.store.GetEntity(kind, id, includeDeleted)
}

// ListEntitiesByProject returns a project's nodes, soft-deleted rows
// excluded unless includeDeleted is set. An empty kind matches all kinds.
func (s *Store) ListEntitiesByProject(projectID, kind string, includeDeleted bool) ([]*types.Entity, error) {
	return s.store.ListEntities(projectID, kind, includeDeleted)
}

// UpdateProps replaces a node's props bag without touching its state.
// Requires write access to the owning project.
func (s *Store) UpdateProps(kind, id string, props map[string]any, actorID string) (*types.Entity, error) {
	before, err := s.store.GetEntity(kind, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(before, actorID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateEntityProps(kind, id, props, s.now().UTC()); err != nil {
		return nil, err
	}
	after, err := s.store.GetEntity(kind, id, false)
	if err != nil {
		return nil, err
	}

	s.log.Record(kind, id, types.AuditUpdated, actorID, before.Snapshot(), after.Snapshot())
	return after, nil
}

// SoftDelete sets deleted_at without altering state_key. Deleting an
// already-deleted entity is a no-op success.
func (s *Store) SoftDelete(kind, id string, actorID string) error {
	entity, err := s.store.GetEntity(kind, id, true)
	if err != nil {
		return err
	}
	if entity.Deleted() {
		return nil // idempotent
	}
	if err := s.authorizeWrite(entity, actorID); err != nil {
		return err
	}

	deleted, err := s.store.SoftDeleteEntity(kind, id, s.now().UTC())
	if err != nil {
		return err
	}
	if deleted {
		s.log.Record(kind, id, types.AuditDeleted, actorID, entity.Snapshot(), nil)
	}
	return nil
}

// CreateEdge adds a directed relation. Write access to the project
// owning the source entity is required. No uniqueness is enforced at
// write time; single-valued relations resolve via types.LatestEdges.
func (s *Store) CreateEdge(srcKind, srcID, dstKind, dstID, rel, actorID string) (*types.Edge, error) {
	src, err := s.store.GetEntity(srcKind, srcID, false)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetEntity(dstKind, dstID, false); err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(src, actorID); err != nil {
		return nil, err
	}

	edge := &types.Edge{
		EdgeID:    types.NewID(),
		SrcKind:   srcKind,
		SrcID:     srcID,
		DstKind:   dstKind,
		DstID:     dstID,
		Rel:       rel,
		ProjectID: src.OwningProjectID(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertEdge(edge); err != nil {
		return nil, fmt.Errorf("creating edge: %w", err)
	}
	return edge, nil
}

// ListEdges returns edges matching the filter.
func (s *Store) ListEdges(filter types.EdgeFilter) ([]*types.Edge, error) {
	return s.store.ListEdges(filter)
}

// DeleteEdge removes a relation. Requires write access to at least one
// endpoint's owning project. Deleting an absent edge is a no-op success.
// Edge deletion never cascades to the entities it connects.
func (s *Store) DeleteEdge(edgeID, actorID string) error {
	edge, err := s.store.GetEdge(edgeID)
	if err != nil {
		if err == types.ErrNotFound {
			return nil // idempotent
		}
		return err
	}

	allowed := false
	for _, end := range []struct{ kind, id string }{
		{edge.SrcKind, edge.SrcID},
		{edge.DstKind, edge.DstID},
	} {
		projectID, err := s.OwningProject(end.kind, end.id)
		if err != nil {
			continue
		}
		ok, err := s.access.HasProjectAccess(actorID, projectID, types.LevelWrite)
		if err == nil && ok {
			allowed = true
			break
		}
	}
	if !allowed {
		return types.ErrAccessDenied
	}

	_, err = s.store.DeleteEdge(edgeID)
	return err
}

// OwningProject resolves the project that owns an entity. Projects
// resolve to themselves; other kinds resolve via their project_id.
func (s *Store) OwningProject(kind, id string) (string, error) {
	if kind == types.KindProject {
		return id, nil
	}
	entity, err := s.store.GetEntity(kind, id, true)
	if err != nil {
		return "", err
	}
	return entity.ProjectID, nil
}

// authorizeWrite verifies write access to the entity's owning project.
func (s *Store) authorizeWrite(entity *types.Entity, actorID string) error {
	ok, err := s.access.HasProjectAccess(actorID, entity.OwningProjectID(), types.LevelWrite)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrAccessDenied
	}
	return nil
}
