// This file implements transition resolution and execution.
package fsm

import (
	"time"

	"github.com/praxis-works/onto/internal/access"
	"github.com/praxis-works/onto/internal/audit"
	"github.com/praxis-works/onto/pkg/types"
)

// Engine resolves and executes transitions against the store.
type Engine struct {
	store     types.Store
	registry  *Registry
	guards    *Guards
	actions   *Actions
	access    *access.Service
	log       *audit.Logger
	notifier  types.Notifier
	generator types.ContentGenerator
	now       func() time.Time
}

// EngineConfig wires an Engine. Notifier defaults to a no-op; now
// defaults to time.Now. Generator may be nil, in which case
// generate_document actions fail (collected, non-fatal).
type EngineConfig struct {
	Store     types.Store
	Registry  *Registry
	Guards    *Guards
	Actions   *Actions
	Access    *access.Service
	Log       *audit.Logger
	Notifier  types.Notifier
	Generator types.ContentGenerator
	Now       func() time.Time
}

// NewEngine creates an Engine from the config.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Guards == nil {
		cfg.Guards = NewGuards()
	}
	if cfg.Actions == nil {
		cfg.Actions = NewActions()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = types.NopNotifier{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		store:     cfg.Store,
		registry:  cfg.Registry,
		guards:    cfg.Guards,
		actions:   cfg.Actions,
		access:    cfg.Access,
		log:       cfg.Log,
		notifier:  cfg.Notifier,
		generator: cfg.Generator,
		now:       cfg.Now,
	}
}

// FireResult is the outcome of a committed transition. ActionErrors
// collects best-effort post-transition failures; the state change holds
// even when actions fail.
type FireResult struct {
	Entity       *types.Entity
	ActionErrors []error
}

// AllowedTransitions returns the transitions available from the
// entity's current state, in declared order. Guards are not evaluated
// here; they may depend on state that changes between listing and
// firing.
func (e *Engine) AllowedTransitions(kind, id string) ([]types.Transition, error) {
	entity, err := e.store.GetEntity(kind, id, false)
	if err != nil {
		return nil, err
	}
	machine, err := e.registry.Resolve(entity.TypeKey)
	if err != nil {
		return nil, err
	}
	return machine.TransitionsFrom(entity.StateKey), nil
}

// Fire executes the transition matching (current state, event).
//
// Authorization is checked before the transition is resolved: without
// write access the attempt fails with ErrAccessDenied and no guard is
// evaluated. Guards run in declared order; the first rejection aborts
// with a *types.GuardError and no state change. The state update is a
// conditional check-and-set on the expected current state; a miss means
// another caller transitioned the entity first and surfaces as
// ErrTransitionConflict. Actions run after the commit and their
// failures are returned in FireResult.ActionErrors, never as the
// primary error.
func (e *Engine) Fire(kind, id, event, actorID string) (*FireResult, error) {
	entity, err := e.store.GetEntity(kind, id, false)
	if err != nil {
		return nil, err
	}

	ok, err := e.access.HasProjectAccess(actorID, entity.OwningProjectID(), types.LevelWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, types.ErrAccessDenied
	}

	machine, err := e.registry.Resolve(entity.TypeKey)
	if err != nil {
		return nil, err
	}
	transition, found := machine.Find(entity.StateKey, event)
	if !found {
		return nil, types.ErrNoSuchTransition
	}

	gc := GuardContext{Entity: entity, Store: e.store}
	for _, spec := range transition.Guards {
		if err := e.guards.Evaluate(spec, gc); err != nil {
			return nil, err
		}
	}

	committed, err := e.store.UpdateEntityState(kind, id, transition.From, transition.To, e.now().UTC())
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, types.ErrTransitionConflict
	}

	updated, err := e.store.GetEntity(kind, id, false)
	if err != nil {
		return nil, err
	}

	result := &FireResult{Entity: updated}
	ac := ActionContext{
		Entity:    updated,
		Event:     event,
		ActorID:   actorID,
		Store:     e.store,
		Generator: e.generator,
		Now:       e.now,
	}
	for _, spec := range transition.Actions {
		if err := e.actions.Execute(spec, ac); err != nil {
			result.ActionErrors = append(result.ActionErrors, err)
		}
	}

	// Actions may have touched props; report the freshest row.
	if len(transition.Actions) > 0 {
		if fresh, err := e.store.GetEntity(kind, id, false); err == nil {
			result.Entity = fresh
		}
	}

	e.log.Record(kind, id, types.AuditUpdated, actorID, entity.Snapshot(), result.Entity.Snapshot())
	e.notifier.TransitionFired(types.TransitionEvent{
		Kind:      kind,
		EntityID:  id,
		FromState: transition.From,
		ToState:   transition.To,
		ActorID:   actorID,
		Timestamp: e.now().UTC(),
	})

	return result, nil
}
