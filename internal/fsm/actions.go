// Post-transition actions. Actions run after the state change commits,
// in declared order, and are best-effort: a failure is collected and
// reported, never rolled back into the transition.
package fsm

import (
	"errors"
	"fmt"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

// ActionContext carries what an action may touch.
type ActionContext struct {
	Entity    *types.Entity // the entity after the transition committed
	Event     string
	ActorID   string
	Store     types.Store
	Generator types.ContentGenerator
	Now       func() time.Time
}

// ActionFunc executes one side effect.
type ActionFunc func(ac ActionContext, arg string) error

// Actions resolves action names to callables.
type Actions struct {
	funcs map[string]ActionFunc
}

// NewActions creates an action registry seeded with the built-in
// actions.
func NewActions() *Actions {
	a := &Actions{funcs: make(map[string]ActionFunc)}
	a.Register("generate_document", actionGenerateDocument)
	a.Register("stamp", actionStamp)
	return a
}

// Register installs an action under name, replacing any previous one.
func (a *Actions) Register(name string, fn ActionFunc) {
	a.funcs[name] = fn
}

// Execute runs one action spec. Returns ErrUnknownAction when the
// spec's name is not registered.
func (a *Actions) Execute(spec string, ac ActionContext) error {
	name, arg := splitSpec(spec)
	fn, ok := a.funcs[name]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownAction, name)
	}
	if err := fn(ac, arg); err != nil {
		return fmt.Errorf("action %s: %w", spec, err)
	}
	return nil
}

// actionGenerateDocument asks the content generator for content from
// the arg template and stores it as a new document entity in the same
// project.
func actionGenerateDocument(ac ActionContext, arg string) error {
	if arg == "" {
		return errors.New("generate_document requires a template argument")
	}
	if ac.Generator == nil {
		return errors.New("no content generator configured")
	}

	content, err := ac.Generator.Generate(arg, ac.Entity.Snapshot(), map[string]any{
		"event": ac.Event,
		"actor": ac.ActorID,
	})
	if err != nil {
		return fmt.Errorf("generating content: %w", err)
	}

	now := ac.Now().UTC()
	doc := &types.Entity{
		EntityID:  types.NewID(),
		Kind:      types.KindDocument,
		ProjectID: ac.Entity.OwningProjectID(),
		TypeKey:   "document." + arg,
		StateKey:  "draft",
		Props: map[string]any{
			"content":     content,
			"source_kind": ac.Entity.Kind,
			"source_id":   ac.Entity.EntityID,
		},
		CreatedBy: ac.ActorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return ac.Store.InsertEntity(doc)
}

// actionStamp records the transition time in the arg prop.
func actionStamp(ac ActionContext, arg string) error {
	if arg == "" {
		return errors.New("stamp requires a key argument")
	}

	props := make(map[string]any, len(ac.Entity.Props)+1)
	for k, v := range ac.Entity.Props {
		props[k] = v
	}
	props[arg] = ac.Now().UTC().Format(time.RFC3339)
	return ac.Store.UpdateEntityProps(ac.Entity.Kind, ac.Entity.EntityID, props, ac.Now().UTC())
}
