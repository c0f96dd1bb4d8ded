// Guard predicates. A guard spec is "name" or "name:arg"; the registry
// resolves the name and passes the arg through. Guards may read beyond
// the entity row itself (e.g. the owning project), so evaluation order
// relative to the conditional state update matters: a guard pass is a
// precondition check, and the check-and-set still protects against a
// concurrent transition between evaluation and commit.
package fsm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/praxis-works/onto/pkg/types"
)

// GuardContext carries what a guard may inspect.
type GuardContext struct {
	Entity *types.Entity
	Store  types.Store
}

// GuardFunc evaluates one predicate. A nil return allows the
// transition; a non-nil error is the rejection reason.
type GuardFunc func(gc GuardContext, arg string) error

// Guards resolves guard names to predicates.
type Guards struct {
	funcs map[string]GuardFunc
}

// NewGuards creates a guard registry seeded with the built-in guards.
func NewGuards() *Guards {
	g := &Guards{funcs: make(map[string]GuardFunc)}
	g.Register("always", guardAlways)
	g.Register("has_prop", guardHasProp)
	g.Register("prop_true", guardPropTrue)
	g.Register("project_active", guardProjectActive)
	return g
}

// Register installs a guard under name, replacing any previous one.
func (g *Guards) Register(name string, fn GuardFunc) {
	g.funcs[name] = fn
}

// Evaluate runs one guard spec against the context. Returns a
// *types.GuardError naming the guard and reason when the guard rejects,
// or ErrUnknownGuard when the spec's name is not registered.
func (g *Guards) Evaluate(spec string, gc GuardContext) error {
	name, arg := splitSpec(spec)
	fn, ok := g.funcs[name]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownGuard, name)
	}
	if err := fn(gc, arg); err != nil {
		return &types.GuardError{Guard: spec, Reason: err.Error()}
	}
	return nil
}

// splitSpec separates "name:arg" into its parts. A spec without a colon
// has an empty arg.
func splitSpec(spec string) (name, arg string) {
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		return spec[:i], spec[i+1:]
	}
	return spec, ""
}

func guardAlways(GuardContext, string) error {
	return nil
}

// guardHasProp requires a non-empty prop under the arg key.
func guardHasProp(gc GuardContext, arg string) error {
	if arg == "" {
		return errors.New("has_prop requires a key argument")
	}
	v, ok := gc.Entity.Props[arg]
	if !ok || v == nil || v == "" {
		return fmt.Errorf("prop %q is not set", arg)
	}
	return nil
}

// guardPropTrue requires the arg prop to be boolean true.
func guardPropTrue(gc GuardContext, arg string) error {
	if arg == "" {
		return errors.New("prop_true requires a key argument")
	}
	v, ok := gc.Entity.Props[arg].(bool)
	if !ok || !v {
		return fmt.Errorf("prop %q is not true", arg)
	}
	return nil
}

// guardProjectActive requires the owning project to be active. This is
// a guard that reads a related entity, not just the entity's own row.
func guardProjectActive(gc GuardContext, _ string) error {
	if gc.Entity.Kind == types.KindProject {
		return nil
	}
	project, err := gc.Store.GetEntity(types.KindProject, gc.Entity.ProjectID, false)
	if err != nil {
		return fmt.Errorf("owning project %s is unavailable", gc.Entity.ProjectID)
	}
	if project.StateKey != "active" {
		return fmt.Errorf("owning project is %s, not active", project.StateKey)
	}
	return nil
}
