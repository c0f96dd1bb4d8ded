package types

import (
	"strings"
	"time"
)

// Entity kinds. The kind doubles as the machine prefix of the entity's
// type key: an entity with TypeKey "task.example" has kind "task".
const (
	KindProject   = "project"
	KindGoal      = "goal"
	KindMilestone = "milestone"
	KindTask      = "task"
	KindPlan      = "plan"
	KindDocument  = "document"
	KindOutput    = "output"
	KindEvent     = "event"
)

// StandardKinds lists all entity kinds for enumeration.
var StandardKinds = []string{
	KindProject,
	KindGoal,
	KindMilestone,
	KindTask,
	KindPlan,
	KindDocument,
	KindOutput,
	KindEvent,
}

var validKinds = map[string]bool{
	KindProject:   true,
	KindGoal:      true,
	KindMilestone: true,
	KindTask:      true,
	KindPlan:      true,
	KindDocument:  true,
	KindOutput:    true,
	KindEvent:     true,
}

// ValidKind reports whether kind is a recognized entity kind.
func ValidKind(kind string) bool {
	return validKinds[kind]
}

// KindFromTypeKey returns the machine prefix of a dotted type key.
// "task.example" yields "task"; a key with no dot is its own prefix.
func KindFromTypeKey(typeKey string) string {
	if i := strings.IndexByte(typeKey, '.'); i >= 0 {
		return typeKey[:i]
	}
	return typeKey
}

// Entity represents one node in the work graph.
type Entity struct {
	EntityID  string         // UUID v7, generated on creation.
	Kind      string         // Machine prefix of TypeKey (task, goal, ...).
	ProjectID string         // Owning project; empty only for project entities.
	TypeKey   string         // Dotted taxonomy key, e.g. "task.example".
	StateKey  string         // Current state; always a declared state of the bound machine.
	Props     map[string]any // Open attribute bag; shape owned by the type's template.
	CreatedBy string         // Actor ID of the creator.
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft delete marker; nil means active.
}

// Deleted reports whether the entity is soft-deleted.
func (e *Entity) Deleted() bool {
	return e.DeletedAt != nil
}

// OwningProjectID returns the project that owns this entity. Project
// entities own themselves.
func (e *Entity) OwningProjectID() string {
	if e.Kind == KindProject {
		return e.EntityID
	}
	return e.ProjectID
}

// Snapshot returns a flat map view of the entity for audit records and
// content generation. Props are copied, not aliased.
func (e *Entity) Snapshot() map[string]any {
	snap := map[string]any{
		"entity_id":  e.EntityID,
		"kind":       e.Kind,
		"project_id": e.ProjectID,
		"type_key":   e.TypeKey,
		"state_key":  e.StateKey,
	}
	props := make(map[string]any, len(e.Props))
	for k, v := range e.Props {
		props[k] = v
	}
	snap["props"] = props
	return snap
}
