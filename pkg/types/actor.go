package types

import "time"

// Access levels for project membership. Each level covers the weaker
// ones: write implies read, admin implies write.
const (
	LevelRead  = "read"
	LevelWrite = "write"
	LevelAdmin = "admin"
)

var levelRank = map[string]int{
	LevelRead:  1,
	LevelWrite: 2,
	LevelAdmin: 3,
}

// ValidLevel reports whether level is a recognized access level.
func ValidLevel(level string) bool {
	_, ok := levelRank[level]
	return ok
}

// LevelCovers reports whether held grants at least the requested level.
func LevelCovers(held, requested string) bool {
	h, ok := levelRank[held]
	if !ok {
		return false
	}
	r, ok := levelRank[requested]
	if !ok {
		return false
	}
	return h >= r
}

// Actor maps one human user to a stable graph-facing identity. All
// attribution fields on entities store the actor ID, never the raw user
// ID, so ownership survives auth-provider changes.
type Actor struct {
	ActorID   string // UUID v7, generated on first ensure.
	UserID    string // Auth-provider user ID; unique per actor.
	CreatedAt time.Time
}

// Membership grants an actor a level of access to a project. A
// membership is active while RemovedAt is nil.
type Membership struct {
	ProjectID string
	ActorID   string
	Level     string
	AddedAt   time.Time
	RemovedAt *time.Time
}
