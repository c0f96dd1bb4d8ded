package types

import "time"

// TransitionEvent is the plain data event emitted after a state change
// commits. Subscriber delivery is outside the core.
type TransitionEvent struct {
	Kind      string
	EntityID  string
	FromState string
	ToState   string
	ActorID   string
	Timestamp time.Time
}

// ProgressEvent reports migration progress per processed record.
type ProgressEvent struct {
	RunID            string
	RecordsProcessed int
	RecordsTotal     int
}

// Notifier receives core events. Implementations live outside the core
// and must not block.
type Notifier interface {
	TransitionFired(TransitionEvent)
	MigrationProgress(ProgressEvent)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) TransitionFired(TransitionEvent) {}
func (NopNotifier) MigrationProgress(ProgressEvent) {}

// ContentGenerator produces content from a template and an entity
// snapshot. Invoked only as a post-transition action; failures are
// non-fatal to the transition.
type ContentGenerator interface {
	Generate(templateKey string, snapshot map[string]any, context map[string]any) (string, error)
}
