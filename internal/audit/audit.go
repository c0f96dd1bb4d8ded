// Package audit writes the append-only activity log. Recording is
// fire-and-forget: entries go through a buffered queue drained by a
// single worker goroutine, and a failed append never fails the entity
// mutation that triggered it.
package audit

import (
	"sync"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

// defaultQueueSize bounds the pending entry queue. When the queue is
// full, Record drops the entry rather than block the caller.
const defaultQueueSize = 256

// Logger appends audit entries asynchronously.
type Logger struct {
	store types.Store
	queue chan *types.AuditEntry
	done  chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewLogger creates a Logger and starts its worker.
func NewLogger(store types.Store) *Logger {
	l := &Logger{
		store: store,
		queue: make(chan *types.AuditEntry, defaultQueueSize),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// Record queues one entry. Never blocks and never returns an error;
// entries are dropped when the logger is closed or the queue is full.
func (l *Logger) Record(kind, entityID, action, actorID string, before, after map[string]any) {
	entry := &types.AuditEntry{
		EntryID:   types.NewID(),
		Kind:      kind,
		EntityID:  entityID,
		Action:    action,
		ActorID:   actorID,
		Before:    before,
		After:     after,
		CreatedAt: time.Now().UTC(),
	}

	// The closed check and the send happen under the same lock Close
	// holds while closing the queue, so the send can never hit a closed
	// channel.
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		l.dropped++
		return
	}
	select {
	case l.queue <- entry:
	default:
		l.dropped++
	}
}

// Close drains the queue and stops the worker. Idempotent.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	<-l.done
}

// Dropped reports how many entries were discarded because the queue was
// full or the logger was closed.
func (l *Logger) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// run drains the queue. Insert failures are swallowed: audit durability
// is best-effort relative to the triggering operation.
func (l *Logger) run() {
	for entry := range l.queue {
		_ = l.store.InsertAuditEntry(entry)
	}
	close(l.done)
}
