// Task migrator: legacy flat tasks become task entities in the graph.
package migrate

import (
	"errors"
	"fmt"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

// migratedTaskTypeKey is the taxonomy key stamped on migrated tasks.
const migratedTaskTypeKey = "task.legacy"

// legacyTaskStates maps legacy status strings to task machine states.
var legacyTaskStates = map[string]string{
	"open":        "todo",
	"todo":        "todo",
	"in_progress": "in_progress",
	"started":     "in_progress",
	"done":        "done",
	"closed":      "done",
	"cancelled":   "cancelled",
}

type taskMigrator struct {
	o  *Orchestrator
	mc types.MigrationContext
}

// migrate processes one legacy task. An existing mapping is a skip that
// still re-derives the graph ID for dependent migrators.
func (m *taskMigrator) migrate(task *types.LegacyTask, result *Result) error {
	if mapping, err := m.o.store.GetMapping(types.LegacyTableTasks, task.ID); err == nil {
		result.Summary.Skipped++
		result.TaskMappings[task.ID] = mapping.OntoID
		return nil
	} else if !errors.Is(err, types.ErrNotFound) {
		return fatalErr(types.KindTask, err)
	}

	entity, err := m.build(task)
	if err != nil {
		return err
	}

	if m.mc.DryRun {
		result.Summary.Created++
		result.Preview = append(result.Preview, types.PreviewRecord{
			LegacyTable: types.LegacyTableTasks,
			LegacyID:    task.ID,
			Entity:      entity,
		})
		return nil
	}

	mapping := &types.Mapping{
		LegacyTable: types.LegacyTableTasks,
		LegacyID:    task.ID,
		OntoID:      entity.EntityID,
		CreatedAt:   m.mc.Now,
	}
	err = m.o.store.InsertEntityWithMapping(entity, mapping)
	if errors.Is(err, types.ErrAlreadyMigrated) {
		// A concurrent migrator won the mapping insert.
		existing, getErr := m.o.store.GetMapping(types.LegacyTableTasks, task.ID)
		if getErr != nil {
			return fatalErr(types.KindTask, getErr)
		}
		result.Summary.Skipped++
		result.TaskMappings[task.ID] = existing.OntoID
		return nil
	}
	if err != nil {
		return fatalErr(types.KindTask, err)
	}

	result.Summary.Created++
	result.TaskMappings[task.ID] = entity.EntityID
	result.Preview = append(result.Preview, types.PreviewRecord{
		LegacyTable: types.LegacyTableTasks,
		LegacyID:    task.ID,
		OntoID:      entity.EntityID,
		Entity:      entity,
	})
	m.o.log.Record(types.KindTask, entity.EntityID, types.AuditCreated, m.mc.InitiatedBy, nil, entity.Snapshot())
	return nil
}

// build computes the graph representation of a legacy task. The same
// entity shape is produced in dry-run and commit mode.
func (m *taskMigrator) build(task *types.LegacyTask) (*types.Entity, error) {
	if task.Title == "" {
		return nil, dataErr(types.KindTask, "legacy task %d has no title", task.ID)
	}
	state, ok := legacyTaskStates[task.Status]
	if !ok {
		return nil, dataErr(types.KindTask, "legacy task %d has unknown status %q", task.ID, task.Status)
	}

	projectMapping, err := m.o.store.GetMapping(types.LegacyTableProjects, task.ProjectID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, dataErr(types.KindTask, "legacy project %d has not been migrated", task.ProjectID)
		}
		return nil, fatalErr(types.KindTask, err)
	}

	actorID, err := m.o.resolveActor(m.mc, task.OwnerUserID)
	if err != nil {
		return nil, recoverableErr(types.KindTask, "resolving owner %q: %v", task.OwnerUserID, err)
	}

	props := map[string]any{
		"title":         task.Title,
		"legacy_id":     task.ID,
		"legacy_status": task.Status,
	}
	if task.Description != "" {
		props["description"] = task.Description
	}
	if task.DueAt != nil {
		props["due_at"] = task.DueAt.UTC().Format(time.RFC3339)
	}

	return &types.Entity{
		EntityID:  types.NewID(),
		Kind:      types.KindTask,
		ProjectID: projectMapping.OntoID,
		TypeKey:   migratedTaskTypeKey,
		StateKey:  state,
		Props:     props,
		CreatedBy: actorID,
		CreatedAt: commitTime(m.mc, task.CreatedAt),
		UpdatedAt: m.mc.Now,
	}, nil
}

// stateForStatus is exposed for tests; unknown statuses are a data
// error at migration time.
func stateForStatus(status string) (string, error) {
	state, ok := legacyTaskStates[status]
	if !ok {
		return "", fmt.Errorf("unknown legacy status %q", status)
	}
	return state, nil
}
