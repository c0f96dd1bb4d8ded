// Calendar migrator: legacy calendar events become event entities,
// linked to their migrated task through a scheduled_for edge. Depends
// on the task migrator's mapping output, which is why task migration
// runs to completion first for the same project.
package migrate

import (
	"errors"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

// migratedEventTypeKey is the taxonomy key stamped on migrated events.
const migratedEventTypeKey = "event.calendar"

type calendarMigrator struct {
	o  *Orchestrator
	mc types.MigrationContext
}

// migrate processes one legacy calendar event.
func (m *calendarMigrator) migrate(event *types.LegacyCalendarEvent, result *Result) error {
	if _, err := m.o.store.GetMapping(types.LegacyTableCalendarEvents, event.ID); err == nil {
		result.Summary.Skipped++
		return nil
	} else if !errors.Is(err, types.ErrNotFound) {
		return fatalErr(types.KindEvent, err)
	}

	entity, taskEntityID, err := m.build(event, result)
	if err != nil {
		return err
	}

	if m.mc.DryRun {
		result.Summary.Created++
		result.Preview = append(result.Preview, types.PreviewRecord{
			LegacyTable: types.LegacyTableCalendarEvents,
			LegacyID:    event.ID,
			Entity:      entity,
		})
		return nil
	}

	mapping := &types.Mapping{
		LegacyTable: types.LegacyTableCalendarEvents,
		LegacyID:    event.ID,
		OntoID:      entity.EntityID,
		CreatedAt:   m.mc.Now,
	}
	err = m.o.store.InsertEntityWithMapping(entity, mapping)
	if errors.Is(err, types.ErrAlreadyMigrated) {
		result.Summary.Skipped++
		return nil
	}
	if err != nil {
		return fatalErr(types.KindEvent, err)
	}

	result.Summary.Created++
	result.Preview = append(result.Preview, types.PreviewRecord{
		LegacyTable: types.LegacyTableCalendarEvents,
		LegacyID:    event.ID,
		OntoID:      entity.EntityID,
		Entity:      entity,
	})
	m.o.log.Record(types.KindEvent, entity.EntityID, types.AuditCreated, m.mc.InitiatedBy, nil, entity.Snapshot())

	if taskEntityID != "" {
		edge := &types.Edge{
			EdgeID:    types.NewID(),
			SrcKind:   types.KindEvent,
			SrcID:     entity.EntityID,
			DstKind:   types.KindTask,
			DstID:     taskEntityID,
			Rel:       types.RelScheduledFor,
			ProjectID: entity.ProjectID,
			CreatedAt: m.mc.Now,
		}
		if err := m.o.store.InsertEdge(edge); err != nil {
			// The entity and mapping are committed and a re-run will skip
			// this record, so the record itself counts as created; the
			// missing edge goes to the ledger for manual repair.
			_, _ = m.o.ledger.Record(types.KindEvent, types.CategoryRecoverable, m.mc.RunID,
				entity.ProjectID, m.mc.InitiatedBy,
				"event "+entity.EntityID+" committed without its scheduled_for edge: "+err.Error())
		}
	}
	return nil
}

// build computes the graph representation of a legacy calendar event
// and, when the event references a task, the graph ID of that task.
func (m *calendarMigrator) build(event *types.LegacyCalendarEvent, result *Result) (*types.Entity, string, error) {
	if event.Title == "" {
		return nil, "", dataErr(types.KindEvent, "legacy calendar event %d has no title", event.ID)
	}
	if event.EndsAt.Before(event.StartsAt) {
		return nil, "", dataErr(types.KindEvent, "legacy calendar event %d ends before it starts", event.ID)
	}

	projectMapping, err := m.o.store.GetMapping(types.LegacyTableProjects, event.ProjectID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, "", dataErr(types.KindEvent, "legacy project %d has not been migrated", event.ProjectID)
		}
		return nil, "", fatalErr(types.KindEvent, err)
	}

	var taskEntityID string
	if event.TaskID != nil {
		taskEntityID = result.TaskMappings[*event.TaskID]
		if taskEntityID == "" {
			// Not in this run's output; fall back to the mapping table for
			// tasks migrated by an earlier batch.
			mapping, err := m.o.store.GetMapping(types.LegacyTableTasks, *event.TaskID)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return nil, "", recoverableErr(types.KindEvent, "legacy task %d has not been migrated yet", *event.TaskID)
				}
				return nil, "", fatalErr(types.KindEvent, err)
			}
			taskEntityID = mapping.OntoID
		}
	}

	props := map[string]any{
		"title":     event.Title,
		"legacy_id": event.ID,
		"starts_at": event.StartsAt.UTC().Format(time.RFC3339),
		"ends_at":   event.EndsAt.UTC().Format(time.RFC3339),
	}
	if event.Provider != "" {
		props["provider"] = event.Provider
	}
	if taskEntityID != "" {
		props["task_id"] = taskEntityID
	}

	entity := &types.Entity{
		EntityID:  types.NewID(),
		Kind:      types.KindEvent,
		ProjectID: projectMapping.OntoID,
		TypeKey:   migratedEventTypeKey,
		StateKey:  "scheduled",
		Props:     props,
		CreatedBy: m.mc.InitiatedBy,
		CreatedAt: commitTime(m.mc, event.CreatedAt),
		UpdatedAt: m.mc.Now,
	}
	return entity, taskEntityID, nil
}
