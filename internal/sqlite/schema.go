// Package sqlite implements the SQLite storage backend for onto.
package sqlite

// Schema DDL for all tables. Tables are created on Attach if absent;
// the database file is durable across attach cycles.
const (
	createEntities = `CREATE TABLE IF NOT EXISTS entities (
    entity_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    project_id TEXT,
    type_key TEXT NOT NULL,
    state_key TEXT NOT NULL,
    props TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    deleted_at TEXT
);`

	createEdges = `CREATE TABLE IF NOT EXISTS edges (
    edge_id TEXT PRIMARY KEY,
    src_kind TEXT NOT NULL,
    src_id TEXT NOT NULL,
    dst_kind TEXT NOT NULL,
    dst_id TEXT NOT NULL,
    rel TEXT NOT NULL,
    project_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createActors = `CREATE TABLE IF NOT EXISTS actors (
    actor_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);`

	createMembers = `CREATE TABLE IF NOT EXISTS project_members (
    project_id TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    level TEXT NOT NULL,
    added_at TEXT NOT NULL,
    removed_at TEXT,
    PRIMARY KEY (project_id, actor_id)
);`

	createMappings = `CREATE TABLE IF NOT EXISTS legacy_mappings (
    legacy_table TEXT NOT NULL,
    legacy_id INTEGER NOT NULL,
    onto_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (legacy_table, legacy_id)
);`

	createMigrationErrors = `CREATE TABLE IF NOT EXISTS migration_errors (
    error_id TEXT PRIMARY KEY,
    entity_type TEXT NOT NULL,
    category TEXT NOT NULL,
    run_id TEXT NOT NULL,
    project_id TEXT,
    user_id TEXT,
    message TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createAuditLog = `CREATE TABLE IF NOT EXISTS audit_log (
    entry_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    action TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    before TEXT,
    after TEXT,
    created_at TEXT NOT NULL
);`

	createFeatureFlags = `CREATE TABLE IF NOT EXISTS feature_flags (
    scope TEXT NOT NULL,
    scope_id TEXT NOT NULL,
    flag TEXT NOT NULL,
    enabled INTEGER NOT NULL,
    PRIMARY KEY (scope, scope_id, flag)
);`

	createLegacyTasks = `CREATE TABLE IF NOT EXISTS legacy_tasks (
    id INTEGER PRIMARY KEY,
    project_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL,
    owner_user_id TEXT,
    due_at TEXT,
    created_at TEXT NOT NULL
);`

	createLegacyCalendarEvents = `CREATE TABLE IF NOT EXISTS legacy_calendar_events (
    id INTEGER PRIMARY KEY,
    project_id INTEGER NOT NULL,
    task_id INTEGER,
    title TEXT NOT NULL,
    starts_at TEXT NOT NULL,
    ends_at TEXT NOT NULL,
    provider TEXT,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxEntitiesProject  = `CREATE INDEX IF NOT EXISTS idx_entities_project ON entities(project_id, kind);`
	idxEntitiesKind     = `CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(kind, entity_id);`
	idxEdgesSrc         = `CREATE INDEX IF NOT EXISTS idx_edges_src ON edges(src_id, rel);`
	idxEdgesDst         = `CREATE INDEX IF NOT EXISTS idx_edges_dst ON edges(dst_id, rel);`
	idxEdgesProject     = `CREATE INDEX IF NOT EXISTS idx_edges_project ON edges(project_id);`
	idxMembersActor     = `CREATE INDEX IF NOT EXISTS idx_members_actor ON project_members(actor_id);`
	idxErrorsRun        = `CREATE INDEX IF NOT EXISTS idx_migration_errors_run ON migration_errors(run_id);`
	idxErrorsCategory   = `CREATE INDEX IF NOT EXISTS idx_migration_errors_category ON migration_errors(category);`
	idxAuditEntity      = `CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(kind, entity_id);`
	idxLegacyTasksProj  = `CREATE INDEX IF NOT EXISTS idx_legacy_tasks_project ON legacy_tasks(project_id);`
	idxLegacyEventsProj = `CREATE INDEX IF NOT EXISTS idx_legacy_events_project ON legacy_calendar_events(project_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createEntities,
	createEdges,
	createActors,
	createMembers,
	createMappings,
	createMigrationErrors,
	createAuditLog,
	createFeatureFlags,
	createLegacyTasks,
	createLegacyCalendarEvents,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEntitiesProject,
	idxEntitiesKind,
	idxEdgesSrc,
	idxEdgesDst,
	idxEdgesProject,
	idxMembersActor,
	idxErrorsRun,
	idxErrorsCategory,
	idxAuditEntity,
	idxLegacyTasksProj,
	idxLegacyEventsProj,
}
