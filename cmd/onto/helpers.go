// Shared helpers for onto CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/praxis-works/onto/internal/access"
	"github.com/praxis-works/onto/internal/audit"
	"github.com/praxis-works/onto/internal/fsm"
	"github.com/praxis-works/onto/internal/graph"
	"github.com/praxis-works/onto/internal/ledger"
	"github.com/praxis-works/onto/internal/migrate"
	"github.com/praxis-works/onto/internal/sqlite"
	"github.com/praxis-works/onto/pkg/types"
)

// app bundles the attached backend and the services built on top of it
// for the lifetime of one command.
type app struct {
	backend  *sqlite.Backend
	access   *access.Service
	registry *fsm.Registry
	log      *audit.Logger
	graph    *graph.Store
	engine   *fsm.Engine
	ledger   *ledger.Service
	migrator *migrate.Orchestrator
}

// attachApp resolves the data directory, attaches a SQLite backend, and
// wires the service layer. The caller must defer a.close().
func attachApp() (*app, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	// An absent machines dir means no overrides; LoadDir tolerates it.
	registry := fsm.DefaultRegistry()
	if err := registry.LoadDir(configMachinesDir); err != nil {
		backend.Detach()
		return nil, fmt.Errorf("load machines: %w", err)
	}

	acc := access.NewService(backend, time.Now)
	log := audit.NewLogger(backend)
	led := ledger.NewService(backend, time.Now)

	a := &app{
		backend:  backend,
		access:   acc,
		registry: registry,
		log:      log,
		graph:    graph.NewStore(backend, acc, registry, log, time.Now),
		ledger:   led,
		migrator: migrate.NewOrchestrator(backend, acc, registry, log, led, nil),
	}
	a.engine = fsm.NewEngine(fsm.EngineConfig{
		Store:    backend,
		Registry: registry,
		Access:   acc,
		Log:      log,
	})
	return a, nil
}

// close flushes the audit queue and detaches the backend.
func (a *app) close() {
	a.log.Close()
	if err := a.backend.Detach(); err != nil {
		fmt.Printf("warning: detach backend: %v\n", err)
	}
}

// requireActor ensures the --user flag is set and resolves it to an
// actor ID, creating the actor on first use.
func requireActor(a *app) (string, error) {
	if flagUser == "" {
		return "", fmt.Errorf("--user is required")
	}
	actorID, err := a.access.EnsureActor(flagUser)
	if err != nil {
		return "", fmt.Errorf("ensure actor: %w", err)
	}
	return actorID, nil
}

// parseProps parses repeated key=value flags into a props map.
func parseProps(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid prop %q (want key=value)", pair)
		}
		props[key] = value
	}
	return props, nil
}

// printJSON marshals v with indentation and prints it.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
