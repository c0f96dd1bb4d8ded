//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, race, smoke).
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Race runs all tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Smoke builds the binary and exercises the CLI end to end against a
// throwaway data directory: init, create a project and a task, link
// them, fire a transition, seed and migrate a demo legacy project.
func (Test) Smoke() error {
	mg.Deps(Build)

	workDir, err := os.MkdirTemp("", "onto-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	bin, err := filepath.Abs(filepath.Join(binaryDir, binaryName))
	if err != nil {
		return err
	}
	configDir := filepath.Join(workDir, "config")
	dataDir := filepath.Join(workDir, "data")

	onto := func(args ...string) (string, error) {
		full := append([]string{"--config-dir", configDir, "--data-dir", dataDir}, args...)
		return sh.Output(bin, full...)
	}

	if _, err := onto("init"); err != nil {
		return fmt.Errorf("smoke init: %w", err)
	}

	out, err := onto("create", "--type", "project.default", "--prop", "title=Smoke", "--user", "smoke")
	if err != nil {
		return fmt.Errorf("smoke create project: %w", err)
	}
	projectID, err := smokeID(out)
	if err != nil {
		return err
	}

	out, err = onto("create", "--type", "task.example", "--project", projectID, "--prop", "title=Smoke task", "--user", "smoke")
	if err != nil {
		return fmt.Errorf("smoke create task: %w", err)
	}
	taskID, err := smokeID(out)
	if err != nil {
		return err
	}

	if _, err := onto("fire", "task", taskID, "start", "--user", "smoke"); err != nil {
		return fmt.Errorf("smoke fire: %w", err)
	}

	if _, err := onto("migrate", "seed-demo", "1"); err != nil {
		return fmt.Errorf("smoke seed-demo: %w", err)
	}
	if _, err := onto("migrate", "map", "1", projectID, "--user", "smoke"); err != nil {
		return fmt.Errorf("smoke migrate map: %w", err)
	}
	if _, err := onto("migrate", "run", "1", "--dry-run", "--user", "smoke"); err != nil {
		return fmt.Errorf("smoke migrate dry-run: %w", err)
	}
	if _, err := onto("flag", "set", "user", "smoke", "graph_dual_write"); err != nil {
		return fmt.Errorf("smoke flag set: %w", err)
	}
	if _, err := onto("migrate", "run", "1", "--user", "smoke"); err != nil {
		return fmt.Errorf("smoke migrate run: %w", err)
	}

	fmt.Println("smoke: OK")
	return nil
}

// smokeID pulls the entity ID out of the human-readable create output
// ("Created <kind>: <id> (state <state>)").
func smokeID(out string) (string, error) {
	var kind, id string
	if _, err := fmt.Sscanf(out, "Created %s %s", &kind, &id); err != nil {
		return "", fmt.Errorf("unexpected create output %q: %w", out, err)
	}
	return id, nil
}
