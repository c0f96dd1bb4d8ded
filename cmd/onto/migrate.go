// Migrate command runs the legacy-to-graph migration.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var (
	migrateOrg    string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy records into the entity graph",
}

var migrateMapCmd = &cobra.Command{
	Use:   "map <legacy-project-id> <project-id>",
	Short: "Map a legacy project to an existing graph project",
	Long: `Map records that a legacy project corresponds to a graph project
entity. Mapping is idempotent; remapping to a different entity is an
error.

Example:
  onto migrate map 1 0190a1b2-... --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		legacyProjectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migrate map: invalid legacy project ID %q\n", args[0])
			os.Exit(exitUserError)
		}
		projectID := args[1]

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate map:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate map:", err)
			os.Exit(exitUserError)
		}

		mc := types.MigrationContext{
			RunID:       types.NewID(),
			InitiatedBy: actorID,
			Now:         time.Now(),
		}
		if err := a.migrator.MapProject(mc, legacyProjectID, projectID); err != nil {
			fmt.Fprintln(os.Stderr, "migrate map:", err)
			if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrAlreadyMigrated) {
				os.Exit(exitUserError)
			}
			os.Exit(exitSysError)
		}

		fmt.Printf("Mapped legacy project %d to %s\n", legacyProjectID, projectID)
		return nil
	},
}

var migrateRunCmd = &cobra.Command{
	Use:   "run <legacy-project-id>",
	Short: "Migrate a legacy project's tasks and calendar events",
	Long: `Run migrates the tasks of a legacy project, then its calendar events,
into the entity graph. Runs are incremental: already-migrated records
are skipped and errors are classified per record into the error
ledger. Commit runs require the graph_dual_write flag to be enabled
for the org (--org) or the initiating user; --dry-run previews without
writing and without the flag.

Example:
  onto migrate run 1 --org acme --user alice
  onto migrate run 1 --dry-run --user alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		legacyProjectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migrate run: invalid legacy project ID %q\n", args[0])
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate run:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate run:", err)
			os.Exit(exitUserError)
		}

		flags, err := a.migrator.FlagSnapshot(migrateOrg, flagUser)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate run:", err)
			os.Exit(exitSysError)
		}

		mc := types.MigrationContext{
			RunID:       types.NewID(),
			BatchID:     types.NewID(),
			DryRun:      migrateDryRun,
			InitiatedBy: actorID,
			Flags:       flags,
			Now:         time.Now(),
		}

		result, err := a.migrator.Run(mc, legacyProjectID)
		if err != nil {
			if errors.Is(err, types.ErrDualWriteDisabled) {
				fmt.Fprintln(os.Stderr, "migrate run: graph_dual_write is not enabled for this org or user")
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "migrate run:", err)
			// A fatal record error still produced a partial result;
			// report it before exiting.
			if result != nil {
				printSummary(result.Summary, mc.DryRun)
			}
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(result)
		}
		for _, rec := range result.Preview {
			id := rec.OntoID
			if id == "" {
				id = "(dry-run)"
			}
			fmt.Printf("%s/%d -> %s %s\n", rec.LegacyTable, rec.LegacyID, rec.Entity.TypeKey, id)
		}
		printSummary(result.Summary, mc.DryRun)
		return nil
	},
}

var migrateSeedDemoCmd = &cobra.Command{
	Use:   "seed-demo <legacy-project-id>",
	Short: "Seed demo rows into the legacy tables",
	Long: `Seed-demo inserts a handful of legacy tasks and calendar events under
the given legacy project ID, for trying the migration end to end.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		legacyProjectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migrate seed-demo: invalid legacy project ID %q\n", args[0])
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate seed-demo:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		if err := seedDemo(a, legacyProjectID); err != nil {
			fmt.Fprintln(os.Stderr, "migrate seed-demo:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Seeded demo legacy rows under legacy project %d\n", legacyProjectID)
		return nil
	},
}

// seedDemo inserts three legacy tasks (one with a bad status, to show
// error classification) and two calendar events, one linked to a task.
func seedDemo(a *app, legacyProjectID int64) error {
	now := time.Now()
	due := now.Add(72 * time.Hour)
	tasks := []*types.LegacyTask{
		{ID: legacyProjectID*100 + 1, ProjectID: legacyProjectID, Title: "Draft launch checklist", Status: "open", OwnerUserID: "demo", CreatedAt: now},
		{ID: legacyProjectID*100 + 2, ProjectID: legacyProjectID, Title: "Review designs", Status: "in_progress", OwnerUserID: "demo", DueAt: &due, CreatedAt: now},
		{ID: legacyProjectID*100 + 3, ProjectID: legacyProjectID, Title: "Legacy oddity", Status: "???", OwnerUserID: "demo", CreatedAt: now},
	}
	for _, t := range tasks {
		if err := a.backend.InsertLegacyTask(t); err != nil {
			return err
		}
	}

	taskRef := tasks[0].ID
	events := []*types.LegacyCalendarEvent{
		{ID: legacyProjectID*100 + 1, ProjectID: legacyProjectID, TaskID: &taskRef, Title: "Checklist review", StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(25 * time.Hour), Provider: "demo", CreatedAt: now},
		{ID: legacyProjectID*100 + 2, ProjectID: legacyProjectID, Title: "Launch sync", StartsAt: now.Add(48 * time.Hour), EndsAt: now.Add(49 * time.Hour), Provider: "demo", CreatedAt: now},
	}
	for _, ev := range events {
		if err := a.backend.InsertLegacyCalendarEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(s types.Summary, dryRun bool) {
	mode := "migrated"
	if dryRun {
		mode = "previewed"
	}
	fmt.Printf("%s: %d created, %d skipped, %d failed\n", mode, s.Created, s.Skipped, s.Failed)
}

func init() {
	migrateRunCmd.Flags().StringVar(&migrateOrg, "org", "", "org ID for the feature-flag check")
	migrateRunCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview the run without writing")

	migrateCmd.AddCommand(migrateMapCmd)
	migrateCmd.AddCommand(migrateRunCmd)
	migrateCmd.AddCommand(migrateSeedDemoCmd)
}
