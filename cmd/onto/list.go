// List command enumerates entities within a project.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var (
	listProject string
	listKind    string
	listDeleted bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entities in a project",
	Long: `List enumerates the entities owned by a project, optionally filtered
by kind.

Example:
  onto list --project 0190a1b2-...
  onto list --project 0190a1b2-... --kind task --deleted`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listKind != "" && !types.ValidKind(listKind) {
			fmt.Fprintf(os.Stderr, "unknown kind %q (valid: %s)\n", listKind, strings.Join(types.StandardKinds, ", "))
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		entities, err := a.graph.ListEntitiesByProject(listProject, listKind, listDeleted)
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entities)
		}
		for _, e := range entities {
			fmt.Printf("%s  %-10s %-20s %s\n", e.EntityID, e.Kind, e.TypeKey, e.StateKey)
		}
		fmt.Printf("%d entities\n", len(entities))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listProject, "project", "", "project entity ID (required)")
	listCmd.Flags().StringVar(&listKind, "kind", "", "filter by entity kind")
	listCmd.Flags().BoolVar(&listDeleted, "deleted", false, "include soft-deleted entities")

	listCmd.MarkFlagRequired("project")
}
