// Link command creates a typed edge between two entities.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var linkCmd = &cobra.Command{
	Use:   "link <src-kind> <src-id> <rel> <dst-kind> <dst-id>",
	Short: "Create a typed edge between two entities",
	Long: `Link creates a directed edge src --rel--> dst. Both endpoints must
exist and be live. Single-valued relations (has_goal, has_milestone,
has_task) keep older edges in place; readers resolve the latest one.

Example:
  onto link milestone 0190a1b2-... has_task task 0190c3d4-... --user alice`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcKind, srcID, rel, dstKind, dstID := args[0], args[1], args[2], args[3], args[4]

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "link:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "link:", err)
			os.Exit(exitUserError)
		}

		edge, err := a.graph.CreateEdge(srcKind, srcID, dstKind, dstID, rel, actorID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "link:", err)
			if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidData) || errors.Is(err, types.ErrAccessDenied) {
				os.Exit(exitUserError)
			}
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(edge)
		}
		fmt.Printf("Linked %s %s --%s--> %s %s (edge %s)\n", srcKind, srcID, rel, dstKind, dstID, edge.EdgeID)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <edge-id>",
	Short: "Delete an edge",
	Long: `Unlink deletes the edge with the given ID. Deleting an absent edge is
a no-op.

Example:
  onto unlink 0190e5f6-... --user alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		edgeID := args[0]

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "unlink:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unlink:", err)
			os.Exit(exitUserError)
		}

		if err := a.graph.DeleteEdge(edgeID, actorID); err != nil {
			fmt.Fprintln(os.Stderr, "unlink:", err)
			if errors.Is(err, types.ErrAccessDenied) {
				os.Exit(exitUserError)
			}
			os.Exit(exitSysError)
		}

		fmt.Println("Unlinked", edgeID)
		return nil
	},
}
