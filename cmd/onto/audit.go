// Audit command reads the audit log of an entity.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var auditCmd = &cobra.Command{
	Use:   "audit <kind> <id>",
	Short: "Show the audit log of an entity",
	Long: `Audit lists the recorded create, update, and delete events of an
entity, oldest first. The log is written asynchronously; very recent
actions may not have landed yet.

Example:
  onto audit task 0190a1b2-...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		id := args[1]

		if !types.ValidKind(kind) {
			fmt.Fprintf(os.Stderr, "unknown kind %q (valid: %s)\n", kind, strings.Join(types.StandardKinds, ", "))
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "audit:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		entries, err := a.backend.ListAuditEntries(kind, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "audit:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entries)
		}
		for _, entry := range entries {
			fmt.Printf("%s  %-8s by %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action, entry.ActorID)
		}
		fmt.Printf("%d entries\n", len(entries))
		return nil
	},
}
