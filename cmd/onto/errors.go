// Errors command queries and prunes the migration error ledger.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var (
	errorsUser       string
	errorsEntityType string
	errorsCategory   string
	errorsRun        string
	errorsProject    string
	errorsSearch     string
	errorsLimit      int
	errorsOffset     int
	errorsSort       string
	errorsDesc       bool
	errorsAll        bool
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Query and prune the migration error ledger",
}

var errorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List migration error records",
	Long: `List returns error records matching the filters. All set filters
combine with AND; --search matches a substring of the message.

Example:
  onto errors list --category data --run 0190a1b2-...
  onto errors list --search "unmigrated" --sort created_at --desc --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if errorsCategory != "" && !types.ValidCategory(errorsCategory) {
			fmt.Fprintf(os.Stderr, "invalid category %q (valid: recoverable, data, fatal)\n", errorsCategory)
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "errors list:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		records, total, err := a.ledger.List(
			errorsFilter(),
			types.Page{Limit: errorsLimit, Offset: errorsOffset},
			types.ErrorSort{Column: errorsSort, Desc: errorsDesc},
		)
		if err != nil {
			fmt.Fprintln(os.Stderr, "errors list:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(map[string]any{"records": records, "total": total})
		}
		for _, rec := range records {
			fmt.Printf("%s  %-12s %-12s %s\n", rec.ErrorID, rec.Category, rec.EntityType, rec.Message)
		}
		fmt.Printf("%d of %d records\n", len(records), total)
		return nil
	},
}

var errorsDeleteCmd = &cobra.Command{
	Use:   "delete [error-id...]",
	Short: "Delete error records by ID or by filter",
	Long: `Delete removes error records. With IDs, the listed records are
removed. With --all, every record matching the filter flags is removed
using the same predicate the list command uses.

Example:
  onto errors delete 0190a1b2-... 0190c3d4-...
  onto errors delete --all --category recoverable --run 0190e5f6-...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if errorsAll == (len(args) > 0) {
			fmt.Fprintln(os.Stderr, "errors delete: pass either error IDs or --all with filters, not both")
			os.Exit(exitUserError)
		}
		if errorsCategory != "" && !types.ValidCategory(errorsCategory) {
			fmt.Fprintf(os.Stderr, "invalid category %q (valid: recoverable, data, fatal)\n", errorsCategory)
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "errors delete:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		var deleted int
		if errorsAll {
			deleted, err = a.ledger.DeleteAll(errorsFilter())
		} else {
			deleted, err = a.ledger.Delete(args)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "errors delete:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Deleted %d records\n", deleted)
		return nil
	},
}

// errorsFilter builds the shared filter from the command flags.
func errorsFilter() types.ErrorFilter {
	return types.ErrorFilter{
		UserID:     errorsUser,
		EntityType: errorsEntityType,
		Category:   errorsCategory,
		RunID:      errorsRun,
		ProjectID:  errorsProject,
		Search:     errorsSearch,
	}
}

func init() {
	for _, cmd := range []*cobra.Command{errorsListCmd, errorsDeleteCmd} {
		cmd.Flags().StringVar(&errorsUser, "by-user", "", "filter by user ID")
		cmd.Flags().StringVar(&errorsEntityType, "entity-type", "", "filter by entity type (task, event, ...)")
		cmd.Flags().StringVar(&errorsCategory, "category", "", "filter by category (recoverable, data, fatal)")
		cmd.Flags().StringVar(&errorsRun, "run", "", "filter by run ID")
		cmd.Flags().StringVar(&errorsProject, "project", "", "filter by project ID")
		cmd.Flags().StringVar(&errorsSearch, "search", "", "substring match on the message")
	}
	errorsListCmd.Flags().IntVar(&errorsLimit, "limit", 0, "page size (0 returns all)")
	errorsListCmd.Flags().IntVar(&errorsOffset, "offset", 0, "page offset")
	errorsListCmd.Flags().StringVar(&errorsSort, "sort", "", "sort column (created_at, entity_type, category)")
	errorsListCmd.Flags().BoolVar(&errorsDesc, "desc", false, "sort descending")
	errorsDeleteCmd.Flags().BoolVar(&errorsAll, "all", false, "delete everything matching the filters")

	errorsCmd.AddCommand(errorsListCmd)
	errorsCmd.AddCommand(errorsDeleteCmd)
}
