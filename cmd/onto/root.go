// Root command for the onto CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/internal/paths"
	"github.com/praxis-works/onto/pkg/onto"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagUser      string
)

// Directory values resolved by PersistentPreRunE so all subcommands
// can use them. configMachinesDir is always set, falling back to the
// machines subdirectory of the config dir.
var (
	configDataDir     string
	configMachinesDir string
)

var rootCmd = &cobra.Command{
	Use:     "onto",
	Short:   "Onto is a local-first work-item graph with typed state machines",
	Version: onto.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configMachinesDir, err = paths.ResolveMachinesDir(cfg.GetString(cfgKeyMachinesDir), configDir)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.onto)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.onto-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "acting user ID")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(transitionsCmd)
	rootCmd.AddCommand(fireCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(flagCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(errorsCmd)
	rootCmd.AddCommand(auditCmd)
}

// resolveDataDir returns the data directory path following the precedence
// --data-dir flag > config.yaml data_dir > ONTO_DATA_DIR env > default $(CWD)/.onto-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following the precedence
// --config-dir flag > ONTO_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
