// Version command for the onto CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/onto"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the onto version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("onto", onto.Version)
	},
}
