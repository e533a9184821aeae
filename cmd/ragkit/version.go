package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/ragkit/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skip config loading so version works without a valid config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ragkit version %s\n", common.GetFullVersion())
	},
}
