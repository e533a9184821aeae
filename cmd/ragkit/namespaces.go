package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/ragkit/internal/app"
)

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List artifact namespaces stored in task memory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, application *app.App) error {
			namespaces, err := application.TaskMemory.Namespaces(ctx)
			if err != nil {
				return err
			}
			for _, ns := range namespaces {
				fmt.Fprintln(cmd.OutOrStdout(), ns)
			}
			return nil
		})
	},
}
