package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:           "studyctl",
		Short:         "studymate administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var c context.Context
			c, cancel = context.WithTimeout(cmd.Context(), ctx.timeout)
			cmd.SetContext(c)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cancel != nil {
				cancel()
			}
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&ctx.databaseURL, "database-url", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&ctx.timeout, "timeout", ctx.timeout, "Overall command timeout")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newUsersCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newSetPlanCommand(ctx))
	rootCmd.AddCommand(newDeleteUserCommand(ctx))
	rootCmd.AddCommand(newKeysCommand(ctx))

	return rootCmd
}
