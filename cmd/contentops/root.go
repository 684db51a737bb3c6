package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &identityFlags{}
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, flags, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "contentops",
		Short:         "Production workflow engine CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.user, "user", "", "Acting user id (defaults to $CONTENTOPS_USER, then $USER)")
	rootCmd.PersistentFlags().StringVar(&flags.roles, "roles", "admin", "Comma separated roles of the acting user")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print API-shaped JSON instead of tables")

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))
	rootCmd.AddCommand(newTemplatesCommand(ctx))
	rootCmd.AddCommand(newEpisodesCommand(ctx))
	rootCmd.AddCommand(newMilestonesCommand(ctx))
	rootCmd.AddCommand(newContentCommand(ctx))
	rootCmd.AddCommand(newFeedbackCommand(ctx))
	rootCmd.AddCommand(newStoriesCommand(ctx))
	rootCmd.AddCommand(newClustersCommand(ctx))
	rootCmd.AddCommand(newProposalsCommand(ctx))

	return rootCmd
}
