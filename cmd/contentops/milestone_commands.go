package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contentops/internal/api"
	"contentops/internal/workflow"
)

func newMilestonesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestones",
		Aliases: []string{"milestone", "ms"},
		Short:   "Track production milestones",
	}
	cmd.AddCommand(newMilestonesListCommand(ctx))
	cmd.AddCommand(newMilestonesOverdueCommand(ctx))
	cmd.AddCommand(newMilestonesUpdateCommand(ctx))
	cmd.AddCommand(newMilestonesCompleteCommand(ctx))
	return cmd
}

func newMilestonesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <episode-id>",
		Short: "List an episode's milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "episode id")
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				list, err := engine.ListMilestones(cmd.Context(), id)
				if err != nil {
					return err
				}
				return outputMilestones(cmd, ctx, list)
			})
		},
	}
}

func newMilestonesOverdueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List open milestones whose deadline has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				list, err := engine.ListOverdue(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 && !ctx.jsonOutput() {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing overdue")
					return nil
				}
				return outputMilestones(cmd, ctx, list)
			})
		},
	}
}

func newMilestonesUpdateCommand(ctx *commandContext) *cobra.Command {
	var status, notes, deadlineTime string

	cmd := &cobra.Command{
		Use:   "update <milestone-id>",
		Short: "Change a milestone's status, notes or deadline time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "milestone id")
			if err != nil {
				return err
			}
			var req api.MilestoneUpdateRequest
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}
			if cmd.Flags().Changed("notes") {
				req.Notes = &notes
			}
			if cmd.Flags().Changed("time") {
				req.DeadlineTime = &deadlineTime
			}
			update, err := req.ToUpdate()
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				view, err := engine.UpdateMilestone(cmd.Context(), id, update)
				if err != nil {
					return err
				}
				return outputMilestone(cmd, ctx, view)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "New status (pending, in_progress, completed, skipped)")
	cmd.Flags().StringVar(&notes, "notes", "", "Replace the milestone notes")
	cmd.Flags().StringVar(&deadlineTime, "time", "", "Deadline time of day (HH:MM, empty clears it)")
	return cmd
}

func newMilestonesCompleteCommand(ctx *commandContext) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "complete <milestone-id>",
		Short: "Mark a milestone completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "milestone id")
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				view, err := engine.CompleteMilestone(cmd.Context(), id, notes)
				if err != nil {
					return err
				}
				return outputMilestone(cmd, ctx, view)
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Completion notes")
	return cmd
}

func outputMilestones(cmd *cobra.Command, ctx *commandContext, list []workflow.MilestoneView) error {
	resp := api.MilestoneListResponse{Milestones: api.FromMilestoneViews(list)}
	if ctx.jsonOutput() {
		return writeJSON(cmd, resp)
	}
	printMilestones(cmd, resp.Milestones)
	return nil
}

func outputMilestone(cmd *cobra.Command, ctx *commandContext, view workflow.MilestoneView) error {
	resp := api.MilestoneResponse{Milestone: api.FromMilestoneView(view)}
	if ctx.jsonOutput() {
		return writeJSON(cmd, resp)
	}
	m := resp.Milestone
	fmt.Fprintf(cmd.OutOrStdout(), "Milestone %d (%s) is %s\n", m.ID, m.Label, m.Status)
	return nil
}
