package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"contentops/internal/api"
	"contentops/internal/schedule"
	"contentops/internal/store"
	"contentops/internal/templates"
	"contentops/internal/workflow"
)

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "episodes",
		Aliases: []string{"episode", "ep"},
		Short:   "Schedule and inspect episodes",
	}
	cmd.AddCommand(newEpisodesScheduleCommand(ctx))
	cmd.AddCommand(newEpisodesListCommand(ctx))
	cmd.AddCommand(newEpisodesShowCommand(ctx))
	cmd.AddCommand(newEpisodesMilestonesCommand(ctx))
	cmd.AddCommand(newEpisodesRescheduleCommand(ctx))
	cmd.AddCommand(newEpisodesTimelineCommand(ctx))
	return cmd
}

func newEpisodesScheduleCommand(ctx *commandContext) *cobra.Command {
	var req api.ScheduleEpisodeRequest
	var proposalID int64

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule an episode and create its milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if proposalID > 0 {
				req.TopicProposalID = &proposalID
			}
			scheduleReq, err := req.ToWorkflow()
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				view, err := engine.ScheduleEpisode(cmd.Context(), scheduleReq)
				if err != nil {
					return err
				}
				resp := api.FromEpisodeView(view)
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scheduled episode %d %q for %s\n", resp.Episode.ID, resp.Episode.Title, resp.Episode.TXDate)
				printMilestones(cmd, resp.Milestones)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&req.ProjectID, "project", 0, "Project id")
	cmd.Flags().StringVar(&req.Title, "title", "", "Episode title")
	cmd.Flags().StringVar(&req.TXDate, "tx-date", "", "Transmission date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.TXTime, "tx-time", "", "Transmission time (HH:MM), defaults to workflow.default_tx_time")
	cmd.Flags().StringVar(&req.TimelineType, "timeline", "", "Timeline type, defaults to workflow.default_timeline")
	cmd.Flags().Int64Var(&req.TemplateID, "template", 0, "Explicit template id")
	cmd.Flags().Int64Var(&proposalID, "proposal", 0, "Topic proposal this episode was scheduled from")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("tx-date")
	return cmd
}

func newEpisodesListCommand(ctx *commandContext) *cobra.Command {
	var filter store.EpisodeFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List episodes ordered by TX date",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, bound := range []string{filter.From, filter.To} {
				if strings.TrimSpace(bound) == "" {
					continue
				}
				if _, err := schedule.ParseDate(bound); err != nil {
					return err
				}
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				list, err := engine.ListEpisodes(cmd.Context(), filter)
				if err != nil {
					return err
				}
				resp := api.EpisodeListResponse{Episodes: api.FromEpisodes(list)}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printEpisodes(cmd, resp.Episodes)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&filter.ProjectID, "project", 0, "Only list episodes of this project")
	cmd.Flags().StringVar(&filter.From, "from", "", "Earliest TX date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.To, "to", "", "Latest TX date (YYYY-MM-DD)")
	return cmd
}

func newEpisodesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <episode-id>",
		Short: "Show an episode with its milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "episode id")
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				view, err := engine.GetEpisode(cmd.Context(), id)
				if err != nil {
					return err
				}
				resp := api.FromEpisodeView(view)
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printEpisodeDetail(cmd, resp)
				return nil
			})
		},
	}
}

func newEpisodesMilestonesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "milestones <episode-id>",
		Short: "Create milestones for an episode that has none",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "episode id")
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				view, err := engine.CreateEpisodeMilestones(cmd.Context(), id)
				if err != nil {
					return err
				}
				resp := api.FromEpisodeView(view)
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d milestones for episode %d\n", len(resp.Milestones), resp.Episode.ID)
				printMilestones(cmd, resp.Milestones)
				return nil
			})
		},
	}
}

func newEpisodesRescheduleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <episode-id> <tx-date>",
		Short: "Move an episode's TX date and shift its open milestones",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "episode id")
			if err != nil {
				return err
			}
			txDate, err := api.RescheduleRequest{TXDate: args[1]}.Date()
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				view, plan, err := engine.RescheduleEpisode(cmd.Context(), id, txDate)
				if err != nil {
					return err
				}
				resp := api.FromReschedule(view, plan)
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Episode %d now transmits %s\n", resp.Episode.ID, resp.Episode.TXDate)
				if len(resp.Changes) == 0 {
					fmt.Fprintln(out, "No deadlines moved")
				} else {
					rows := make([][]string, 0, len(resp.Changes))
					for _, change := range resp.Changes {
						rows = append(rows, []string{strconv.FormatInt(change.MilestoneID, 10), change.OldDate, change.NewDate})
					}
					fmt.Fprint(out, renderTable(
						[]string{"Milestone", "Old", "New"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft},
					))
				}
				if len(resp.Preserved) > 0 {
					fmt.Fprintf(out, "Kept %d closed milestone(s) on their original dates\n", len(resp.Preserved))
				}
				return nil
			})
		},
	}
}

func newEpisodesTimelineCommand(ctx *commandContext) *cobra.Command {
	var txDate, txTime, timeline string
	var templateID int64

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Preview milestone dates for a TX date without saving anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := schedule.ParseDate(txDate)
			if err != nil {
				return err
			}
			var timelineType templates.TimelineType
			if strings.TrimSpace(timeline) != "" {
				if timelineType, err = templates.ParseTimelineType(timeline); err != nil {
					return err
				}
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				entries, err := engine.PreviewTimeline(cmd.Context(), date, txTime, timelineType, templateID)
				if err != nil {
					return err
				}
				timelineEntries := api.FromTimeline(entries)
				if ctx.jsonOutput() {
					return writeJSON(cmd, timelineEntries)
				}
				rows := make([][]string, 0, len(timelineEntries))
				for _, entry := range timelineEntries {
					rows = append(rows, []string{
						entry.Date,
						valueOrDash(entry.TimeOfDay),
						strconv.Itoa(entry.DayOffset),
						entry.Label,
						yesNo(entry.IsClientFacing),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"Date", "Time", "Offset", "Milestone", "Client"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&txDate, "tx-date", "", "Transmission date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&txTime, "tx-time", "", "Transmission time (HH:MM)")
	cmd.Flags().StringVar(&timeline, "timeline", "", "Timeline type")
	cmd.Flags().Int64Var(&templateID, "template", 0, "Explicit template id")
	_ = cmd.MarkFlagRequired("tx-date")
	return cmd
}

func printEpisodes(cmd *cobra.Command, list []api.Episode) {
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No episodes")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, ep := range list {
		rows = append(rows, []string{
			strconv.FormatInt(ep.ID, 10),
			strconv.FormatInt(ep.ProjectID, 10),
			ep.Title,
			ep.TXDate,
			ep.TXTime,
			ep.TimelineType,
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Project", "Title", "TX Date", "TX Time", "Timeline"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

func printEpisodeDetail(cmd *cobra.Command, resp api.EpisodeResponse) {
	out := cmd.OutOrStdout()
	ep := resp.Episode
	fmt.Fprintf(out, "Episode %d: %s\n", ep.ID, ep.Title)
	fmt.Fprintf(out, "Project: %d\n", ep.ProjectID)
	fmt.Fprintf(out, "TX: %s %s (%s)\n", ep.TXDate, ep.TXTime, ep.TimelineType)
	if ep.CalendarItemID != "" {
		fmt.Fprintf(out, "Calendar item: %s\n", ep.CalendarItemID)
	}
	s := resp.Summary
	fmt.Fprintf(out, "Progress: %.0f%% (%d/%d closed, %d overdue)\n", s.Progress*100, s.Completed+s.Skipped, s.Total, s.Overdue)
	printMilestones(cmd, resp.Milestones)
}

func printMilestones(cmd *cobra.Command, list []api.Milestone) {
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No milestones")
		return
	}
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		status := m.Status
		if m.Overdue {
			status += " (overdue)"
		}
		row := []string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(m.EpisodeID, 10),
			m.DeadlineDate,
			valueOrDash(m.DeadlineTime),
			m.Label,
			status,
			yesNo(m.IsClientFacing),
		}
		if m.Overdue {
			row = highlightRow(row, colorize)
		}
		rows = append(rows, row)
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Episode", "Deadline", "Time", "Milestone", "Status", "Client"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}
