package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"contentops/internal/api"
	"contentops/internal/clustering"
	"contentops/internal/workflow"
)

func newStoriesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "Record flagged stories for clustering",
	}
	cmd.AddCommand(newStoriesAddCommand(ctx))
	return cmd
}

func newStoriesAddCommand(ctx *commandContext) *cobra.Command {
	var req api.StoryRequest
	var projectID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Flag a story for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				story, err := engine.RecordStory(cmd.Context(), req.ToStory(projectID))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.FromStory(story))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Flagged story %d for project %d\n", story.ID, story.ProjectID)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id")
	cmd.Flags().StringVar(&req.Title, "title", "", "Story headline")
	cmd.Flags().StringVar(&req.Summary, "summary", "", "Story summary")
	cmd.Flags().StringVar(&req.Category, "category", "", "Story category")
	cmd.Flags().StringVar(&req.URL, "url", "", "Source URL")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newClustersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Group flagged stories and generate topic proposals",
	}
	cmd.AddCommand(newClustersPreviewCommand(ctx))
	cmd.AddCommand(newClustersGenerateCommand(ctx))
	return cmd
}

func newClustersPreviewCommand(ctx *commandContext) *cobra.Command {
	var opts clustering.PreviewOptions

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview story clusters for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				preview, err := engine.PreviewClusters(cmd.Context(), opts)
				if err != nil {
					return err
				}
				resp := api.FromPreview(preview)
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printClusterPreview(cmd, resp)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&opts.ProjectID, "project", 0, "Project id")
	cmd.Flags().Int64Var(&opts.AudienceProfileID, "audience-profile", 0, "Audience profile id")
	cmd.Flags().StringVar(&opts.Audience, "audience", "", "Audience description given to the oracle")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Only cluster stories in this category")
	cmd.Flags().BoolVar(&opts.ForceRefresh, "refresh", false, "Bypass the cluster cache")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newClustersGenerateCommand(ctx *commandContext) *cobra.Command {
	var req api.GenerateProposalsRequest
	var projectID int64
	var duration int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate draft proposals from clusters",
		Long: "Generates draft topic proposals for a project. Without --cluster every\n" +
			"previewed cluster is used, up to --max proposals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("duration") {
				req.DurationSeconds = &duration
			}
			opts, err := req.ToOptions(projectID)
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				proposals, err := engine.GenerateProposals(cmd.Context(), opts)
				if err != nil {
					return err
				}
				resp := api.ProposalListResponse{Proposals: api.FromProposals(proposals)}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %d proposal(s)\n", len(resp.Proposals))
				printProposals(cmd, resp.Proposals)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id")
	cmd.Flags().Int64Var(&req.AudienceProfileID, "audience-profile", 0, "Audience profile id")
	cmd.Flags().StringVar(&req.Audience, "audience", "", "Audience description given to the oracle")
	cmd.Flags().StringVar(&req.Category, "category", "", "Only cluster stories in this category")
	cmd.Flags().StringVar(&req.DurationType, "duration-type", "", "Target format, e.g. short or long")
	cmd.Flags().IntVar(&duration, "duration", 0, "Target duration in seconds")
	cmd.Flags().StringSliceVar(&req.ComparisonRegions, "region", nil, "Comparison region (repeatable)")
	cmd.Flags().StringSliceVar(&req.ClusterIDs, "cluster", nil, "Cluster id to use (repeatable)")
	cmd.Flags().IntVar(&req.MaxProposals, "max", 0, "Maximum proposals, defaults to clustering.max_proposals")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newProposalsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"proposal"},
		Short:   "Review topic proposals",
	}
	cmd.AddCommand(newProposalsListCommand(ctx))
	cmd.AddCommand(newProposalsSetStatusCommand(ctx))
	return cmd
}

func newProposalsListCommand(ctx *commandContext) *cobra.Command {
	var filter clustering.ProposalFilter
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List proposals, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, value := range statuses {
				status, err := clustering.ParseProposalStatus(value)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, status)
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				proposals, err := engine.ListProposals(cmd.Context(), filter)
				if err != nil {
					return err
				}
				resp := api.ProposalListResponse{Proposals: api.FromProposals(proposals)}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printProposals(cmd, resp.Proposals)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&filter.ProjectID, "project", 0, "Only list proposals of this project")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only list proposals in this status (repeatable)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of proposals")
	return cmd
}

func newProposalsSetStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <proposal-id> <status>",
		Short: "Record an editorial decision on a proposal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "proposal id")
			if err != nil {
				return err
			}
			status, err := api.ProposalStatusRequest{Status: args[1]}.Parse()
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				proposal, err := engine.SetProposalStatus(cmd.Context(), id, status)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.FromProposal(proposal))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Proposal %d is now %s\n", proposal.ID, proposal.Status)
				return nil
			})
		},
	}
}

func printClusterPreview(cmd *cobra.Command, preview api.ClusterPreview) {
	out := cmd.OutOrStdout()
	if preview.Message != "" {
		fmt.Fprintln(out, preview.Message)
	}
	if len(preview.Clusters) == 0 {
		fmt.Fprintf(out, "No clusters from %d stories\n", len(preview.Stories))
		return
	}
	source := "fresh"
	if preview.Cached {
		source = "cached"
	}
	fmt.Fprintf(out, "%d clusters from %d stories (%s, %s)\n", len(preview.Clusters), len(preview.Stories), source, preview.GeneratedAt)
	rows := make([][]string, 0, len(preview.Clusters))
	for _, cluster := range preview.Clusters {
		similar := make([]string, 0, len(cluster.SimilarProposals))
		for _, sp := range cluster.SimilarProposals {
			similar = append(similar, fmt.Sprintf("#%d %d%%", sp.ProposalID, sp.OverlapPercentage))
		}
		rows = append(rows, []string{
			cluster.ID,
			cluster.Theme,
			strconv.Itoa(cluster.RelevanceScore),
			strconv.Itoa(len(cluster.StoryIDs)),
			valueOrDash(strings.Join(cluster.Keywords, ", ")),
			valueOrDash(strings.Join(similar, ", ")),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Cluster", "Theme", "Score", "Stories", "Keywords", "Similar"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	))
}

func printProposals(cmd *cobra.Command, list []api.Proposal) {
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No proposals")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		episode := "-"
		if p.LinkedEpisodeID != nil {
			episode = strconv.FormatInt(*p.LinkedEpisodeID, 10)
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.ProjectID, 10),
			p.Title,
			p.Status,
			strconv.Itoa(len(p.SourceStoryIDs)),
			episode,
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Project", "Title", "Status", "Stories", "Episode"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignRight},
	))
}
