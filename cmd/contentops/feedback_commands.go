package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"contentops/internal/api"
	"contentops/internal/workflow"
)

func newFeedbackCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Comment on content versions and resolve revision requests",
	}
	cmd.AddCommand(newFeedbackAddCommand(ctx))
	cmd.AddCommand(newFeedbackResolveCommand(ctx, "resolve", "Mark a revision request resolved", true))
	cmd.AddCommand(newFeedbackResolveCommand(ctx, "unresolve", "Reopen a resolved revision request", false))
	return cmd
}

func newFeedbackAddCommand(ctx *commandContext) *cobra.Command {
	var req api.FeedbackRequest
	var start, end int
	var parent int64

	cmd := &cobra.Command{
		Use:   "add <content-id>",
		Short: "Add feedback to a content version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := parseID(args[0], "content id")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("start") {
				req.HighlightStart = &start
			}
			if cmd.Flags().Changed("end") {
				req.HighlightEnd = &end
			}
			if parent > 0 {
				req.ParentFeedbackID = &parent
			}
			input, err := req.ToInput()
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				fb, err := engine.AddFeedback(cmd.Context(), ctx.auth(), contentID, input)
				if err != nil {
					return err
				}
				return outputFeedback(cmd, ctx, api.FromFeedback(fb), "Added")
			})
		},
	}
	cmd.Flags().Int64Var(&req.VersionID, "version-id", 0, "Version id the feedback refers to")
	cmd.Flags().StringVarP(&req.Comment, "comment", "m", "", "Feedback text")
	cmd.Flags().StringVar(&req.FeedbackType, "type", "comment", "Feedback type (comment, revision_request, approval)")
	cmd.Flags().IntVar(&start, "start", 0, "Highlight start offset in the version body")
	cmd.Flags().IntVar(&end, "end", 0, "Highlight end offset in the version body")
	cmd.Flags().Int64Var(&parent, "reply-to", 0, "Parent feedback id for threaded replies")
	cmd.Flags().BoolVar(&req.IsClientFeedback, "client", false, "Flag as client feedback")
	_ = cmd.MarkFlagRequired("version-id")
	_ = cmd.MarkFlagRequired("comment")
	return cmd
}

func newFeedbackResolveCommand(ctx *commandContext, use, short string, resolved bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <feedback-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "feedback id")
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				resolve := engine.UnresolveFeedback
				verb := "Reopened"
				if resolved {
					resolve = engine.ResolveFeedback
					verb = "Resolved"
				}
				fb, err := resolve(cmd.Context(), ctx.auth(), id)
				if err != nil {
					return err
				}
				return outputFeedback(cmd, ctx, api.FromFeedback(fb), verb)
			})
		},
	}
}

func outputFeedback(cmd *cobra.Command, ctx *commandContext, fb api.Feedback, verb string) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, api.FeedbackResponse{Feedback: fb})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s feedback %d\n", verb, fb.ID)
	return nil
}

func printFeedback(cmd *cobra.Command, fb api.Feedback, indent string) {
	out := cmd.OutOrStdout()
	marker := ""
	switch {
	case fb.FeedbackType == "revision_request" && fb.IsResolved:
		marker = " [resolved]"
	case fb.FeedbackType == "revision_request":
		marker = " [open]"
	}
	client := ""
	if fb.IsClientFeedback {
		client = " (client)"
	}
	fmt.Fprintf(out, "%s#%d %s%s %s%s: %s\n", indent, fb.ID, fb.AuthorUserID, client, fb.FeedbackType, marker, strings.TrimSpace(fb.Comment))
	if fb.Highlight != nil {
		fmt.Fprintf(out, "%s   on %q\n", indent, fb.Highlight.Text)
	}
	for _, reply := range fb.Replies {
		printFeedback(cmd, reply, indent+"  ")
	}
}
