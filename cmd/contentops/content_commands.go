package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"contentops/internal/api"
	"contentops/internal/content"
	"contentops/internal/workflow"
)

func newContentCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Version, review and approve episode content",
		Long: "Content is addressed by episode id and type (video_script or article).\n" +
			"Versions are immutable; every save creates the next version.",
	}
	cmd.AddCommand(newContentShowCommand(ctx))
	cmd.AddCommand(newContentSaveCommand(ctx))
	cmd.AddCommand(newContentSubmitCommand(ctx))
	cmd.AddCommand(newContentTransitionCommand(ctx, "approve", "Approve content that is in review", content.ActionApprove))
	cmd.AddCommand(newContentTransitionCommand(ctx, "request-revision", "Send content in review back for revision", content.ActionRequestRevision))
	cmd.AddCommand(newContentTransitionCommand(ctx, "lock", "Lock approved content against further edits", content.ActionLock))
	cmd.AddCommand(newContentPreviewCommand(ctx))
	return cmd
}

func contentArgs(args []string) (int64, content.Type, error) {
	episodeID, err := parseID(args[0], "episode id")
	if err != nil {
		return 0, "", err
	}
	contentType, err := content.ParseType(args[1])
	if err != nil {
		return 0, "", err
	}
	return episodeID, contentType, nil
}

func newContentShowCommand(ctx *commandContext) *cobra.Command {
	var showBody bool

	cmd := &cobra.Command{
		Use:   "show <episode-id> <type>",
		Short: "Show content status, versions and feedback",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, contentType, err := contentArgs(args)
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				view, err := engine.GetEpisodeContent(cmd.Context(), episodeID, contentType)
				if err != nil {
					return err
				}
				resp := api.FromContentView(view)
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printContent(cmd, resp, showBody)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showBody, "body", false, "Print the latest version's body")
	return cmd
}

func newContentSaveCommand(ctx *commandContext) *cobra.Command {
	var req api.SaveVersionRequest
	var file string
	var expected int

	cmd := &cobra.Command{
		Use:   "save <episode-id> <type>",
		Short: "Save a new content version from a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, contentType, err := contentArgs(args)
			if err != nil {
				return err
			}
			body, err := readBody(cmd, file)
			if err != nil {
				return err
			}
			req.Body = body
			if cmd.Flags().Changed("expected-version") {
				req.ExpectedVersion = &expected
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				c, v, err := engine.SaveContentVersion(cmd.Context(), ctx.auth(), episodeID, contentType, req.Draft(), req.ExpectedVersion)
				if err != nil {
					return err
				}
				resp := api.SaveVersionResponse{Content: api.FromContent(c), Version: api.FromVersion(v)}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s version %d (%d words), status %s\n",
					resp.Content.ContentType, resp.Version.VersionNumber, resp.Version.WordCount, resp.Content.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Markdown file to save, or - for stdin")
	cmd.Flags().StringVar(&req.Title, "title", "", "Version title")
	cmd.Flags().StringVarP(&req.ChangeSummary, "message", "m", "", "Change summary")
	cmd.Flags().IntVar(&expected, "expected-version", 0, "Fail unless the current version number matches")
	return cmd
}

func newContentSubmitCommand(ctx *commandContext) *cobra.Command {
	var req api.SubmitRequest
	var file string

	cmd := &cobra.Command{
		Use:   "submit <episode-id> <type>",
		Short: "Submit content for review, optionally saving a new version first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, contentType, err := contentArgs(args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(file) != "" {
				body, err := readBody(cmd, file)
				if err != nil {
					return err
				}
				req.Body = body
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				c, err := engine.Submit(cmd.Context(), ctx.auth(), episodeID, contentType, req.Draft())
				if err != nil {
					return err
				}
				return outputContentStatus(cmd, ctx, c)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Save this file as a new version before submitting")
	cmd.Flags().StringVar(&req.Title, "title", "", "Version title")
	cmd.Flags().StringVarP(&req.ChangeSummary, "message", "m", "", "Change summary")
	return cmd
}

func newContentTransitionCommand(ctx *commandContext, use, short string, action content.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <episode-id> <type>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, contentType, err := contentArgs(args)
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				c, err := engine.Transition(cmd.Context(), ctx.auth(), episodeID, contentType, action)
				if err != nil {
					return err
				}
				return outputContentStatus(cmd, ctx, c)
			})
		},
	}
}

func newContentPreviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <episode-id> <type> [version]",
		Short: "Render a version as HTML (latest by default)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, contentType, err := contentArgs(args)
			if err != nil {
				return err
			}
			number := 0
			if len(args) == 3 && args[2] != "latest" {
				number, err = strconv.Atoi(args[2])
				if err != nil || number <= 0 {
					return fmt.Errorf("invalid version %q", args[2])
				}
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				v, html, err := engine.PreviewVersion(cmd.Context(), episodeID, contentType, number)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.PreviewResponse{Version: api.FromVersion(v), HTML: html})
				}
				fmt.Fprint(cmd.OutOrStdout(), html)
				return nil
			})
		},
	}
}

func outputContentStatus(cmd *cobra.Command, ctx *commandContext, c content.Content) error {
	resp := api.ContentStatusResponse{Content: api.FromContent(c)}
	if ctx.jsonOutput() {
		return writeJSON(cmd, resp)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s for episode %d is now %s\n", resp.Content.ContentType, resp.Content.EpisodeID, resp.Content.Status)
	return nil
}

func printContent(cmd *cobra.Command, resp api.ContentResponse, showBody bool) {
	out := cmd.OutOrStdout()
	c := resp.Content
	fmt.Fprintf(out, "Content %d: %s for episode %d\n", c.ID, c.ContentType, c.EpisodeID)
	fmt.Fprintf(out, "Status: %s (version %d)\n", c.Status, c.CurrentVersion)
	if c.ApprovedBy != "" {
		fmt.Fprintf(out, "Approved by %s at %s\n", c.ApprovedBy, c.ApprovedAt)
	}
	if c.LockedBy != "" {
		fmt.Fprintf(out, "Locked by %s at %s\n", c.LockedBy, c.LockedAt)
	}
	if len(c.AvailableActions) > 0 {
		fmt.Fprintf(out, "Next actions: %s\n", strings.Join(c.AvailableActions, ", "))
	}
	fmt.Fprintf(out, "Unresolved revision requests: %d\n", resp.UnresolvedCount)

	if len(resp.Versions) > 0 {
		rows := make([][]string, 0, len(resp.Versions))
		for _, v := range resp.Versions {
			rows = append(rows, []string{
				strconv.Itoa(v.VersionNumber),
				strconv.FormatInt(v.ID, 10),
				strconv.Itoa(v.WordCount),
				valueOrDash(v.CreatedBy),
				valueOrDash(v.ChangeSummary),
			})
		}
		fmt.Fprint(out, renderTable(
			[]string{"Version", "ID", "Words", "Author", "Summary"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
		))
	}

	if len(resp.Feedback) > 0 {
		fmt.Fprintln(out, "Feedback:")
		for _, fb := range resp.Feedback {
			printFeedback(cmd, fb, "  ")
		}
	}

	if showBody && resp.LatestVersion != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, resp.LatestVersion.Body)
	}
}
