package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"contentops/internal/api"
	"contentops/internal/templates"
	"contentops/internal/workflow"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect workflow templates",
	}
	cmd.AddCommand(newTemplatesListCommand(ctx))
	return cmd
}

func newTemplatesListCommand(ctx *commandContext) *cobra.Command {
	var timeline string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflow templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter templates.TimelineType
			if strings.TrimSpace(timeline) != "" {
				parsed, err := templates.ParseTimelineType(timeline)
				if err != nil {
					return err
				}
				filter = parsed
			}
			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				list, err := engine.ListTemplates(cmd.Context(), filter)
				if err != nil {
					return err
				}
				resp := api.TemplateListResponse{Templates: api.FromTemplates(list)}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printTemplates(cmd, resp.Templates, verbose)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&timeline, "timeline", "", "Only list templates for this timeline (compressed, standard, extended)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show every milestone offset")
	return cmd
}

func printTemplates(cmd *cobra.Command, list []api.Template, verbose bool) {
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No templates")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, tpl := range list {
		def := ""
		if tpl.IsDefault {
			def = "*"
		}
		rows = append(rows, []string{
			strconv.FormatInt(tpl.ID, 10),
			tpl.Name,
			tpl.TimelineType,
			def,
			strconv.Itoa(len(tpl.MilestoneOffsets)),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Name", "Timeline", "Default", "Milestones"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	))
	if !verbose {
		return
	}
	for _, tpl := range list {
		fmt.Fprintf(out, "\n%s\n", tpl.Name)
		offsets := make([][]string, 0, len(tpl.MilestoneOffsets))
		for _, offset := range tpl.MilestoneOffsets {
			offsets = append(offsets, []string{
				strconv.Itoa(offset.DayOffset),
				offset.MilestoneType,
				offset.Label,
				valueOrDash(offset.TimeOfDay),
				yesNo(offset.IsClientFacing),
			})
		}
		fmt.Fprint(out, renderTable(
			[]string{"Day", "Type", "Label", "Time", "Client"},
			offsets,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}
}
