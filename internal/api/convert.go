package api

import (
	"time"

	"contentops/internal/clustering"
	"contentops/internal/content"
	"contentops/internal/milestone"
	"contentops/internal/schedule"
	"contentops/internal/templates"
	"contentops/internal/workflow"
)

// FormatTime renders a timestamp using the API's canonical format.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return schedule.FormatDate(t)
}

// FromTemplate converts a workflow template into its API representation.
func FromTemplate(t templates.Template) Template {
	offsets := make([]MilestoneOffset, 0, len(t.Offsets))
	for _, o := range t.Offsets {
		offsets = append(offsets, MilestoneOffset{
			MilestoneType:          o.MilestoneType,
			Label:                  o.Label,
			DayOffset:              o.DayOffset,
			TimeOfDay:              o.TimeOfDay,
			IsClientFacing:         o.IsClientFacing,
			RequiresClientApproval: o.RequiresClientApproval,
		})
	}
	return Template{
		ID:               t.ID,
		Name:             t.Name,
		TimelineType:     string(t.TimelineType),
		IsDefault:        t.IsDefault,
		MilestoneOffsets: offsets,
		CreatedAt:        FormatTime(t.CreatedAt),
	}
}

// FromTemplates converts a slice of templates.
func FromTemplates(list []templates.Template) []Template {
	out := make([]Template, 0, len(list))
	for _, t := range list {
		out = append(out, FromTemplate(t))
	}
	return out
}

// FromEpisode converts a scheduled episode.
func FromEpisode(ep schedule.Episode) Episode {
	return Episode{
		ID:              ep.ID,
		ProjectID:       ep.ProjectID,
		TopicProposalID: ep.TopicProposalID,
		Title:           ep.Title,
		TXDate:          formatDate(ep.TXDate),
		TXTime:          ep.TXTime,
		TimelineType:    string(ep.TimelineType),
		TemplateID:      ep.TemplateID,
		CalendarItemID:  ep.CalendarItemID,
		CreatedAt:       FormatTime(ep.CreatedAt),
		UpdatedAt:       FormatTime(ep.UpdatedAt),
	}
}

// FromEpisodes converts a slice of episodes.
func FromEpisodes(list []schedule.Episode) []Episode {
	out := make([]Episode, 0, len(list))
	for _, ep := range list {
		out = append(out, FromEpisode(ep))
	}
	return out
}

// FromMilestone converts a milestone with its read-time overdue flag.
func FromMilestone(m milestone.Milestone, overdue bool) Milestone {
	return Milestone{
		ID:                     m.ID,
		EpisodeID:              m.EpisodeID,
		MilestoneType:          m.MilestoneType,
		Label:                  m.Label,
		DayOffset:              m.DayOffset,
		DeadlineDate:           formatDate(m.DeadlineDate),
		DeadlineTime:           m.DeadlineTime,
		Status:                 string(m.Status),
		IsClientFacing:         m.IsClientFacing,
		RequiresClientApproval: m.RequiresClientApproval,
		CompletedAt:            formatTimePtr(m.CompletedAt),
		Notes:                  m.Notes,
		Overdue:                overdue,
	}
}

// FromMilestoneView converts an engine milestone view.
func FromMilestoneView(v workflow.MilestoneView) Milestone {
	return FromMilestone(v.Milestone, v.Overdue)
}

// FromMilestoneViews converts a slice of milestone views.
func FromMilestoneViews(list []workflow.MilestoneView) []Milestone {
	out := make([]Milestone, 0, len(list))
	for _, v := range list {
		out = append(out, FromMilestoneView(v))
	}
	return out
}

// FromSummary converts milestone counts.
func FromSummary(s milestone.Summary) MilestoneSummary {
	out := MilestoneSummary{
		Total:      s.Total,
		Pending:    s.Pending,
		InProgress: s.InProgress,
		Completed:  s.Completed,
		Skipped:    s.Skipped,
		Overdue:    s.Overdue,
		Progress:   s.Progress(),
	}
	if s.Next != nil {
		out.NextMilestoneID = s.Next.ID
	}
	return out
}

// FromTimeline converts computed, unsaved milestones.
func FromTimeline(entries []schedule.Entry) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, TimelineEntry{
			MilestoneType:  e.MilestoneType,
			Label:          e.Label,
			DayOffset:      e.DayOffset,
			Date:           formatDate(e.CalculatedDate),
			TimeOfDay:      e.TimeOfDay,
			IsClientFacing: e.IsClientFacing,
		})
	}
	return out
}

// FromEpisodeView converts an episode with its classified milestones.
func FromEpisodeView(v workflow.EpisodeView) EpisodeResponse {
	return EpisodeResponse{
		Episode:    FromEpisode(v.Episode),
		Milestones: FromMilestoneViews(v.Milestones),
		Summary:    FromSummary(v.Summary),
		Today:      formatDate(v.Today),
	}
}

// FromReschedule combines the rescheduled episode with the applied plan.
func FromReschedule(v workflow.EpisodeView, plan schedule.ReschedulePlan) RescheduleResponse {
	changes := make([]DeadlineChange, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		changes = append(changes, DeadlineChange{
			MilestoneID: c.MilestoneID,
			OldDate:     formatDate(c.OldDate),
			NewDate:     formatDate(c.NewDate),
		})
	}
	preserved := plan.Preserved
	if preserved == nil {
		preserved = []int64{}
	}
	return RescheduleResponse{
		EpisodeResponse: FromEpisodeView(v),
		Changes:         changes,
		Preserved:       preserved,
	}
}

// FromContent converts content and derives the actions its status permits.
func FromContent(c content.Content) Content {
	actions := content.AvailableActions(c.Status)
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	return Content{
		ID:               c.ID,
		EpisodeID:        c.EpisodeID,
		ContentType:      string(c.ContentType),
		CurrentVersion:   c.CurrentVersion,
		Status:           string(c.Status),
		ApprovedAt:       formatTimePtr(c.ApprovedAt),
		ApprovedBy:       c.ApprovedBy,
		LockedAt:         formatTimePtr(c.LockedAt),
		LockedBy:         c.LockedBy,
		AvailableActions: names,
	}
}

// FromVersion converts a content version.
func FromVersion(v content.Version) Version {
	return Version{
		ID:            v.ID,
		ContentID:     v.ContentID,
		VersionNumber: v.VersionNumber,
		Title:         v.Title,
		Body:          v.Body,
		WordCount:     v.WordCount,
		ChangeSummary: v.ChangeSummary,
		CreatedAt:     FormatTime(v.CreatedAt),
		CreatedBy:     v.CreatedBy,
	}
}

// FromFeedback converts a single feedback item without replies.
func FromFeedback(f content.Feedback) Feedback {
	out := Feedback{
		ID:               f.ID,
		ContentID:        f.ContentID,
		VersionID:        f.VersionID,
		Comment:          f.Comment,
		FeedbackType:     string(f.FeedbackType),
		ParentFeedbackID: f.ParentID,
		IsResolved:       f.IsResolved,
		ResolvedAt:       formatTimePtr(f.ResolvedAt),
		ResolvedBy:       f.ResolvedBy,
		AuthorUserID:     f.AuthorUserID,
		IsClientFeedback: f.IsClientFeedback,
		CreatedAt:        FormatTime(f.CreatedAt),
	}
	if f.Highlight != nil {
		out.Highlight = &Highlight{Start: f.Highlight.Start, End: f.Highlight.End, Text: f.Highlight.Text}
	}
	return out
}

// FromThreads converts grouped feedback, nesting replies under their root.
func FromThreads(threads []content.Thread) []Feedback {
	out := make([]Feedback, 0, len(threads))
	for _, t := range threads {
		root := FromFeedback(t.Root)
		for _, r := range t.Replies {
			root.Replies = append(root.Replies, FromFeedback(r))
		}
		out = append(out, root)
	}
	return out
}

// FromContentView converts content with its history and feedback threads.
func FromContentView(v workflow.ContentView) ContentResponse {
	versions := make([]Version, 0, len(v.Versions))
	for _, ver := range v.Versions {
		versions = append(versions, FromVersion(ver))
	}
	resp := ContentResponse{
		Content:         FromContent(v.Content),
		Versions:        versions,
		Feedback:        FromThreads(v.Threads),
		UnresolvedCount: v.UnresolvedCount,
	}
	if v.Latest != nil {
		latest := FromVersion(*v.Latest)
		resp.LatestVersion = &latest
	}
	return resp
}

// FromStory converts a flagged story.
func FromStory(s clustering.Story) Story {
	return Story{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		Title:     s.Title,
		Summary:   s.Summary,
		Category:  s.Category,
		URL:       s.URL,
		FlaggedAt: FormatTime(s.FlaggedAt),
	}
}

// FromCluster converts a story cluster with its duplicate flags.
func FromCluster(c clustering.Cluster) Cluster {
	similar := make([]SimilarProposal, 0, len(c.SimilarProposals))
	for _, s := range c.SimilarProposals {
		similar = append(similar, SimilarProposal{
			ProposalID:        s.ProposalID,
			Title:             s.Title,
			Status:            string(s.Status),
			OverlapPercentage: s.OverlapPercentage,
			ThemeSimilarity:   s.ThemeSimilarity,
		})
	}
	return Cluster{
		ID:                c.ID,
		Theme:             c.Theme,
		Keywords:          nonNilStrings(c.Keywords),
		RelevanceScore:    c.RelevanceScore,
		StoryIDs:          nonNilIDs(c.StoryIDs),
		AudienceRelevance: c.AudienceRelevance,
		SimilarProposals:  similar,
	}
}

// FromPreview converts a clustering preview.
func FromPreview(p clustering.Preview) ClusterPreview {
	stories := make([]Story, 0, len(p.Stories))
	for _, s := range p.Stories {
		stories = append(stories, FromStory(s))
	}
	clusters := make([]Cluster, 0, len(p.Clusters))
	for _, c := range p.Clusters {
		clusters = append(clusters, FromCluster(c))
	}
	return ClusterPreview{
		Stories:     stories,
		Clusters:    clusters,
		Message:     p.Message,
		GeneratedAt: FormatTime(p.GeneratedAt),
		Cached:      p.Cached,
	}
}

// FromProposal converts a stored topic proposal.
func FromProposal(p clustering.Proposal) Proposal {
	return Proposal{
		ID:                    p.ID,
		ProjectID:             p.ProjectID,
		Title:                 p.Title,
		Hook:                  p.Hook,
		AudienceCareStatement: p.AudienceCareStatement,
		TalkingPoints:         nonNilStrings(p.TalkingPoints),
		ResearchCitations:     nonNilStrings(p.ResearchCitations),
		SourceStoryIDs:        nonNilIDs(p.SourceStoryIDs),
		ClusterTheme:          p.ClusterTheme,
		Status:                string(p.Status),
		LinkedEpisodeID:       p.LinkedEpisodeID,
		CreatedAt:             FormatTime(p.CreatedAt),
	}
}

// FromProposals converts a slice of proposals.
func FromProposals(list []clustering.Proposal) []Proposal {
	out := make([]Proposal, 0, len(list))
	for _, p := range list {
		out = append(out, FromProposal(p))
	}
	return out
}

// FromStatusSummary converts engine diagnostics into the API status payload.
func FromStatusSummary(summary workflow.StatusSummary, pid int, lockPath string) Status {
	counts := summary.Database.Counts
	if counts == nil {
		counts = map[string]int{}
	}
	return Status{
		Running:           true,
		PID:               pid,
		DatabasePath:      summary.Database.DBPath,
		LockFilePath:      lockPath,
		SchemaVersion:     summary.Database.SchemaVersion,
		IntegrityOK:       summary.Database.IntegrityCheck,
		MissingTables:     summary.Database.MissingTables,
		Counts:            counts,
		DatabaseError:     summary.DatabaseError,
		Oracle:            summary.Oracle,
		LLMConfigured:     summary.LLMConfigured,
		OverdueMilestones: summary.Overdue,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilIDs(values []int64) []int64 {
	if values == nil {
		return []int64{}
	}
	return values
}
