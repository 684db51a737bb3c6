package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"contentops/internal/clustering"
	"contentops/internal/content"
	"contentops/internal/milestone"
	"contentops/internal/schedule"
	"contentops/internal/services"
	"contentops/internal/store"
	"contentops/internal/templates"
	"contentops/internal/testsupport"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeedTemplatesOnlyOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seeded := testsupport.SeedTemplates(t, st)
	if len(seeded) != len(templates.Builtin()) {
		t.Fatalf("expected %d templates, got %d", len(templates.Builtin()), len(seeded))
	}
	n, err := st.SeedTemplates(ctx, templates.Builtin())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected reseed to be a no-op, wrote %d", n)
	}
}

func TestCreateTemplateClearsOtherDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedTemplates(t, st)

	custom, err := st.CreateTemplate(ctx, templates.Template{
		Name:         "Tight turnaround",
		TimelineType: templates.TimelineNormal,
		IsDefault:    true,
		Offsets: []templates.MilestoneOffset{
			{MilestoneType: "script_draft", DayOffset: -3},
			{MilestoneType: "final_cut", DayOffset: -1},
		},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	list, err := st.ListTemplates(ctx, templates.TimelineNormal)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	defaults := 0
	for _, tpl := range list {
		if tpl.IsDefault {
			defaults++
			if tpl.ID != custom.ID {
				t.Fatalf("expected %d to be the default, got %d", custom.ID, tpl.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}

	picked, err := templates.DefaultTemplate(list, templates.TimelineNormal)
	if err != nil {
		t.Fatalf("DefaultTemplate: %v", err)
	}
	if picked.Name != "Tight turnaround" || len(picked.Offsets) != 2 {
		t.Fatalf("unexpected default template %#v", picked)
	}
}

func TestGetTemplateNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.GetTemplate(context.Background(), 999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEpisodeRoundTripAndFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewEpisode(t, st, 1, "Housing costs", date(2024, 4, 1))
	testsupport.NewEpisode(t, st, 1, "Transit", date(2024, 5, 1))
	testsupport.NewEpisode(t, st, 2, "Elsewhere", date(2024, 4, 2))

	got, err := st.GetEpisode(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if got.Title != "Housing costs" || !got.TXDate.Equal(date(2024, 4, 1)) || got.TXTime != "19:00" {
		t.Fatalf("unexpected episode %#v", got)
	}

	list, err := st.ListEpisodes(ctx, store.EpisodeFilter{ProjectID: 1, From: "2024-03-01", To: "2024-04-30"})
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(list) != 1 || list[0].ID != first.ID {
		t.Fatalf("expected only the April episode, got %#v", list)
	}

	if err := st.SetCalendarItem(ctx, first.ID, "cal-123"); err != nil {
		t.Fatalf("SetCalendarItem: %v", err)
	}
	got, _ = st.GetEpisode(ctx, first.ID)
	if got.CalendarItemID != "cal-123" {
		t.Fatalf("calendar item not stored: %q", got.CalendarItemID)
	}
}

func TestCreateEpisodeValidates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.CreateEpisode(context.Background(), schedule.Episode{ProjectID: 1, TXDate: date(2024, 4, 1)})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func sampleOffsets() []templates.MilestoneOffset {
	return []templates.MilestoneOffset{
		{MilestoneType: "script_draft", DayOffset: -7},
		{MilestoneType: "client_review", DayOffset: -3, IsClientFacing: true, RequiresClientApproval: true},
		{MilestoneType: "final_cut", DayOffset: -1, TimeOfDay: "12:00"},
	}
}

func TestCreateMilestonesBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	ep := testsupport.NewEpisode(t, st, 1, "Batch", date(2024, 4, 1))
	created, err := st.CreateMilestones(ctx, ep.ID, schedule.NewMilestones(ep.ID, ep.TXDate, sampleOffsets()))
	if err != nil {
		t.Fatalf("CreateMilestones: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 milestones, got %d", len(created))
	}

	list, err := st.ListMilestones(ctx, store.MilestoneFilter{EpisodeID: ep.ID})
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	wantDates := []string{"2024-03-25", "2024-03-29", "2024-03-31"}
	for i, m := range list {
		if got := schedule.FormatDate(m.DeadlineDate); got != wantDates[i] {
			t.Fatalf("milestone %d deadline = %s, want %s", i, got, wantDates[i])
		}
		if m.Status != milestone.StatusPending {
			t.Fatalf("milestone %d status = %s", i, m.Status)
		}
	}
	if !list[1].IsClientFacing || !list[1].RequiresClientApproval || list[2].DeadlineTime != "12:00" {
		t.Fatalf("flags not round-tripped: %#v", list)
	}

	_, err = st.CreateMilestones(ctx, ep.ID, schedule.NewMilestones(ep.ID, ep.TXDate, sampleOffsets()))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected second batch to be rejected, got %v", err)
	}
}

func TestCreateMilestonesAllOrNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	ep := testsupport.NewEpisode(t, st, 1, "Atomic", date(2024, 4, 1))
	offsets := []templates.MilestoneOffset{
		{MilestoneType: "script_draft", DayOffset: -7},
		{MilestoneType: "script_draft", DayOffset: -3},
	}
	if _, err := st.CreateMilestones(ctx, ep.ID, schedule.NewMilestones(ep.ID, ep.TXDate, offsets)); err == nil {
		t.Fatal("expected duplicate milestone type to fail")
	}
	list, err := st.ListMilestones(ctx, store.MilestoneFilter{EpisodeID: ep.ID})
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no partial batch, got %d rows", len(list))
	}
}

func TestCreateMilestonesUnknownEpisode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.CreateMilestones(context.Background(), 42, schedule.NewMilestones(42, date(2024, 4, 1), sampleOffsets()))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSaveMilestoneRejectsStalePrior(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	ep := testsupport.NewEpisode(t, st, 1, "Race", date(2024, 4, 1))
	created, err := st.CreateMilestones(ctx, ep.ID, schedule.NewMilestones(ep.ID, ep.TXDate, sampleOffsets()))
	if err != nil {
		t.Fatalf("CreateMilestones: %v", err)
	}

	m := created[0]
	if err := m.Complete(time.Now(), "done"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	saved, err := st.SaveMilestone(ctx, m, milestone.StatusPending)
	if err != nil {
		t.Fatalf("SaveMilestone: %v", err)
	}
	if saved.CompletedAt == nil {
		t.Fatal("expected completed_at stamp")
	}

	m.Status = milestone.StatusSkipped
	if _, err := st.SaveMilestone(ctx, m, milestone.StatusPending); !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on stale prior, got %v", err)
	}
	stored, err := st.GetMilestone(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMilestone: %v", err)
	}
	if stored.Status != milestone.StatusCompleted || stored.Notes != "done" {
		t.Fatalf("unexpected stored milestone %#v", stored)
	}

	overdue, err := st.ListMilestones(ctx, store.MilestoneFilter{
		Statuses:  []milestone.Status{milestone.StatusPending, milestone.StatusInProgress},
		DueBefore: "2024-03-30",
	})
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	if len(overdue) != 1 || overdue[0].MilestoneType != "client_review" {
		t.Fatalf("unexpected open milestones before 2024-03-30: %#v", overdue)
	}
}

func TestRescheduleKeepsClosedMilestones(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	ep := testsupport.NewEpisode(t, st, 1, "Moving", date(2024, 4, 1))
	created, err := st.CreateMilestones(ctx, ep.ID, schedule.NewMilestones(ep.ID, ep.TXDate, sampleOffsets()))
	if err != nil {
		t.Fatalf("CreateMilestones: %v", err)
	}
	done := created[0]
	if err := done.Complete(time.Now(), ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := st.SaveMilestone(ctx, done, milestone.StatusPending); err != nil {
		t.Fatalf("SaveMilestone: %v", err)
	}

	moved, plan, err := st.RescheduleEpisode(ctx, ep.ID, date(2024, 4, 8))
	if err != nil {
		t.Fatalf("RescheduleEpisode: %v", err)
	}
	if !moved.TXDate.Equal(date(2024, 4, 8)) {
		t.Fatalf("tx date = %s", moved.TXDate)
	}
	if len(plan.Changes) != 2 || len(plan.Preserved) != 1 || plan.Preserved[0] != done.ID {
		t.Fatalf("unexpected plan %#v", plan)
	}

	list, err := st.ListMilestones(ctx, store.MilestoneFilter{EpisodeID: ep.ID})
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	wantDates := []string{"2024-03-25", "2024-04-05", "2024-04-07"}
	for i, m := range list {
		if got := schedule.FormatDate(m.DeadlineDate); got != wantDates[i] {
			t.Fatalf("milestone %d deadline = %s, want %s", i, got, wantDates[i])
		}
	}
	stored, _ := st.GetEpisode(ctx, ep.ID)
	if !stored.TXDate.Equal(date(2024, 4, 8)) {
		t.Fatalf("stored tx date = %s", stored.TXDate)
	}
}

func TestContentVersionLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	ep := testsupport.NewEpisode(t, st, 1, "Script", date(2024, 4, 1))

	var c content.Content
	for i, body := range []string{"first take", "second take here", "third and final take"} {
		var (
			v   content.Version
			err error
		)
		c, v, err = st.SaveContentVersion(ctx, ep.ID, content.TypeVideoScript, content.Draft{Body: body}, store.SaveOptions{Author: "ed"})
		if err != nil {
			t.Fatalf("save %d: %v", i+1, err)
		}
		if v.VersionNumber != i+1 || c.CurrentVersion != i+1 {
			t.Fatalf("save %d produced version %d, current %d", i+1, v.VersionNumber, c.CurrentVersion)
		}
	}
	if c.Status != content.StatusDraft {
		t.Fatalf("expected draft, got %s", c.Status)
	}

	steps := []struct {
		from content.Status
		to   content.Status
	}{
		{content.StatusDraft, content.StatusInReview},
		{content.StatusInReview, content.StatusApproved},
		{content.StatusApproved, content.StatusLocked},
	}
	for _, step := range steps {
		var err error
		c, err = st.TransitionContent(ctx, c.ID, step.from, step.to, "pat")
		if err != nil {
			t.Fatalf("transition %s->%s: %v", step.from, step.to, err)
		}
	}
	if c.ApprovedAt == nil || c.ApprovedBy != "pat" || c.LockedAt == nil || c.LockedBy != "pat" {
		t.Fatalf("approval and lock stamps missing: %#v", c)
	}

	_, _, err := st.SaveContentVersion(ctx, ep.ID, content.TypeVideoScript, content.Draft{Body: "sneaky edit"}, store.SaveOptions{})
	if !errors.Is(err, services.ErrContentLocked) {
		t.Fatalf("expected content locked, got %v", err)
	}
	_, _, err = st.SaveContentVersion(ctx, ep.ID, content.TypeVideoScript, content.Draft{Body: "   "}, store.SaveOptions{})
	if !errors.Is(err, services.ErrContentLocked) {
		t.Fatalf("expected content locked for a blank draft, got %v", err)
	}
	after, err := st.GetContent(ctx, ep.ID, content.TypeVideoScript)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if after.CurrentVersion != 3 {
		t.Fatalf("current version moved to %d", after.CurrentVersion)
	}
	versions, err := st.ListVersions(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 3 || versions[2].WordCount != 4 {
		t.Fatalf("unexpected versions %#v", versions)
	}
	second, err := st.GetVersionNumber(ctx, c.ID, 2)
	if err != nil {
		t.Fatalf("GetVersionNumber: %v", err)
	}
	if second.Body != "second take here" {
		t.Fatalf("unexpected version 2 body %q", second.Body)
	}
}

func TestBlankFirstSaveCreatesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	ep := testsupport.NewEpisode(t, st, 1, "Article", date(2024, 4, 1))

	_, _, err := st.SaveContentVersion(ctx, ep.ID, content.TypeArticle, content.Draft{Body: " \n\t"}, store.SaveOptions{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := st.GetContent(ctx, ep.ID, content.TypeArticle); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected no content row after a rejected save, got %v", err)
	}
}

func TestSaveContentVersionExpectedVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	ep := testsupport.NewEpisode(t, st, 1, "Article", date(2024, 4, 1))

	zero := 0
	if _, _, err := st.SaveContentVersion(ctx, ep.ID, content.TypeArticle, content.Draft{Body: "v1"}, store.SaveOptions{ExpectedVersion: &zero}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, _, err := st.SaveContentVersion(ctx, ep.ID, content.TypeArticle, content.Draft{Body: "stale"}, store.SaveOptions{ExpectedVersion: &zero})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	c, err := st.GetContent(ctx, ep.ID, content.TypeArticle)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if c.CurrentVersion != 1 {
		t.Fatalf("current version = %d", c.CurrentVersion)
	}
}

func TestTransitionContentStaleStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	ep := testsupport.NewEpisode(t, st, 1, "Race", date(2024, 4, 1))

	c, _, err := st.SaveContentVersion(ctx, ep.ID, content.TypeVideoScript, content.Draft{Body: "body"}, store.SaveOptions{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err = st.TransitionContent(ctx, c.ID, content.StatusInReview, content.StatusApproved, "pat")
	if !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestFeedbackResolveAndUnresolve(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	ep := testsupport.NewEpisode(t, st, 1, "Notes", date(2024, 4, 1))

	c, v, err := st.SaveContentVersion(ctx, ep.ID, content.TypeVideoScript, content.Draft{Body: "Open with the rent chart"}, store.SaveOptions{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	start, end := 14, 18
	fb, err := content.BuildFeedback(c.ID, content.FeedbackInput{
		VersionID:      v.ID,
		Comment:        "Use the newer figures",
		FeedbackType:   content.FeedbackRevisionRequest,
		HighlightStart: &start,
		HighlightEnd:   &end,
	}, v, nil, "client-1", time.Now())
	if err != nil {
		t.Fatalf("BuildFeedback: %v", err)
	}
	fb.IsClientFeedback = true
	stored, err := st.CreateFeedback(ctx, fb)
	if err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}
	if stored.Highlight == nil || stored.Highlight.Text != "rent" {
		t.Fatalf("unexpected highlight %#v", stored.Highlight)
	}

	resolved, err := st.SetFeedbackResolved(ctx, stored.ID, true, "ed")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved.IsResolved || resolved.ResolvedAt == nil || resolved.ResolvedBy != "ed" {
		t.Fatalf("unexpected resolved feedback %#v", resolved)
	}
	reopened, err := st.SetFeedbackResolved(ctx, stored.ID, false, "ed")
	if err != nil {
		t.Fatalf("unresolve: %v", err)
	}
	if reopened.IsResolved || reopened.ResolvedAt != nil || reopened.ResolvedBy != "" {
		t.Fatalf("unresolve left resolution fields: %#v", reopened)
	}

	list, err := st.ListFeedback(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(list) != 1 || !list[0].IsClientFeedback || content.UnresolvedCount(list) != 1 {
		t.Fatalf("unexpected feedback list %#v", list)
	}

	if _, err := st.SetFeedbackResolved(ctx, 999, true, "ed"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFlaggedStoriesLookback(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	now := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

	stories := []clustering.Story{
		{ProjectID: 1, Title: "Rent up again", Category: "housing", FlaggedAt: now.Add(-24 * time.Hour)},
		{ProjectID: 1, Title: "Bus fares", Category: "transit", FlaggedAt: now.Add(-48 * time.Hour)},
		{ProjectID: 1, Title: "Old news", Category: "housing", FlaggedAt: now.Add(-10 * 24 * time.Hour)},
		{ProjectID: 2, Title: "Other project", Category: "housing", FlaggedAt: now.Add(-time.Hour)},
	}
	for _, story := range stories {
		if _, err := st.CreateStory(ctx, story); err != nil {
			t.Fatalf("CreateStory: %v", err)
		}
	}

	since := now.AddDate(0, 0, -7)
	list, err := st.ListFlaggedStories(ctx, 1, since, "")
	if err != nil {
		t.Fatalf("ListFlaggedStories: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Rent up again" || list[1].Title != "Bus fares" {
		t.Fatalf("unexpected stories %#v", list)
	}

	housing, err := st.ListFlaggedStories(ctx, 1, since, "housing")
	if err != nil {
		t.Fatalf("ListFlaggedStories housing: %v", err)
	}
	if len(housing) != 1 || housing[0].Category != "housing" {
		t.Fatalf("unexpected housing stories %#v", housing)
	}
}

func TestProposalsFilterAndUpdate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created, err := st.CreateProposals(ctx, []clustering.Proposal{
		{ProjectID: 1, Title: "Rent squeeze", TalkingPoints: []string{"a", "b"}, SourceStoryIDs: []int64{1, 2, 3}},
		{ProjectID: 1, Title: "Transit cuts", SourceStoryIDs: []int64{4}},
		{ProjectID: 2, Title: "Elsewhere"},
	})
	if err != nil {
		t.Fatalf("CreateProposals: %v", err)
	}
	if created[0].ID == 0 || created[0].Status != clustering.ProposalDraft {
		t.Fatalf("unexpected created proposal %#v", created[0])
	}

	ep := testsupport.NewEpisode(t, st, 1, "Rent squeeze", date(2024, 4, 1))
	updated, err := st.UpdateProposal(ctx, created[1].ID, clustering.ProposalApproved, &ep.ID)
	if err != nil {
		t.Fatalf("UpdateProposal: %v", err)
	}
	if updated.Status != clustering.ProposalApproved || updated.LinkedEpisodeID == nil || *updated.LinkedEpisodeID != ep.ID {
		t.Fatalf("unexpected updated proposal %#v", updated)
	}

	drafts, err := st.ListProposals(ctx, clustering.ProposalFilter{
		ProjectID: 1,
		Statuses:  []clustering.ProposalStatus{clustering.ProposalDraft},
	})
	if err != nil {
		t.Fatalf("ListProposals: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Title != "Rent squeeze" {
		t.Fatalf("unexpected drafts %#v", drafts)
	}
	if len(drafts[0].SourceStoryIDs) != 3 || len(drafts[0].TalkingPoints) != 2 {
		t.Fatalf("lists not round-tripped: %#v", drafts[0])
	}

	if _, err := st.GetProposal(ctx, 999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedTemplates(t, st)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("unexpected health %#v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("missing tables: %v", health.MissingTables)
	}
	if health.Counts["workflow_templates"] != len(templates.Builtin()) {
		t.Fatalf("template count = %d", health.Counts["workflow_templates"])
	}
}
