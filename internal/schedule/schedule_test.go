package schedule_test

import (
	"testing"
	"time"

	"contentops/internal/milestone"
	"contentops/internal/schedule"
	"contentops/internal/templates"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := schedule.ParseDate(value)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", value, err)
	}
	return date
}

func scenarioOffsets() []templates.MilestoneOffset {
	return []templates.MilestoneOffset{
		{MilestoneType: "script_draft", Label: "Script Draft", DayOffset: -5},
		{MilestoneType: "client_review", Label: "Client Review", DayOffset: -2, IsClientFacing: true, RequiresClientApproval: true},
		{MilestoneType: "final_cut", Label: "Final Cut", DayOffset: -1},
	}
}

func TestComputeMilestonesScenario(t *testing.T) {
	tx := mustDate(t, "2024-03-15")
	timeline := schedule.Timeline(tx, "19:00", scenarioOffsets())

	want := []struct {
		typ  string
		date string
	}{
		{"script_draft", "2024-03-10"},
		{"client_review", "2024-03-13"},
		{"final_cut", "2024-03-14"},
		{"tx", "2024-03-15"},
	}
	if len(timeline) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(timeline))
	}
	for i, w := range want {
		if timeline[i].MilestoneType != w.typ || schedule.FormatDate(timeline[i].CalculatedDate) != w.date {
			t.Fatalf("entry %d: got %s@%s want %s@%s", i, timeline[i].MilestoneType, schedule.FormatDate(timeline[i].CalculatedDate), w.typ, w.date)
		}
	}
	if !timeline[1].RequiresClientApproval || !timeline[1].IsClientFacing {
		t.Fatal("expected client review flags to carry over")
	}
	if timeline[3].TimeOfDay != "19:00" {
		t.Fatalf("expected TX entry to carry tx time, got %q", timeline[3].TimeOfDay)
	}
}

func TestComputeMilestonesPropertyAcrossTemplates(t *testing.T) {
	dates := []string{"2024-02-28", "2024-12-31", "2025-03-01", "2023-01-01"}
	for _, tpl := range templates.Builtin() {
		for _, value := range dates {
			tx := mustDate(t, value)
			entries := schedule.ComputeMilestones(tx, tpl.Offsets)
			if len(entries) != len(tpl.Offsets) {
				t.Fatalf("%s: expected %d entries, got %d", tpl.Name, len(tpl.Offsets), len(entries))
			}
			for i, entry := range entries {
				if !entry.CalculatedDate.Equal(tx.AddDate(0, 0, tpl.Offsets[i].DayOffset)) {
					t.Fatalf("%s on %s: offset %d computed %s", tpl.Name, value, tpl.Offsets[i].DayOffset, entry.CalculatedDate)
				}
			}
			if got := schedule.TXMilestone(tx, "").CalculatedDate; !got.Equal(tx) {
				t.Fatalf("TX milestone must equal tx date, got %s", got)
			}
		}
	}
}

func TestAddDaysCrossesMonthsAndLeapDays(t *testing.T) {
	tests := []struct {
		from   string
		offset int
		want   string
	}{
		{"2024-03-01", -1, "2024-02-29"},
		{"2023-03-01", -1, "2023-02-28"},
		{"2024-12-30", 3, "2025-01-02"},
		{"2024-03-15", 0, "2024-03-15"},
	}
	for _, tt := range tests {
		got := schedule.FormatDate(schedule.AddDays(mustDate(t, tt.from), tt.offset))
		if got != tt.want {
			t.Fatalf("AddDays(%s, %d) = %s, want %s", tt.from, tt.offset, got, tt.want)
		}
	}
}

func TestAddDaysIgnoresClockAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2024, 3, 15, 23, 30, 0, 0, zone)
	if got := schedule.FormatDate(schedule.AddDays(late, -1)); got != "2024-03-14" {
		t.Fatalf("expected civil date arithmetic, got %s", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := schedule.ParseDate("15/03/2024"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewMilestonesArePending(t *testing.T) {
	list := schedule.NewMilestones(7, mustDate(t, "2024-03-15"), scenarioOffsets())
	if len(list) != 3 {
		t.Fatalf("expected 3 milestones, got %d", len(list))
	}
	for _, m := range list {
		if m.Status != milestone.StatusPending || m.EpisodeID != 7 {
			t.Fatalf("unexpected milestone %+v", m)
		}
	}
}

func TestPlanReschedulePreservesClosedMilestones(t *testing.T) {
	list := schedule.NewMilestones(1, mustDate(t, "2024-03-15"), scenarioOffsets())
	for i := range list {
		list[i].ID = int64(i + 1)
	}
	list[0].Status = milestone.StatusCompleted
	list[1].Status = milestone.StatusInProgress

	plan := schedule.PlanReschedule(list, mustDate(t, "2024-03-22"))
	if len(plan.Preserved) != 1 || plan.Preserved[0] != 1 {
		t.Fatalf("expected completed milestone preserved, got %v", plan.Preserved)
	}
	if len(plan.Changes) != 2 {
		t.Fatalf("expected two changes, got %+v", plan.Changes)
	}
	applied := plan.Apply(list)
	wantDates := []string{"2024-03-10", "2024-03-20", "2024-03-21"}
	for i, want := range wantDates {
		if got := schedule.FormatDate(applied[i].DeadlineDate); got != want {
			t.Fatalf("milestone %d: got %s want %s", i+1, got, want)
		}
	}
	if applied[0].Status != milestone.StatusCompleted || applied[1].Status != milestone.StatusInProgress {
		t.Fatal("rescheduling must not change statuses")
	}
	if schedule.FormatDate(list[1].DeadlineDate) != "2024-03-13" {
		t.Fatal("Apply must not mutate its input")
	}
}

func TestPlanRescheduleSameDateIsEmpty(t *testing.T) {
	tx := mustDate(t, "2024-03-15")
	list := schedule.NewMilestones(1, tx, scenarioOffsets())
	if plan := schedule.PlanReschedule(list, tx); len(plan.Changes) != 0 {
		t.Fatalf("expected no changes, got %+v", plan.Changes)
	}
}

func TestEpisodeValidate(t *testing.T) {
	valid := schedule.Episode{ProjectID: 1, Title: "Flood defences", TXDate: mustDate(t, "2024-03-15"), TXTime: "19:00", TimelineType: templates.TimelineNormal}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := valid
	bad.TXTime = "7pm"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected tx time validation error")
	}
	bad = valid
	bad.Title = ""
	if err := bad.Validate(); err == nil {
		t.Fatal("expected title validation error")
	}
}

func TestDaysBetween(t *testing.T) {
	if got := schedule.DaysBetween(mustDate(t, "2024-03-10"), mustDate(t, "2024-03-15")); got != 5 {
		t.Fatalf("expected 5 days, got %d", got)
	}
}
