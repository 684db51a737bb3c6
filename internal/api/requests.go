package api

import (
	"strings"
	"time"

	"contentops/internal/clustering"
	"contentops/internal/content"
	"contentops/internal/milestone"
	"contentops/internal/schedule"
	"contentops/internal/services"
	"contentops/internal/templates"
	"contentops/internal/workflow"
)

// ScheduleEpisodeRequest is the body of POST /api/episodes.
type ScheduleEpisodeRequest struct {
	ProjectID       int64  `json:"projectId"`
	TopicProposalID *int64 `json:"topicProposalId,omitempty"`
	Title           string `json:"title"`
	TXDate          string `json:"txDate"`
	TXTime          string `json:"txTime,omitempty"`
	TimelineType    string `json:"timelineType,omitempty"`
	TemplateID      int64  `json:"templateId,omitempty"`
}

// ToWorkflow parses dates and enums into an engine request.
func (r ScheduleEpisodeRequest) ToWorkflow() (workflow.ScheduleRequest, error) {
	txDate, err := schedule.ParseDate(r.TXDate)
	if err != nil {
		return workflow.ScheduleRequest{}, err
	}
	req := workflow.ScheduleRequest{
		ProjectID:       r.ProjectID,
		TopicProposalID: r.TopicProposalID,
		Title:           strings.TrimSpace(r.Title),
		TXDate:          txDate,
		TXTime:          strings.TrimSpace(r.TXTime),
		TemplateID:      r.TemplateID,
	}
	if strings.TrimSpace(r.TimelineType) != "" {
		timeline, err := templates.ParseTimelineType(r.TimelineType)
		if err != nil {
			return workflow.ScheduleRequest{}, err
		}
		req.TimelineType = timeline
	}
	return req, nil
}

// RescheduleRequest is the body of POST /api/episodes/{id}/reschedule.
type RescheduleRequest struct {
	TXDate string `json:"txDate"`
}

// Date parses the new TX date.
func (r RescheduleRequest) Date() (time.Time, error) {
	return schedule.ParseDate(r.TXDate)
}

// MilestoneUpdateRequest is the body of PATCH /api/milestones/{id}.
// Omitted fields are left unchanged.
type MilestoneUpdateRequest struct {
	Status       *string `json:"status,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	DeadlineTime *string `json:"deadlineTime,omitempty"`
}

// ToUpdate parses the requested status.
func (r MilestoneUpdateRequest) ToUpdate() (milestone.Update, error) {
	update := milestone.Update{Notes: r.Notes, DeadlineTime: r.DeadlineTime}
	if r.Status != nil {
		status, err := milestone.ParseStatus(*r.Status)
		if err != nil {
			return milestone.Update{}, err
		}
		update.Status = &status
	}
	return update, nil
}

// CompleteMilestoneRequest is the optional body of POST /api/milestones/{id}/complete.
type CompleteMilestoneRequest struct {
	Notes string `json:"notes,omitempty"`
}

// SaveVersionRequest is the body of POST .../content/{type}/versions.
type SaveVersionRequest struct {
	Title           string `json:"title,omitempty"`
	Body            string `json:"body"`
	ChangeSummary   string `json:"changeSummary,omitempty"`
	ExpectedVersion *int   `json:"expectedVersion,omitempty"`
}

// Draft returns the text to store.
func (r SaveVersionRequest) Draft() content.Draft {
	return content.Draft{Title: r.Title, Body: r.Body, ChangeSummary: r.ChangeSummary}
}

// SubmitRequest is the optional body of POST .../content/{type}/submit.
// A non-empty body is saved as a new version before the transition.
type SubmitRequest struct {
	Title         string `json:"title,omitempty"`
	Body          string `json:"body,omitempty"`
	ChangeSummary string `json:"changeSummary,omitempty"`
}

// Draft returns nil when the request carries no text.
func (r SubmitRequest) Draft() *content.Draft {
	if strings.TrimSpace(r.Body) == "" {
		return nil
	}
	return &content.Draft{Title: r.Title, Body: r.Body, ChangeSummary: r.ChangeSummary}
}

// FeedbackRequest is the body of POST /api/content/{id}/feedback.
type FeedbackRequest struct {
	VersionID        int64  `json:"versionId"`
	Comment          string `json:"comment"`
	FeedbackType     string `json:"feedbackType,omitempty"`
	HighlightStart   *int   `json:"highlightStart,omitempty"`
	HighlightEnd     *int   `json:"highlightEnd,omitempty"`
	ParentFeedbackID *int64 `json:"parentFeedbackId,omitempty"`
	IsClientFeedback bool   `json:"isClientFeedback,omitempty"`
}

// ToInput parses the feedback type.
func (r FeedbackRequest) ToInput() (content.FeedbackInput, error) {
	kind, err := content.ParseFeedbackType(r.FeedbackType)
	if err != nil {
		return content.FeedbackInput{}, err
	}
	return content.FeedbackInput{
		VersionID:        r.VersionID,
		Comment:          r.Comment,
		FeedbackType:     kind,
		HighlightStart:   r.HighlightStart,
		HighlightEnd:     r.HighlightEnd,
		ParentID:         r.ParentFeedbackID,
		IsClientFeedback: r.IsClientFeedback,
	}, nil
}

// GenerateProposalsRequest is the body of POST /api/projects/{id}/proposals/generate.
type GenerateProposalsRequest struct {
	AudienceProfileID int64    `json:"audienceProfileId,omitempty"`
	Audience          string   `json:"audience,omitempty"`
	Category          string   `json:"category,omitempty"`
	DurationType      string   `json:"durationType,omitempty"`
	DurationSeconds   *int     `json:"durationSeconds,omitempty"`
	ComparisonRegions []string `json:"comparisonRegions,omitempty"`
	ClusterIDs        []string `json:"clusterIds,omitempty"`
	MaxProposals      int      `json:"maxProposals,omitempty"`
}

// ToOptions binds the request to a project.
func (r GenerateProposalsRequest) ToOptions(projectID int64) (clustering.GenerateOptions, error) {
	if r.DurationSeconds != nil && *r.DurationSeconds <= 0 {
		return clustering.GenerateOptions{}, services.Validation("api", "generate proposals", "durationSeconds must be positive")
	}
	if r.MaxProposals < 0 {
		return clustering.GenerateOptions{}, services.Validation("api", "generate proposals", "maxProposals must not be negative")
	}
	return clustering.GenerateOptions{
		ProjectID:         projectID,
		AudienceProfileID: r.AudienceProfileID,
		Audience:          r.Audience,
		Category:          r.Category,
		DurationType:      r.DurationType,
		DurationSeconds:   r.DurationSeconds,
		ComparisonRegions: r.ComparisonRegions,
		ClusterIDs:        r.ClusterIDs,
		MaxProposals:      r.MaxProposals,
	}, nil
}

// StoryRequest is the body of POST /api/projects/{id}/stories, used by the
// ingestion collaborator to flag a story.
type StoryRequest struct {
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url,omitempty"`
}

// ToStory binds the story to a project.
func (r StoryRequest) ToStory(projectID int64) clustering.Story {
	return clustering.Story{
		ProjectID: projectID,
		Title:     strings.TrimSpace(r.Title),
		Summary:   r.Summary,
		Category:  strings.TrimSpace(r.Category),
		URL:       strings.TrimSpace(r.URL),
	}
}

// ProposalStatusRequest is the body of PATCH /api/proposals/{id}.
type ProposalStatusRequest struct {
	Status string `json:"status"`
}

// Parse validates the requested status.
func (r ProposalStatusRequest) Parse() (clustering.ProposalStatus, error) {
	return clustering.ParseProposalStatus(r.Status)
}
