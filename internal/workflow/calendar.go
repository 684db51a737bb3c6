package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"contentops/internal/templates"
)

// EpisodeRequest is what the calendar collaborator needs to place an episode.
type EpisodeRequest struct {
	ProjectID       int64
	TopicProposalID *int64
	Title           string
	TXDate          time.Time
	TXTime          string
	TimelineType    templates.TimelineType
	TemplateID      int64
}

// CalendarService creates calendar entries for scheduled episodes.
type CalendarService interface {
	CreateEntry(ctx context.Context, req EpisodeRequest) (string, error)
}

// LocalCalendar hands out random item ids without talking to anything.
type LocalCalendar struct{}

// CreateEntry returns a fresh calendar item id.
func (LocalCalendar) CreateEntry(context.Context, EpisodeRequest) (string, error) {
	return "cal-" + uuid.NewString(), nil
}
