package content

import (
	"strings"
	"time"

	"contentops/internal/services"
)

// Type identifies the kind of deliverable.
type Type string

const (
	TypeVideoScript Type = "video_script"
	TypeArticle     Type = "article"
)

// Types returns every supported content type.
func Types() []Type {
	return []Type{TypeVideoScript, TypeArticle}
}

// ParseType normalizes a content type from user input. Hyphens are accepted
// so URLs can use video-script.
func ParseType(value string) (Type, error) {
	normalized := Type(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_"))
	switch normalized {
	case TypeVideoScript, TypeArticle:
		return normalized, nil
	default:
		return "", services.Validation("content", "parse type", "unknown content type %q", value)
	}
}

// Content is the per-episode record for one deliverable type.
type Content struct {
	ID             int64
	EpisodeID      int64
	ContentType    Type
	CurrentVersion int
	Status         Status
	ApprovedAt     *time.Time
	ApprovedBy     string
	LockedAt       *time.Time
	LockedBy       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Version is an immutable snapshot of a content body.
type Version struct {
	ID            int64
	ContentID     int64
	VersionNumber int
	Title         string
	Body          string
	WordCount     int
	ChangeSummary string
	CreatedAt     time.Time
	CreatedBy     string
}

// Draft is the input to a save.
type Draft struct {
	Title         string
	Body          string
	ChangeSummary string
}

// Validate rejects drafts with nothing to save.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Body) == "" {
		return services.Validation("content", "validate draft", "body is required")
	}
	return nil
}

// NewVersion builds the next version for c from the draft. It does not check
// the lock; callers consult Status.Editable first.
func NewVersion(c Content, draft Draft, author string, now time.Time) Version {
	return Version{
		ContentID:     c.ID,
		VersionNumber: c.CurrentVersion + 1,
		Title:         strings.TrimSpace(draft.Title),
		Body:          draft.Body,
		WordCount:     WordCount(draft.Body),
		ChangeSummary: strings.TrimSpace(draft.ChangeSummary),
		CreatedAt:     now.UTC(),
		CreatedBy:     author,
	}
}

// WordCount counts whitespace-delimited, non-empty tokens.
func WordCount(body string) int {
	return len(strings.Fields(body))
}
