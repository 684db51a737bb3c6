package content

import (
	"fmt"
	"strings"
	"time"

	"contentops/internal/services"
)

// FeedbackType classifies a feedback item.
type FeedbackType string

const (
	FeedbackComment         FeedbackType = "comment"
	FeedbackRevisionRequest FeedbackType = "revision_request"
	FeedbackApproval        FeedbackType = "approval"
)

// ParseFeedbackType normalizes a feedback type; empty input means comment.
func ParseFeedbackType(value string) (FeedbackType, error) {
	normalized := FeedbackType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_"))
	switch normalized {
	case "":
		return FeedbackComment, nil
	case FeedbackComment, FeedbackRevisionRequest, FeedbackApproval:
		return normalized, nil
	default:
		return "", services.Validation("feedback", "parse type", "unknown feedback type %q", value)
	}
}

// Highlight is a rune range of a version body captured when feedback is
// created. It is never re-anchored to later versions.
type Highlight struct {
	Start int
	End   int
	Text  string
}

// Feedback is one comment, revision request or approval note on a version.
type Feedback struct {
	ID               int64
	ContentID        int64
	VersionID        int64
	Comment          string
	FeedbackType     FeedbackType
	Highlight        *Highlight
	ParentID         *int64
	IsResolved       bool
	ResolvedAt       *time.Time
	ResolvedBy       string
	AuthorUserID     string
	IsClientFeedback bool
	CreatedAt        time.Time
}

// TopLevel reports whether the item starts a thread.
func (f Feedback) TopLevel() bool {
	return f.ParentID == nil
}

// Resolvable reports whether resolve/unresolve apply to this item.
func (f Feedback) Resolvable() bool {
	return f.FeedbackType == FeedbackRevisionRequest
}

// FeedbackInput is the request to add feedback to a content version.
type FeedbackInput struct {
	VersionID        int64
	Comment          string
	FeedbackType     FeedbackType
	HighlightStart   *int
	HighlightEnd     *int
	ParentID         *int64
	IsClientFeedback bool
}

// BuildFeedback validates input against the target content, version and
// optional parent, returning the row to persist.
func BuildFeedback(contentID int64, input FeedbackInput, version Version, parent *Feedback, author string, now time.Time) (Feedback, error) {
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return Feedback{}, services.Validation("feedback", "add", "comment is required")
	}
	feedbackType := input.FeedbackType
	if feedbackType == "" {
		feedbackType = FeedbackComment
	}
	if _, err := ParseFeedbackType(string(feedbackType)); err != nil {
		return Feedback{}, err
	}
	if version.ContentID != contentID {
		return Feedback{}, services.Validation("feedback", "add", "version %d does not belong to content %d", version.ID, contentID)
	}
	if input.ParentID != nil {
		if parent == nil || parent.ID != *input.ParentID {
			return Feedback{}, services.NotFound("feedback", "parent feedback", *input.ParentID)
		}
		if parent.ContentID != contentID {
			return Feedback{}, services.Validation("feedback", "add", "parent feedback %d belongs to another content", parent.ID)
		}
	}
	highlight, err := captureHighlight(version.Body, input.HighlightStart, input.HighlightEnd)
	if err != nil {
		return Feedback{}, err
	}
	return Feedback{
		ContentID:        contentID,
		VersionID:        version.ID,
		Comment:          comment,
		FeedbackType:     feedbackType,
		Highlight:        highlight,
		ParentID:         input.ParentID,
		AuthorUserID:     author,
		IsClientFeedback: input.IsClientFeedback,
		CreatedAt:        now.UTC(),
	}, nil
}

func captureHighlight(body string, start, end *int) (*Highlight, error) {
	if start == nil && end == nil {
		return nil, nil
	}
	if start == nil || end == nil {
		return nil, services.Validation("feedback", "highlight", "highlight needs both start and end")
	}
	runes := []rune(body)
	if *start < 0 || *start >= *end || *end > len(runes) {
		return nil, services.Validation("feedback", "highlight", "highlight range %d..%d outside body of %d characters", *start, *end, len(runes))
	}
	return &Highlight{Start: *start, End: *end, Text: string(runes[*start:*end])}, nil
}

// CheckResolvable returns ErrResolveNotApplicable for anything but a revision request.
func CheckResolvable(f Feedback) error {
	if f.Resolvable() {
		return nil
	}
	return services.Wrap(
		services.ErrResolveNotApplicable,
		"feedback",
		"resolve",
		fmt.Sprintf("feedback %d is a %s; only revision requests can be resolved", f.ID, f.FeedbackType),
		nil,
	)
}

// UnresolvedCount counts open top-level revision requests. Replies never count.
func UnresolvedCount(list []Feedback) int {
	count := 0
	for _, f := range list {
		if f.TopLevel() && f.FeedbackType == FeedbackRevisionRequest && !f.IsResolved {
			count++
		}
	}
	return count
}

// Thread is a top-level feedback item and its replies in creation order.
type Thread struct {
	Root    Feedback
	Replies []Feedback
}

// Threads groups feedback by root. Replies to replies attach to their root.
// Replies whose root is missing from list are dropped.
func Threads(list []Feedback) []Thread {
	byID := make(map[int64]Feedback, len(list))
	for _, f := range list {
		byID[f.ID] = f
	}
	rootOf := func(f Feedback) (int64, bool) {
		seen := map[int64]struct{}{}
		for f.ParentID != nil {
			if _, loop := seen[f.ID]; loop {
				return 0, false
			}
			seen[f.ID] = struct{}{}
			parent, ok := byID[*f.ParentID]
			if !ok {
				return 0, false
			}
			f = parent
		}
		return f.ID, true
	}
	index := make(map[int64]int)
	var threads []Thread
	for _, f := range list {
		if f.TopLevel() {
			index[f.ID] = len(threads)
			threads = append(threads, Thread{Root: f})
		}
	}
	for _, f := range list {
		if f.TopLevel() {
			continue
		}
		root, ok := rootOf(f)
		if !ok {
			continue
		}
		if i, ok := index[root]; ok {
			threads[i].Replies = append(threads[i].Replies, f)
		}
	}
	return threads
}
