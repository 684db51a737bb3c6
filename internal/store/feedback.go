package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contentops/internal/content"
	"contentops/internal/services"
)

var feedbackColumns = []string{
	"id", "content_id", "version_id", "comment", "feedback_type",
	"highlight_start", "highlight_end", "highlight_text", "parent_feedback_id",
	"is_resolved", "resolved_at", "resolved_by", "author_user_id", "is_client_feedback", "created_at",
}

// CreateFeedback inserts a feedback row built by content.BuildFeedback.
func (s *Store) CreateFeedback(ctx context.Context, fb content.Feedback) (content.Feedback, error) {
	var start, end, text any
	if fb.Highlight != nil {
		start, end, text = fb.Highlight.Start, fb.Highlight.End, fb.Highlight.Text
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO content_feedback (
            content_id, version_id, comment, feedback_type, highlight_start, highlight_end, highlight_text,
            parent_feedback_id, is_resolved, author_user_id, is_client_feedback, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		fb.ContentID,
		fb.VersionID,
		fb.Comment,
		fb.FeedbackType,
		start,
		end,
		text,
		nullableInt64(fb.ParentID),
		fb.AuthorUserID,
		boolToInt(fb.IsClientFeedback),
		formatTime(fb.CreatedAt),
	)
	if err != nil {
		return content.Feedback{}, fmt.Errorf("insert feedback: %w", err)
	}
	if fb.ID, err = res.LastInsertId(); err != nil {
		return content.Feedback{}, fmt.Errorf("last insert id: %w", err)
	}
	return fb, nil
}

// GetFeedback fetches a feedback row by id.
func (s *Store) GetFeedback(ctx context.Context, id int64) (content.Feedback, error) {
	query, args, err := builder.Select(feedbackColumns...).From("content_feedback").Where("id = ?", id).ToSql()
	if err != nil {
		return content.Feedback{}, fmt.Errorf("build feedback query: %w", err)
	}
	fb, err := scanFeedback(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Feedback{}, services.NotFound("store", "feedback", id)
	}
	if err != nil {
		return content.Feedback{}, fmt.Errorf("get feedback: %w", err)
	}
	return fb, nil
}

// ListFeedback returns a content record's feedback across all versions in
// creation order.
func (s *Store) ListFeedback(ctx context.Context, contentID int64) ([]content.Feedback, error) {
	query, args, err := builder.Select(feedbackColumns...).From("content_feedback").
		Where("content_id = ?", contentID).OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build feedback query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var out []content.Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

// SetFeedbackResolved records or clears a resolution. Applicability is the
// caller's concern (content.CheckResolvable).
func (s *Store) SetFeedbackResolved(ctx context.Context, id int64, resolved bool, actor string) (content.Feedback, error) {
	var resolvedAt, resolvedBy any
	if resolved {
		resolvedAt, resolvedBy = s.timestamp(), nullableString(actor)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE content_feedback SET is_resolved = ?, resolved_at = ?, resolved_by = ? WHERE id = ?`,
		boolToInt(resolved), resolvedAt, resolvedBy, id,
	)
	if err != nil {
		return content.Feedback{}, fmt.Errorf("update feedback resolution: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return content.Feedback{}, err
	}
	if n == 0 {
		return content.Feedback{}, services.NotFound("store", "feedback", id)
	}
	return s.GetFeedback(ctx, id)
}

func scanFeedback(scanner rowScanner) (content.Feedback, error) {
	var (
		fb           content.Feedback
		feedbackType string
		start        sql.NullInt64
		end          sql.NullInt64
		text         sql.NullString
		parentID     sql.NullInt64
		resolved     int
		resolvedAt   sql.NullString
		resolvedBy   sql.NullString
		clientFlag   int
		createdRaw   sql.NullString
	)
	if err := scanner.Scan(
		&fb.ID,
		&fb.ContentID,
		&fb.VersionID,
		&fb.Comment,
		&feedbackType,
		&start,
		&end,
		&text,
		&parentID,
		&resolved,
		&resolvedAt,
		&resolvedBy,
		&fb.AuthorUserID,
		&clientFlag,
		&createdRaw,
	); err != nil {
		return content.Feedback{}, err
	}
	fb.FeedbackType = content.FeedbackType(feedbackType)
	if start.Valid && end.Valid {
		fb.Highlight = &content.Highlight{Start: int(start.Int64), End: int(end.Int64), Text: text.String}
	}
	fb.ParentID = int64Pointer(parentID)
	fb.IsResolved = resolved != 0
	fb.ResolvedAt = timePointer(resolvedAt)
	fb.ResolvedBy = resolvedBy.String
	fb.IsClientFeedback = clientFlag != 0
	fb.CreatedAt = timeValue(createdRaw)
	return fb, nil
}
