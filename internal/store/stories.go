package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"contentops/internal/clustering"
	"contentops/internal/services"
)

var storyColumns = []string{"id", "project_id", "title", "summary", "category", "url", "flagged_at"}

// CreateStory records a flagged story handed over by the ingestion
// collaborator.
func (s *Store) CreateStory(ctx context.Context, story clustering.Story) (clustering.Story, error) {
	if story.ProjectID <= 0 {
		return clustering.Story{}, services.Validation("store", "create story", "project id is required")
	}
	if story.Title == "" {
		return clustering.Story{}, services.Validation("store", "create story", "title is required")
	}
	if story.FlaggedAt.IsZero() {
		story.FlaggedAt = s.now()
	}
	story.FlaggedAt = story.FlaggedAt.UTC()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO stories (project_id, title, summary, category, url, flagged_at) VALUES (?, ?, ?, ?, ?, ?)`,
		story.ProjectID,
		story.Title,
		nullableString(story.Summary),
		nullableString(story.Category),
		nullableString(story.URL),
		formatTime(story.FlaggedAt),
	)
	if err != nil {
		return clustering.Story{}, fmt.Errorf("insert story: %w", err)
	}
	if story.ID, err = res.LastInsertId(); err != nil {
		return clustering.Story{}, fmt.Errorf("last insert id: %w", err)
	}
	return story, nil
}

// ListFlaggedStories returns a project's stories flagged at or after since,
// newest first, optionally limited to one category.
func (s *Store) ListFlaggedStories(ctx context.Context, projectID int64, since time.Time, category string) ([]clustering.Story, error) {
	stmt := builder.Select(storyColumns...).From("stories").
		Where("project_id = ?", projectID).
		OrderBy("flagged_at DESC", "id DESC")
	if !since.IsZero() {
		stmt = stmt.Where("flagged_at >= ?", formatTime(since))
	}
	if category != "" {
		stmt = stmt.Where("category = ?", category)
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build story query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var out []clustering.Story
	for rows.Next() {
		var (
			story       clustering.Story
			summary     sql.NullString
			categoryRaw sql.NullString
			url         sql.NullString
			flagged     sql.NullString
		)
		if err := rows.Scan(&story.ID, &story.ProjectID, &story.Title, &summary, &categoryRaw, &url, &flagged); err != nil {
			return nil, err
		}
		story.Summary = summary.String
		story.Category = categoryRaw.String
		story.URL = url.String
		story.FlaggedAt = timeValue(flagged)
		out = append(out, story)
	}
	return out, rows.Err()
}
