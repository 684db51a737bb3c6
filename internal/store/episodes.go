package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contentops/internal/schedule"
	"contentops/internal/services"
	"contentops/internal/templates"
)

var episodeColumns = []string{
	"id", "project_id", "topic_proposal_id", "title", "tx_date", "tx_time",
	"timeline_type", "template_id", "calendar_item_id", "created_at", "updated_at",
}

// EpisodeFilter narrows episode listings.
type EpisodeFilter struct {
	ProjectID int64
	From      string
	To        string
}

// CreateEpisode validates and inserts an episode.
func (s *Store) CreateEpisode(ctx context.Context, ep schedule.Episode) (schedule.Episode, error) {
	if err := ep.Validate(); err != nil {
		return schedule.Episode{}, err
	}
	now := s.now().UTC()
	var templateID any
	if ep.TemplateID > 0 {
		templateID = ep.TemplateID
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO episodes (
            project_id, topic_proposal_id, title, tx_date, tx_time, timeline_type,
            template_id, calendar_item_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ep.ProjectID,
		nullableInt64(ep.TopicProposalID),
		ep.Title,
		schedule.FormatDate(ep.TXDate),
		ep.TXTime,
		ep.TimelineType,
		templateID,
		nullableString(ep.CalendarItemID),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return schedule.Episode{}, fmt.Errorf("insert episode: %w", err)
	}
	ep.ID, err = res.LastInsertId()
	if err != nil {
		return schedule.Episode{}, fmt.Errorf("last insert id: %w", err)
	}
	ep.TXDate = schedule.Day(ep.TXDate)
	ep.CreatedAt, ep.UpdatedAt = now, now
	return ep, nil
}

// GetEpisode fetches an episode by id.
func (s *Store) GetEpisode(ctx context.Context, id int64) (schedule.Episode, error) {
	return getEpisode(ctx, s.db, id)
}

func getEpisode(ctx context.Context, q queryer, id int64) (schedule.Episode, error) {
	query, args, err := builder.Select(episodeColumns...).From("episodes").Where("id = ?", id).ToSql()
	if err != nil {
		return schedule.Episode{}, fmt.Errorf("build episode query: %w", err)
	}
	ep, err := scanEpisode(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Episode{}, services.NotFound("store", "episode", id)
	}
	if err != nil {
		return schedule.Episode{}, fmt.Errorf("get episode: %w", err)
	}
	return ep, nil
}

// ListEpisodes returns episodes ordered by TX date. From and To are inclusive
// YYYY-MM-DD bounds.
func (s *Store) ListEpisodes(ctx context.Context, filter EpisodeFilter) ([]schedule.Episode, error) {
	stmt := builder.Select(episodeColumns...).From("episodes").OrderBy("tx_date", "id")
	if filter.ProjectID > 0 {
		stmt = stmt.Where("project_id = ?", filter.ProjectID)
	}
	if filter.From != "" {
		stmt = stmt.Where("tx_date >= ?", filter.From)
	}
	if filter.To != "" {
		stmt = stmt.Where("tx_date <= ?", filter.To)
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build episode query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var out []schedule.Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

// SetCalendarItem records the calendar collaborator's id for an episode.
func (s *Store) SetCalendarItem(ctx context.Context, episodeID int64, calendarItemID string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE episodes SET calendar_item_id = ?, updated_at = ? WHERE id = ?`,
		nullableString(calendarItemID),
		s.timestamp(),
		episodeID,
	)
	if err != nil {
		return fmt.Errorf("set calendar item: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return services.NotFound("store", "episode", episodeID)
	}
	return nil
}

func scanEpisode(scanner rowScanner) (schedule.Episode, error) {
	var (
		ep         schedule.Episode
		proposalID sql.NullInt64
		txDate     string
		timeline   string
		templateID sql.NullInt64
		calendarID sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(
		&ep.ID,
		&ep.ProjectID,
		&proposalID,
		&ep.Title,
		&txDate,
		&ep.TXTime,
		&timeline,
		&templateID,
		&calendarID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return schedule.Episode{}, err
	}
	date, err := dateValue(txDate)
	if err != nil {
		return schedule.Episode{}, err
	}
	ep.TXDate = date
	ep.TopicProposalID = int64Pointer(proposalID)
	ep.TimelineType = templates.TimelineType(timeline)
	ep.TemplateID = templateID.Int64
	ep.CalendarItemID = calendarID.String
	ep.CreatedAt = timeValue(createdRaw)
	ep.UpdatedAt = timeValue(updatedRaw)
	return ep, nil
}
