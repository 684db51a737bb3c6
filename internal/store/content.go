package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contentops/internal/content"
	"contentops/internal/services"
)

var contentColumns = []string{
	"id", "episode_id", "content_type", "current_version", "status",
	"approved_at", "approved_by", "locked_at", "locked_by", "created_at", "updated_at",
}

var versionColumns = []string{
	"id", "content_id", "version_number", "title", "body", "word_count",
	"change_summary", "created_at", "created_by",
}

// SaveOptions controls a version save.
type SaveOptions struct {
	// ExpectedVersion, when set, must equal the stored current_version or
	// the save fails with ErrConflict.
	ExpectedVersion *int
	Author          string
}

// SaveContentVersion appends a version to the episode's content of the given
// type, creating the content row in draft on first use. The version insert
// and the current_version bump commit together. Locked content is rejected
// with ErrContentLocked before the draft is looked at, and nothing is written.
func (s *Store) SaveContentVersion(ctx context.Context, episodeID int64, contentType content.Type, draft content.Draft, opts SaveOptions) (content.Content, content.Version, error) {
	var (
		c content.Content
		v content.Version
	)
	now := s.now().UTC()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getEpisode(ctx, tx, episodeID); err != nil {
			return err
		}
		var err error
		c, err = getContentByEpisode(ctx, tx, episodeID, contentType)
		if errors.Is(err, services.ErrNotFound) {
			c, err = insertContent(ctx, tx, episodeID, contentType, now)
		}
		if err != nil {
			return err
		}
		if !c.Status.Editable() {
			return services.Wrap(services.ErrContentLocked, "store", "save version",
				fmt.Sprintf("%s for episode %d is locked", contentType, episodeID), nil)
		}
		if err := draft.Validate(); err != nil {
			return err
		}
		if opts.ExpectedVersion != nil && *opts.ExpectedVersion != c.CurrentVersion {
			return services.Wrap(services.ErrConflict, "store", "save version",
				fmt.Sprintf("expected version %d but current version is %d", *opts.ExpectedVersion, c.CurrentVersion), nil)
		}

		v = content.NewVersion(c, draft, opts.Author, now)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO content_versions (
                content_id, version_number, title, body, word_count, change_summary, created_at, created_by
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID,
			v.VersionNumber,
			nullableString(v.Title),
			v.Body,
			v.WordCount,
			nullableString(v.ChangeSummary),
			formatTime(v.CreatedAt),
			nullableString(v.CreatedBy),
		)
		if err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
		if v.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		bump, err := tx.ExecContext(ctx,
			`UPDATE episode_content SET current_version = ?, updated_at = ? WHERE id = ? AND current_version = ?`,
			v.VersionNumber, formatTime(now), c.ID, c.CurrentVersion,
		)
		if err != nil {
			return fmt.Errorf("bump current version: %w", err)
		}
		if n, err := rowsAffected(bump); err != nil {
			return err
		} else if n == 0 {
			return services.Wrap(services.ErrConflict, "store", "save version", "content changed during save", nil)
		}
		c.CurrentVersion = v.VersionNumber
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return content.Content{}, content.Version{}, err
	}
	return c, v, nil
}

// GetContent fetches an episode's content of one type.
func (s *Store) GetContent(ctx context.Context, episodeID int64, contentType content.Type) (content.Content, error) {
	return getContentByEpisode(ctx, s.db, episodeID, contentType)
}

// GetContentByID fetches content by its own id.
func (s *Store) GetContentByID(ctx context.Context, id int64) (content.Content, error) {
	query, args, err := builder.Select(contentColumns...).From("episode_content").Where("id = ?", id).ToSql()
	if err != nil {
		return content.Content{}, fmt.Errorf("build content query: %w", err)
	}
	c, err := scanContent(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Content{}, services.NotFound("store", "content", id)
	}
	if err != nil {
		return content.Content{}, fmt.Errorf("get content: %w", err)
	}
	return c, nil
}

// ListEpisodeContent returns every content record of an episode.
func (s *Store) ListEpisodeContent(ctx context.Context, episodeID int64) ([]content.Content, error) {
	query, args, err := builder.Select(contentColumns...).From("episode_content").
		Where("episode_id = ?", episodeID).OrderBy("content_type").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build content query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var out []content.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TransitionContent moves content from one status to another, stamping the
// approval or lock fields. The update only applies while the stored status
// still equals from; a concurrent change surfaces as ErrInvalidTransition.
func (s *Store) TransitionContent(ctx context.Context, contentID int64, from, to content.Status, actor string) (content.Content, error) {
	now := s.now().UTC()
	stamp := formatTime(now)
	var approvedAt, approvedBy, lockedAt, lockedBy any
	switch to {
	case content.StatusApproved:
		approvedAt, approvedBy = stamp, nullableString(actor)
	case content.StatusLocked:
		lockedAt, lockedBy = stamp, nullableString(actor)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE episode_content
         SET status = ?, updated_at = ?,
             approved_at = COALESCE(?, approved_at), approved_by = COALESCE(?, approved_by),
             locked_at = COALESCE(?, locked_at), locked_by = COALESCE(?, locked_by)
         WHERE id = ? AND status = ?`,
		to, stamp, approvedAt, approvedBy, lockedAt, lockedBy, contentID, from,
	)
	if err != nil {
		return content.Content{}, fmt.Errorf("transition content: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return content.Content{}, err
	}
	current, err := s.GetContentByID(ctx, contentID)
	if err != nil {
		return content.Content{}, err
	}
	if n == 0 {
		return content.Content{}, services.Wrap(
			services.ErrInvalidTransition,
			"store",
			"transition content",
			fmt.Sprintf("content %d is %s, expected %s", contentID, current.Status, from),
			nil,
		)
	}
	return current, nil
}

// ListVersions returns every version of a content record, oldest first.
func (s *Store) ListVersions(ctx context.Context, contentID int64) ([]content.Version, error) {
	query, args, err := builder.Select(versionColumns...).From("content_versions").
		Where("content_id = ?", contentID).OrderBy("version_number").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build version query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []content.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVersion fetches a version by id.
func (s *Store) GetVersion(ctx context.Context, id int64) (content.Version, error) {
	return s.getVersionWhere(ctx, "id = ?", []any{id}, id)
}

// GetVersionNumber fetches a content record's version by number.
func (s *Store) GetVersionNumber(ctx context.Context, contentID int64, number int) (content.Version, error) {
	return s.getVersionWhere(ctx, "content_id = ? AND version_number = ?", []any{contentID, number}, fmt.Sprintf("%d/v%d", contentID, number))
}

func (s *Store) getVersionWhere(ctx context.Context, where string, args []any, label any) (content.Version, error) {
	query, qargs, err := builder.Select(versionColumns...).From("content_versions").Where(where, args...).ToSql()
	if err != nil {
		return content.Version{}, fmt.Errorf("build version query: %w", err)
	}
	v, err := scanVersion(s.db.QueryRowContext(ctx, query, qargs...))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Version{}, services.NotFound("store", "content version", label)
	}
	if err != nil {
		return content.Version{}, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

func getContentByEpisode(ctx context.Context, q queryer, episodeID int64, contentType content.Type) (content.Content, error) {
	query, args, err := builder.Select(contentColumns...).From("episode_content").
		Where("episode_id = ? AND content_type = ?", episodeID, contentType).ToSql()
	if err != nil {
		return content.Content{}, fmt.Errorf("build content query: %w", err)
	}
	c, err := scanContent(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Content{}, services.NotFound("store", string(contentType)+" content for episode", episodeID)
	}
	if err != nil {
		return content.Content{}, fmt.Errorf("get content: %w", err)
	}
	return c, nil
}

func insertContent(ctx context.Context, tx *sql.Tx, episodeID int64, contentType content.Type, now time.Time) (content.Content, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO episode_content (episode_id, content_type, current_version, status, created_at, updated_at)
         VALUES (?, ?, 0, ?, ?, ?)`,
		episodeID, contentType, content.StatusDraft, formatTime(now), formatTime(now),
	)
	if err != nil {
		return content.Content{}, fmt.Errorf("insert content: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return content.Content{}, fmt.Errorf("last insert id: %w", err)
	}
	return content.Content{
		ID:          id,
		EpisodeID:   episodeID,
		ContentType: contentType,
		Status:      content.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func scanContent(scanner rowScanner) (content.Content, error) {
	var (
		c           content.Content
		contentType string
		status      string
		approvedAt  sql.NullString
		approvedBy  sql.NullString
		lockedAt    sql.NullString
		lockedBy    sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&c.ID,
		&c.EpisodeID,
		&contentType,
		&c.CurrentVersion,
		&status,
		&approvedAt,
		&approvedBy,
		&lockedAt,
		&lockedBy,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return content.Content{}, err
	}
	c.ContentType = content.Type(contentType)
	c.Status = content.Status(status)
	c.ApprovedAt = timePointer(approvedAt)
	c.ApprovedBy = approvedBy.String
	c.LockedAt = timePointer(lockedAt)
	c.LockedBy = lockedBy.String
	c.CreatedAt = timeValue(createdRaw)
	c.UpdatedAt = timeValue(updatedRaw)
	return c, nil
}

func scanVersion(scanner rowScanner) (content.Version, error) {
	var (
		v          content.Version
		title      sql.NullString
		summary    sql.NullString
		createdRaw sql.NullString
		createdBy  sql.NullString
	)
	if err := scanner.Scan(
		&v.ID,
		&v.ContentID,
		&v.VersionNumber,
		&title,
		&v.Body,
		&v.WordCount,
		&summary,
		&createdRaw,
		&createdBy,
	); err != nil {
		return content.Version{}, err
	}
	v.Title = title.String
	v.ChangeSummary = summary.String
	v.CreatedAt = timeValue(createdRaw)
	v.CreatedBy = createdBy.String
	return v, nil
}
