package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contentops/internal/milestone"
	"contentops/internal/schedule"
	"contentops/internal/services"
)

var milestoneColumns = []string{
	"id", "episode_id", "milestone_type", "label", "day_offset", "deadline_date", "deadline_time",
	"status", "is_client_facing", "requires_client_approval", "completed_at", "notes",
	"created_at", "updated_at",
}

// MilestoneFilter narrows milestone listings. DueBefore is an exclusive
// YYYY-MM-DD bound on the deadline date.
type MilestoneFilter struct {
	EpisodeID int64
	Statuses  []milestone.Status
	DueBefore string
}

// CreateMilestones inserts an episode's milestones as one batch. Either every
// row is written or none is. An episode that already has milestones is
// rejected.
func (s *Store) CreateMilestones(ctx context.Context, episodeID int64, list []milestone.Milestone) ([]milestone.Milestone, error) {
	if len(list) == 0 {
		return nil, services.Validation("store", "create milestones", "no milestones to create")
	}
	now := s.now().UTC()
	out := make([]milestone.Milestone, len(list))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getEpisode(ctx, tx, episodeID); err != nil {
			return err
		}
		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM production_milestones WHERE episode_id = ?`, episodeID,
		).Scan(&existing); err != nil {
			return fmt.Errorf("count milestones: %w", err)
		}
		if existing > 0 {
			return services.Validation("store", "create milestones", "episode %d already has %d milestones", episodeID, existing)
		}
		for i, m := range list {
			if m.Status == "" {
				m.Status = milestone.StatusPending
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO production_milestones (
                    episode_id, position, milestone_type, label, day_offset, deadline_date, deadline_time,
                    status, is_client_facing, requires_client_approval, completed_at, notes, created_at, updated_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				episodeID,
				i,
				m.MilestoneType,
				m.Label,
				m.DayOffset,
				schedule.FormatDate(m.DeadlineDate),
				nullableString(m.DeadlineTime),
				m.Status,
				boolToInt(m.IsClientFacing),
				boolToInt(m.RequiresClientApproval),
				nullableTime(m.CompletedAt),
				nullableString(m.Notes),
				formatTime(now),
				formatTime(now),
			)
			if err != nil {
				return fmt.Errorf("insert milestone %s: %w", m.MilestoneType, err)
			}
			if m.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}
			m.EpisodeID = episodeID
			m.DeadlineDate = schedule.Day(m.DeadlineDate)
			m.CreatedAt, m.UpdatedAt = now, now
			out[i] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetMilestone fetches a milestone by id.
func (s *Store) GetMilestone(ctx context.Context, id int64) (milestone.Milestone, error) {
	query, args, err := builder.Select(milestoneColumns...).From("production_milestones").Where("id = ?", id).ToSql()
	if err != nil {
		return milestone.Milestone{}, fmt.Errorf("build milestone query: %w", err)
	}
	m, err := scanMilestone(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return milestone.Milestone{}, services.NotFound("store", "milestone", id)
	}
	if err != nil {
		return milestone.Milestone{}, fmt.Errorf("get milestone: %w", err)
	}
	return m, nil
}

// ListMilestones returns milestones in template order within each episode.
func (s *Store) ListMilestones(ctx context.Context, filter MilestoneFilter) ([]milestone.Milestone, error) {
	return listMilestones(ctx, s.db, filter)
}

func listMilestones(ctx context.Context, q queryer, filter MilestoneFilter) ([]milestone.Milestone, error) {
	stmt := builder.Select(milestoneColumns...).From("production_milestones").OrderBy("episode_id", "position", "id")
	if filter.EpisodeID > 0 {
		stmt = stmt.Where("episode_id = ?", filter.EpisodeID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		stmt = stmt.Where(sqEqStrings("status", statuses))
	}
	if filter.DueBefore != "" {
		stmt = stmt.Where("deadline_date < ?", filter.DueBefore)
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build milestone query: %w", err)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	var out []milestone.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveMilestone writes status, notes, deadline time and completed_at. The
// write only applies while the stored status still equals prior; otherwise
// the caller raced another update and gets ErrInvalidTransition.
func (s *Store) SaveMilestone(ctx context.Context, m milestone.Milestone, prior milestone.Status) (milestone.Milestone, error) {
	now := s.now().UTC()
	res, err := s.execWithRetry(ctx,
		`UPDATE production_milestones
         SET status = ?, notes = ?, deadline_time = ?, completed_at = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		m.Status,
		nullableString(m.Notes),
		nullableString(m.DeadlineTime),
		nullableTime(m.CompletedAt),
		formatTime(now),
		m.ID,
		prior,
	)
	if err != nil {
		return milestone.Milestone{}, fmt.Errorf("update milestone: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return milestone.Milestone{}, err
	}
	if n == 0 {
		current, getErr := s.GetMilestone(ctx, m.ID)
		if getErr != nil {
			return milestone.Milestone{}, getErr
		}
		return milestone.Milestone{}, services.Wrap(
			services.ErrInvalidTransition,
			"store",
			"update milestone",
			fmt.Sprintf("milestone %d changed to %s concurrently", m.ID, current.Status),
			nil,
		)
	}
	m.UpdatedAt = now
	return m, nil
}

// RescheduleEpisode moves an episode's TX date and recomputes the deadlines of
// its open milestones in one transaction. Completed and skipped milestones
// keep their deadline. The applied plan is returned.
func (s *Store) RescheduleEpisode(ctx context.Context, episodeID int64, newTXDate time.Time) (schedule.Episode, schedule.ReschedulePlan, error) {
	var (
		plan schedule.ReschedulePlan
		ep   schedule.Episode
	)
	now := s.now().UTC()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		ep, err = getEpisode(ctx, tx, episodeID)
		if err != nil {
			return err
		}
		list, err := listMilestones(ctx, tx, MilestoneFilter{EpisodeID: episodeID})
		if err != nil {
			return err
		}
		plan = schedule.PlanReschedule(list, newTXDate)
		if _, err := tx.ExecContext(ctx,
			`UPDATE episodes SET tx_date = ?, updated_at = ? WHERE id = ?`,
			schedule.FormatDate(plan.NewTXDate), formatTime(now), episodeID,
		); err != nil {
			return fmt.Errorf("update tx date: %w", err)
		}
		for _, change := range plan.Changes {
			if _, err := tx.ExecContext(ctx,
				`UPDATE production_milestones SET deadline_date = ?, updated_at = ?
                 WHERE id = ? AND status IN (?, ?)`,
				schedule.FormatDate(change.NewDate),
				formatTime(now),
				change.MilestoneID,
				milestone.StatusPending,
				milestone.StatusInProgress,
			); err != nil {
				return fmt.Errorf("move milestone %d: %w", change.MilestoneID, err)
			}
		}
		return nil
	})
	if err != nil {
		return schedule.Episode{}, schedule.ReschedulePlan{}, err
	}
	ep.TXDate = plan.NewTXDate
	ep.UpdatedAt = now
	return ep, plan, nil
}

func scanMilestone(scanner rowScanner) (milestone.Milestone, error) {
	var (
		m              milestone.Milestone
		deadline       string
		deadlineTime   sql.NullString
		status         string
		clientFacing   int
		clientApproval int
		completedRaw   sql.NullString
		notes          sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)
	if err := scanner.Scan(
		&m.ID,
		&m.EpisodeID,
		&m.MilestoneType,
		&m.Label,
		&m.DayOffset,
		&deadline,
		&deadlineTime,
		&status,
		&clientFacing,
		&clientApproval,
		&completedRaw,
		&notes,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return milestone.Milestone{}, err
	}
	date, err := dateValue(deadline)
	if err != nil {
		return milestone.Milestone{}, err
	}
	m.DeadlineDate = date
	m.DeadlineTime = deadlineTime.String
	m.Status = milestone.Status(status)
	m.IsClientFacing = clientFacing != 0
	m.RequiresClientApproval = clientApproval != 0
	m.CompletedAt = timePointer(completedRaw)
	m.Notes = notes.String
	m.CreatedAt = timeValue(createdRaw)
	m.UpdatedAt = timeValue(updatedRaw)
	return m, nil
}
