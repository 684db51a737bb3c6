package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"contentops/internal/clustering"
	"contentops/internal/services"
)

var proposalColumns = []string{
	"id", "project_id", "title", "hook", "audience_care_statement", "talking_points_json",
	"research_citations_json", "source_story_ids_json", "cluster_theme", "status",
	"linked_episode_id", "created_at",
}

// CreateProposals inserts proposals in one transaction and returns them with
// ids assigned.
func (s *Store) CreateProposals(ctx context.Context, proposals []clustering.Proposal) ([]clustering.Proposal, error) {
	now := s.now().UTC()
	out := make([]clustering.Proposal, len(proposals))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i, p := range proposals {
			if p.ProjectID <= 0 || p.Title == "" {
				return services.Validation("store", "create proposal", "proposal %d needs a project and a title", i+1)
			}
			if p.Status == "" {
				p.Status = clustering.ProposalDraft
			}
			points, err := encodeList(p.TalkingPoints)
			if err != nil {
				return err
			}
			citations, err := encodeList(p.ResearchCitations)
			if err != nil {
				return err
			}
			sources, err := encodeList(p.SourceStoryIDs)
			if err != nil {
				return err
			}
			query, args, err := builder.Insert("topic_proposals").
				Columns("project_id", "title", "hook", "audience_care_statement", "talking_points_json",
					"research_citations_json", "source_story_ids_json", "cluster_theme", "status",
					"linked_episode_id", "created_at", "updated_at").
				Values(p.ProjectID, p.Title, nullableString(p.Hook), nullableString(p.AudienceCareStatement), points,
					citations, sources, nullableString(p.ClusterTheme), string(p.Status),
					nullableInt64(p.LinkedEpisodeID), formatTime(now), formatTime(now)).
				ToSql()
			if err != nil {
				return fmt.Errorf("build proposal insert: %w", err)
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("insert proposal: %w", err)
			}
			if p.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}
			p.CreatedAt = now
			out[i] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListProposals returns proposals matching the filter, oldest first.
func (s *Store) ListProposals(ctx context.Context, filter clustering.ProposalFilter) ([]clustering.Proposal, error) {
	stmt := builder.Select(proposalColumns...).From("topic_proposals").OrderBy("id")
	if filter.ProjectID > 0 {
		stmt = stmt.Where(sq.Eq{"project_id": filter.ProjectID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		stmt = stmt.Where(sqEqStrings("status", statuses))
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(uint64(filter.Limit))
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build proposal query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var out []clustering.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProposal fetches a proposal by id.
func (s *Store) GetProposal(ctx context.Context, id int64) (clustering.Proposal, error) {
	query, args, err := builder.Select(proposalColumns...).From("topic_proposals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return clustering.Proposal{}, fmt.Errorf("build proposal query: %w", err)
	}
	p, err := scanProposal(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return clustering.Proposal{}, services.NotFound("store", "topic proposal", id)
	}
	if err != nil {
		return clustering.Proposal{}, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

// UpdateProposal sets a proposal's status and, when episodeID is non-nil,
// links it to the scheduled episode.
func (s *Store) UpdateProposal(ctx context.Context, id int64, status clustering.ProposalStatus, episodeID *int64) (clustering.Proposal, error) {
	stmt := builder.Update("topic_proposals").
		Set("status", string(status)).
		Set("updated_at", s.timestamp()).
		Where(sq.Eq{"id": id})
	if episodeID != nil {
		stmt = stmt.Set("linked_episode_id", *episodeID)
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return clustering.Proposal{}, fmt.Errorf("build proposal update: %w", err)
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return clustering.Proposal{}, fmt.Errorf("update proposal: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return clustering.Proposal{}, err
	}
	if n == 0 {
		return clustering.Proposal{}, services.NotFound("store", "topic proposal", id)
	}
	return s.GetProposal(ctx, id)
}

func scanProposal(scanner rowScanner) (clustering.Proposal, error) {
	var (
		p            clustering.Proposal
		hook         sql.NullString
		care         sql.NullString
		pointsRaw    sql.NullString
		citationsRaw sql.NullString
		sourcesRaw   sql.NullString
		theme        sql.NullString
		status       string
		linked       sql.NullInt64
		createdRaw   sql.NullString
	)
	if err := scanner.Scan(
		&p.ID,
		&p.ProjectID,
		&p.Title,
		&hook,
		&care,
		&pointsRaw,
		&citationsRaw,
		&sourcesRaw,
		&theme,
		&status,
		&linked,
		&createdRaw,
	); err != nil {
		return clustering.Proposal{}, err
	}
	var err error
	if p.TalkingPoints, err = decodeList[string](pointsRaw); err != nil {
		return clustering.Proposal{}, err
	}
	if p.ResearchCitations, err = decodeList[string](citationsRaw); err != nil {
		return clustering.Proposal{}, err
	}
	if p.SourceStoryIDs, err = decodeList[int64](sourcesRaw); err != nil {
		return clustering.Proposal{}, err
	}
	p.Hook = hook.String
	p.AudienceCareStatement = care.String
	p.ClusterTheme = theme.String
	p.Status = clustering.ProposalStatus(status)
	p.LinkedEpisodeID = int64Pointer(linked)
	p.CreatedAt = timeValue(createdRaw)
	return p, nil
}
