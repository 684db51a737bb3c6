package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"contentops/internal/services"
	"contentops/internal/templates"
)

var templateColumns = []string{"id", "name", "timeline_type", "is_default", "offsets_json", "created_at"}

// CreateTemplate validates and inserts a template. Marking it default clears
// the flag on other templates of the same timeline type.
func (s *Store) CreateTemplate(ctx context.Context, tpl templates.Template) (templates.Template, error) {
	tpl.Normalize()
	if err := tpl.Validate(); err != nil {
		return templates.Template{}, err
	}
	offsets, err := json.Marshal(tpl.Offsets)
	if err != nil {
		return templates.Template{}, fmt.Errorf("encode offsets: %w", err)
	}
	now := s.now()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if tpl.IsDefault {
			if _, err := tx.ExecContext(ctx,
				`UPDATE workflow_templates SET is_default = 0 WHERE timeline_type = ?`,
				tpl.TimelineType,
			); err != nil {
				return fmt.Errorf("clear default template: %w", err)
			}
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO workflow_templates (name, timeline_type, is_default, offsets_json, created_at)
             VALUES (?, ?, ?, ?, ?)`,
			tpl.Name,
			tpl.TimelineType,
			boolToInt(tpl.IsDefault),
			string(offsets),
			formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("insert template: %w", err)
		}
		tpl.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return templates.Template{}, err
	}
	tpl.CreatedAt = now.UTC()
	return tpl, nil
}

// GetTemplate fetches a template by id.
func (s *Store) GetTemplate(ctx context.Context, id int64) (templates.Template, error) {
	query, args, err := builder.Select(templateColumns...).From("workflow_templates").Where("id = ?", id).ToSql()
	if err != nil {
		return templates.Template{}, fmt.Errorf("build template query: %w", err)
	}
	tpl, err := scanTemplate(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return templates.Template{}, services.NotFound("store", "template", id)
	}
	if err != nil {
		return templates.Template{}, fmt.Errorf("get template: %w", err)
	}
	return tpl, nil
}

// ListTemplates returns templates ordered by id, optionally limited to one
// timeline type (empty means all).
func (s *Store) ListTemplates(ctx context.Context, timeline templates.TimelineType) ([]templates.Template, error) {
	stmt := builder.Select(templateColumns...).From("workflow_templates").OrderBy("id")
	if timeline != "" {
		stmt = stmt.Where("timeline_type = ?", timeline)
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build template query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []templates.Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

// SeedTemplates inserts the supplied templates when the table is empty and
// reports how many were written. Re-running is a no-op.
func (s *Store) SeedTemplates(ctx context.Context, list []templates.Template) (int, error) {
	var existing int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM workflow_templates`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}
	for i, tpl := range list {
		if _, err := s.CreateTemplate(ctx, tpl); err != nil {
			return i, fmt.Errorf("seed template %q: %w", tpl.Name, err)
		}
	}
	return len(list), nil
}

func scanTemplate(scanner rowScanner) (templates.Template, error) {
	var (
		tpl        templates.Template
		timeline   string
		isDefault  int
		offsetsRaw string
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&tpl.ID, &tpl.Name, &timeline, &isDefault, &offsetsRaw, &createdRaw); err != nil {
		return templates.Template{}, err
	}
	tpl.TimelineType = templates.TimelineType(timeline)
	tpl.IsDefault = isDefault != 0
	tpl.CreatedAt = timeValue(createdRaw)
	if err := json.Unmarshal([]byte(offsetsRaw), &tpl.Offsets); err != nil {
		return templates.Template{}, fmt.Errorf("decode offsets for template %d: %w", tpl.ID, err)
	}
	return tpl, nil
}
