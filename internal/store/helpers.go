package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"contentops/internal/schedule"
)

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func timeValue(raw sql.NullString) time.Time {
	if !raw.Valid {
		return time.Time{}
	}
	t, err := parseTimeString(raw.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func timePointer(raw sql.NullString) *time.Time {
	if !raw.Valid {
		return nil
	}
	t, err := parseTimeString(raw.String)
	if err != nil {
		return nil
	}
	return &t
}

func int64Pointer(raw sql.NullInt64) *int64 {
	if !raw.Valid {
		return nil
	}
	v := raw.Int64
	return &v
}

func dateValue(raw string) (time.Time, error) {
	t, err := time.Parse(schedule.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored date %q: %w", raw, err)
	}
	return t, nil
}

func encodeList[T any](values []T) (string, error) {
	if values == nil {
		values = []T{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func decodeList[T any](raw sql.NullString) ([]T, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// sqEqStrings renders column IN (...) for a non-empty value list.
func sqEqStrings(column string, values []string) sq.Eq {
	return sq.Eq{column: values}
}
