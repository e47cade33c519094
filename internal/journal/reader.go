package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Tail returns up to n newest entries, optionally scoped to one business.
func (j *Journal) Tail(ctx context.Context, n int, businessID string) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	query := `SELECT id,ts,type,COALESCE(business_id,''),entity_kind,COALESCE(entity_id,''),payload_json FROM entries`
	var args []any
	if businessID != "" {
		query += ` WHERE business_id=?`
		args = append(args, businessID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, n)
	rows, err := j.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e       Entry
		ts      string
		payload string
	)
	if err := rows.Scan(&e.ID, &ts, &e.Type, &e.BusinessID, &e.EntityKind, &e.EntityID, &payload); err != nil {
		return e, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return e, fmt.Errorf("entry %d timestamp: %w", e.ID, err)
	}
	e.TS = parsed
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return e, fmt.Errorf("entry %d payload: %w", e.ID, err)
		}
	}
	return e, nil
}
