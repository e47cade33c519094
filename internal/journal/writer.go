package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Payload map[string]any

// Entry is one recorded mutation.
type Entry struct {
	ID         int64     `json:"id"`
	TS         time.Time `json:"ts"`
	Type       string    `json:"type"`
	BusinessID string    `json:"businessId,omitempty"`
	EntityKind string    `json:"entityKind"`
	EntityID   string    `json:"entityId,omitempty"`
	Payload    Payload   `json:"payload,omitempty"`
}

type Writer struct {
	DB *sql.DB
}

// Append writes all entries in one transaction.
func (w Writer) Append(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, e := range entries {
		payload := e.Payload
		if payload == nil {
			payload = Payload{}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal entry payload: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO entries(ts,type,business_id,entity_kind,entity_id,payload_json) VALUES (?,?,?,?,?,?)`,
			e.TS.UTC().Format(time.RFC3339Nano), e.Type, nullable(e.BusinessID), e.EntityKind, nullable(e.EntityID), string(data)); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.Type, err)
		}
	}
	return tx.Commit()
}

// Record satisfies the engine recorder contract.
func (j *Journal) Record(ctx context.Context, entries []Entry) error {
	return j.Writer.Append(ctx, entries)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
