// Package audit keeps an append-only trail of Mercury operations. Entries
// arrive over the event bus so recording never sits on the request path.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcomes recorded per entry. Must match the audit_event table's CHECK.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Entry is one recorded audit event.
type Entry struct {
	ID        string
	Action    string
	Outcome   string
	Details   string // JSON payload
	CreatedAt time.Time
}

// Service appends to and reads from the audit trail.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Record appends one entry. details may be any JSON-encodable value; nil
// records an empty object.
func (s *Service) Record(ctx context.Context, action, outcome string, details any) error {
	detailsJSON := []byte("{}")
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("audit: encode details: %w", err)
		}
		detailsJSON = encoded
	}

	const q = `INSERT INTO audit_event (id, action, outcome, details, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		uuid.NewString(), action, outcome, string(detailsJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("audit: record %s: %w", action, err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `SELECT id, action, outcome, details, created_at FROM audit_event
		ORDER BY created_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if scanErr := rows.Scan(&e.ID, &e.Action, &e.Outcome, &e.Details, &createdAt); scanErr != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", scanErr)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
