package mysql

import (
	"context"
	"database/sql"

	"github.com/Moowses/stay-engine/internal/domain"
)

// Repo is the upstream telemetry sink. The engine persists no quotes and no
// availability; the only thing worth keeping is the audit trail of upstream
// misses and empty outcomes, so operators can tell a broken PMS from a sold
// out property.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the events table when it is missing. Called at startup
// instead of a migration step because this is the sink's single table.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createUpstreamEventsSQL)
	return err
}

func (r *Repo) RecordUpstreamEvent(ctx context.Context, ev domain.UpstreamEvent) error {
	_, err := r.db.ExecContext(ctx, insertUpstreamEventSQL,
		ev.PropertyID,
		nullStr(ev.RoomTypeID),
		ev.Status,
		ev.Reason,
	)
	return err
}

// RecentEvents returns up to limit most recent audit rows, newest first.
func (r *Repo) RecentEvents(ctx context.Context, propertyID string, limit int) ([]domain.UpstreamEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, selectRecentEventsSQL, propertyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UpstreamEvent
	for rows.Next() {
		var ev domain.UpstreamEvent
		var roomType sql.NullString
		if err := rows.Scan(&ev.PropertyID, &roomType, &ev.Status, &ev.Reason); err != nil {
			return nil, err
		}
		ev.RoomTypeID = roomType.String
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
