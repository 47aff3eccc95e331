package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyquest/gamification/internal/model"
)

type syncEvent struct {
	EventID     uuid.UUID  `db:"event_id"`
	DocumentKey string     `db:"document_key"`
	Payload     []byte     `db:"payload"`
	Attempts    int        `db:"attempts"`
	LastError   *string    `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

func (r *Repository) createSyncEventWithTx(ctx context.Context, tx *sqlx.Tx, e *model.SyncEvent) error {
	query, args, err := squirrel.
		Insert("sync_outbox").
		SetMap(map[string]interface{}{
			"event_id":     e.EventID,
			"document_key": e.DocumentKey,
			"payload":      string(e.Payload),
			"attempts":     0,
			"created_at":   e.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sync event insert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert sync event: %w", err)
	}

	return nil
}

func pendingSyncEventsQuery(limit, maxAttempts int) squirrel.SelectBuilder {
	return squirrel.
		Select("event_id", "document_key", "payload", "attempts", "last_error", "created_at", "processed_at").
		From("sync_outbox").
		Where(squirrel.Eq{"processed_at": nil}).
		Where(squirrel.Lt{"attempts": maxAttempts}).
		OrderBy("created_at", "event_id").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
}

// GetPendingSyncEvents returns unprocessed outbox rows that still have
// attempts left, oldest first.
func (r *Repository) GetPendingSyncEvents(ctx context.Context, limit, maxAttempts int) ([]*model.SyncEvent, error) {
	query, args, err := pendingSyncEventsQuery(limit, maxAttempts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending sync events query: %w", err)
	}

	var rows []syncEvent
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending sync events: %w", err)
	}

	events := make([]*model.SyncEvent, len(rows))
	for i, row := range rows {
		events[i] = &model.SyncEvent{
			EventID:     row.EventID,
			DocumentKey: row.DocumentKey,
			Payload:     row.Payload,
			Attempts:    row.Attempts,
			LastError:   row.LastError,
			CreatedAt:   row.CreatedAt,
			ProcessedAt: row.ProcessedAt,
		}
	}

	return events, nil
}

func (r *Repository) MarkSyncEventProcessed(ctx context.Context, eventID uuid.UUID, at time.Time) error {
	query, args, err := squirrel.
		Update("sync_outbox").
		Set("processed_at", at).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", nil).
		Where(squirrel.Eq{"event_id": eventID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sync event update query: %w", err)
	}

	return r.execOne(ctx, query, args...)
}

func (r *Repository) MarkSyncEventFailed(ctx context.Context, eventID uuid.UUID, reason string) error {
	query, args, err := squirrel.
		Update("sync_outbox").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", reason).
		Where(squirrel.Eq{"event_id": eventID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sync event update query: %w", err)
	}

	return r.execOne(ctx, query, args...)
}

func (r *Repository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
