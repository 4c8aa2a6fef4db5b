package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-stack/grievance-service/internal/domain"
)

// ActivityLogRepository appends audit entries through the log_activity
// database function and reads them back for the admin viewer.
type ActivityLogRepository interface {
	Log(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository builds repository.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

// Log invokes the log_activity RPC. The function derives ticket_id and
// description from the resource type and details payload.
func (r *activityLogRepository) Log(ctx context.Context, entry *domain.ActivityLog) error {
	details := entry.Metadata
	if details == nil {
		details = map[string]any{}
	}
	if entry.Description != "" {
		details["description"] = entry.Description
	}
	const query = `SELECT log_activity($1, $2, $3, $4, $5)`
	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		details,
	).Scan(&entry.ID)
}

// List returns entries in created_at descending order for display.
func (r *activityLogRepository) List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, action, description, user_id, ticket_id, entity_type, entity_id, metadata, created_at
        FROM activity_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityLog
	for rows.Next() {
		var entry domain.ActivityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.Description,
			&entry.UserID,
			&entry.TicketID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
