package postgres

import (
	"context"
	"database/sql"
	"time"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository"
)

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *domain.ActivityEntry) error {
	query := `INSERT INTO activity_log (type, message, actor_id, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, entry.Type, entry.Message, entry.ActorID, time.Now()).Scan(&entry.ID)
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int32) ([]domain.ActivityEntry, error) {
	query := `SELECT id, type, message, actor_id, created_on FROM activity_log ORDER BY created_on DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Message, &e.ActorID, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
