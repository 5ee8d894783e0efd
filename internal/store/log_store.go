package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"licensedesk/internal/models"
)

type LogStore interface {
	CreateAdminLog(ctx context.Context, entry *models.AdminLog) error
	ListAdminLogs(ctx context.Context, limit int) ([]models.AdminLog, error)
}

type PostgresLogStore struct {
	DB *pgxpool.Pool
}

func NewPostgresLogStore(db *pgxpool.Pool) *PostgresLogStore {
	return &PostgresLogStore{DB: db}
}

func (s *PostgresLogStore) CreateAdminLog(ctx context.Context, entry *models.AdminLog) error {
	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}

	query := `
		INSERT INTO admin_logs (action, entity_type, actor, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.DB.QueryRow(ctx, query,
		entry.Action,
		entry.EntityType,
		entry.Actor,
		detailsJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (s *PostgresLogStore) ListAdminLogs(ctx context.Context, limit int) ([]models.AdminLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := s.DB.Query(ctx, `
		SELECT id, action, entity_type, actor, details, created_at
		FROM admin_logs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AdminLog
	for rows.Next() {
		var entry models.AdminLog
		var detailsJSON []byte
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.EntityType, &entry.Actor, &detailsJSON, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin log: %w", err)
		}
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal details: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin logs: %w", err)
	}
	return logs, nil
}
