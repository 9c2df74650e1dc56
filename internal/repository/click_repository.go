package repository

import (
	"context"
	"fmt"
	"time"

	"urlshortener/internal/models"

	"github.com/jackc/pgx/v5"
)

// ClickRepository — хранилище событий кликов.
type ClickRepository interface {
	Save(ctx context.Context, event *models.ClickEvent) error
	// FindByMappingAndDateRange возвращает события в закрытом интервале [start, end].
	FindByMappingAndDateRange(ctx context.Context, mappingID int64, start, end time.Time) ([]models.ClickEvent, error)
	// FindByMappingsAndDateRange возвращает события в полуоткрытом интервале [start, end).
	FindByMappingsAndDateRange(ctx context.Context, mappingIDs []int64, start, end time.Time) ([]models.ClickEvent, error)
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Save(ctx context.Context, event *models.ClickEvent) error {
	query := `
		INSERT INTO click_events (url_mapping_id, click_date)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query, event.MappingID, event.ClickDate).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to save click event: %w", err)
	}

	return nil
}

func (r *clickRepository) FindByMappingAndDateRange(ctx context.Context, mappingID int64, start, end time.Time) ([]models.ClickEvent, error) {
	query := `
		SELECT id, url_mapping_id, click_date
		FROM click_events
		WHERE url_mapping_id = $1 AND click_date BETWEEN $2 AND $3
		ORDER BY click_date
	`

	rows, err := r.db.Pool.Query(ctx, query, mappingID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get click events: %w", err)
	}
	defer rows.Close()

	return scanClickEvents(rows)
}

func (r *clickRepository) FindByMappingsAndDateRange(ctx context.Context, mappingIDs []int64, start, end time.Time) ([]models.ClickEvent, error) {
	query := `
		SELECT id, url_mapping_id, click_date
		FROM click_events
		WHERE url_mapping_id = ANY($1) AND click_date >= $2 AND click_date < $3
		ORDER BY click_date
	`

	rows, err := r.db.Pool.Query(ctx, query, mappingIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get click events: %w", err)
	}
	defer rows.Close()

	return scanClickEvents(rows)
}

func scanClickEvents(rows pgx.Rows) ([]models.ClickEvent, error) {
	var events []models.ClickEvent
	for rows.Next() {
		var e models.ClickEvent
		if err := rows.Scan(&e.ID, &e.MappingID, &e.ClickDate); err != nil {
			return nil, fmt.Errorf("failed to scan click event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click events: %w", err)
	}

	return events, nil
}
