package repository

import (
	"context"
	"errors"
	"fmt"

	"urlshortener/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrMappingNotFound = errors.New("маппинг не найден")

// MappingRepository — хранилище связей короткий код -> оригинальный URL.
type MappingRepository interface {
	Save(ctx context.Context, mapping *models.URLMapping) error
	FindByShortURL(ctx context.Context, shortURL string) (*models.URLMapping, error)
	FindByUser(ctx context.Context, userID int64) ([]models.URLMapping, error)
	IncrementClickCount(ctx context.Context, shortURL string) (*models.URLMapping, error)
	IncrementClickCountByID(ctx context.Context, id int64) (int64, error)
}

type mappingRepository struct {
	db *PostgresDB
}

func NewMappingRepository(db *PostgresDB) MappingRepository {
	return &mappingRepository{db: db}
}

func (r *mappingRepository) Save(ctx context.Context, mapping *models.URLMapping) error {
	query := `
		INSERT INTO url_mappings (short_url, original_url, click_count, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(
		ctx,
		query,
		mapping.ShortURL,
		mapping.OriginalURL,
		mapping.ClickCount,
		mapping.UserID,
		mapping.CreatedAt,
	).Scan(&mapping.ID)

	if err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}

	return nil
}

// FindByShortURL возвращает маппинг по короткому коду. Уникальность кодов
// не гарантируется схемой, при дублях берётся строка с минимальным id.
func (r *mappingRepository) FindByShortURL(ctx context.Context, shortURL string) (*models.URLMapping, error) {
	query := `
		SELECT id, short_url, original_url, click_count, user_id, created_at
		FROM url_mappings
		WHERE short_url = $1
		ORDER BY id
		LIMIT 1
	`

	mapping := &models.URLMapping{}
	err := r.db.Pool.QueryRow(ctx, query, shortURL).Scan(
		&mapping.ID,
		&mapping.ShortURL,
		&mapping.OriginalURL,
		&mapping.ClickCount,
		&mapping.UserID,
		&mapping.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMappingNotFound
		}
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	return mapping, nil
}

func (r *mappingRepository) FindByUser(ctx context.Context, userID int64) ([]models.URLMapping, error) {
	query := `
		SELECT id, short_url, original_url, click_count, user_id, created_at
		FROM url_mappings
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []models.URLMapping
	for rows.Next() {
		var m models.URLMapping
		if err := rows.Scan(&m.ID, &m.ShortURL, &m.OriginalURL, &m.ClickCount, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mappings: %w", err)
	}

	return mappings, nil
}

// IncrementClickCount атомарно увеличивает счётчик кликов на стороне БД
// и возвращает обновлённую строку.
func (r *mappingRepository) IncrementClickCount(ctx context.Context, shortURL string) (*models.URLMapping, error) {
	query := `
		UPDATE url_mappings
		SET click_count = click_count + 1
		WHERE id = (
			SELECT id FROM url_mappings WHERE short_url = $1 ORDER BY id LIMIT 1
		)
		RETURNING id, short_url, original_url, click_count, user_id, created_at
	`

	mapping := &models.URLMapping{}
	err := r.db.Pool.QueryRow(ctx, query, shortURL).Scan(
		&mapping.ID,
		&mapping.ShortURL,
		&mapping.OriginalURL,
		&mapping.ClickCount,
		&mapping.UserID,
		&mapping.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMappingNotFound
		}
		return nil, fmt.Errorf("failed to increment click count: %w", err)
	}

	return mapping, nil
}

func (r *mappingRepository) IncrementClickCountByID(ctx context.Context, id int64) (int64, error) {
	query := `
		UPDATE url_mappings
		SET click_count = click_count + 1
		WHERE id = $1
		RETURNING click_count
	`

	var count int64
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrMappingNotFound
		}
		return 0, fmt.Errorf("failed to increment click count: %w", err)
	}

	return count, nil
}
