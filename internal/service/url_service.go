package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"urlshortener/internal/models"
	"urlshortener/internal/repository"
	"urlshortener/internal/shortcode"

	"go.uber.org/zap"
)

// TTL кэша разрешения коротких кодов
const mappingCacheTTL = 24 * time.Hour

// URLService — основной сервис коротких ссылок.
type URLService interface {
	CreateShortURL(ctx context.Context, originalURL string, user *models.User) (*models.URLMappingDTO, error)
	GetURLsByUser(ctx context.Context, user *models.User) ([]models.URLMappingDTO, error)
	GetOriginalURL(ctx context.Context, shortURL string) (*models.URLMapping, error)
	GetClickEventsByDate(ctx context.Context, shortURL string, start, end time.Time) ([]models.ClickEventDTO, error)
	GetTotalClicksByUserAndDate(ctx context.Context, user *models.User, start, end time.Time) (map[string]int64, error)
}

type urlService struct {
	mappingRepo repository.MappingRepository
	clickRepo   repository.ClickRepository
	cacheRepo   repository.CacheRepository
	generator   *shortcode.Generator
	logger      *zap.Logger
}

func NewURLService(
	mappingRepo repository.MappingRepository,
	clickRepo repository.ClickRepository,
	cacheRepo repository.CacheRepository,
	generator *shortcode.Generator,
	logger *zap.Logger,
) URLService {
	return &urlService{
		mappingRepo: mappingRepo,
		clickRepo:   clickRepo,
		cacheRepo:   cacheRepo,
		generator:   generator,
		logger:      logger,
	}
}

// CreateShortURL создаёт маппинг с нулевым счётчиком кликов.
// URL не валидируется и сохраняется как есть.
func (s *urlService) CreateShortURL(ctx context.Context, originalURL string, user *models.User) (*models.URLMappingDTO, error) {
	mapping := &models.URLMapping{
		OriginalURL: originalURL,
		ShortURL:    s.generator.Generate(),
		UserID:      user.ID,
		CreatedAt:   time.Now(),
	}

	if err := s.mappingRepo.Save(ctx, mapping); err != nil {
		return nil, err
	}

	dto := convertToDTO(mapping, user.Username)
	return &dto, nil
}

// GetURLsByUser возвращает все маппинги пользователя в порядке хранилища.
func (s *urlService) GetURLsByUser(ctx context.Context, user *models.User) ([]models.URLMappingDTO, error) {
	mappings, err := s.mappingRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	dtos := make([]models.URLMappingDTO, 0, len(mappings))
	for i := range mappings {
		dtos = append(dtos, convertToDTO(&mappings[i], user.Username))
	}

	return dtos, nil
}

// GetOriginalURL разрешает короткий код: увеличивает счётчик кликов и
// записывает событие клика. Инкремент выполняется атомарно на стороне БД,
// поэтому параллельные разрешения одного кода не теряют кликов; инкремент
// и вставка события остаются двумя отдельными запросами, как в исходной
// схеме. Неизвестный код — repository.ErrMappingNotFound.
func (s *urlService) GetOriginalURL(ctx context.Context, shortURL string) (*models.URLMapping, error) {
	if cached, err := s.cacheRepo.Get(ctx, shortURL); err == nil {
		count, err := s.mappingRepo.IncrementClickCountByID(ctx, cached.ID)
		if err == nil {
			cached.ClickCount = count
			if err := s.recordClick(ctx, cached.ID); err != nil {
				return nil, err
			}
			return cached, nil
		}
		if !errors.Is(err, repository.ErrMappingNotFound) {
			return nil, err
		}
		// строка исчезла из БД, кэш устарел
		if err := s.cacheRepo.Delete(ctx, shortURL); err != nil {
			s.logger.Warn("Не удалось инвалидировать кэш маппинга",
				zap.String("short_url", shortURL),
				zap.Error(err),
			)
		}
	}

	mapping, err := s.mappingRepo.IncrementClickCount(ctx, shortURL)
	if err != nil {
		return nil, err
	}

	if err := s.recordClick(ctx, mapping.ID); err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, shortURL, mapping, mappingCacheTTL); err != nil {
		s.logger.Warn("Не удалось закэшировать маппинг",
			zap.String("short_url", shortURL),
			zap.Error(err),
		)
	}

	return mapping, nil
}

func (s *urlService) recordClick(ctx context.Context, mappingID int64) error {
	event := &models.ClickEvent{
		MappingID: mappingID,
		ClickDate: time.Now(),
	}

	if err := s.clickRepo.Save(ctx, event); err != nil {
		return fmt.Errorf("failed to record click event: %w", err)
	}
	return nil
}

// GetClickEventsByDate агрегирует клики по календарным дням в закрытом
// интервале [start, end]. Дни без событий опускаются, результат
// отсортирован по дате.
func (s *urlService) GetClickEventsByDate(ctx context.Context, shortURL string, start, end time.Time) ([]models.ClickEventDTO, error) {
	mapping, err := s.mappingRepo.FindByShortURL(ctx, shortURL)
	if err != nil {
		return nil, err
	}

	events, err := s.clickRepo.FindByMappingAndDateRange(ctx, mapping.ID, start, end)
	if err != nil {
		return nil, err
	}

	counts := groupByDay(events)

	dtos := make([]models.ClickEventDTO, 0, len(counts))
	for day, n := range counts {
		dtos = append(dtos, models.ClickEventDTO{ClickDate: day, Count: n})
	}
	sort.Slice(dtos, func(i, j int) bool {
		return dtos[i].ClickDate < dtos[j].ClickDate
	})

	return dtos, nil
}

// GetTotalClicksByUserAndDate считает клики по всем маппингам пользователя
// за дни [start, end] включительно (окно [начало start, начало end+1 день)).
// Если у пользователя нет маппингов, результат пуст.
func (s *urlService) GetTotalClicksByUserAndDate(ctx context.Context, user *models.User, start, end time.Time) (map[string]int64, error) {
	mappings, err := s.mappingRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return map[string]int64{}, nil
	}

	ids := make([]int64, len(mappings))
	for i := range mappings {
		ids[i] = mappings[i].ID
	}

	from := startOfDay(start)
	to := startOfDay(end).AddDate(0, 0, 1)

	events, err := s.clickRepo.FindByMappingsAndDateRange(ctx, ids, from, to)
	if err != nil {
		return nil, err
	}

	return groupByDay(events), nil
}

// groupByDay считает события по календарным дням (UTC).
func groupByDay(events []models.ClickEvent) map[string]int64 {
	counts := make(map[string]int64, len(events))
	for _, e := range events {
		counts[e.ClickDate.UTC().Format(time.DateOnly)]++
	}
	return counts
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func convertToDTO(mapping *models.URLMapping, userName string) models.URLMappingDTO {
	return models.URLMappingDTO{
		ID:          mapping.ID,
		OriginalURL: mapping.OriginalURL,
		ShortURL:    mapping.ShortURL,
		ClickCount:  mapping.ClickCount,
		CreatedDate: mapping.CreatedAt,
		UserName:    userName,
	}
}
