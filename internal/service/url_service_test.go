package service_test

import (
	"context"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"urlshortener/internal/models"
	"urlshortener/internal/repository"
	"urlshortener/internal/service"
	"urlshortener/internal/service/mocks"
	"urlshortener/internal/shortcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// setupTestService создаёт тестовое окружение с моковыми репозиториями
func setupTestService() (service.URLService, *mocks.MockMappingRepository, *mocks.MockClickRepository, *mocks.MockCacheRepository) {
	mappingRepo := mocks.NewMockMappingRepository()
	clickRepo := mocks.NewMockClickRepository()
	cacheRepo := mocks.NewMockCacheRepository()
	generator := shortcode.New(rand.NewPCG(1, 2))
	urlService := service.NewURLService(mappingRepo, clickRepo, cacheRepo, generator, zap.NewNop())
	return urlService, mappingRepo, clickRepo, cacheRepo
}

func testUser() *models.User {
	return &models.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
	}
}

// TestURLService_CreateShortURL проверяет создание короткой ссылки
func TestURLService_CreateShortURL(t *testing.T) {
	urlService, _, _, _ := setupTestService()

	ctx := context.Background()
	dto, err := urlService.CreateShortURL(ctx, "https://example.com", testUser())

	require.NoError(t, err)
	assert.Equal(t, "https://example.com", dto.OriginalURL)
	assert.Regexp(t, codePattern, dto.ShortURL)
	assert.Equal(t, int64(0), dto.ClickCount)
	assert.Equal(t, "alice", dto.UserName)
	assert.False(t, dto.CreatedDate.IsZero())
	assert.NotZero(t, dto.ID)
}

// TestURLService_CreateShortURL_Deterministic проверяет, что внедрённый
// seed даёт воспроизводимые коды
func TestURLService_CreateShortURL_Deterministic(t *testing.T) {
	first, _, _, _ := setupTestService()
	second, _, _, _ := setupTestService()

	ctx := context.Background()
	a, err := first.CreateShortURL(ctx, "https://example.com", testUser())
	require.NoError(t, err)
	b, err := second.CreateShortURL(ctx, "https://example.com", testUser())
	require.NoError(t, err)

	assert.Equal(t, a.ShortURL, b.ShortURL)
}

// TestURLService_GetURLsByUser проверяет выборку ссылок пользователя
// и идемпотентность повторного чтения
func TestURLService_GetURLsByUser(t *testing.T) {
	urlService, _, _, _ := setupTestService()
	user := testUser()

	ctx := context.Background()
	_, err := urlService.CreateShortURL(ctx, "https://example.com/a", user)
	require.NoError(t, err)
	_, err = urlService.CreateShortURL(ctx, "https://example.com/b", user)
	require.NoError(t, err)

	dtos, err := urlService.GetURLsByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "https://example.com/a", dtos[0].OriginalURL)
	assert.Equal(t, "https://example.com/b", dtos[1].OriginalURL)

	// Повторное чтение без записей возвращает тот же набор
	again, err := urlService.GetURLsByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, dtos, again)
}

// TestURLService_GetURLsByUser_Empty проверяет, что пустой результат — не ошибка
func TestURLService_GetURLsByUser_Empty(t *testing.T) {
	urlService, _, _, _ := setupTestService()

	dtos, err := urlService.GetURLsByUser(context.Background(), testUser())
	require.NoError(t, err)
	assert.Empty(t, dtos)
}

// TestURLService_GetOriginalURL_CountsClicks проверяет инвариант счётчика:
// после N последовательных разрешений click_count == N и записано ровно
// N событий клика
func TestURLService_GetOriginalURL_CountsClicks(t *testing.T) {
	urlService, _, clickRepo, _ := setupTestService()
	user := testUser()

	ctx := context.Background()
	dto, err := urlService.CreateShortURL(ctx, "https://example.com", user)
	require.NoError(t, err)

	const n = 3
	for i := 1; i <= n; i++ {
		mapping, err := urlService.GetOriginalURL(ctx, dto.ShortURL)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", mapping.OriginalURL)
		assert.Equal(t, int64(i), mapping.ClickCount)
	}

	assert.Equal(t, n, clickRepo.CountByMapping(dto.ID))
}

// TestURLService_GetOriginalURL_CacheHit проверяет, что разрешение через
// кэш тоже увеличивает счётчик и пишет событие
func TestURLService_GetOriginalURL_CacheHit(t *testing.T) {
	urlService, _, clickRepo, cacheRepo := setupTestService()
	user := testUser()

	ctx := context.Background()
	dto, err := urlService.CreateShortURL(ctx, "https://example.com", user)
	require.NoError(t, err)

	// Первое разрешение заполняет кэш
	_, err = urlService.GetOriginalURL(ctx, dto.ShortURL)
	require.NoError(t, err)
	_, err = cacheRepo.Get(ctx, dto.ShortURL)
	require.NoError(t, err)

	// Второе разрешение идёт через кэш
	mapping, err := urlService.GetOriginalURL(ctx, dto.ShortURL)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mapping.ClickCount)
	assert.Equal(t, 2, clickRepo.CountByMapping(dto.ID))
}

// TestURLService_GetOriginalURL_NotFound проверяет распространение "не найдено"
func TestURLService_GetOriginalURL_NotFound(t *testing.T) {
	urlService, _, _, _ := setupTestService()

	mapping, err := urlService.GetOriginalURL(context.Background(), "doesnotexist")

	assert.ErrorIs(t, err, repository.ErrMappingNotFound)
	assert.Nil(t, mapping)
}

// TestURLService_GetClickEventsByDate_GroupsSameDay проверяет, что три
// события одного календарного дня дают одну запись с количеством 3
func TestURLService_GetClickEventsByDate_GroupsSameDay(t *testing.T) {
	urlService, mappingRepo, clickRepo, _ := setupTestService()

	ctx := context.Background()
	mapping := &models.URLMapping{
		OriginalURL: "https://example.com",
		ShortURL:    "AbCdEf12",
		UserID:      1,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, mappingRepo.Save(ctx, mapping))

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, hour := range []int{3, 12, 22} {
		event := &models.ClickEvent{
			MappingID: mapping.ID,
			ClickDate: day.Add(time.Duration(hour) * time.Hour),
		}
		require.NoError(t, clickRepo.Save(ctx, event))
	}

	dtos, err := urlService.GetClickEventsByDate(ctx, "AbCdEf12", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "2024-01-15", dtos[0].ClickDate)
	assert.Equal(t, int64(3), dtos[0].Count)
}

// TestURLService_GetClickEventsByDate_SortedByDate проверяет сортировку
// агрегатов по дате и пропуск дней без событий
func TestURLService_GetClickEventsByDate_SortedByDate(t *testing.T) {
	urlService, mappingRepo, clickRepo, _ := setupTestService()

	ctx := context.Background()
	mapping := &models.URLMapping{
		OriginalURL: "https://example.com",
		ShortURL:    "AbCdEf12",
		UserID:      1,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, mappingRepo.Save(ctx, mapping))

	// События 3-го и 1-го января, 2-е пропущено
	for _, d := range []int{3, 1} {
		event := &models.ClickEvent{
			MappingID: mapping.ID,
			ClickDate: time.Date(2024, 1, d, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, clickRepo.Save(ctx, event))
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	dtos, err := urlService.GetClickEventsByDate(ctx, "AbCdEf12", start, end)
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "2024-01-01", dtos[0].ClickDate)
	assert.Equal(t, "2024-01-03", dtos[1].ClickDate)
}

// TestURLService_GetClickEventsByDate_NotFound проверяет "не найдено"
// для неизвестного кода
func TestURLService_GetClickEventsByDate_NotFound(t *testing.T) {
	urlService, _, _, _ := setupTestService()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	dtos, err := urlService.GetClickEventsByDate(context.Background(), "doesnotexist", start, end)

	assert.ErrorIs(t, err, repository.ErrMappingNotFound)
	assert.Nil(t, dtos)
}

// TestURLService_GetTotalClicksByUserAndDate проверяет окно дат: события
// 1, 2 и 3 января, запрос за [1, 2] января — 3-е число опущено
func TestURLService_GetTotalClicksByUserAndDate(t *testing.T) {
	urlService, mappingRepo, clickRepo, _ := setupTestService()
	user := testUser()

	ctx := context.Background()
	mapping := &models.URLMapping{
		OriginalURL: "https://example.com",
		ShortURL:    "AbCdEf12",
		UserID:      user.ID,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, mappingRepo.Save(ctx, mapping))

	for _, d := range []int{1, 2, 3} {
		event := &models.ClickEvent{
			MappingID: mapping.ID,
			ClickDate: time.Date(2024, 1, d, 15, 30, 0, 0, time.UTC),
		}
		require.NoError(t, clickRepo.Save(ctx, event))
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	totals, err := urlService.GetTotalClicksByUserAndDate(ctx, user, start, end)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{
		"2024-01-01": 1,
		"2024-01-02": 1,
	}, totals)
}

// TestURLService_GetTotalClicksByUserAndDate_NoMappings проверяет пустой
// результат для пользователя без ссылок
func TestURLService_GetTotalClicksByUserAndDate_NoMappings(t *testing.T) {
	urlService, _, _, _ := setupTestService()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	totals, err := urlService.GetTotalClicksByUserAndDate(context.Background(), testUser(), start, end)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

// TestURLService_Scenario: создать ссылку для alice, разрешить её дважды,
// getUrlsByUser показывает clickCount == 2
func TestURLService_Scenario(t *testing.T) {
	urlService, _, _, _ := setupTestService()
	user := testUser()

	ctx := context.Background()
	dto, err := urlService.CreateShortURL(ctx, "https://example.com", user)
	require.NoError(t, err)

	_, err = urlService.GetOriginalURL(ctx, dto.ShortURL)
	require.NoError(t, err)
	_, err = urlService.GetOriginalURL(ctx, dto.ShortURL)
	require.NoError(t, err)

	dtos, err := urlService.GetURLsByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, int64(2), dtos[0].ClickCount)
}
