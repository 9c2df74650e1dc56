package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"urlshortener/internal/models"
	"urlshortener/internal/repository"
)

// MockMappingRepository implements repository.MappingRepository for testing
type MockMappingRepository struct {
	mu       sync.RWMutex
	mappings map[int64]*models.URLMapping
	nextID   int64
}

func NewMockMappingRepository() *MockMappingRepository {
	return &MockMappingRepository{
		mappings: make(map[int64]*models.URLMapping),
		nextID:   1,
	}
}

func (m *MockMappingRepository) Save(ctx context.Context, mapping *models.URLMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mapping.ID = m.nextID
	m.nextID++

	stored := *mapping
	m.mappings[stored.ID] = &stored
	return nil
}

// findByShortURL ищет строку с минимальным id, как и SQL-реализация
func (m *MockMappingRepository) findByShortURL(shortURL string) *models.URLMapping {
	var found *models.URLMapping
	for _, mapping := range m.mappings {
		if mapping.ShortURL != shortURL {
			continue
		}
		if found == nil || mapping.ID < found.ID {
			found = mapping
		}
	}
	return found
}

func (m *MockMappingRepository) FindByShortURL(ctx context.Context, shortURL string) (*models.URLMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := m.findByShortURL(shortURL)
	if found == nil {
		return nil, repository.ErrMappingNotFound
	}
	result := *found
	return &result, nil
}

func (m *MockMappingRepository) FindByUser(ctx context.Context, userID int64) ([]models.URLMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []models.URLMapping
	for _, mapping := range m.mappings {
		if mapping.UserID == userID {
			result = append(result, *mapping)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockMappingRepository) IncrementClickCount(ctx context.Context, shortURL string) (*models.URLMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := m.findByShortURL(shortURL)
	if found == nil {
		return nil, repository.ErrMappingNotFound
	}
	found.ClickCount++
	result := *found
	return &result, nil
}

func (m *MockMappingRepository) IncrementClickCountByID(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mapping, exists := m.mappings[id]
	if !exists {
		return 0, repository.ErrMappingNotFound
	}
	mapping.ClickCount++
	return mapping.ClickCount, nil
}

func (m *MockMappingRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mappings = make(map[int64]*models.URLMapping)
	m.nextID = 1
}

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu     sync.RWMutex
	events []models.ClickEvent
	nextID int64
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{nextID: 1}
}

func (m *MockClickRepository) Save(ctx context.Context, event *models.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.ID = m.nextID
	m.nextID++
	m.events = append(m.events, *event)
	return nil
}

// FindByMappingAndDateRange фильтрует по закрытому интервалу [start, end]
func (m *MockClickRepository) FindByMappingAndDateRange(ctx context.Context, mappingID int64, start, end time.Time) ([]models.ClickEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []models.ClickEvent
	for _, e := range m.events {
		if e.MappingID == mappingID && !e.ClickDate.Before(start) && !e.ClickDate.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

// FindByMappingsAndDateRange фильтрует по полуоткрытому интервалу [start, end)
func (m *MockClickRepository) FindByMappingsAndDateRange(ctx context.Context, mappingIDs []int64, start, end time.Time) ([]models.ClickEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make(map[int64]bool, len(mappingIDs))
	for _, id := range mappingIDs {
		ids[id] = true
	}

	var result []models.ClickEvent
	for _, e := range m.events {
		if ids[e.MappingID] && !e.ClickDate.Before(start) && e.ClickDate.Before(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

// CountByMapping возвращает число событий для маппинга (для проверок в тестах)
func (m *MockClickRepository) CountByMapping(mappingID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.events {
		if e.MappingID == mappingID {
			count++
		}
	}
	return count
}

func (m *MockClickRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.nextID = 1
}

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu    sync.RWMutex
	cache map[string]*models.URLMapping
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		cache: make(map[string]*models.URLMapping),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, shortURL string) (*models.URLMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, exists := m.cache[shortURL]
	if !exists {
		return nil, repository.ErrMappingNotFound
	}
	result := *mapping
	return &result, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, shortURL string, mapping *models.URLMapping, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *mapping
	m.cache[shortURL] = &stored
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, shortURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, shortURL)
	return nil
}

func (m *MockCacheRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]*models.URLMapping)
}

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrUserExists
		}
	}

	user.ID = m.nextID
	m.nextID++

	stored := *user
	m.users[stored.ID] = &stored
	return nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	result := *u
	return &result, nil
}

func (m *MockUserRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[int64]*models.User)
	m.nextID = 1
}
