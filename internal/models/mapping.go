package models

import (
	"time"
)

// URLMapping — хранимая связь короткого кода с оригинальным URL.
// Мутируется только инкрементом счётчика кликов, никогда не удаляется.
type URLMapping struct {
	ID          int64     `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	ClickCount  int64     `json:"click_count"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// URLMappingDTO — transfer object для границы сервиса.
// Имена JSON-полей совпадают с внешним API (camelCase).
type URLMappingDTO struct {
	ID          int64     `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	ShortURL    string    `json:"shortUrl"`
	ClickCount  int64     `json:"clickCount"`
	CreatedDate time.Time `json:"createdDate"`
	UserName    string    `json:"userName"`
}
