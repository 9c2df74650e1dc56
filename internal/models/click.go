package models

import (
	"time"
)

// ClickEvent — неизменяемая запись об одном разрешении короткой ссылки.
type ClickEvent struct {
	ID        int64     `json:"id"`
	MappingID int64     `json:"mapping_id"`
	ClickDate time.Time `json:"click_date"`
}

// ClickEventDTO — агрегат кликов за один календарный день.
type ClickEventDTO struct {
	ClickDate string `json:"clickDate"` // YYYY-MM-DD
	Count     int64  `json:"clickCount"`
}
