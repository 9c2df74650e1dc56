package models

import (
	"time"
)

// User — владелец коротких ссылок. Учётными записями управляет
// сервис аутентификации, маппинги только ссылаются на них.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
