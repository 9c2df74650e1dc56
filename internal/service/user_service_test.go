package service_test

import (
	"context"
	"testing"

	"urlshortener/internal/repository"
	"urlshortener/internal/service"
	"urlshortener/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserService_RegisterAndAuthenticate проверяет регистрацию и вход
func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	userService := service.NewUserService(mocks.NewMockUserRepository())

	ctx := context.Background()
	registered, err := userService.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, registered.ID)
	// Пароль хранится только в виде bcrypt-хэша
	assert.NotEqual(t, "secret123", registered.PasswordHash)

	user, err := userService.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
}

// TestUserService_Register_Duplicate проверяет конфликт имени пользователя
func TestUserService_Register_Duplicate(t *testing.T) {
	userService := service.NewUserService(mocks.NewMockUserRepository())

	ctx := context.Background()
	_, err := userService.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = userService.Register(ctx, "alice", "other@example.com", "secret123")
	assert.ErrorIs(t, err, repository.ErrUserExists)
}

// TestUserService_Authenticate_WrongPassword проверяет отказ при неверном пароле
func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	userService := service.NewUserService(mocks.NewMockUserRepository())

	ctx := context.Background()
	_, err := userService.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	user, err := userService.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, user)
}

// TestUserService_Authenticate_UnknownUser проверяет отказ для неизвестного имени
func TestUserService_Authenticate_UnknownUser(t *testing.T) {
	userService := service.NewUserService(mocks.NewMockUserRepository())

	user, err := userService.Authenticate(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, user)
}
