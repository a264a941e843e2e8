package service

import (
	"context"

	"school/internal/domain"
	"school/internal/dto"
)

type SessionService interface {
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
