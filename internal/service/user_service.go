package service

import (
	"context"

	"school/internal/domain"
	"school/internal/dto"
)

type UserService interface {
	GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	Principal(ctx context.Context, userID domain.UserID) (*domain.Principal, error)
	AddParent(ctx context.Context, caller *domain.Principal, r dto.AddParentRequest) (*dto.UserResponse, error)
}

type ChildService interface {
	AddChild(ctx context.Context, caller *domain.Principal, r dto.AddChildRequest) (*dto.ChildResponse, error)
	GetByID(ctx context.Context, caller *domain.Principal, id domain.ChildID) (*dto.ChildResponse, error)
	ListAll(ctx context.Context, caller *domain.Principal) ([]dto.ChildResponse, error)
	ListByParent(ctx context.Context, caller *domain.Principal, parentID domain.UserID) ([]dto.ChildResponse, error)
}
