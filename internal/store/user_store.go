package store

import (
	"context"
	"time"

	"school/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = now
	}
	usr.UpdatedAt = now
	return translate(u.db.WithContext(ctx).Omit("Roles").Create(usr).Error)
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).Preload("Roles").First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// AssignRole links the user to role through the user_role join table.
func (u *UserStore) AssignRole(ctx context.Context, usr *domain.User, role *domain.Role) error {
	return translate(u.db.WithContext(ctx).Model(usr).Association("Roles").Append(role))
}
