package store

import (
	"context"
	"time"

	"school/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleStore struct{ db *gorm.DB }

func (s *Store) Roles() *RoleStore { return &RoleStore{db: s.DB} }

func (r *RoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// Ensure creates the named role when it does not exist yet and returns the
// stored row.
func (r *RoleStore) Ensure(ctx context.Context, name string) (*domain.Role, error) {
	now := time.Now().UTC()
	role := &domain.Role{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    domain.RoleStatusEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(role).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetByName(ctx, name)
}
