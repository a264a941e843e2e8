package store

import (
	"context"

	"school/internal/domain"

	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Migrate creates or updates every table the service owns.
func (s *Store) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(
		&domain.Role{},
		&domain.User{},
		&domain.Session{},
		&domain.Child{},
		&domain.ParentChild{},
	)
}
