package store

import (
	"context"
	"time"

	"school/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChildStore struct{ db *gorm.DB }

func (s *Store) Children() *ChildStore { return &ChildStore{db: s.DB} }

func (c *ChildStore) Create(ctx context.Context, ch *domain.Child) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = now
	}
	ch.UpdatedAt = now
	return translate(c.db.WithContext(ctx).Create(ch).Error)
}

func (c *ChildStore) GetByID(ctx context.Context, id domain.ChildID) (*domain.Child, error) {
	var ch domain.Child
	if err := c.db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (c *ChildStore) List(ctx context.Context) ([]domain.Child, error) {
	var out []domain.Child
	if err := c.db.WithContext(ctx).Order("last_name, first_name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChildStore) LinkParent(ctx context.Context, pc *domain.ParentChild) error {
	if pc.ID == "" {
		pc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pc.CreatedAt.IsZero() {
		pc.CreatedAt = now
	}
	pc.UpdatedAt = now
	return translate(c.db.WithContext(ctx).Omit("Child").Create(pc).Error)
}

func (c *ChildStore) ListByParent(ctx context.Context, parentID domain.UserID) ([]domain.Child, error) {
	var links []domain.ParentChild
	if err := c.db.WithContext(ctx).Preload("Child").Where("parent_id = ?", parentID).Find(&links).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Child, 0, len(links))
	for _, l := range links {
		if l.Child != nil {
			out = append(out, *l.Child)
		}
	}
	return out, nil
}
